package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hermesdeck/hermes/internal/config"
	"github.com/hermesdeck/hermes/pkg/chunker"
)

// ChunkContext tells the model where a chunk sits in the document.
type ChunkContext struct {
	DocumentTitle string
	Language      string // "ar" or "en"
	Index         int    // 0-based position among the chunks
	Total         int
}

// Service summarizes chunks through a configured provider. Calls are
// sequential and never retried: a provider failure is terminal for the run
// and reported to the caller.
type Service struct {
	provider Provider
	cfg      config.SummarizerConfig
}

// NewService builds a Service for the configured provider.
func NewService(cfg config.SummarizerConfig) (*Service, error) {
	provider, err := buildProvider(cfg, "")
	if err != nil {
		return nil, err
	}
	return &Service{provider: provider, cfg: cfg}, nil
}

// NewServiceWithProvider is used by tests and callers that already hold a
// Provider.
func NewServiceWithProvider(provider Provider, cfg config.SummarizerConfig) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// WithAPIKey returns a copy of the service whose provider authenticates
// with the given key instead of the configured one. Used for per-request
// key overrides.
func (s *Service) WithAPIKey(key string) (*Service, error) {
	if key == "" {
		return s, nil
	}
	provider, err := buildProvider(s.cfg, key)
	if err != nil {
		return nil, err
	}
	return &Service{provider: provider, cfg: s.cfg}, nil
}

func buildProvider(cfg config.SummarizerConfig, keyOverride string) (Provider, error) {
	switch cfg.Provider {
	case "groq":
		key := cfg.GroqKey
		if keyOverride != "" {
			key = keyOverride
		}
		return NewGroqProvider(key, cfg.Model), nil
	case "anthropic":
		key := cfg.AnthropicKey
		if keyOverride != "" {
			key = keyOverride
		}
		return NewAnthropicProvider(key, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider: %q", cfg.Provider)
	}
}

// SummarizeChunk asks the model for titled sections covering one chunk.
func (s *Service) SummarizeChunk(ctx context.Context, chunk chunker.Chunk, cc ChunkContext) ([]Section, error) {
	req := Request{
		System:      systemPrompt(cc.Language),
		User:        userPrompt(chunk, cc),
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("summarize chunk %d/%d: %w", cc.Index+1, cc.Total, err)
	}

	slog.Debug("chunk summarized",
		"provider", s.provider.Name(),
		"model", resp.Model,
		"chunk", cc.Index+1,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)

	sections := ParseSections(resp.Text, cc.Language)
	if len(sections) == 0 {
		return nil, fmt.Errorf("summarize chunk %d/%d: model returned no usable sections", cc.Index+1, cc.Total)
	}
	return sections, nil
}

func systemPrompt(language string) string {
	if language == "ar" {
		return "أنت خبير في تلخيص الكتب وتحويلها إلى عروض تقديمية. " +
			"لخّص النص المعطى في أقسام واضحة، كل قسم بعنوان ونقاط موجزة. " +
			"اعتمد على النص فقط ولا تُضف معلومات من خارجه. " +
			"ابدأ كل قسم بسطر على الشكل: [SECTION عنوان القسم] ثم النقاط، نقطة في كل سطر."
	}
	return "You are an expert at summarizing books into presentation slides. " +
		"Summarize the given text into clear sections, each with a title and concise bullet points. " +
		"Use only the text provided; never invent content. " +
		"Start every section with a line of the form: [SECTION Section Title] followed by one bullet per line."
}

func userPrompt(chunk chunker.Chunk, cc ChunkContext) string {
	var b strings.Builder
	if cc.DocumentTitle != "" {
		fmt.Fprintf(&b, "Document: %s\n", cc.DocumentTitle)
	}
	fmt.Fprintf(&b, "Part %d of %d", cc.Index+1, cc.Total)
	if chunk.PageStart > 0 {
		if chunk.PageEnd > chunk.PageStart {
			fmt.Fprintf(&b, " (pages %d-%d)", chunk.PageStart, chunk.PageEnd)
		} else {
			fmt.Fprintf(&b, " (page %d)", chunk.PageStart)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(chunk.Content)
	return b.String()
}
