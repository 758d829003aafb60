// Package pipeline runs the document-to-presentation conversion end to end:
// extract, chunk, summarize, render, inspect, and regenerate once if the
// rendered deck fails inspection. All stages run sequentially; a failed
// summarization call is terminal for the run.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hermesdeck/hermes/internal/books"
	"github.com/hermesdeck/hermes/internal/deck"
	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/summarize"
	"github.com/hermesdeck/hermes/pkg/arabic"
	"github.com/hermesdeck/hermes/pkg/chunker"
)

// Options adjust a single conversion.
type Options struct {
	FromPage int    // 1-based inclusive; 0 means first page
	ToPage   int    // 1-based inclusive; 0 means last page
	APIKey   string // per-request provider key override
	Title    string // overrides the detected document title
}

// Result is a finished conversion.
type Result struct {
	ID          string           `json:"id"`
	Deck        *deck.Deck       `json:"deck"`
	PPTX        []byte           `json:"-"`
	Language    string           `json:"language"`
	Chunks      int              `json:"chunks"`
	Slides      int              `json:"slides"`
	Regenerated bool             `json:"regenerated"`
	Inspection  *deck.Inspection `json:"inspection"`
	Warnings    []string         `json:"warnings,omitempty"`
	Duration    time.Duration    `json:"-"`
}

// Service wires the conversion stages together.
type Service struct {
	docs       *document.Service
	summarizer *summarize.Service
	chunkSize  int

	// Writer construction is indirected so tests can force defective
	// output and observe the regeneration path.
	newWriter       func() *deck.Writer
	newStrictWriter func() *deck.Writer
}

func New(docs *document.Service, summarizer *summarize.Service, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultBudget
	}
	return &Service{
		docs:            docs,
		summarizer:      summarizer,
		chunkSize:       chunkSize,
		newWriter:       func() *deck.Writer { return deck.NewWriter() },
		newStrictWriter: deck.NewStrictWriter,
	}
}

// Convert turns a PDF into a presentation.
func (s *Service) Convert(ctx context.Context, pdfData []byte, opts Options) (*Result, error) {
	doc, err := document.Load(pdfData)
	if err != nil {
		return nil, err
	}
	meta := doc.Metadata()

	extract, err := s.docs.Extract(ctx, doc, opts.FromPage, opts.ToPage)
	if err != nil {
		return nil, err
	}

	result, err := s.convertText(ctx, meta, extract, opts)
	if err != nil {
		return nil, err
	}
	if n := len(extract.ScannedPages); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d pages had little or no extractable text", n))
	}
	return result, nil
}

// ConvertBook builds a presentation from a Google Books volume. With no PDF
// available, the volume description is the source text.
func (s *Service) ConvertBook(ctx context.Context, book *books.Book, opts Options) (*Result, error) {
	description := strings.TrimSpace(book.Description)
	if description == "" {
		return nil, fmt.Errorf("volume %s has no description to summarize", book.ID)
	}

	language := "en"
	if book.Language == "ar" || arabic.ContainsArabic(description) && arabic.DominantLanguage(description) == "ar" {
		language = "ar"
	}

	start := time.Now()
	sections, chunks, err := s.summarizeText(ctx, description, book.Title, language, opts.APIKey, nil)
	if err != nil {
		return nil, err
	}

	title := book.Title
	if opts.Title != "" {
		title = opts.Title
	}
	d := deck.BuildFromBook(title, strings.Join(book.Authors, ", "), book.PublishedDate,
		book.PageCount, book.Categories, sections, language)

	return s.render(d, language, chunks, start)
}

// convertText is the shared tail of a PDF conversion: chunk, summarize,
// build, render, inspect.
func (s *Service) convertText(ctx context.Context, meta document.Metadata, extract *document.ExtractResult, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Title != "" {
		meta.Title = opts.Title
	}

	sections, chunks, err := s.summarizeText(ctx, extract.Text, meta.Title, extract.Language, opts.APIKey, extract.PageMarks)
	if err != nil {
		return nil, err
	}

	d := deck.Build(meta, sections, extract.Language)
	return s.render(d, extract.Language, chunks, start)
}

func (s *Service) summarizeText(ctx context.Context, text, title, language, apiKey string, marks []chunker.PageMark) ([]summarize.Section, int, error) {
	chunks := chunker.Split(text, s.chunkSize)
	if len(marks) > 0 {
		chunker.Paginate(chunks, marks)
	}
	slog.Info("text chunked", "chunks", len(chunks), "language", language)

	summarizer, err := s.summarizer.WithAPIKey(apiKey)
	if err != nil {
		return nil, 0, err
	}

	var sections []summarize.Section
	for i, chunk := range chunks {
		chunkSections, err := summarizer.SummarizeChunk(ctx, chunk, summarize.ChunkContext{
			DocumentTitle: title,
			Language:      language,
			Index:         i,
			Total:         len(chunks),
		})
		if err != nil {
			return nil, 0, err
		}
		sections = append(sections, chunkSections...)
	}
	if len(sections) == 0 {
		return nil, 0, fmt.Errorf("summarization produced no sections")
	}
	return sections, len(chunks), nil
}

// render serializes the deck and runs the output self-test. A failed
// inspection triggers exactly one regeneration with the strict per-word
// writer; the second inspection result stands either way.
func (s *Service) render(d *deck.Deck, language string, chunks int, start time.Time) (*Result, error) {
	pptx, insp, err := s.renderOnce(d, s.newWriter())
	if err != nil {
		return nil, err
	}

	regenerated := false
	if !insp.Passed() {
		slog.Warn("deck failed inspection, regenerating", "detail", insp.String())
		regenerated = true
		pptx, insp, err = s.renderOnce(d, s.newStrictWriter())
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		ID:          uuid.NewString(),
		Deck:        d,
		PPTX:        pptx,
		Language:    language,
		Chunks:      chunks,
		Slides:      len(d.Slides),
		Regenerated: regenerated,
		Inspection:  insp,
		Duration:    time.Since(start),
	}
	if !insp.Passed() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("output failed inspection after regeneration: %s", insp.String()))
	}
	slog.Info("conversion finished",
		"id", result.ID,
		"slides", result.Slides,
		"chunks", result.Chunks,
		"language", result.Language,
		"regenerated", result.Regenerated,
		"duration", result.Duration.Round(time.Millisecond),
	)
	return result, nil
}

func (s *Service) renderOnce(d *deck.Deck, w *deck.Writer) ([]byte, *deck.Inspection, error) {
	var buf bytes.Buffer
	if err := w.Write(d, &buf); err != nil {
		return nil, nil, fmt.Errorf("render deck: %w", err)
	}
	insp, err := deck.Inspect(buf.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("inspect deck: %w", err)
	}
	return buf.Bytes(), insp, nil
}
