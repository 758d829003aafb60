// Package summarize turns document chunks into slide-ready section
// summaries through an LLM provider. Providers share one interface so the
// service can run against Groq or Anthropic based on configuration alone.
package summarize

import "context"

// Request is a single completion call.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Response carries the completion text and usage accounting.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider is implemented by each LLM backend.
type Provider interface {
	// Complete performs one chat completion. Implementations must not
	// retry: a failed call is surfaced to the caller as-is.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend ("groq", "anthropic") for logging.
	Name() string
}
