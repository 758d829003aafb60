//go:build ocr

// Package ocr extracts text from page images in scanned PDFs via the
// Tesseract engine. It is compiled in only under the "ocr" build tag because
// gosseract needs cgo and a system Tesseract install:
//
//	go build -tags ocr
//
// Without the tag the stub implementation reports OCR as unavailable and the
// extraction pipeline simply skips the fallback.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrNotEnabled is only returned by the stub build.
var ErrNotEnabled = fmt.Errorf("OCR support not enabled; rebuild with -tags ocr")

// Client wraps a Tesseract client configured for a fixed language set.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. languages is a "+"-joined Tesseract language
// list such as "ara+eng". Close the client to release Tesseract resources.
func New(languages string) (*Client, error) {
	client := gosseract.NewClient()
	if languages != "" {
		if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set OCR languages: %w", err)
		}
	}
	return &Client{client: client}, nil
}

// RecognizeImage runs OCR over encoded image bytes (JPEG, PNG, TIFF) and
// returns the recognized text, trimmed.
func (c *Client) RecognizeImage(image []byte) (string, error) {
	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases Tesseract resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
