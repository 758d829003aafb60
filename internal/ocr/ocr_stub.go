//go:build !ocr

// Package ocr extracts text from page images in scanned PDFs via the
// Tesseract engine.
//
// This is the stub used when the "ocr" build tag is not set; New reports OCR
// as unavailable and the extraction pipeline skips the fallback. Rebuild with
// -tags ocr (Tesseract installed) to enable it.
package ocr

import "errors"

// ErrNotEnabled is returned by New when OCR support was not compiled in.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client; all operations fail.
type Client struct{}

// New returns ErrNotEnabled.
func New(languages string) (*Client, error) {
	return nil, ErrNotEnabled
}

// RecognizeImage returns ErrNotEnabled.
func (c *Client) RecognizeImage(image []byte) (string, error) {
	return "", ErrNotEnabled
}

// Close is a no-op; safe on a nil client.
func (c *Client) Close() error { return nil }
