// Package document loads PDFs and extracts their text and structure:
// metadata, per-page text with an OCR fallback for scanned pages, chapter
// detection, and reference extraction.
package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/hermesdeck/hermes/pkg/arabic"
	"github.com/hermesdeck/hermes/pkg/chunker"
)

// minPageText is the threshold below which a page is treated as scanned and
// handed to the OCR fallback.
const minPageText = 50

// Metadata describes a loaded PDF.
type Metadata struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	TotalPages int       `json:"total_pages"`
	Chapters   []Chapter `json:"chapters"`
	References []string  `json:"references"`
}

// Chapter is a detected chapter or outline entry. Page is 1-based; 0 means
// the page could not be determined (outline entries without a resolvable
// destination).
type Chapter struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// ExtractResult is the text pulled from a page range, with rune offsets of
// each page start so chunks can carry page metadata.
type ExtractResult struct {
	Text         string
	PageMarks    []chunker.PageMark
	Language     string // "ar" or "en"
	ScannedPages []int  // pages that fell back to OCR (or would have)
}

// Document is an open PDF.
type Document struct {
	reader *pdf.Reader
	data   []byte
}

// Load opens a PDF from bytes.
func Load(data []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &Document{reader: reader, data: data}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Metadata reads the Info dictionary and runs chapter and reference
// detection.
func (d *Document) Metadata() Metadata {
	meta := Metadata{TotalPages: d.NumPages()}

	info := d.reader.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Title = strings.TrimSpace(info.Key("Title").Text())
		meta.Author = strings.TrimSpace(info.Key("Author").Text())
	}

	meta.Chapters = d.detectChapters()
	meta.References = d.extractReferences()
	return meta
}

// pageText extracts the plain text of a single 1-based page. Unreadable
// pages yield an empty string rather than an error, matching how partial
// extraction is handled throughout.
func (d *Document) pageText(page int) string {
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// OCRClient recognizes text in an encoded page image. A nil client means
// OCR is unavailable and scanned pages are skipped.
type OCRClient interface {
	RecognizeImage(image []byte) (string, error)
	Close() error
}

// Service extracts text from documents with an optional OCR fallback.
type Service struct {
	ocr OCRClient
}

func NewService(ocr OCRClient) *Service {
	return &Service{ocr: ocr}
}

// Extract pulls text from the inclusive 1-based page range [fromPage,
// toPage]. Zero values select the full document. Pages whose direct
// extraction yields fewer than minPageText characters are treated as scanned
// and recovered through OCR over the document's embedded images when an OCR
// client is configured.
func (s *Service) Extract(ctx context.Context, doc *Document, fromPage, toPage int) (*ExtractResult, error) {
	total := doc.NumPages()
	if fromPage == 0 {
		fromPage = 1
	}
	if toPage == 0 {
		toPage = total
	}
	if toPage > total {
		return nil, fmt.Errorf("invalid page range: to_page %d exceeds total pages %d", toPage, total)
	}
	if fromPage > toPage {
		return nil, fmt.Errorf("invalid page range: from_page %d greater than to_page %d", fromPage, toPage)
	}
	if fromPage < 1 {
		return nil, fmt.Errorf("invalid page range: from_page %d", fromPage)
	}

	result := &ExtractResult{}
	var buf strings.Builder
	offset := 0

	for page := fromPage; page <= toPage; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := doc.pageText(page)
		if utf8.RuneCountInString(strings.TrimSpace(text)) < minPageText {
			result.ScannedPages = append(result.ScannedPages, page)
			continue
		}
		result.PageMarks = append(result.PageMarks, chunker.PageMark{Number: page, Offset: offset})
		buf.WriteString(text)
		buf.WriteString("\n")
		offset += utf8.RuneCountInString(text) + 1
	}

	if len(result.ScannedPages) > 0 {
		ocrText, err := s.recoverScanned(ctx, doc)
		if err != nil {
			slog.Warn("OCR fallback failed", "pages", len(result.ScannedPages), "error", err)
		} else if ocrText != "" {
			result.PageMarks = append(result.PageMarks, chunker.PageMark{
				Number: result.ScannedPages[0],
				Offset: offset,
			})
			buf.WriteString(ocrText)
			buf.WriteString("\n")
		}
	}

	result.Text = buf.String()
	if utf8.RuneCountInString(strings.TrimSpace(result.Text)) < 100 {
		return nil, fmt.Errorf("extracted text too short: document may be image-only or corrupted")
	}
	result.Language = arabic.DominantLanguage(result.Text)
	return result, nil
}

// recoverScanned runs OCR over the document's embedded images. Image streams
// cannot be attributed to individual pages without walking the full object
// graph, so the recovered text is appended as a single block.
func (s *Service) recoverScanned(ctx context.Context, doc *Document) (string, error) {
	if s.ocr == nil {
		return "", fmt.Errorf("no OCR client configured")
	}
	images := embeddedJPEGs(doc.data)
	if len(images) == 0 {
		return "", fmt.Errorf("no embedded images found")
	}

	var buf strings.Builder
	recognized := 0
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := s.ocr.RecognizeImage(img)
		if err != nil {
			slog.Debug("OCR of embedded image failed", "error", err)
			continue
		}
		if text != "" {
			buf.WriteString(text)
			buf.WriteString("\n")
			recognized++
		}
	}
	if recognized == 0 {
		return "", fmt.Errorf("OCR recognized no text in %d images", len(images))
	}
	slog.Info("OCR fallback recovered text", "images", recognized)
	return strings.TrimSpace(buf.String()), nil
}
