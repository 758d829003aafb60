// Package export writes secondary output formats for a built deck. The
// primary PPTX serialization lives in the deck package; this one produces a
// DOCX handout with one heading and bullet list per slide.
package export

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/hermesdeck/hermes/internal/deck"
	"github.com/hermesdeck/hermes/pkg/arabic"
)

const (
	fontName  = "Arial"
	titleSize = 18
	headSize  = 15
	bodySize  = 12
)

// WriteDocx renders the deck as a handout document at path. Arabic text is
// shaped here the same way the PPTX writer shapes it, since DOCX viewers
// without a text shaper show the same disconnected-letter defect.
func WriteDocx(d *deck.Deck, path string) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addRun(doc.AddParagraph(""), d.Title, true, titleSize)
	if d.Author != "" {
		addRun(doc.AddParagraph(""), d.Author, false, bodySize)
	}
	doc.AddParagraph("")

	for _, slide := range d.Slides {
		addRun(doc.AddParagraph(""), slide.Title, true, headSize)
		for _, bullet := range slide.Bullets {
			addRun(doc.AddParagraph(""), "• "+bullet, false, bodySize)
		}
		doc.AddParagraph("")
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	if arabic.ContainsArabic(text) {
		text = arabic.Shape(text)
	}
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
