// Package deck builds slide decks from summarized sections and writes them
// out as PPTX. The writer shapes Arabic text at the last moment before
// serialization; everything upstream works on logical-order text.
package deck

import (
	"fmt"
	"strings"

	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/summarize"
	"github.com/hermesdeck/hermes/pkg/arabic"
)

// Slide layouts. The writer maps these to placeholder geometry and accent
// colors.
const (
	LayoutTitle   = "title"
	LayoutFacts   = "facts"
	LayoutBullets = "bullets"
	LayoutClosing = "closing"
)

// Slide is one slide's logical content. RTL marks the slide's text as
// right-to-left; the writer sets paragraph direction and alignment from it.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Layout  string   `json:"layout"`
	RTL     bool     `json:"rtl"`
}

// Deck is a complete presentation in logical text order.
type Deck struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Language string  `json:"language"` // "ar" or "en"
	Slides   []Slide `json:"slides"`
}

// maxOverviewChapters caps the chapters listed on the overview slide.
const maxOverviewChapters = 8

// Build assembles a deck from document metadata and summarized sections:
// a title slide, a fact sheet, a chapters overview when chapters were
// detected, one slide per section, and a closing slide.
func Build(meta document.Metadata, sections []summarize.Section, language string) *Deck {
	rtl := language == "ar"
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = pick(rtl, "عرض الكتاب", "Book Presentation")
	}
	author := strings.TrimSpace(meta.Author)

	d := &Deck{Title: title, Author: author, Language: language}

	titleBullets := []string{}
	if author != "" {
		titleBullets = append(titleBullets, author)
	}
	d.add(Slide{Title: title, Bullets: titleBullets, Layout: LayoutTitle, RTL: rtl || arabic.ContainsArabic(title)})

	d.add(factSlide(meta, rtl))

	if len(meta.Chapters) > 0 {
		d.add(overviewSlide(meta.Chapters, rtl))
	}

	for _, section := range sections {
		d.add(Slide{
			Title:   section.Title,
			Bullets: section.Bullets,
			Layout:  LayoutBullets,
			RTL:     rtl || arabic.ContainsArabic(section.Title),
		})
	}

	d.add(closingSlide(len(sections), rtl))
	return d
}

// BuildFromBook assembles a deck for a Google Books volume that has no PDF:
// the fact sheet comes from the volume metadata and the sections from its
// summarized description.
func BuildFromBook(title, author, published string, pageCount int, categories []string, sections []summarize.Section, language string) *Deck {
	meta := document.Metadata{Title: title, Author: author, TotalPages: pageCount}
	d := Build(meta, sections, language)

	// Enrich the fact sheet with what the volume record knows.
	rtl := language == "ar"
	if published != "" {
		d.Slides[1].Bullets = append(d.Slides[1].Bullets,
			fmt.Sprintf("%s: %s", pick(rtl, "سنة النشر", "Published"), published))
	}
	if len(categories) > 0 {
		d.Slides[1].Bullets = append(d.Slides[1].Bullets,
			fmt.Sprintf("%s: %s", pick(rtl, "التصنيف", "Categories"), strings.Join(categories, ", ")))
	}
	return d
}

func (d *Deck) add(s Slide) {
	d.Slides = append(d.Slides, s)
}

func factSlide(meta document.Metadata, rtl bool) Slide {
	var bullets []string
	author := strings.TrimSpace(meta.Author)
	if author == "" {
		author = pick(rtl, "غير معروف", "Unknown")
	}
	bullets = append(bullets, fmt.Sprintf("%s: %s", pick(rtl, "المؤلف", "Author"), author))
	if meta.TotalPages > 0 {
		bullets = append(bullets, fmt.Sprintf("%s: %d", pick(rtl, "عدد الصفحات", "Pages"), meta.TotalPages))
	}
	if n := len(meta.Chapters); n > 0 {
		bullets = append(bullets, fmt.Sprintf("%s: %d", pick(rtl, "عدد الفصول", "Chapters"), n))
	}
	if n := len(meta.References); n > 0 {
		bullets = append(bullets, fmt.Sprintf("%s: %d", pick(rtl, "المراجع", "References"), n))
	}
	return Slide{
		Title:   pick(rtl, "عن الكتاب", "About This Book"),
		Bullets: bullets,
		Layout:  LayoutFacts,
		RTL:     rtl,
	}
}

func overviewSlide(chapters []document.Chapter, rtl bool) Slide {
	var bullets []string
	for _, ch := range chapters {
		if len(bullets) >= maxOverviewChapters {
			remaining := len(chapters) - maxOverviewChapters
			bullets = append(bullets, fmt.Sprintf(pick(rtl, "و%d فصول أخرى", "and %d more chapters"), remaining))
			break
		}
		bullets = append(bullets, ch.Title)
	}
	return Slide{
		Title:   pick(rtl, "محتويات الكتاب", "Contents"),
		Bullets: bullets,
		Layout:  LayoutBullets,
		RTL:     rtl,
	}
}

func closingSlide(sectionCount int, rtl bool) Slide {
	return Slide{
		Title: pick(rtl, "الخلاصة", "Closing"),
		Bullets: []string{
			fmt.Sprintf(pick(rtl, "غطى هذا العرض %d قسما من الكتاب", "This presentation covered %d sections of the book"), sectionCount),
			pick(rtl, "شكرا لمتابعتكم", "Thank you"),
		},
		Layout: LayoutClosing,
		RTL:    rtl,
	}
}

func pick(rtl bool, ar, en string) string {
	if rtl {
		return ar
	}
	return en
}
