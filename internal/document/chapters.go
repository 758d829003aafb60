package document

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// chapterScanPages caps how many leading pages are scanned for a table of
// contents or chapter headings when the PDF carries no outline.
const chapterScanPages = 10

var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^\s*chapter\s+\d+\s*[:.\-]?\s*(\S.*)$`),
	regexp.MustCompile(`(?mi)^\s*part\s+[IVX\d]+\s*[:.\-]?\s*(\S.*)$`),
	regexp.MustCompile(`(?m)^\s*(?:الفصل|الباب)\s+\S+\s*[:.\-]?\s*(\S.*)$`),
	regexp.MustCompile(`(?m)^\s*(مقدمة|تمهيد|خاتمة)\s*$`),
	regexp.MustCompile(`(?m)^\s*\d{1,2}[.:]\s+(\S.*)$`),
}

// detectChapters prefers the PDF's own outline and falls back to scanning
// the first pages for heading patterns.
func (d *Document) detectChapters() []Chapter {
	if chapters := d.outlineChapters(); len(chapters) > 0 {
		return chapters
	}
	return d.scanChapterHeadings()
}

func (d *Document) outlineChapters() []Chapter {
	defer func() { recover() }() // malformed outline trees panic inside the parser

	var chapters []Chapter
	root := d.reader.Outline()
	flattenOutline(root.Child, 1, &chapters)
	return chapters
}

func flattenOutline(items []pdf.Outline, level int, out *[]Chapter) {
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title != "" {
			*out = append(*out, Chapter{Title: title, Level: level})
		}
		flattenOutline(item.Child, level+1, out)
	}
}

func (d *Document) scanChapterHeadings() []Chapter {
	limit := d.NumPages()
	if limit > chapterScanPages {
		limit = chapterScanPages
	}

	var chapters []Chapter
	seen := make(map[string]bool)
	for page := 1; page <= limit; page++ {
		text := d.pageText(page)
		if text == "" {
			continue
		}
		for _, title := range headingsIn(text) {
			key := strings.ToLower(title)
			if seen[key] {
				continue
			}
			seen[key] = true
			chapters = append(chapters, Chapter{Title: title, Page: page, Level: 1})
		}
	}
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Page < chapters[j].Page })
	return chapters
}

// headingsIn returns the chapter titles found in a page's text, in pattern
// order.
func headingsIn(text string) []string {
	var titles []string
	for _, pattern := range chapterPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			title := strings.TrimSpace(match[len(match)-1])
			if plausibleTitle(title) {
				titles = append(titles, title)
			}
		}
	}
	return titles
}

// plausibleTitle filters out page numbers, stray punctuation and whole
// paragraphs that happened to match a heading pattern.
func plausibleTitle(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= 3 && n <= 100
}
