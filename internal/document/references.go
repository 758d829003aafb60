package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// referenceScanPages caps how many trailing pages are searched for a
	// references or bibliography section.
	referenceScanPages = 20
	maxReferences      = 20
)

var (
	referenceHeading = regexp.MustCompile(`(?mi)^\s*(references|bibliography|works cited|المراجع|المصادر|قائمة المراجع)\s*$`)
	numberedEntry    = regexp.MustCompile(`(?m)^\s*(?:\[\d+\]|\d{1,3}[.)])\s+\S`)
)

// extractReferences looks for a references heading in the last pages and
// collects the entries that follow it. Entries are recognized either by
// numbering ([1], 1., 1)) or by non-empty lines under the heading.
func (d *Document) extractReferences() []string {
	total := d.NumPages()
	start := total - referenceScanPages + 1
	if start < 1 {
		start = 1
	}

	var tail strings.Builder
	for page := start; page <= total; page++ {
		tail.WriteString(d.pageText(page))
		tail.WriteString("\n")
	}
	return parseReferences(tail.String())
}

func parseReferences(text string) []string {
	loc := referenceHeading.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	section := text[loc[1]:]

	var refs []string
	var current strings.Builder
	flush := func() {
		entry := strings.Join(strings.Fields(current.String()), " ")
		if plausibleReference(entry) {
			refs = append(refs, entry)
		}
		current.Reset()
	}

	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		// A later heading (Appendix, Index, فهرس) ends the section.
		if isSectionBreak(trimmed) {
			break
		}
		if numberedEntry.MatchString(line) {
			flush()
		}
		current.WriteString(line)
		current.WriteString(" ")
		if len(refs) >= maxReferences {
			break
		}
	}
	flush()

	if len(refs) > maxReferences {
		refs = refs[:maxReferences]
	}
	return refs
}

var sectionBreak = regexp.MustCompile(`(?i)^(appendix|index|glossary|acknowledg|الملاحق|الفهرس)`)

func isSectionBreak(line string) bool {
	return utf8.RuneCountInString(line) < 40 && sectionBreak.MatchString(line)
}

func plausibleReference(entry string) bool {
	n := utf8.RuneCountInString(entry)
	return n >= 15 && n <= 500
}
