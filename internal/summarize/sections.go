package summarize

import (
	"regexp"
	"strings"
)

// Section is one titled slide-worth of summary content.
type Section struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

var (
	sectionMarker = regexp.MustCompile(`^\[SECTION\s+(.+?)\]\s*$`)
	bulletPrefix  = regexp.MustCompile(`^[-*•●▪]\s*`)
)

// ParseSections splits a model response on [SECTION Title] markers. Lines
// under each marker become bullets, with any leading list punctuation
// stripped. A response without markers degrades to a single section so a
// model that ignored the format still yields usable output.
func ParseSections(response, language string) []Section {
	var sections []Section
	var current *Section

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if match := sectionMarker.FindStringSubmatch(trimmed); match != nil {
			sections = append(sections, Section{Title: strings.TrimSpace(match[1])})
			current = &sections[len(sections)-1]
			continue
		}
		if current == nil {
			continue
		}
		bullet := bulletPrefix.ReplaceAllString(trimmed, "")
		if bullet != "" {
			current.Bullets = append(current.Bullets, bullet)
		}
	}

	sections = dropEmpty(sections)
	if len(sections) > 0 {
		return sections
	}

	// No markers: keep the content rather than losing the chunk.
	bullets := fallbackBullets(response)
	if len(bullets) == 0 {
		return nil
	}
	title := "Summary"
	if language == "ar" {
		title = "ملخص"
	}
	return []Section{{Title: title, Bullets: bullets}}
}

func dropEmpty(sections []Section) []Section {
	kept := sections[:0]
	for _, s := range sections {
		if len(s.Bullets) > 0 {
			kept = append(kept, s)
		}
	}
	return kept
}

func fallbackBullets(response string) []string {
	var bullets []string
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		bullets = append(bullets, bulletPrefix.ReplaceAllString(trimmed, ""))
	}
	return bullets
}
