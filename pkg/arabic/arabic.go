// Package arabic converts logical Arabic character sequences into their
// visually-correct presentation form: contextual glyph joining (Unicode
// Arabic Presentation Forms-B), lam-alef ligatures, and right-to-left
// reordering for renderers that do not run the bidi algorithm themselves.
//
// Shaping is a deterministic string transformation with no state. It must be
// applied exactly once, immediately before text is written into an output
// file, and never before text is sent to a summarization model, which
// expects logical-order input.
package arabic

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// ContainsArabic reports whether s contains any character from the Arabic
// Unicode blocks, including presentation forms.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if isArabic(r) {
			return true
		}
	}
	return false
}

func isArabic(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

// DominantLanguage classifies text as "ar" or "en" by counting strong Arabic
// versus Latin characters over a bounded sample.
func DominantLanguage(text string) string {
	arabicCount := 0
	latinCount := 0
	sampled := 0
	for _, r := range text {
		if sampled >= 1000 {
			break
		}
		sampled++
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			arabicCount++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latinCount++
		}
	}
	if sampled > 0 {
		if float64(arabicCount)/float64(sampled) > 0.3 {
			return "ar"
		}
		if float64(latinCount)/float64(sampled) > 0.3 {
			return "en"
		}
	}
	if latinCount >= arabicCount {
		return "en"
	}
	return "ar"
}

// Shape converts logical Arabic text to its joined, visually-ordered
// presentation form. Non-Arabic text is returned unchanged. If whole-string
// shaping would change the number of words, shaping is re-applied word by
// word instead.
func Shape(s string) string {
	if !ContainsArabic(s) {
		return s
	}
	out := display(reshape(s))
	if len(strings.Fields(out)) != len(strings.Fields(s)) {
		return ShapeWords(s)
	}
	return out
}

// ShapeWords reshapes each whitespace-delimited word independently before
// visual reordering, guaranteeing that no two words merge into one token.
func ShapeWords(s string) string {
	if !ContainsArabic(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	flush := func(end int) {
		if start >= 0 {
			b.WriteString(reshape(s[start:end]))
			start = -1
		}
	}
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			flush(i)
			b.WriteRune(r)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(s))
	return display(b.String())
}

// Unshaped returns the words in text that should have been shaped but were
// not: words holding two or more dual-joining letters from the Arabic base
// block with no presentation-form character present. Such a word would
// render with disconnected letters in viewers that do not shape text
// themselves.
func Unshaped(text string) []string {
	var bad []string
	for _, word := range strings.Fields(text) {
		dual := 0
		shaped := false
		for _, r := range word {
			if r >= 0xFB50 && r <= 0xFEFF {
				shaped = true
				break
			}
			if f, ok := formTable[r]; ok && f.initial != 0 {
				dual++
			}
		}
		if !shaped && dual >= 2 {
			bad = append(bad, word)
		}
	}
	return bad
}

// display reorders shaped text into visual order: runs are laid out per the
// bidi algorithm with a right-to-left base direction, and the characters of
// each RTL run are reversed.
func display(s string) string {
	p := &bidi.Paragraph{}
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return s
	}
	ordering, err := p.Order()
	if err != nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
		} else {
			b.WriteString(run.String())
		}
	}
	return b.String()
}
