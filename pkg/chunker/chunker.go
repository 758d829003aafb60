// Package chunker splits document text into bounded-size segments so each
// segment can be summarized independently without exceeding the remote API's
// input limits.
//
// Unlike overlap-based RAG chunkers, the segments here tile the input exactly:
// concatenating chunk contents in order reproduces the original text, with no
// characters dropped or duplicated across boundaries.
package chunker

import "unicode"

// Chunk is a bounded-length substring of the input text.
// Start and End are rune offsets into the original text (End exclusive).
type Chunk struct {
	Content   string
	Index     int
	Start     int
	End       int
	PageStart int
	PageEnd   int
}

// PageMark associates a 1-based page number with the rune offset at which
// that page's text begins.
type PageMark struct {
	Number int
	Offset int
}

// DefaultBudget matches the summarization API's comfortable input size,
// roughly 1500-3000 words per chunk.
const DefaultBudget = 12000

// Split divides text into chunks of at most budget runes each, preferring
// paragraph, newline, sentence, then word boundaries. When no safe split
// point exists within the budget it falls back to a hard cut.
func Split(text string, budget int) []Chunk {
	if budget <= 0 {
		budget = DefaultBudget
	}
	runes := []rune(text)

	var chunks []Chunk
	start := 0
	for start < len(runes) {
		end := start + budget
		if end >= len(runes) {
			end = len(runes)
		} else if cut := findCut(runes, start, end); cut > start {
			end = cut
		}
		chunks = append(chunks, Chunk{
			Content: string(runes[start:end]),
			Index:   len(chunks),
			Start:   start,
			End:     end,
		})
		start = end
	}
	return chunks
}

// findCut returns the rune offset just after the best boundary in
// (start, limit], or start if none exists. Each scan walks backwards from
// the budget limit so chunks stay as full as possible.
func findCut(runes []rune, start, limit int) int {
	if cut := lastParagraphBreak(runes, start, limit); cut > start {
		return cut
	}
	if cut := lastNewline(runes, start, limit); cut > start {
		return cut
	}
	if cut := lastSentenceEnd(runes, start, limit); cut > start {
		return cut
	}
	if cut := lastSpace(runes, start, limit); cut > start {
		return cut
	}
	return start
}

func lastParagraphBreak(runes []rune, start, limit int) int {
	for i := limit - 1; i > start; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	return start
}

func lastNewline(runes []rune, start, limit int) int {
	for i := limit - 1; i > start; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	return start
}

func lastSentenceEnd(runes []rune, start, limit int) int {
	for i := limit - 1; i > start; i-- {
		if isSentenceEnd(runes[i-1]) && unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return start
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '؟', '۔', '؛':
		return true
	}
	return false
}

func lastSpace(runes []rune, start, limit int) int {
	for i := limit - 1; i > start; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return start
}

// Paginate fills in PageStart/PageEnd on each chunk from the page marks
// recorded during extraction. Marks must be sorted by offset.
func Paginate(chunks []Chunk, marks []PageMark) {
	if len(marks) == 0 {
		return
	}
	pageAt := func(offset int) int {
		page := marks[0].Number
		for _, m := range marks {
			if m.Offset > offset {
				break
			}
			page = m.Number
		}
		return page
	}
	for i := range chunks {
		chunks[i].PageStart = pageAt(chunks[i].Start)
		last := chunks[i].End - 1
		if last < chunks[i].Start {
			last = chunks[i].Start
		}
		chunks[i].PageEnd = pageAt(last)
	}
}
