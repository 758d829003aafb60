package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitCoversInputExactly(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
	}{
		{"paragraphs", strings.Repeat("First paragraph here.\n\nSecond paragraph follows with more words.\n\n", 40), 200},
		{"sentences", strings.Repeat("One sentence. Another sentence! A third? ", 60), 150},
		{"no boundaries", strings.Repeat("x", 1000), 128},
		{"arabic", strings.Repeat("هذا نص عربي طويل للاختبار؟ ويحتوي على جمل متعددة. ", 50), 180},
		{"short input", "tiny", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.budget)

			var rebuilt strings.Builder
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has Index %d", i, c.Index)
				}
				rebuilt.WriteString(c.Content)
			}
			if rebuilt.String() != tt.text {
				t.Fatalf("concatenated chunks do not reproduce input (got %d runes, want %d)",
					utf8.RuneCountInString(rebuilt.String()), utf8.RuneCountInString(tt.text))
			}
		})
	}
}

func TestSplitRespectsBudget(t *testing.T) {
	text := strings.Repeat("Some words separated by spaces to allow soft cuts. ", 100)
	budget := 137

	for _, c := range Split(text, budget) {
		if n := utf8.RuneCountInString(c.Content); n > budget {
			t.Errorf("chunk %d has %d runes, budget is %d", c.Index, n, budget)
		}
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	text := "Alpha alpha alpha.\n\nBeta beta beta beta beta beta."
	chunks := Split(text, 30)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Content, "\n\n") {
		t.Errorf("first chunk should end at the paragraph break, got %q", chunks[0].Content)
	}
}

func TestSplitHardCutWithoutBoundary(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := Split(text, 100)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range []int{100, 100, 50} {
		if got := utf8.RuneCountInString(chunks[i].Content); got != want {
			t.Errorf("chunk %d: got %d runes, want %d", i, got, want)
		}
	}
}

func TestSplitOffsetsAreContiguous(t *testing.T) {
	text := strings.Repeat("A sentence with several words inside it. ", 80)
	chunks := Split(text, 200)

	prev := 0
	for _, c := range chunks {
		if c.Start != prev {
			t.Fatalf("chunk %d starts at %d, want %d", c.Index, c.Start, prev)
		}
		if c.End <= c.Start {
			t.Fatalf("chunk %d has empty range [%d,%d)", c.Index, c.Start, c.End)
		}
		prev = c.End
	}
	if prev != utf8.RuneCountInString(text) {
		t.Fatalf("last chunk ends at %d, want %d", prev, utf8.RuneCountInString(text))
	}
}

func TestPaginate(t *testing.T) {
	text := strings.Repeat("w", 300)
	chunks := Split(text, 100)
	marks := []PageMark{{Number: 1, Offset: 0}, {Number: 2, Offset: 120}, {Number: 3, Offset: 260}}

	Paginate(chunks, marks)

	want := []struct{ start, end int }{{1, 1}, {1, 2}, {2, 3}}
	for i, w := range want {
		if chunks[i].PageStart != w.start || chunks[i].PageEnd != w.end {
			t.Errorf("chunk %d: pages [%d,%d], want [%d,%d]",
				i, chunks[i].PageStart, chunks[i].PageEnd, w.start, w.end)
		}
	}
}

func TestSplitZeroBudgetUsesDefault(t *testing.T) {
	text := strings.Repeat("z", DefaultBudget+10)
	chunks := Split(text, 0)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks with default budget, got %d", len(chunks))
	}
}
