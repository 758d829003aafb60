package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestHeadingsInEnglish(t *testing.T) {
	text := "Preface\n\nChapter 1: The Beginning\nSome body text follows here.\nChapter 2 - Deeper Waters\n"
	titles := headingsIn(text)

	want := []string{"The Beginning", "Deeper Waters"}
	for _, w := range want {
		if !containsTitle(titles, w) {
			t.Errorf("headingsIn missing %q, got %v", w, titles)
		}
	}
}

func TestHeadingsInArabic(t *testing.T) {
	text := "الفصل الأول: البداية\nنص تمهيدي طويل هنا.\nمقدمة\n"
	titles := headingsIn(text)

	if !containsTitle(titles, "البداية") {
		t.Errorf("headingsIn missing Arabic chapter title, got %v", titles)
	}
	if !containsTitle(titles, "مقدمة") {
		t.Errorf("headingsIn missing introduction heading, got %v", titles)
	}
}

func TestHeadingsInRejectsNoise(t *testing.T) {
	text := "Chapter 3: " + strings.Repeat("x", 200) + "\nChapter 4: ab\n"
	if titles := headingsIn(text); len(titles) != 0 {
		t.Errorf("expected noise headings rejected, got %v", titles)
	}
}

func containsTitle(titles []string, want string) bool {
	for _, title := range titles {
		if title == want {
			return true
		}
	}
	return false
}

func TestParseReferencesNumbered(t *testing.T) {
	text := `Some closing prose on the last chapter page.

References

[1] Knuth, D. E. The Art of Computer Programming, Volume 1. Addison-Wesley, 1968.
[2] Hopcroft, J. and Ullman, J. Introduction to Automata Theory. 1979.

Appendix A
Tables of results follow.
`
	refs := parseReferences(text)
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2: %v", len(refs), refs)
	}
	if !strings.Contains(refs[0], "Knuth") {
		t.Errorf("first reference = %q", refs[0])
	}
	if !strings.Contains(refs[1], "Hopcroft") {
		t.Errorf("second reference = %q", refs[1])
	}
}

func TestParseReferencesArabicHeading(t *testing.T) {
	text := "خاتمة الكتاب هنا.\n\nالمراجع\n\n1. ابن خلدون، المقدمة، دار الفكر، بيروت.\n2. الجاحظ، البيان والتبيين، القاهرة.\n"
	refs := parseReferences(text)
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2: %v", len(refs), refs)
	}
}

func TestParseReferencesNoSection(t *testing.T) {
	if refs := parseReferences("just ordinary body text with no bibliography"); refs != nil {
		t.Errorf("expected nil, got %v", refs)
	}
}

func TestParseReferencesCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("References\n\n")
	for i := 0; i < 40; i++ {
		b.WriteString("[")
		b.WriteString(strings.Repeat("9", 1))
		b.WriteString("] Author, A. A sufficiently long reference entry title. Publisher, 2020.\n")
	}
	refs := parseReferences(b.String())
	if len(refs) > maxReferences {
		t.Errorf("got %d references, cap is %d", len(refs), maxReferences)
	}
}

func TestEmbeddedJPEGs(t *testing.T) {
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("jfif-payload")...)

	var pdf bytes.Buffer
	pdf.WriteString("%PDF-1.4\n")
	pdf.WriteString("5 0 obj\n<< /Type /XObject /Subtype /Image /Filter /DCTDecode /Length 16 >>\nstream\n")
	pdf.Write(jpeg)
	pdf.WriteString("\nendstream\nendobj\n")
	pdf.WriteString("6 0 obj\n<< /Filter /FlateDecode >>\nstream\nnot-a-jpeg\nendstream\nendobj\n")

	images := embeddedJPEGs(pdf.Bytes())
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if !bytes.Equal(images[0], jpeg) {
		t.Errorf("image payload = %q, want %q", images[0], jpeg)
	}
}

func TestEmbeddedJPEGsNone(t *testing.T) {
	if images := embeddedJPEGs([]byte("%PDF-1.4\nno images here")); len(images) != 0 {
		t.Errorf("expected no images, got %d", len(images))
	}
}
