package deck

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/summarize"
)

func sampleSections() []summarize.Section {
	return []summarize.Section{
		{Title: "The Premise", Bullets: []string{"First idea", "Second idea"}},
		{Title: "The Argument", Bullets: []string{"Third idea"}},
	}
}

func TestBuildSlideOrder(t *testing.T) {
	meta := document.Metadata{
		Title:      "A Study of Things",
		Author:     "J. Author",
		TotalPages: 300,
		Chapters:   []document.Chapter{{Title: "One", Page: 1}, {Title: "Two", Page: 20}},
	}
	d := Build(meta, sampleSections(), "en")

	// title, facts, overview, 2 sections, closing
	if len(d.Slides) != 6 {
		t.Fatalf("got %d slides, want 6", len(d.Slides))
	}
	if d.Slides[0].Layout != LayoutTitle || d.Slides[0].Title != "A Study of Things" {
		t.Errorf("slide 0 = %+v", d.Slides[0])
	}
	if d.Slides[1].Layout != LayoutFacts {
		t.Errorf("slide 1 layout = %s", d.Slides[1].Layout)
	}
	if d.Slides[2].Title != "Contents" || len(d.Slides[2].Bullets) != 2 {
		t.Errorf("overview slide = %+v", d.Slides[2])
	}
	if d.Slides[3].Title != "The Premise" || d.Slides[4].Title != "The Argument" {
		t.Errorf("section slides = %q, %q", d.Slides[3].Title, d.Slides[4].Title)
	}
	if d.Slides[5].Layout != LayoutClosing {
		t.Errorf("last slide layout = %s", d.Slides[5].Layout)
	}
}

func TestBuildNoChaptersSkipsOverview(t *testing.T) {
	d := Build(document.Metadata{Title: "T"}, sampleSections(), "en")
	for _, s := range d.Slides {
		if s.Title == "Contents" {
			t.Fatal("overview slide present without chapters")
		}
	}
}

func TestBuildArabicRTL(t *testing.T) {
	meta := document.Metadata{Title: "مقدمة ابن خلدون", Author: "ابن خلدون"}
	sections := []summarize.Section{{Title: "العمران", Bullets: []string{"نقطة أولى"}}}
	d := Build(meta, sections, "ar")

	for i, s := range d.Slides {
		if !s.RTL {
			t.Errorf("slide %d not RTL: %+v", i, s)
		}
	}
	if d.Slides[len(d.Slides)-1].Title != "الخلاصة" {
		t.Errorf("closing title = %q", d.Slides[len(d.Slides)-1].Title)
	}
}

func TestBuildOverviewCap(t *testing.T) {
	var chapters []document.Chapter
	for i := 0; i < 15; i++ {
		chapters = append(chapters, document.Chapter{Title: strings.Repeat("c", 5), Page: i + 1})
	}
	d := Build(document.Metadata{Title: "T", Chapters: chapters}, nil, "en")

	overview := d.Slides[2]
	if len(overview.Bullets) != maxOverviewChapters+1 {
		t.Fatalf("overview bullets = %d, want %d plus remainder line", len(overview.Bullets), maxOverviewChapters+1)
	}
	last := overview.Bullets[len(overview.Bullets)-1]
	if !strings.Contains(last, "7 more") {
		t.Errorf("remainder line = %q", last)
	}
}

func TestBuildFromBook(t *testing.T) {
	sections := sampleSections()
	d := BuildFromBook("The Muqaddimah", "Ibn Khaldun", "1377", 512, []string{"History"}, sections, "en")

	facts := d.Slides[1]
	joined := strings.Join(facts.Bullets, " | ")
	if !strings.Contains(joined, "1377") || !strings.Contains(joined, "History") {
		t.Errorf("fact sheet missing volume data: %q", joined)
	}
}

func TestWriteAndInspectEnglish(t *testing.T) {
	d := Build(document.Metadata{Title: "Plain English", Author: "A. Writer"}, sampleSections(), "en")

	var buf bytes.Buffer
	if err := NewWriter().Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	insp, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !insp.Passed() {
		t.Errorf("inspection failed: %+v", insp)
	}
	if insp.Slides != len(d.Slides) {
		t.Errorf("inspected %d slides, want %d", insp.Slides, len(d.Slides))
	}
	if insp.ArabicRuns != 0 {
		t.Errorf("arabic runs = %d, want 0", insp.ArabicRuns)
	}
}

func TestWriteAndInspectArabic(t *testing.T) {
	meta := document.Metadata{Title: "مقدمة ابن خلدون", Author: "ابن خلدون"}
	sections := []summarize.Section{{Title: "العمران البشري", Bullets: []string{"تفصيل النقطة الأولى", "تفصيل النقطة الثانية"}}}
	d := Build(meta, sections, "ar")

	var buf bytes.Buffer
	if err := NewWriter().Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	insp, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !insp.Passed() {
		t.Errorf("shaped arabic deck should pass: %+v", insp)
	}
	if insp.ArabicRuns == 0 {
		t.Error("expected arabic runs to be counted")
	}
}

func TestInspectFlagsUnshapedArabic(t *testing.T) {
	meta := document.Metadata{Title: "مقدمة ابن خلدون"}
	sections := []summarize.Section{{Title: "العمران البشري", Bullets: []string{"تفصيل النقطة"}}}
	d := Build(meta, sections, "ar")

	// Identity shaping leaves base-block letters in the output.
	var buf bytes.Buffer
	w := NewWriter(WithShapeFunc(func(s string) string { return s }))
	if err := w.Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	insp, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(insp.ShapingIssues) == 0 {
		t.Fatal("expected shaping issues for unshaped arabic")
	}
	if insp.Passed() {
		t.Error("inspection should fail")
	}
}

func TestStrictWriterPasses(t *testing.T) {
	meta := document.Metadata{Title: "مقدمة ابن خلدون"}
	sections := []summarize.Section{{Title: "العمران البشري", Bullets: []string{"تفصيل النقطة الأولى"}}}
	d := Build(meta, sections, "ar")

	var buf bytes.Buffer
	if err := NewStrictWriter().Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	insp, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !insp.Passed() {
		t.Errorf("strict writer output should pass: %+v", insp)
	}
}

func TestInspectFlagsMissingRTL(t *testing.T) {
	// Hand-build a package whose Arabic paragraph has no rtl attribute.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte(content))
	}
	write("ppt/presentation.xml", presentationXML(1))
	write("ppt/slides/slide1.xml", xmlHeader+
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`+
		`<p:cSld><p:spTree><p:sp><p:txBody>`+
		`<a:p><a:pPr algn="l"/><a:r><a:t>ﻣﺤﻤﺪ</a:t></a:r></a:p>`+
		`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)
	zw.Close()

	insp, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(insp.AlignmentIssues) != 1 {
		t.Fatalf("alignment issues = %+v, want 1", insp.AlignmentIssues)
	}
	if len(insp.ShapingIssues) != 0 {
		t.Errorf("shaped text wrongly flagged: %+v", insp.ShapingIssues)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("not a zip at all")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestInspectRejectsMalformedSlideXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("ppt/presentation.xml")
	f.Write([]byte(presentationXML(1)))
	f, _ = zw.Create("ppt/slides/slide1.xml")
	f.Write([]byte("<p:sld><unclosed"))
	zw.Close()

	if _, err := Inspect(buf.Bytes()); err == nil {
		t.Fatal("expected error for malformed slide XML")
	}
}

func TestWriteEmptyDeck(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter().Write(&Deck{}, &buf); err == nil {
		t.Fatal("expected error for empty deck")
	}
}

func TestWriteEscapesXML(t *testing.T) {
	d := Build(document.Metadata{Title: `Tom & "Jerry" <3`}, sampleSections(), "en")
	var buf bytes.Buffer
	if err := NewWriter().Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// The inspector decodes every slide; unescaped markup would fail here.
	if _, err := Inspect(buf.Bytes()); err != nil {
		t.Fatalf("Inspect after escaping: %v", err)
	}
}
