package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hermesdeck/hermes/pkg/arabic"
)

// ShapingIssue is an Arabic word that reached the output without glyph
// shaping and would render with disconnected letters.
type ShapingIssue struct {
	Slide int    `json:"slide"`
	Word  string `json:"word"`
}

// AlignmentIssue is an Arabic paragraph missing right-to-left direction or
// carrying left alignment.
type AlignmentIssue struct {
	Slide int    `json:"slide"`
	Text  string `json:"text"`
}

// Inspection is the result of validating a rendered deck.
type Inspection struct {
	Slides          int              `json:"slides"`
	ArabicRuns      int              `json:"arabic_runs"`
	ShapingIssues   []ShapingIssue   `json:"shaping_issues,omitempty"`
	AlignmentIssues []AlignmentIssue `json:"alignment_issues,omitempty"`
}

// Passed reports whether the deck is free of defects.
func (i *Inspection) Passed() bool {
	return len(i.ShapingIssues) == 0 && len(i.AlignmentIssues) == 0
}

func (i *Inspection) String() string {
	if i.Passed() {
		return fmt.Sprintf("%d slides, %d arabic runs, no issues", i.Slides, i.ArabicRuns)
	}
	return fmt.Sprintf("%d slides, %d shaping issues, %d alignment issues",
		i.Slides, len(i.ShapingIssues), len(i.AlignmentIssues))
}

// Inspect reopens a serialized PPTX and validates its slide XML: every part
// must parse, and Arabic text must be shaped and right-to-left. This is the
// self-test run after rendering; a failed inspection triggers exactly one
// strict regeneration.
func Inspect(data []byte) (*Inspection, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}

	var slideFiles []*zip.File
	foundPresentation := false
	for _, f := range zr.File {
		if f.Name == "ppt/presentation.xml" {
			foundPresentation = true
		}
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideFiles = append(slideFiles, f)
		}
	}
	if !foundPresentation {
		return nil, fmt.Errorf("not a presentation: ppt/presentation.xml missing")
	}
	if len(slideFiles) == 0 {
		return nil, fmt.Errorf("presentation has no slides")
	}
	sort.Slice(slideFiles, func(i, j int) bool { return slideNumber(slideFiles[i].Name) < slideNumber(slideFiles[j].Name) })

	insp := &Inspection{Slides: len(slideFiles)}
	for _, f := range slideFiles {
		num := slideNumber(f.Name)
		if err := insp.inspectSlide(f, num); err != nil {
			return nil, fmt.Errorf("slide %d: %w", num, err)
		}
	}
	return insp, nil
}

func slideNumber(name string) int {
	var n int
	fmt.Sscanf(name, "ppt/slides/slide%d.xml", &n)
	return n
}

// inspectSlide walks one slide's XML token stream, accumulating the text of
// each paragraph together with its pPr attributes.
func (insp *Inspection) inspectSlide(f *zip.File, slide int) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open part: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)

	var (
		paraText strings.Builder
		algn     string
		rtl      bool
		inText   bool
	)
	flush := func() {
		text := paraText.String()
		paraText.Reset()
		if !arabic.ContainsArabic(text) {
			algn, rtl = "", false
			return
		}
		insp.ArabicRuns++
		for _, word := range arabic.Unshaped(text) {
			insp.ShapingIssues = append(insp.ShapingIssues, ShapingIssue{Slide: slide, Word: word})
		}
		if !rtl || algn == "l" || algn == "" {
			insp.AlignmentIssues = append(insp.AlignmentIssues, AlignmentIssue{Slide: slide, Text: clip(text)})
		}
		algn, rtl = "", false
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed slide XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "algn":
						algn = attr.Value
					case "rtl":
						rtl = attr.Value == "1" || attr.Value == "true"
					}
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				paraText.Write(t)
			}
		}
	}
	flush()
	return nil
}

func clip(s string) string {
	const max = 60
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
