package deck

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/hermesdeck/hermes/pkg/arabic"
)

// Slide size in EMU, 16:9.
const (
	slideWidth  = 12192000
	slideHeight = 6858000
)

// accentColors are cycled across content slides for the title text.
var accentColors = []string{"1F4E79", "C00000", "2E7D32", "6A1B9A", "E65100"}

// ShapeFunc converts logical Arabic text to presentation form. The writer
// applies it to every run immediately before serialization.
type ShapeFunc func(string) string

// Writer serializes a Deck as a PPTX package.
type Writer struct {
	shape ShapeFunc
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithShapeFunc overrides the shaping function. Used by tests.
func WithShapeFunc(fn ShapeFunc) WriterOption {
	return func(w *Writer) { w.shape = fn }
}

// NewWriter returns a writer using whole-string shaping.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{shape: arabic.Shape}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewStrictWriter returns a writer that shapes word by word. It is used for
// the single regeneration after an inspection failure: per-word shaping
// cannot merge tokens, trading typographic nicety for correctness.
func NewStrictWriter() *Writer {
	return &Writer{shape: arabic.ShapeWords}
}

// Write serializes the deck into out as a complete PPTX package.
func (w *Writer) Write(deck *Deck, out io.Writer) error {
	if len(deck.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}

	zw := zip.NewWriter(out)
	parts := w.parts(deck)
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.content); err != nil {
			return fmt.Errorf("write part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize pptx: %w", err)
	}
	return nil
}

type part struct {
	name    string
	content string
}

func (w *Writer) parts(deck *Deck) []part {
	n := len(deck.Slides)
	parts := []part{
		{"[Content_Types].xml", contentTypesXML(n)},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(n)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(n)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, slide := range deck.Slides {
		num := i + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", num), w.slideXML(slide, i)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num), slideRelsXML},
		)
	}
	return parts
}

// text shapes a run if it carries Arabic and escapes it for XML.
func (w *Writer) text(s string) string {
	if arabic.ContainsArabic(s) {
		s = w.shape(s)
	}
	return xmlEscape(s)
}

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func (w *Writer) slideXML(slide Slide, index int) string {
	accent := accentColors[index%len(accentColors)]

	var titleGeom, bodyGeom geometry
	var titleSize, bodySize int
	switch slide.Layout {
	case LayoutTitle:
		titleGeom = geometry{914400, 2590800, 10363200, 1325563}
		bodyGeom = geometry{914400, 4038600, 10363200, 914400}
		titleSize, bodySize = 4400, 2400
	case LayoutClosing:
		titleGeom = geometry{914400, 2286000, 10363200, 1325563}
		bodyGeom = geometry{914400, 3886200, 10363200, 1371600}
		titleSize, bodySize = 4000, 2000
	default:
		titleGeom = geometry{838200, 365125, 10515600, 1325563}
		bodyGeom = geometry{838200, 1825625, 10515600, 4351338}
		titleSize, bodySize = 3200, 1800
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	w.writeShape(&b, shapeSpec{
		id:       2,
		name:     "Title",
		geom:     titleGeom,
		rtl:      slide.RTL,
		size:     titleSize,
		bold:     true,
		color:    accent,
		lines:    []string{slide.Title},
		centered: slide.Layout == LayoutTitle || slide.Layout == LayoutClosing,
	})
	if len(slide.Bullets) > 0 {
		w.writeShape(&b, shapeSpec{
			id:       3,
			name:     "Content",
			geom:     bodyGeom,
			rtl:      slide.RTL,
			size:     bodySize,
			lines:    slide.Bullets,
			bullets:  slide.Layout != LayoutTitle && slide.Layout != LayoutClosing,
			centered: slide.Layout == LayoutTitle || slide.Layout == LayoutClosing,
		})
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

type geometry struct {
	x, y, cx, cy int
}

type shapeSpec struct {
	id       int
	name     string
	geom     geometry
	rtl      bool
	size     int // hundredths of a point
	bold     bool
	color    string
	lines    []string
	bullets  bool
	centered bool
}

func (w *Writer) writeShape(b *strings.Builder, spec shapeSpec) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr/></p:nvSpPr>`, spec.id, spec.name)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		spec.geom.x, spec.geom.y, spec.geom.cx, spec.geom.cy)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)

	for _, line := range spec.lines {
		b.WriteString(`<a:p>`)
		b.WriteString(paragraphProps(spec))
		b.WriteString(`<a:r>`)
		b.WriteString(runProps(spec))
		fmt.Fprintf(b, `<a:t>%s</a:t>`, w.text(line))
		b.WriteString(`</a:r></a:p>`)
	}

	b.WriteString(`</p:txBody></p:sp>`)
}

// paragraphProps sets alignment and direction. Arabic slides are rendered
// right-aligned with rtl="1"; inspection treats a missing right alignment on
// an Arabic paragraph as a defect.
func paragraphProps(spec shapeSpec) string {
	var attrs []string
	switch {
	case spec.rtl:
		attrs = append(attrs, `algn="r"`, `rtl="1"`)
	case spec.centered:
		attrs = append(attrs, `algn="ctr"`)
	}
	if spec.rtl && spec.centered {
		attrs = []string{`algn="ctr"`, `rtl="1"`}
	}

	var b strings.Builder
	b.WriteString(`<a:pPr`)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a)
	}
	b.WriteString(`>`)
	if !spec.bullets {
		b.WriteString(`<a:buNone/>`)
	}
	b.WriteString(`</a:pPr>`)
	return b.String()
}

func runProps(spec shapeSpec) string {
	lang := "en-US"
	if spec.rtl {
		lang = "ar-SA"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<a:rPr lang="%s" sz="%d"`, lang, spec.size)
	if spec.bold {
		b.WriteString(` b="1"`)
	}
	b.WriteString(`>`)
	if spec.color != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, spec.color)
	}
	b.WriteString(`<a:latin typeface="Arial"/><a:cs typeface="Arial"/>`)
	b.WriteString(`</a:rPr>`)
	return b.String()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func contentTypesXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 2+i, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const slideMasterXML = xmlHeader +
	`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
	`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader +
	`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

const themeXML = xmlHeader +
	`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Hermes">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Hermes">` +
	`<a:dk1><a:srgbClr val="000000"/></a:dk1><a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="1F4E79"/></a:accent1><a:accent2><a:srgbClr val="C00000"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="2E7D32"/></a:accent3><a:accent4><a:srgbClr val="6A1B9A"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="E65100"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Hermes">` +
	`<a:majorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface="Arial"/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface="Arial"/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Hermes">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`</a:theme>`
