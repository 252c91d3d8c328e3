// Package docxsink writes assembled documents as Office Open XML through
// go-docx. It implements assemble.Sink.
package docxsink

import (
	"io"
	"strings"

	"github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/mathml"
	"github.com/alnah/go-md2docx/internal/style"
)

// Hyperlink and highlight rendering.
const (
	linkColor      = "0563C1"
	highlightColor = "yellow"
)

// emuPerInch converts inches to drawing units.
const emuPerInch = 914400

// Page margins in twips.
const (
	marginTwips = 1440
	headerTwips = 720
)

var _ assemble.Sink = (*Sink)(nil)

// Sink accumulates a document in memory until WriteTo is called.
type Sink struct {
	doc       *docx.Docx
	page      config.DocumentConfig
	codeStyle string
	logger    *zap.Logger

	toc      *assemble.TOCParams
	finished bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithLogger sets the logger used for embedding failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCodeStyle selects the syntax highlighting palette by name.
func WithCodeStyle(name string) Option {
	return func(s *Sink) {
		if name != "" {
			s.codeStyle = name
		}
	}
}

// New returns an empty document with the page size from page.
func New(page config.DocumentConfig, opts ...Option) *Sink {
	s := &Sink{
		doc:       docx.New().WithDefaultTheme(),
		page:      page,
		codeStyle: defaultCodeStyle,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddParagraph appends a paragraph and writes its list marker, if any.
func (s *Sink) AddParagraph(pp assemble.ParagraphParams) assemble.Paragraph {
	p := s.doc.AddParagraph()
	p.Children = append(p.Children, newParagraphProps(pp.Style, pp))

	h := &paragraph{sink: s, p: p}
	if pp.List != nil {
		if marker := listMarker(pp.List); marker != "" {
			r := h.run(pp.Style, assemble.RunFlags{})
			r.Children = append(r.Children, &docx.Text{Text: marker}, &docx.Tab{})
		}
	}
	return h
}

// InsertTOCField records the field; it is placed at the start of the
// document when the document is written.
func (s *Sink) InsertTOCField(tp assemble.TOCParams) {
	s.toc = &tp
}

// WriteTo finishes the document and writes the package to w.
func (s *Sink) WriteTo(w io.Writer) (int64, error) {
	s.finish()
	cw := &countingWriter{w: w}
	if _, err := s.doc.WriteTo(cw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// finish prepends the table of contents and appends the section
// properties. It runs once.
func (s *Sink) finish() {
	if s.finished {
		return
	}
	s.finished = true

	body := &s.doc.Document.Body
	if s.toc != nil {
		body.Items = append(s.tocItems(*s.toc), body.Items...)
	}
	if s.page.PageWidthInches > 0 && s.page.PageHeightInches > 0 {
		body.Items = append(body.Items, &docx.SectPr{
			PgSz: &docx.PgSz{
				W: inches(s.page.PageWidthInches),
				H: inches(s.page.PageHeightInches),
			},
			PgMar: &docx.PgMar{
				Top: marginTwips, Bottom: marginTwips,
				Left: marginTwips, Right: marginTwips,
				Header: headerTwips, Footer: headerTwips,
			},
		})
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// paragraph is the assemble.Paragraph handle over a go-docx paragraph.
type paragraph struct {
	sink *Sink
	p    *docx.Paragraph
}

// run appends an empty run formatted with st and flags.
func (h *paragraph) run(st style.Resolved, flags assemble.RunFlags) *docx.Run {
	r := &docx.Run{RunProperties: runProps(st, flags)}
	h.p.Children = append(h.p.Children, r)
	return r
}

func (h *paragraph) AddRun(text string, st style.Resolved, flags assemble.RunFlags) {
	if text == "" {
		return
	}
	if flags.Link != "" {
		link := h.p.AddLink(text, flags.Link)
		link.Run.InstrText = ""
		link.Run.RunProperties = runProps(st, flags)
		link.Run.Children = textChildren(text)
		return
	}
	r := h.run(st, flags)
	r.Children = textChildren(text)
}

func (h *paragraph) InsertImage(data []byte, widthInches, heightInches float64) {
	r, err := h.p.AddInlineDrawing(data)
	if err != nil {
		h.sink.logger.Warn("embedding image failed",
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return
	}
	for _, c := range r.Children {
		if d, ok := c.(*docx.Drawing); ok && d.Inline != nil {
			d.Inline.Size(int64(widthInches*emuPerInch), int64(heightInches*emuPerInch))
		}
	}
}

func (h *paragraph) InsertEquation(root *mathml.Element, _ bool) {
	if root == nil {
		return
	}
	h.p.Children = append(h.p.Children, root)
}

// runProps maps a style and inline flags to run properties.
func runProps(st style.Resolved, flags assemble.RunFlags) *docx.RunProperties {
	size := halfPoints(st.FontSize)
	rp := &docx.RunProperties{
		Fonts: &docx.RunFonts{
			ASCII:    st.FontName,
			EastAsia: st.FontName,
			HAnsi:    st.FontName,
		},
		Color:  &docx.Color{Val: st.Color},
		Size:   &docx.Size{Val: size},
		SizeCs: &docx.SizeCs{Val: size},
	}
	if st.Bold || flags.Bold {
		rp.Bold = &docx.Bold{}
	}
	if st.Italic || flags.Italic {
		rp.Italic = &docx.Italic{}
	}
	if flags.Strike {
		rp.Strike = &docx.Strike{Val: "true"}
	}
	if flags.Highlight {
		rp.Highlight = &docx.Highlight{Val: highlightColor}
	}
	if flags.Code && st.BackgroundColor != "" {
		rp.Shade = &docx.Shade{Val: "clear", Color: "auto", Fill: st.BackgroundColor}
	}
	if flags.Link != "" {
		rp.Color = &docx.Color{Val: linkColor}
		rp.Underline = &docx.Underline{Val: "single"}
	}
	return rp
}

// textChildren splits text on newlines into text and break elements.
func textChildren(text string) []interface{} {
	lines := strings.Split(text, "\n")
	out := make([]interface{}, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			out = append(out, &docx.BarterRabbet{})
		}
		if line != "" {
			out = append(out, &docx.Text{Text: line, XMLSpace: "preserve"})
		}
	}
	return out
}
