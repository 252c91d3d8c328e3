// Package assemble walks a document tree and emits construction operations
// to a Sink in document order. Styles, numbering, table formatting, images
// and formulas are resolved here so a Sink only has to write them out.
package assemble

import (
	"github.com/alnah/go-md2docx/internal/mathml"
	"github.com/alnah/go-md2docx/internal/style"
	"github.com/alnah/go-md2docx/internal/table"
)

// Sink receives document operations. Calls arrive in document order from a
// single goroutine.
type Sink interface {
	AddParagraph(ParagraphParams) Paragraph
	InsertCodeBlock(language, code string, st style.Resolved)
	InsertTable(TableParams, [][]TableCell)
	// InsertTOCField is called at most once, after every other operation.
	// The sink places the field at the start of the document.
	InsertTOCField(TOCParams)
}

// Paragraph is a handle returned by Sink.AddParagraph.
type Paragraph interface {
	AddRun(text string, st style.Resolved, flags RunFlags)
	InsertImage(data []byte, widthInches, heightInches float64)
	InsertEquation(root *mathml.Element, inline bool)
}

// ParagraphParams describes a new paragraph.
type ParagraphParams struct {
	Role         string
	Style        style.Resolved
	OutlineLevel int       // 1-6 for headings, 0 for body text
	List         *ListInfo // set for list item paragraphs
	Rule         bool      // draw a bottom border (thematic break)
}

// ListInfo places a paragraph in a list. Level is 0 for a top-level list.
// Index is the item number for ordered lists. Continued marks a following
// paragraph of the same item, which is indented but carries no marker.
type ListInfo struct {
	Level     int
	Ordered   bool
	Index     int
	Checked   *bool
	Continued bool
}

// RunFlags are inline formatting toggles applied on top of the run style.
type RunFlags struct {
	Bold      bool
	Italic    bool
	Strike    bool
	Highlight bool
	Code      bool
	Link      string // target URL
}

// TableParams is the formatting of a whole table.
type TableParams struct {
	table.Params
	Columns int
	Header  bool // first row is a header row
}

// TableCell is the content and formatting of one cell.
type TableCell struct {
	Params  table.CellParams
	Style   style.Resolved
	Content []Span
}

// TOCParams describes the table of contents field.
type TOCParams struct {
	Title      string
	TitleStyle style.Resolved
	MaxLevel   int
}

// Span is one piece of inline content: a text run, an image or a formula.
type Span struct {
	Text  string
	Style style.Resolved
	Flags RunFlags

	Image    *ImageSpan
	Equation *mathml.Element
}

// ImageSpan is a placed image.
type ImageSpan struct {
	Data         []byte
	WidthInches  float64
	HeightInches float64
}

// Replay writes spans to p in order.
func Replay(p Paragraph, spans []Span) {
	for _, s := range spans {
		switch {
		case s.Image != nil:
			p.InsertImage(s.Image.Data, s.Image.WidthInches, s.Image.HeightInches)
		case s.Equation != nil:
			p.InsertEquation(s.Equation, true)
		default:
			p.AddRun(s.Text, s.Style, s.Flags)
		}
	}
}
