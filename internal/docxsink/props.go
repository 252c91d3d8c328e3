package docxsink

import (
	"encoding/xml"
	"math"
	"strconv"

	"github.com/fumiama/go-docx"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/style"
)

// Unit conversions.
const (
	twipsPerInch  = 1440
	twipsPerPoint = 20
	lineUnit      = 240 // w:line value of single spacing
)

// Bullets by list depth; deeper levels cycle.
var bullets = []string{"•", "◦", "▪"}

const (
	checkedBox   = "☑"
	uncheckedBox = "☐"
	listIndent   = 0.25 // inches per list level
)

// paragraphProps is a w:pPr with the spacing, indentation and outline
// fields go-docx does not model. Fields follow the schema order.
type paragraphProps struct {
	XMLName  xml.Name    `xml:"w:pPr"`
	KeepNext *onOff      `xml:"w:keepNext,omitempty"`
	Border   *paraBorder `xml:"w:pBdr,omitempty"`
	Shade    *docx.Shade
	Spacing  *spacing `xml:"w:spacing,omitempty"`
	Ind      *indent  `xml:"w:ind,omitempty"`
	Jc       *docx.Justification
	Outline  *intVal `xml:"w:outlineLvl,omitempty"`
}

type onOff struct{}

type intVal struct {
	Val int `xml:"w:val,attr"`
}

type paraBorder struct {
	Bottom *borderLine `xml:"w:bottom"`
}

type borderLine struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type spacing struct {
	Before   int    `xml:"w:before,attr"`
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

type indent struct {
	Left      int `xml:"w:left,attr"`
	Right     int `xml:"w:right,attr,omitempty"`
	FirstLine int `xml:"w:firstLine,attr,omitempty"`
	Hanging   int `xml:"w:hanging,attr,omitempty"`
}

// newParagraphProps maps a resolved style and paragraph placement to pPr.
func newParagraphProps(st style.Resolved, pp assemble.ParagraphParams) *paragraphProps {
	props := &paragraphProps{
		Spacing: lineSpacing(st),
		Ind: &indent{
			Left:      inches(st.LeftIndent),
			FirstLine: points(st.FirstLineIndent),
		},
		Jc: &docx.Justification{Val: justification(st.Alignment)},
	}

	if l := pp.List; l != nil {
		props.Ind.Left = inches(st.LeftIndent + listIndent*float64(l.Level+1))
		props.Ind.FirstLine = 0
		if !l.Continued {
			props.Ind.Hanging = inches(listIndent)
		}
	}
	if pp.OutlineLevel > 0 {
		props.KeepNext = &onOff{}
		props.Outline = &intVal{Val: pp.OutlineLevel - 1}
	}
	if pp.Rule {
		props.Border = &paraBorder{Bottom: &borderLine{Val: "single", Size: 6, Space: 1, Color: "auto"}}
	}
	return props
}

// lineSpacing converts spacing before/after and the line rule to twips.
func lineSpacing(st style.Resolved) *spacing {
	sp := &spacing{
		Before: points(st.SpaceBefore),
		After:  points(st.SpaceAfter),
	}
	switch st.LineSpacing.Rule {
	case style.SpacingExact:
		sp.Line, sp.LineRule = points(st.LineSpacing.Value), "exact"
	case style.SpacingAtLeast:
		sp.Line, sp.LineRule = points(st.LineSpacing.Value), "atLeast"
	default:
		sp.Line, sp.LineRule = int(math.Round(st.LineSpacing.Value*lineUnit)), "auto"
	}
	return sp
}

func justification(a style.Alignment) string {
	switch a {
	case style.AlignCenter:
		return "center"
	case style.AlignRight:
		return "right"
	case style.AlignJustify:
		return "both"
	}
	return "left"
}

// listMarker returns the marker text of a list paragraph, or "" for a
// continued paragraph.
func listMarker(l *assemble.ListInfo) string {
	switch {
	case l.Continued:
		return ""
	case l.Checked != nil && *l.Checked:
		return checkedBox
	case l.Checked != nil:
		return uncheckedBox
	case l.Ordered:
		return strconv.Itoa(l.Index) + "."
	}
	return bullets[l.Level%len(bullets)]
}

func inches(v float64) int { return int(math.Round(v * twipsPerInch)) }

func points(v float64) int { return int(math.Round(v * twipsPerPoint)) }

// halfPoints formats a font size for w:sz.
func halfPoints(pt float64) string {
	return strconv.Itoa(int(math.Round(pt * 2)))
}
