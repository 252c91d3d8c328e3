package docxsink

import (
	"encoding/xml"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/alnah/go-md2docx/internal/assemble"
)

// TOCPlaceholder is shown until the field is updated in a word processor.
const TOCPlaceholder = "Right-click here and select 'Update Field' to generate TOC"

const placeholderColor = "808080"

type fieldChar struct {
	XMLName xml.Name `xml:"w:fldChar"`
	Type    string   `xml:"w:fldCharType,attr"`
}

type instrText struct {
	XMLName xml.Name `xml:"w:instrText"`
	Space   string   `xml:"xml:space,attr"`
	Text    string   `xml:",chardata"`
}

// tocInstruction builds the field code for headings 1 to maxLevel.
func tocInstruction(maxLevel int) string {
	return fmt.Sprintf(` TOC \o "1-%d" \h \z \u `, maxLevel)
}

// tocItems returns the title, the field and a page break.
func (s *Sink) tocItems(tp assemble.TOCParams) []interface{} {
	title := &docx.Paragraph{}
	title.Children = append(title.Children, newParagraphProps(tp.TitleStyle, assemble.ParagraphParams{Style: tp.TitleStyle}))
	(&paragraph{sink: s, p: title}).AddRun(tp.Title, tp.TitleStyle, assemble.RunFlags{})

	placeholder := tp.TitleStyle
	placeholder.Color = placeholderColor
	placeholder.Bold = false
	placeholder.Italic = true

	field := &docx.Paragraph{}
	field.Children = append(field.Children,
		&docx.Run{Children: []interface{}{
			&fieldChar{Type: "begin"},
			&instrText{Space: "preserve", Text: tocInstruction(tp.MaxLevel)},
			&fieldChar{Type: "separate"},
		}},
		&docx.Run{
			RunProperties: runProps(placeholder, assemble.RunFlags{}),
			Children:      textChildren(TOCPlaceholder),
		},
		&docx.Run{Children: []interface{}{&fieldChar{Type: "end"}}},
	)

	brk := &docx.Paragraph{}
	brk.Children = append(brk.Children, &docx.Run{Children: []interface{}{&docx.BarterRabbet{Type: "page"}}})

	return []interface{}{title, field, brk}
}
