package mathml

import (
	"encoding/xml"
	"strings"
)

// NamespaceOMML is the Office Math Markup Language namespace bound to "m:".
const NamespaceOMML = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// Element is one node of an OMML fragment. Names carry their prefix
// ("m:r", "w:rFonts") the same way the document body does.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

func el(name string, children ...*Element) *Element {
	return &Element{Name: name, Children: children}
}

func val(name, v string) *Element {
	return &Element{Name: name, Attrs: []xml.Attr{{Name: xml.Name{Local: "m:val"}, Value: v}}}
}

// MarshalXML writes the element tree. The start element passed by the
// caller is ignored so an Element can sit in any []interface{} child list.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}, Attr: e.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.MarshalXML(enc, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// String renders the element as XML, mainly for tests and logs.
func (e *Element) String() string {
	var b strings.Builder
	enc := xml.NewEncoder(&b)
	if err := enc.Encode(e); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	_ = enc.Flush()
	return b.String()
}

// run builds an m:r holding text. Plain runs are upright, as for mtext.
func run(text string, plain bool) *Element {
	r := el("m:r")
	if plain {
		r.Children = append(r.Children, el("m:rPr", val("m:sty", "p")))
	}
	r.Children = append(r.Children,
		el("w:rPr", &Element{Name: "w:rFonts", Attrs: []xml.Attr{
			{Name: xml.Name{Local: "w:ascii"}, Value: "Cambria Math"},
			{Name: xml.Name{Local: "w:hAnsi"}, Value: "Cambria Math"},
		}}),
		&Element{Name: "m:t", Attrs: []xml.Attr{{Name: xml.Name{Local: "xml:space"}, Value: "preserve"}}, Text: text},
	)
	return r
}
