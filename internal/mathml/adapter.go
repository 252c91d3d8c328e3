// Package mathml converts LaTeX formulas into Office Math (OMML) fragments.
// LaTeX is first rendered to MathML by a Translator, then the MathML tree
// is mapped element by element onto OMML.
package mathml

import (
	"encoding/xml"
	"strings"

	"github.com/alnah/go-md2docx/internal/docerr"
)

// Fragment is a converted formula ready to be placed in a paragraph.
type Fragment struct {
	LaTeX  string
	Inline bool
	Root   *Element // m:oMath when inline, m:oMathPara otherwise
}

// Adapter converts LaTeX through a Translator.
type Adapter struct {
	tr Translator
}

// NewAdapter returns an Adapter using tr, or treeblood when tr is nil.
func NewAdapter(tr Translator) *Adapter {
	if tr == nil {
		tr = NewTreebloodTranslator()
	}
	return &Adapter{tr: tr}
}

// Convert translates latex into an inline m:oMath or a block m:oMathPara.
// Any failure is a math conversion error.
func (a *Adapter) Convert(latex string, inline bool) (Fragment, error) {
	latex = strings.TrimSpace(latex)
	if latex == "" {
		return Fragment{}, docerr.Math(latex, ErrNoMath)
	}

	doc, err := a.tr.ToMathML(latex)
	if err != nil {
		return Fragment{}, docerr.Math(latex, err)
	}
	body, err := ToOMML(doc)
	if err != nil {
		return Fragment{}, docerr.Math(latex, err)
	}

	return Fragment{LaTeX: latex, Inline: inline, Root: Wrap(body, inline)}, nil
}

// Wrap places OMML content in m:oMath, adding m:oMathPara for block
// formulas. The root declares the m: namespace itself.
func Wrap(body []*Element, inline bool) *Element {
	ns := xml.Attr{Name: xml.Name{Local: "xmlns:m"}, Value: NamespaceOMML}
	math := el("m:oMath", body...)
	if inline {
		math.Attrs = []xml.Attr{ns}
		return math
	}
	para := el("m:oMathPara", math)
	para.Attrs = []xml.Attr{ns}
	return para
}

// Literal is the degraded rendering of a formula that failed to convert.
func Literal(latex string) string {
	return "[LaTeX: " + strings.TrimSpace(latex) + "]"
}
