package mathml

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Sentinel errors for MathML conversion.
var (
	ErrNoMath           = errors.New("no <math> element in translator output")
	ErrTranslatorReport = errors.New("translator reported an error")
	ErrUnsupported      = errors.New("unsupported MathML element")
)

// largeOperators are rendered as n-ary objects when they carry limits.
var largeOperators = map[string]bool{
	"∑": true, "∏": true, "∐": true, "∫": true, "∬": true, "∭": true,
	"∮": true, "⋃": true, "⋂": true, "⋁": true, "⋀": true, "⨁": true, "⨂": true,
}

// ToOMML parses a MathML document and returns the OMML content of its
// first <math> element, without the oMath wrapper.
func ToOMML(mathML string) ([]*Element, error) {
	doc, err := html.Parse(strings.NewReader(mathML))
	if err != nil {
		return nil, fmt.Errorf("parsing MathML: %w", err)
	}
	root := findMath(doc)
	if root == nil {
		return nil, ErrNoMath
	}
	return convertChildren(root)
}

func findMath(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "math" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := findMath(c); m != nil {
			return m
		}
	}
	return nil
}

// elementChildren returns the element children of n, skipping whitespace.
func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func convertChildren(n *html.Node) ([]*Element, error) {
	kids := elementChildren(n)
	if fence, ok := fenced(kids); ok {
		return fence, nil
	}
	var out []*Element
	for _, c := range kids {
		els, err := convert(c)
		if err != nil {
			return nil, err
		}
		out = append(out, els...)
	}
	return out, nil
}

// convert maps one MathML element to zero or more OMML elements.
func convert(n *html.Node) ([]*Element, error) {
	switch n.Data {
	case "mrow", "mstyle", "mpadded", "math":
		return convertChildren(n)
	case "semantics":
		kids := elementChildren(n)
		if len(kids) == 0 {
			return nil, nil
		}
		return convert(kids[0])
	case "annotation", "annotation-xml", "mphantom", "none":
		return nil, nil
	case "mi", "mn", "mo":
		return []*Element{run(textContent(n), false)}, nil
	case "mtext", "ms":
		return []*Element{run(textContent(n), true)}, nil
	case "mspace":
		return []*Element{run(" ", true)}, nil
	case "msup":
		return script(n, "m:sSup", "m:e", "m:sup")
	case "msub":
		return script(n, "m:sSub", "m:e", "m:sub")
	case "msubsup":
		if op, ok := largeOperator(n); ok {
			return nary(n, op, "subSup", true, true)
		}
		return script(n, "m:sSubSup", "m:e", "m:sub", "m:sup")
	case "mfrac":
		return fraction(n)
	case "msqrt":
		body, err := convertChildren(n)
		if err != nil {
			return nil, err
		}
		return []*Element{el("m:rad", el("m:radPr", val("m:degHide", "1")), el("m:deg"), el("m:e", body...))}, nil
	case "mroot":
		parts, err := operands(n, 2)
		if err != nil {
			return nil, err
		}
		return []*Element{el("m:rad", el("m:deg", parts[1]...), el("m:e", parts[0]...))}, nil
	case "munder":
		if op, ok := largeOperator(n); ok {
			return nary(n, op, "undOvr", true, false)
		}
		return script(n, "m:limLow", "m:e", "m:lim")
	case "mover":
		if strings.EqualFold(attr(n, "accent"), "true") {
			return accent(n)
		}
		return script(n, "m:limUpp", "m:e", "m:lim")
	case "munderover":
		if op, ok := largeOperator(n); ok {
			return nary(n, op, "undOvr", true, true)
		}
		parts, err := operands(n, 3)
		if err != nil {
			return nil, err
		}
		low := el("m:limLow", el("m:e", parts[0]...), el("m:lim", parts[1]...))
		return []*Element{el("m:limUpp", el("m:e", low), el("m:lim", parts[2]...))}, nil
	case "mtable":
		return matrix(n)
	case "mfenced":
		return mfenced(n)
	case "merror":
		return nil, fmt.Errorf("%w: %s", ErrTranslatorReport, strings.TrimSpace(textContent(n)))
	default:
		return nil, fmt.Errorf("%w: <%s>", ErrUnsupported, n.Data)
	}
}

// operands converts exactly want element children of n.
func operands(n *html.Node, want int) ([][]*Element, error) {
	kids := elementChildren(n)
	if len(kids) != want {
		return nil, fmt.Errorf("<%s> has %d operands, want %d", n.Data, len(kids), want)
	}
	out := make([][]*Element, want)
	for i, k := range kids {
		els, err := convert(k)
		if err != nil {
			return nil, err
		}
		out[i] = els
	}
	return out, nil
}

// script builds an OMML object whose slots map positionally to the
// MathML operands, e.g. msup → m:sSup{m:e, m:sup}.
func script(n *html.Node, name string, slots ...string) ([]*Element, error) {
	parts, err := operands(n, len(slots))
	if err != nil {
		return nil, err
	}
	obj := el(name)
	for i, slot := range slots {
		obj.Children = append(obj.Children, el(slot, parts[i]...))
	}
	return []*Element{obj}, nil
}

func fraction(n *html.Node) ([]*Element, error) {
	parts, err := operands(n, 2)
	if err != nil {
		return nil, err
	}
	f := el("m:f")
	if lt := attr(n, "linethickness"); lt == "0" || lt == "0px" || lt == "0pt" {
		f.Children = append(f.Children, el("m:fPr", val("m:type", "noBar")))
	}
	f.Children = append(f.Children, el("m:num", parts[0]...), el("m:den", parts[1]...))
	return []*Element{f}, nil
}

func accent(n *html.Node) ([]*Element, error) {
	kids := elementChildren(n)
	if len(kids) != 2 {
		return nil, fmt.Errorf("<mover> has %d operands, want 2", len(kids))
	}
	base, err := convert(kids[0])
	if err != nil {
		return nil, err
	}
	return []*Element{el("m:acc", el("m:accPr", val("m:chr", textContent(kids[1]))), el("m:e", base...))}, nil
}

// largeOperator reports whether the base of a scripted element is an
// n-ary operator such as ∑ or ∫.
func largeOperator(n *html.Node) (string, bool) {
	kids := elementChildren(n)
	if len(kids) == 0 || kids[0].Data != "mo" {
		return "", false
	}
	op := strings.TrimSpace(textContent(kids[0]))
	return op, largeOperators[op]
}

// nary builds m:nary for an operator with limits. The operand that follows
// in the source is a sibling in MathML, so m:e is left empty.
func nary(n *html.Node, op, limLoc string, hasSub, hasSup bool) ([]*Element, error) {
	kids := elementChildren(n)
	props := el("m:naryPr", val("m:chr", op), val("m:limLoc", limLoc))
	var sub, sup []*Element
	var err error
	idx := 1
	if hasSub {
		if idx >= len(kids) {
			return nil, fmt.Errorf("<%s> is missing its lower limit", n.Data)
		}
		if sub, err = convert(kids[idx]); err != nil {
			return nil, err
		}
		idx++
	} else {
		props.Children = append(props.Children, val("m:subHide", "1"))
	}
	if hasSup {
		if idx >= len(kids) {
			return nil, fmt.Errorf("<%s> is missing its upper limit", n.Data)
		}
		if sup, err = convert(kids[idx]); err != nil {
			return nil, err
		}
	} else {
		props.Children = append(props.Children, val("m:supHide", "1"))
	}
	return []*Element{el("m:nary", props, el("m:sub", sub...), el("m:sup", sup...), el("m:e"))}, nil
}

func matrix(n *html.Node) ([]*Element, error) {
	m := el("m:m")
	for _, row := range elementChildren(n) {
		if row.Data != "mtr" && row.Data != "mlabeledtr" {
			return nil, fmt.Errorf("%w: <%s> inside <mtable>", ErrUnsupported, row.Data)
		}
		mr := el("m:mr")
		for _, cell := range elementChildren(row) {
			if cell.Data != "mtd" {
				return nil, fmt.Errorf("%w: <%s> inside <mtr>", ErrUnsupported, cell.Data)
			}
			body, err := convertChildren(cell)
			if err != nil {
				return nil, err
			}
			mr.Children = append(mr.Children, el("m:e", body...))
		}
		m.Children = append(m.Children, mr)
	}
	return []*Element{m}, nil
}

func mfenced(n *html.Node) ([]*Element, error) {
	opening, closing, sep := "(", ")", ","
	if v, ok := attrOK(n, "open"); ok {
		opening = v
	}
	if v, ok := attrOK(n, "close"); ok {
		closing = v
	}
	if v, ok := attrOK(n, "separators"); ok {
		sep = strings.TrimSpace(v)
	}
	d := el("m:d", el("m:dPr", val("m:begChr", opening), val("m:sepChr", sep), val("m:endChr", closing)))
	for _, c := range elementChildren(n) {
		body, err := convert(c)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, el("m:e", body...))
	}
	return []*Element{d}, nil
}

// fenced recognizes a row bracketed by stretchy or fence operators, as
// produced for \left( … \right), and renders it as one delimiter object.
func fenced(kids []*html.Node) ([]*Element, bool) {
	if len(kids) < 2 {
		return nil, false
	}
	first, last := kids[0], kids[len(kids)-1]
	if !isFence(first) || !isFence(last) {
		return nil, false
	}
	var body []*Element
	for _, c := range kids[1 : len(kids)-1] {
		els, err := convert(c)
		if err != nil {
			return nil, false
		}
		body = append(body, els...)
	}
	d := el("m:d",
		el("m:dPr", val("m:begChr", textContent(first)), val("m:endChr", textContent(last))),
		el("m:e", body...),
	)
	return []*Element{d}, true
}

func isFence(n *html.Node) bool {
	if n.Data != "mo" {
		return false
	}
	return strings.EqualFold(attr(n, "fence"), "true") || strings.EqualFold(attr(n, "stretchy"), "true")
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
