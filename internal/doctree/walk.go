package doctree

import "strings"

// Visitor receives every node in document order. Returning false skips the
// children of the current node.
type Visitor func(node any) bool

// Walk visits blocks depth-first in document order, including inline
// content.
func Walk(blocks []Block, visit Visitor) {
	for _, b := range blocks {
		walkBlock(b, visit)
	}
}

func walkBlock(b Block, visit Visitor) {
	if !visit(b) {
		return
	}
	switch n := b.(type) {
	case *Heading:
		walkInlines(n.Content, visit)
	case *Paragraph:
		walkInlines(n.Content, visit)
	case *List:
		for _, item := range n.Items {
			Walk(item.Blocks, visit)
		}
	case *Table:
		for _, c := range n.Header {
			walkInlines(c, visit)
		}
		for _, row := range n.Rows {
			for _, c := range row {
				walkInlines(c, visit)
			}
		}
	case *BlockQuote:
		Walk(n.Blocks, visit)
	}
}

func walkInlines(inlines []Inline, visit Visitor) {
	for _, in := range inlines {
		if !visit(in) {
			continue
		}
		if kids := Children(in); kids != nil {
			walkInlines(kids, visit)
		}
	}
}

// Children returns the nested content of a container inline, or nil.
func Children(in Inline) []Inline {
	switch n := in.(type) {
	case *Bold:
		return n.Content
	case *Italic:
		return n.Content
	case *BoldItalic:
		return n.Content
	case *Strikethrough:
		return n.Content
	case *Highlight:
		return n.Content
	case *Link:
		return n.Content
	}
	return nil
}

// PlainText flattens inline content to text. Formulas keep their source
// and images their alt text.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch n := in.(type) {
		case *Text:
			b.WriteString(n.Text)
		case *InlineCode:
			b.WriteString(n.Code)
		case *InlineMath:
			b.WriteString(n.LaTeX)
		case *InlineImage:
			b.WriteString(n.Alt)
		case *LineBreak:
			b.WriteByte(' ')
		default:
			b.WriteString(PlainText(Children(in)))
		}
	}
	return b.String()
}
