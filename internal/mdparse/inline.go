package mdparse

import (
	"bytes"
	"regexp"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/alnah/go-md2docx/internal/doctree"
)

var brTag = regexp.MustCompile(`(?i)^<br\s*/?>$`)

// inlines maps the inline children of n and folds highlight markers.
func (m *mapper) inlines(n ast.Node) []doctree.Inline {
	return foldHighlights(m.children(n))
}

func (m *mapper) children(n ast.Node) []doctree.Inline {
	var out []doctree.Inline
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, m.inline(c)...)
	}
	return mergeText(out)
}

func (m *mapper) inline(n ast.Node) []doctree.Inline {
	switch n := n.(type) {
	case *ast.Text:
		out := []doctree.Inline{&doctree.Text{Text: string(n.Segment.Value(m.src))}}
		switch {
		case n.HardLineBreak(), n.SoftLineBreak() && m.hardWraps:
			out = append(out, &doctree.LineBreak{})
		case n.SoftLineBreak():
			out = append(out, &doctree.Text{Text: " "})
		}
		return out
	case *ast.String:
		return []doctree.Inline{&doctree.Text{Text: string(n.Value)}}
	case *ast.Emphasis:
		return []doctree.Inline{m.emphasis(n)}
	case *ast.CodeSpan:
		return []doctree.Inline{&doctree.InlineCode{Code: restoreHighlights(m.rawText(n))}}
	case *ast.Link:
		return []doctree.Inline{&doctree.Link{URL: string(n.Destination), Content: m.children(n)}}
	case *ast.AutoLink:
		return []doctree.Inline{&doctree.Link{
			URL:     string(n.URL(m.src)),
			Content: []doctree.Inline{&doctree.Text{Text: string(n.Label(m.src))}},
		}}
	case *ast.Image:
		return []doctree.Inline{&doctree.InlineImage{
			Source: string(n.Destination),
			Alt:    doctree.PlainText(m.children(n)),
		}}
	case *ast.RawHTML:
		var raw bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw.Write(seg.Value(m.src))
		}
		if brTag.MatchString(strings.TrimSpace(raw.String())) {
			return []doctree.Inline{&doctree.LineBreak{}}
		}
		return nil
	case *east.Strikethrough:
		return []doctree.Inline{&doctree.Strikethrough{Content: m.children(n)}}
	case *east.TaskCheckBox:
		return nil
	case *mathjax.InlineMath:
		latex := strings.Trim(strings.TrimSpace(m.rawText(n)), "$")
		return []doctree.Inline{&doctree.InlineMath{LaTeX: strings.TrimSpace(restoreHighlights(latex))}}
	}
	// Unknown containers keep their text.
	return m.children(n)
}

// emphasis maps *x* and **x**. A bold node whose only child is italic (or
// the reverse) becomes BoldItalic.
func (m *mapper) emphasis(n *ast.Emphasis) doctree.Inline {
	kids := m.children(n)
	if len(kids) == 1 {
		switch inner := kids[0].(type) {
		case *doctree.Italic:
			if n.Level == 2 {
				return &doctree.BoldItalic{Content: inner.Content}
			}
		case *doctree.Bold:
			if n.Level == 1 {
				return &doctree.BoldItalic{Content: inner.Content}
			}
		}
	}
	if n.Level >= 2 {
		return &doctree.Bold{Content: kids}
	}
	return &doctree.Italic{Content: kids}
}

// rawText concatenates the text segments below n.
func (m *mapper) rawText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(m.src))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(m.rawText(c))
		}
	}
	return b.String()
}

// mergeText joins adjacent Text nodes.
func mergeText(in []doctree.Inline) []doctree.Inline {
	var out []doctree.Inline
	for _, n := range in {
		t, ok := n.(*doctree.Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*doctree.Text); ok {
				prev.Text += t.Text
				continue
			}
		}
		out = append(out, &doctree.Text{Text: t.Text})
	}
	return out
}

// foldHighlights wraps the inlines between highlight markers in Highlight
// nodes. Markers may sit in different Text nodes around other inlines.
// An unmatched marker is restored as literal "==".
func foldHighlights(in []doctree.Inline) []doctree.Inline {
	if !hasMarker(in) {
		return in
	}

	stack := [][]doctree.Inline{nil}
	push := func(n doctree.Inline) {
		top := len(stack) - 1
		stack[top] = append(stack[top], n)
	}

	for _, n := range in {
		t, ok := n.(*doctree.Text)
		if !ok {
			push(n)
			continue
		}
		rest := t.Text
		for rest != "" {
			i := strings.IndexAny(rest, markStart+markEnd)
			if i < 0 {
				push(&doctree.Text{Text: rest})
				break
			}
			if i > 0 {
				push(&doctree.Text{Text: rest[:i]})
			}
			marker := rest[i : i+len(markStart)]
			rest = rest[i+len(markStart):]
			switch {
			case marker == markStart:
				stack = append(stack, nil)
			case len(stack) > 1:
				content := mergeText(stack[len(stack)-1])
				stack = stack[:len(stack)-1]
				push(&doctree.Highlight{Content: content})
			default:
				push(&doctree.Text{Text: "=="})
			}
		}
	}

	for len(stack) > 1 {
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(&doctree.Text{Text: "=="})
		for _, n := range open {
			push(n)
		}
	}
	return mergeText(stack[0])
}

func hasMarker(in []doctree.Inline) bool {
	for _, n := range in {
		if t, ok := n.(*doctree.Text); ok && strings.ContainsAny(t.Text, markStart+markEnd) {
			return true
		}
	}
	return false
}
