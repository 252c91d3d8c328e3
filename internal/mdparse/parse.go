package mdparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2docx/internal/doctree"
)

// ErrParse indicates the Markdown could not be mapped to a document.
var ErrParse = errors.New("markdown parsing failed")

// Parser converts Markdown to a doctree.Document. It is safe for
// concurrent use.
type Parser struct {
	md        goldmark.Markdown
	hardWraps bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithHardWraps controls whether single newlines inside a paragraph become
// line breaks. Enabled by default.
func WithHardWraps(enabled bool) Option {
	return func(p *Parser) { p.hardWraps = enabled }
}

// New creates a Parser with GFM (tables, strikethrough, autolinks, task
// lists) and $/$$ math.
func New(opts ...Option) *Parser {
	p := &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				mathjax.MathJax,
			),
		),
		hardWraps: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse preprocesses and parses content. goldmark has no cancellation, so
// the context is only honored while waiting for the result.
func (p *Parser) Parse(ctx context.Context, content string) (*doctree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *doctree.Document
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrParse, r)}
			}
		}()
		src := []byte(Preprocess(content))
		root := p.md.Parser().Parse(text.NewReader(src))
		m := &mapper{src: src, hardWraps: p.hardWraps}
		done <- result{doc: &doctree.Document{Blocks: m.blocks(root)}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

// mapper walks a goldmark AST over src.
type mapper struct {
	src       []byte
	hardWraps bool
}

func (m *mapper) blocks(parent ast.Node) []doctree.Block {
	var out []doctree.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := m.block(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (m *mapper) block(n ast.Node) doctree.Block {
	switch n := n.(type) {
	case *ast.Heading:
		return &doctree.Heading{Level: n.Level, Content: m.inlines(n)}
	case *ast.Paragraph, *ast.TextBlock:
		return m.paragraph(n)
	case *ast.List:
		return m.list(n)
	case *ast.FencedCodeBlock:
		return &doctree.CodeBlock{
			Language: string(n.Language(m.src)),
			Text:     restoreHighlights(m.lines(n)),
		}
	case *ast.CodeBlock:
		return &doctree.CodeBlock{Text: restoreHighlights(m.lines(n))}
	case *ast.Blockquote:
		return &doctree.BlockQuote{Blocks: m.blocks(n)}
	case *ast.ThematicBreak:
		return &doctree.ThematicBreak{}
	case *east.Table:
		return m.table(n)
	case *mathjax.MathBlock:
		return &doctree.MathBlock{LaTeX: strings.TrimSpace(restoreHighlights(m.lines(n)))}
	}
	return nil
}

// paragraph returns an Image block for a paragraph holding a lone image.
func (m *mapper) paragraph(n ast.Node) doctree.Block {
	content := m.inlines(n)
	var only doctree.Inline
	count := 0
	for _, in := range content {
		if t, ok := in.(*doctree.Text); ok && strings.TrimSpace(t.Text) == "" {
			continue
		}
		only = in
		count++
	}
	if img, ok := only.(*doctree.InlineImage); ok && count == 1 {
		return &doctree.Image{Source: img.Source, Alt: img.Alt}
	}
	if len(content) == 0 {
		return nil
	}
	return &doctree.Paragraph{Content: content}
}

func (m *mapper) list(n *ast.List) doctree.Block {
	l := &doctree.List{Ordered: n.IsOrdered(), Start: n.Start}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item := doctree.ListItem{Checked: taskState(c), Blocks: m.blocks(c)}
		if item.Checked != nil {
			trimLeadingSpace(item.Blocks)
		}
		l.Items = append(l.Items, item)
	}
	return l
}

// taskState returns the checkbox state of a task list item, or nil.
func taskState(item ast.Node) *bool {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
		checked := box.IsChecked
		return &checked
	}
	return nil
}

// trimLeadingSpace drops the space left between a task checkbox and the
// item text.
func trimLeadingSpace(blocks []doctree.Block) {
	if len(blocks) == 0 {
		return
	}
	p, ok := blocks[0].(*doctree.Paragraph)
	if !ok || len(p.Content) == 0 {
		return
	}
	if t, ok := p.Content[0].(*doctree.Text); ok {
		t.Text = strings.TrimLeft(t.Text, " \t")
	}
}

func (m *mapper) table(n *east.Table) doctree.Block {
	t := &doctree.Table{}
	for _, a := range n.Alignments {
		t.Align = append(t.Align, alignment(a))
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *east.TableHeader:
			t.Header = m.row(c)
		case *east.TableRow:
			t.Rows = append(t.Rows, m.row(c))
		}
	}
	return t
}

func (m *mapper) row(n ast.Node) doctree.Row {
	row := doctree.Row{}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); ok {
			row = append(row, doctree.Cell(m.inlines(c)))
		}
	}
	return row
}

func alignment(a east.Alignment) doctree.Alignment {
	switch a {
	case east.AlignLeft:
		return doctree.AlignLeft
	case east.AlignCenter:
		return doctree.AlignCenter
	case east.AlignRight:
		return doctree.AlignRight
	}
	return doctree.AlignNone
}

// lines joins the raw source lines of a block node.
func (m *mapper) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(m.src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
