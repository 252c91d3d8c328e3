package assemble

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
	"github.com/alnah/go-md2docx/internal/doctree"
	"github.com/alnah/go-md2docx/internal/mathml"
	"github.com/alnah/go-md2docx/internal/numbering"
	"github.com/alnah/go-md2docx/internal/style"
)

// Degraded rendering.
const (
	placeholderColor = "808080"
	listIndentInches = 0.25
)

// assembly is the state of one Run.
type assembly struct {
	d         *Driver
	sink      Sink
	res       *resources
	numbering *numbering.Engine
	report    *Report
	tables    int
}

func newAssembly(d *Driver, sink Sink, res *resources) *assembly {
	return &assembly{
		d:         d,
		sink:      sink,
		res:       res,
		numbering: numbering.New(),
		report:    &Report{},
	}
}

// scope is the block context inherited by nested blocks.
type scope struct {
	quote     bool
	listLevel int        // number of enclosing lists
	item      *itemState // innermost list item, nil outside lists
}

// itemState hands the list marker to the first paragraph of an item.
type itemState struct {
	info ListInfo
	used bool
}

// take returns the list placement for the next paragraph in scope.
func (sc scope) take() *ListInfo {
	if sc.item == nil {
		return nil
	}
	info := sc.item.info
	if sc.item.used {
		info.Continued = true
	}
	sc.item.used = true
	return &info
}

func (a *assembly) blocks(blocks []doctree.Block, sc scope) {
	for _, b := range blocks {
		a.block(b, sc)
	}
}

func (a *assembly) block(b doctree.Block, sc scope) {
	switch n := b.(type) {
	case *doctree.Heading:
		a.heading(n)
	case *doctree.Paragraph:
		role := paragraphRole(sc)
		st := a.d.styles.Get(role)
		p := a.sink.AddParagraph(ParagraphParams{Role: role, Style: st, List: sc.take()})
		Replay(p, a.spans(n.Content, st, RunFlags{}))
	case *doctree.List:
		a.list(n, sc)
	case *doctree.CodeBlock:
		st := a.d.styles.Get(config.RoleCode)
		st.LeftIndent += listIndentInches * float64(sc.listLevel)
		if sc.quote {
			st.LeftIndent += a.d.styles.Get(config.RoleBlockquote).LeftIndent
		}
		a.sink.InsertCodeBlock(n.Language, n.Text, st)
	case *doctree.Table:
		a.table(n)
	case *doctree.BlockQuote:
		inner := sc
		inner.quote = true
		a.blocks(n.Blocks, inner)
	case *doctree.Image:
		a.image(n, sc)
	case *doctree.MathBlock:
		a.mathBlock(n, sc)
	case *doctree.ThematicBreak:
		st := a.centered(config.RoleBody)
		a.sink.AddParagraph(ParagraphParams{Role: config.RoleBody, Style: st, Rule: true})
	}
}

// paragraphRole picks the style role of a plain paragraph.
func paragraphRole(sc scope) string {
	switch {
	case sc.quote:
		return config.RoleBlockquote
	case sc.listLevel > 0:
		return config.RoleListItem
	}
	return config.RoleBody
}

// centered returns role's style with center alignment and no first-line
// indent, for paragraphs holding a lone image, formula or rule.
func (a *assembly) centered(role string) style.Resolved {
	st := a.d.styles.Get(role)
	st.Alignment = style.AlignCenter
	st.FirstLineIndent = 0
	st.FirstLineIndentChars = 0
	return st
}

func (a *assembly) heading(h *doctree.Heading) {
	if h.Level < 1 || h.Level > numbering.MaxLevel {
		a.structural(docerr.Structural("heading", "level %d outside 1..%d", h.Level, numbering.MaxLevel))
		return
	}

	role := config.HeadingRole(h.Level)
	st := a.d.styles.Get(role)
	prefix := a.numbering.Next(h.Level, st.NumberingFormat)

	p := a.sink.AddParagraph(ParagraphParams{Role: role, Style: st, OutlineLevel: h.Level})
	if prefix != "" {
		p.AddRun(prefix, st, RunFlags{})
	}
	Replay(p, a.spans(h.Content, st, RunFlags{}))

	a.report.Headings = append(a.report.Headings, HeadingEntry{
		Level: h.Level,
		Text:  prefix + doctree.PlainText(h.Content),
	})
}

func (a *assembly) list(l *doctree.List, sc scope) {
	for i, item := range l.Items {
		index := i + 1
		if l.Ordered {
			index = l.Start + i
		}
		state := &itemState{info: ListInfo{
			Level:   sc.listLevel,
			Ordered: l.Ordered,
			Index:   index,
			Checked: item.Checked,
		}}
		inner := sc
		inner.listLevel = sc.listLevel + 1
		inner.item = state

		if len(item.Blocks) == 0 || !startsWithParagraph(item.Blocks) {
			// The marker needs a paragraph of its own.
			st := a.d.styles.Get(config.RoleListItem)
			a.sink.AddParagraph(ParagraphParams{Role: config.RoleListItem, Style: st, List: inner.take()})
		}
		a.blocks(item.Blocks, inner)
	}
}

func startsWithParagraph(blocks []doctree.Block) bool {
	_, ok := blocks[0].(*doctree.Paragraph)
	return ok
}

func (a *assembly) table(t *doctree.Table) {
	a.tables++
	name := fmt.Sprintf("table %d", a.tables)

	rows := make([]doctree.Row, 0, len(t.Rows)+1)
	if t.Header != nil {
		rows = append(rows, t.Header)
	}
	rows = append(rows, t.Rows...)
	if len(rows) == 0 {
		a.structural(docerr.Structural(name, "no rows"))
		return
	}

	columns := 0
	for i, row := range rows {
		if len(row) == 0 {
			a.structural(docerr.Structural(name, "row %d has no cells", i))
			return
		}
		columns = max(columns, len(row))
	}

	header := t.Header != nil
	out := make([][]TableCell, len(rows))
	for i, row := range rows {
		isHeader := header && i == 0
		dataRow := i
		if header {
			dataRow = i - 1
		}

		role := config.RoleTableCell
		if isHeader {
			role = config.RoleTableHeader
		}
		params := a.d.table.Cell(dataRow, isHeader)

		cells := make([]TableCell, columns)
		for c := range cells {
			st := a.d.styles.Get(role)
			if c < len(t.Align) {
				if align, ok := columnAlignment(t.Align[c]); ok {
					st.Alignment = align
				}
			}
			cells[c] = TableCell{Params: params, Style: st}
			if c < len(row) {
				cells[c].Content = a.spans(row[c], st, RunFlags{})
			}
		}
		out[i] = cells
	}

	a.sink.InsertTable(TableParams{Params: a.d.table, Columns: columns, Header: header}, out)
}

func columnAlignment(al doctree.Alignment) (style.Alignment, bool) {
	switch al {
	case doctree.AlignLeft:
		return style.AlignLeft, true
	case doctree.AlignCenter:
		return style.AlignCenter, true
	case doctree.AlignRight:
		return style.AlignRight, true
	}
	return "", false
}

func (a *assembly) image(img *doctree.Image, sc scope) {
	role := paragraphRole(sc)
	st := a.centered(role)

	res := a.res.images[img]
	if res == nil || res.err != nil {
		span, ok := a.imageFallback(img.Source, img.Alt, res, st)
		if !ok {
			return
		}
		p := a.sink.AddParagraph(ParagraphParams{Role: role, Style: st, List: sc.take()})
		Replay(p, []Span{span})
		return
	}

	p := a.sink.AddParagraph(ParagraphParams{Role: role, Style: st, List: sc.take()})
	p.InsertImage(res.img.Data, res.placement.WidthInches, res.placement.HeightInches)
}

func (a *assembly) mathBlock(m *doctree.MathBlock, sc scope) {
	role := paragraphRole(sc)
	st := a.centered(role)
	p := a.sink.AddParagraph(ParagraphParams{Role: role, Style: st, List: sc.take()})

	res := a.res.math[m]
	if res == nil || res.err != nil {
		Replay(p, []Span{a.mathFallback(m.LaTeX, res, st)})
		return
	}
	p.InsertEquation(res.frag.Root, false)
}

// spans flattens inline content into runs, images and formulas, carrying
// the formatting of enclosing inline nodes.
func (a *assembly) spans(inlines []doctree.Inline, st style.Resolved, flags RunFlags) []Span {
	var out []Span
	for _, in := range inlines {
		switch n := in.(type) {
		case *doctree.Text:
			if n.Text != "" {
				out = append(out, Span{Text: n.Text, Style: st, Flags: flags})
			}
		case *doctree.LineBreak:
			out = append(out, Span{Text: "\n", Style: st, Flags: flags})
		case *doctree.Bold:
			f := flags
			f.Bold = true
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.Italic:
			f := flags
			f.Italic = true
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.BoldItalic:
			f := flags
			f.Bold, f.Italic = true, true
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.Strikethrough:
			f := flags
			f.Strike = true
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.Highlight:
			f := flags
			f.Highlight = true
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.Link:
			f := flags
			f.Link = n.URL
			out = append(out, a.spans(n.Content, st, f)...)
		case *doctree.InlineCode:
			f := flags
			f.Code = true
			out = append(out, Span{Text: n.Code, Style: a.codeRun(st), Flags: f})
		case *doctree.InlineMath:
			res := a.res.math[n]
			if res == nil || res.err != nil {
				out = append(out, a.mathFallback(n.LaTeX, res, st))
				continue
			}
			out = append(out, Span{Equation: res.frag.Root})
		case *doctree.InlineImage:
			res := a.res.images[n]
			if res == nil || res.err != nil {
				if span, ok := a.imageFallback(n.Source, n.Alt, res, st); ok {
					out = append(out, span)
				}
				continue
			}
			out = append(out, Span{Image: &ImageSpan{
				Data:         res.img.Data,
				WidthInches:  res.placement.WidthInches,
				HeightInches: res.placement.HeightInches,
			}})
		}
	}
	return out
}

// codeRun is st with the code role's font and shading.
func (a *assembly) codeRun(st style.Resolved) style.Resolved {
	code := a.d.styles.Get(config.RoleCode)
	st.FontName = code.FontName
	st.BackgroundColor = code.BackgroundColor
	return st
}

// imageFallback applies the image policy to a failed image. It reports
// false when the image is dropped.
func (a *assembly) imageFallback(src, alt string, res *imageResult, st style.Resolved) (Span, bool) {
	err := error(docerr.Image(src, ErrNoImageSource))
	if res != nil {
		err = res.err
	}
	a.report.DegradedImages++
	a.d.logger.Warn("image not embedded",
		zap.String("node", "image"),
		zap.String("src", src),
		zap.String("policy", a.d.imagePolicy),
		zap.Error(err))

	if a.d.imagePolicy == config.ImageOnErrorSkip {
		return Span{}, false
	}
	label := alt
	if label == "" {
		label = src
	}
	st.Italic = true
	st.Color = placeholderColor
	return Span{Text: "[Image: " + label + "]", Style: st}, true
}

// mathFallback renders a failed formula as its marked LaTeX source.
func (a *assembly) mathFallback(latex string, res *mathResult, st style.Resolved) Span {
	err := error(docerr.Math(latex, mathml.ErrNoMath))
	if res != nil {
		err = res.err
	}
	a.report.DegradedMath++
	a.d.logger.Warn("formula rendered as LaTeX",
		zap.String("node", "math"),
		zap.String("src", latex),
		zap.Error(err))
	return Span{Text: mathml.Literal(latex), Style: a.codeRun(st), Flags: RunFlags{Code: true}}
}

func (a *assembly) structural(err error) {
	a.report.Structural = append(a.report.Structural, err)
	a.d.logger.Warn("element skipped", zap.Error(err))
}
