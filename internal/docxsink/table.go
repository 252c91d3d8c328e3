package docxsink

import (
	"github.com/fumiama/go-docx"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/style"
	"github.com/alnah/go-md2docx/internal/table"
)

// fullWidthPct is 100% in fiftieths of a percent.
const fullWidthPct = 5000

// InsertTable writes a bordered table. Cell padding is applied as
// paragraph spacing and indentation inside each cell.
func (s *Sink) InsertTable(tp assemble.TableParams, rows [][]assemble.TableCell) {
	if len(rows) == 0 || tp.Columns == 0 {
		return
	}
	t := s.doc.AddTable(len(rows), tp.Columns, 0, nil)
	t.TableProperties.Width = tableWidth(tp.Params)
	t.TableProperties.TableBorders = borders(tp.Border)
	t.Justification("center")

	for i, row := range rows {
		for j, wc := range t.TableRows[i].TableCells {
			var cell assemble.TableCell
			if j < len(row) {
				cell = row[j]
			} else {
				cell = assemble.TableCell{Style: lastStyle(row)}
			}
			if cell.Params.Shading != "" {
				wc.Shade("clear", "auto", cell.Params.Shading)
			}
			s.fillCell(wc, cell)
		}
	}
}

func (s *Sink) fillCell(wc *docx.WTableCell, cell assemble.TableCell) {
	p := wc.AddParagraph()
	props := newParagraphProps(cell.Style, assemble.ParagraphParams{Style: cell.Style})
	pad := cell.Params.Padding
	props.Spacing.Before += points(pad.Top)
	props.Spacing.After += points(pad.Bottom)
	props.Ind.Left += points(pad.Left)
	props.Ind.Right = points(pad.Right)
	props.Ind.FirstLine = 0
	p.Children = append(p.Children, props)
	assemble.Replay(&paragraph{sink: s, p: p}, cell.Content)
}

func tableWidth(p table.Params) *docx.WTableWidth {
	switch p.WidthMode {
	case table.WidthFull:
		return &docx.WTableWidth{W: fullWidthPct, Type: "pct"}
	case table.WidthFixed:
		return &docx.WTableWidth{W: int64(inches(p.WidthInches)), Type: "dxa"}
	}
	return &docx.WTableWidth{Type: "auto"}
}

func borders(b table.Border) *docx.WTableBorders {
	line := func() *docx.WTableBorder {
		if b.Style == table.BorderNone {
			return &docx.WTableBorder{Val: "none"}
		}
		return &docx.WTableBorder{Val: b.Style, Size: b.Width, Color: b.Color}
	}
	return &docx.WTableBorders{
		Top: line(), Left: line(), Bottom: line(), Right: line(),
		InsideH: line(), InsideV: line(),
	}
}

func shade(fill string) *docx.Shade {
	return &docx.Shade{Val: "clear", Color: "auto", Fill: fill}
}

func lastStyle(row []assemble.TableCell) style.Resolved {
	if len(row) == 0 {
		return style.Resolved{}
	}
	return row[len(row)-1].Style
}
