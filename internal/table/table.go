// Package table turns the table section of the configuration into border,
// shading, padding and width parameters for a sink.
package table

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
	"github.com/alnah/go-md2docx/internal/style"
)

// Border styles.
const (
	BorderSingle = "single"
	BorderDouble = "double"
	BorderDotted = "dotted"
	BorderDashed = "dashed"
	BorderNone   = "none"
)

// Width modes.
const (
	WidthAuto  = "auto"
	WidthFull  = "full"
	WidthFixed = "fixed"
)

// Border width bounds in eighths of a point.
const (
	MinBorderWidth = 2
	MaxBorderWidth = 96
)

// Border describes the lines drawn around and between cells.
type Border struct {
	Style string
	Color string // upper-case hex
	Width int    // eighths of a point
}

// Padding is uniform cell padding in points.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Params is the validated table formatting.
type Params struct {
	Border  Border
	Padding Padding

	WidthMode   string
	WidthInches float64 // set only for WidthFixed

	HeaderShading      string
	CellShading        string
	AlternatingShading string
}

// CellParams is the formatting of one cell.
type CellParams struct {
	Header  bool
	Shading string // empty when unshaded
	Padding Padding
}

// Format validates cfg and returns the table parameters. Failures are
// *docerr.ConfigError naming "table.<field>".
func Format(cfg config.TableConfig) (Params, error) {
	var p Params

	switch s := strings.ToLower(cfg.BorderStyle); s {
	case BorderSingle, BorderDouble, BorderDotted, BorderDashed, BorderNone:
		p.Border.Style = s
	default:
		return Params{}, docerr.Configf("table.border_style", "invalid value %q (must be single, double, dotted, dashed, or none)", cfg.BorderStyle)
	}

	if p.Border.Style != BorderNone {
		if cfg.BorderWidth < MinBorderWidth || cfg.BorderWidth > MaxBorderWidth {
			return Params{}, docerr.Configf("table.border_width", "must be between %d and %d eighths of a point, got %d", MinBorderWidth, MaxBorderWidth, cfg.BorderWidth)
		}
		p.Border.Width = cfg.BorderWidth
	}

	colors := []struct {
		key string
		src string
		dst *string
	}{
		{"table.border_color", cfg.BorderColor, &p.Border.Color},
		{"table.header_background_color", cfg.HeaderBackgroundColor, &p.HeaderShading},
		{"table.cell_background_color", cfg.CellBackgroundColor, &p.CellShading},
		{"table.alternating_row_color", cfg.AlternatingRowColor, &p.AlternatingShading},
	}
	for _, c := range colors {
		if c.src == "" {
			continue
		}
		v, err := style.NormalizeColor(c.src)
		if err != nil {
			return Params{}, docerr.Configf(c.key, "%v", err)
		}
		*c.dst = v
	}
	if p.Border.Color == "" {
		p.Border.Color = "000000"
	}

	pad := cfg.Padding
	for _, v := range []float64{pad.Top, pad.Right, pad.Bottom, pad.Left} {
		if v < 0 {
			return Params{}, docerr.Configf("table.padding", "values must be >= 0, got %g", v)
		}
	}
	p.Padding = Padding{Top: pad.Top, Right: pad.Right, Bottom: pad.Bottom, Left: pad.Left}

	switch m := strings.ToLower(cfg.WidthMode); m {
	case "", WidthAuto:
		p.WidthMode = WidthAuto
	case WidthFull:
		p.WidthMode = WidthFull
	case WidthFixed:
		if cfg.WidthInches <= 0 {
			return Params{}, docerr.Configf("table.width_inches", "must be > 0 when width_mode is fixed, got %g", cfg.WidthInches)
		}
		p.WidthMode = WidthFixed
		p.WidthInches = cfg.WidthInches
	default:
		return Params{}, docerr.Configf("table.width_mode", "invalid value %q (must be auto, full, or fixed)", cfg.WidthMode)
	}

	return p, nil
}

// Cell returns the parameters for a cell in data row row (0-based) or in
// the header row. Header rows take the header shading only. Data rows take
// the cell background when set, else the alternating color on odd rows.
func (p Params) Cell(row int, isHeader bool) CellParams {
	c := CellParams{Header: isHeader, Padding: p.Padding}
	switch {
	case isHeader:
		c.Shading = p.HeaderShading
	case p.CellShading != "":
		c.Shading = p.CellShading
	case p.AlternatingShading != "" && row%2 == 1:
		c.Shading = p.AlternatingShading
	}
	return c
}
