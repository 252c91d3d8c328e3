// Package imaging acquires images referenced from Markdown and computes the
// size at which they are placed in the document.
package imaging

// DefaultDPI is assumed when an image carries no resolution.
const DefaultDPI = 96.0

// EMUPerInch converts inches to English Metric Units used by OOXML drawings.
const EMUPerInch = 914400

// Decoded is an image ready for embedding.
type Decoded struct {
	Data   []byte
	Format string // "png", "jpeg" or "gif"
	Width  int    // pixels
	Height int    // pixels
	DPI    float64
}

// Placement is the rendered size of an image.
type Placement struct {
	WidthInches  float64
	HeightInches float64
}

// WidthEMU returns the width in EMU.
func (p Placement) WidthEMU() int64 { return int64(p.WidthInches * EMUPerInch) }

// HeightEMU returns the height in EMU.
func (p Placement) HeightEMU() int64 { return int64(p.HeightInches * EMUPerInch) }

// Place returns the native size of img, scaled down to maxWidthInches when
// wider. Aspect ratio is preserved. A non-positive maximum disables scaling.
func Place(img Decoded, maxWidthInches float64) Placement {
	dpi := img.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	p := Placement{
		WidthInches:  float64(img.Width) / dpi,
		HeightInches: float64(img.Height) / dpi,
	}
	if maxWidthInches > 0 && p.WidthInches > maxWidthInches {
		scale := maxWidthInches / p.WidthInches
		p.WidthInches = maxWidthInches
		p.HeightInches *= scale
	}
	return p
}
