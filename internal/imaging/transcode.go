package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoders for image.Decode
	"image/jpeg"
	"image/png"

	"github.com/fumiama/imgsz"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for data no registered decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality is used when re-encoding opaque images.
const jpegQuality = 90

// embeddable lists formats a word processor displays without conversion.
var embeddable = map[string]bool{"png": true, "jpeg": true, "gif": true}

// Normalize probes data and re-encodes it when its format cannot be
// embedded as is. Images with transparency become PNG, others JPEG.
func Normalize(data []byte) (Decoded, error) {
	size, format, err := imgsz.DecodeSize(bytes.NewReader(data))
	if err == nil && embeddable[format] {
		return Decoded{Data: data, Format: format, Width: size.Width, Height: size.Height, DPI: DefaultDPI}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return transcode(img, format)
}

func transcode(img image.Image, from string) (Decoded, error) {
	var buf bytes.Buffer
	out := Decoded{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		DPI:    DefaultDPI,
	}

	if hasAlpha(img) {
		if err := png.Encode(&buf, img); err != nil {
			return Decoded{}, fmt.Errorf("re-encoding %s as png: %w", from, err)
		}
		out.Format = "png"
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return Decoded{}, fmt.Errorf("re-encoding %s as jpeg: %w", from, err)
		}
		out.Format = "jpeg"
	}

	out.Data = buf.Bytes()
	return out, nil
}

// hasAlpha reports whether img may contain non-opaque pixels.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
