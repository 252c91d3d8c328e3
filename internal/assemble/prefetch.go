package assemble

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
	"github.com/alnah/go-md2docx/internal/doctree"
	"github.com/alnah/go-md2docx/internal/imaging"
	"github.com/alnah/go-md2docx/internal/mathml"
)

// imageResult is the outcome of acquiring one image node.
type imageResult struct {
	img       imaging.Decoded
	placement imaging.Placement
	err       error
}

// mathResult is the outcome of converting one formula node.
type mathResult struct {
	frag mathml.Fragment
	err  error
}

// resources holds the per-node results computed before emission, keyed by
// node pointer.
type resources struct {
	images map[any]*imageResult
	math   map[any]*mathResult
}

// prepare fetches every image concurrently and converts every formula.
// Results are indexed by node so emission stays in document order whatever
// order the fetches complete in.
func (d *Driver) prepare(ctx context.Context, doc *doctree.Document) (*resources, error) {
	type imageRef struct {
		node any
		src  string
	}
	type mathRef struct {
		node   any
		latex  string
		inline bool
	}

	var imageRefs []imageRef
	var mathRefs []mathRef
	doctree.Walk(doc.Blocks, func(n any) bool {
		switch n := n.(type) {
		case *doctree.Image:
			imageRefs = append(imageRefs, imageRef{n, n.Source})
		case *doctree.InlineImage:
			imageRefs = append(imageRefs, imageRef{n, n.Source})
		case *doctree.MathBlock:
			mathRefs = append(mathRefs, mathRef{n, n.LaTeX, false})
		case *doctree.InlineMath:
			mathRefs = append(mathRefs, mathRef{n, n.LaTeX, true})
		}
		return true
	})

	res := &resources{
		images: make(map[any]*imageResult, len(imageRefs)),
		math:   make(map[any]*mathResult, len(mathRefs)),
	}

	results := make([]imageResult, len(imageRefs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.parallel, 1))
	for i, ref := range imageRefs {
		g.Go(func() error {
			results[i] = d.fetch(gctx, ref.src)
			return nil
		})
	}
	_ = g.Wait() // per-image errors live in results
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, ref := range imageRefs {
		r := &results[i]
		res.images[ref.node] = r
		if r.err != nil && d.imagePolicy == config.ImageOnErrorAbort {
			return nil, r.err
		}
	}

	for _, ref := range mathRefs {
		frag, err := d.math.Convert(ref.latex, ref.inline)
		if err != nil && !errors.Is(err, docerr.ErrMathConversion) {
			err = docerr.Math(ref.latex, err)
		}
		if err != nil && d.mathPolicy == config.MathOnErrorAbort {
			return nil, err
		}
		res.math[ref.node] = &mathResult{frag: frag, err: err}
	}

	return res, nil
}

func (d *Driver) fetch(ctx context.Context, src string) imageResult {
	if d.images == nil {
		return imageResult{err: docerr.Image(src, ErrNoImageSource)}
	}
	img, err := d.images.Fetch(ctx, src)
	if err != nil {
		if !errors.Is(err, docerr.ErrImageAcquisition) {
			err = docerr.Image(src, err)
		}
		return imageResult{err: err}
	}
	d.logger.Debug("image acquired",
		zap.String("src", src),
		zap.String("format", img.Format),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return imageResult{img: img, placement: imaging.Place(img, d.maxImageWidth)}
}
