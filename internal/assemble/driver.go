package assemble

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/doctree"
	"github.com/alnah/go-md2docx/internal/imaging"
	"github.com/alnah/go-md2docx/internal/mathml"
	"github.com/alnah/go-md2docx/internal/style"
	"github.com/alnah/go-md2docx/internal/table"
)

// ImageSource acquires and decodes the image behind a reference.
type ImageSource interface {
	Fetch(ctx context.Context, ref string) (imaging.Decoded, error)
}

// MathConverter turns LaTeX into an equation fragment.
type MathConverter interface {
	Convert(latex string, inline bool) (mathml.Fragment, error)
}

// Compile-time interface implementation checks.
var (
	_ ImageSource   = (*imaging.Fetcher)(nil)
	_ MathConverter = (*mathml.Adapter)(nil)
)

// Driver assembles documents for one configuration. Its settings are
// resolved once in NewDriver and read-only afterwards, so a Driver can run
// several conversions concurrently; each Run owns its numbering state.
type Driver struct {
	styles style.Set
	table  table.Params

	maxImageWidth float64
	toc           config.TOCConfig
	imagePolicy   string
	mathPolicy    string
	parallel      int

	images ImageSource
	math   MathConverter
	logger *zap.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithImageSource sets the image collaborator. Without one, every image
// fails acquisition and follows the image policy.
func WithImageSource(src ImageSource) Option {
	return func(d *Driver) { d.images = src }
}

// WithMathConverter sets the formula collaborator.
func WithMathConverter(mc MathConverter) Option {
	return func(d *Driver) {
		if mc != nil {
			d.math = mc
		}
	}
}

// WithLogger sets the logger for degraded nodes.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// ErrNoImageSource is reported for images when the driver has no source.
var ErrNoImageSource = errors.New("no image source configured")

// NewDriver validates cfg and resolves every style role and the table
// parameters. Configuration errors surface here, before any sink call.
func NewDriver(cfg *config.Config, opts ...Option) (*Driver, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	styles, err := style.ResolveAll(cfg.Styles, cfg.Document)
	if err != nil {
		return nil, err
	}
	tp, err := table.Format(cfg.Table)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		styles:        styles,
		table:         tp,
		maxImageWidth: cfg.Document.MaxImageWidthInches,
		toc:           cfg.TOC,
		imagePolicy:   cfg.Image.OnError,
		mathPolicy:    cfg.Math.OnError,
		parallel:      cfg.Image.ParallelFetch,
		math:          mathml.NewAdapter(nil),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Styles returns the resolved style set.
func (d *Driver) Styles() style.Set {
	return d.styles
}

// HeadingEntry is a heading as emitted, numbering prefix included.
type HeadingEntry struct {
	Level int
	Text  string
}

// Report summarizes a completed assembly.
type Report struct {
	Headings       []HeadingEntry
	Structural     []error // elements skipped for malformed structure
	DegradedImages int
	DegradedMath   int
}

// Err joins the structural errors, or returns nil when there are none.
func (r *Report) Err() error {
	return errors.Join(r.Structural...)
}

// Run assembles doc into sink. Images are fetched before the first sink
// call; with the abort policy, an image or formula failure is returned
// before anything is emitted. Structural errors are not fatal: the element
// is skipped and the error is recorded in the report.
func (d *Driver) Run(ctx context.Context, doc *doctree.Document, sink Sink) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("assemble: nil document")
	}
	if sink == nil {
		return nil, fmt.Errorf("assemble: nil sink")
	}

	res, err := d.prepare(ctx, doc)
	if err != nil {
		return nil, err
	}

	a := newAssembly(d, sink, res)
	a.blocks(doc.Blocks, scope{})

	if d.toc.Enabled {
		sink.InsertTOCField(TOCParams{
			Title:      d.toc.Title,
			TitleStyle: d.styles.Get(config.HeadingRole(1)),
			MaxLevel:   d.toc.MaxLevel,
		})
	}
	return a.report, nil
}
