package md2docx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docxsink"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/imaging"
	"github.com/alnah/go-md2docx/internal/mdparse"
)

// Compile-time interface implementation checks.
var (
	_ assemble.Sink        = (*docxsink.Sink)(nil)
	_ assemble.ImageSource = (*imaging.Fetcher)(nil)
)

// outputPerm is the mode of written documents.
const outputPerm = 0o644

// Converter runs the markdown-to-DOCX pipeline for one configuration.
// It is safe for concurrent use; each conversion owns its numbering state.
type Converter struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *http.Client
	hardWraps bool
	codeStyle string

	parser *mdparse.Parser
	images assemble.ImageSource   // nil means a Fetcher per conversion
	math   assemble.MathConverter // nil means the driver default
}

// Option configures a Converter.
type Option func(*Converter)

// WithConfig sets the configuration. A nil cfg keeps the defaults.
func WithConfig(cfg *Config) Option {
	return func(c *Converter) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// WithLogger sets the logger for conversion events and degraded elements.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient sets the client used to download remote images. A
// non-zero client Timeout replaces image.download_timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) { c.client = client }
}

// WithHardWraps controls whether single newlines inside a paragraph become
// line breaks. Enabled by default.
func WithHardWraps(enabled bool) Option {
	return func(c *Converter) { c.hardWraps = enabled }
}

// WithCodeStyle selects the syntax highlighting palette for code blocks
// by chroma style name. Unknown names fall back to chroma's default.
func WithCodeStyle(name string) Option {
	return func(c *Converter) { c.codeStyle = name }
}

// NewConverter creates a Converter. The configuration is validated and
// every style resolved here, so configuration errors surface before any
// document is converted.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:       config.DefaultConfig(),
		logger:    zap.NewNop(),
		hardWraps: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := assemble.NewDriver(c.cfg); err != nil {
		return nil, err
	}
	for _, w := range c.cfg.Warnings {
		c.logger.Warn("ignoring config key", zap.String("key", w))
	}

	c.parser = mdparse.New(mdparse.WithHardWraps(c.hardWraps))
	return c, nil
}

// Config returns the configuration in use. It must not be modified.
func (c *Converter) Config() *Config {
	return c.cfg
}

// Convert runs the full pipeline and returns the document bytes.
// The context cancels image downloads and the wait for the parser.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	doc, err := c.parser.Parse(ctx, input.Markdown)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown: %w", err)
	}

	driver, err := assemble.NewDriver(c.cfg,
		assemble.WithImageSource(c.imageSource(input.SourceDir)),
		assemble.WithMathConverter(c.math),
		assemble.WithLogger(c.logger),
	)
	if err != nil {
		return nil, err
	}

	sink := docxsink.New(c.cfg.Document,
		docxsink.WithLogger(c.logger),
		docxsink.WithCodeStyle(c.codeStyle),
	)
	report, err := driver.Run(ctx, doc, sink)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := sink.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocxWrite, err)
	}

	c.logger.Debug("converted document",
		zap.Int("bytes", buf.Len()),
		zap.Int("headings", len(report.Headings)),
		zap.Int("degraded_images", report.DegradedImages),
		zap.Int("degraded_math", report.DegradedMath),
		zap.Int("skipped", len(report.Structural)),
	)
	return &Result{DOCX: buf.Bytes(), Report: report}, nil
}

// ConvertFile converts the Markdown file at inputPath and writes the
// document to outputPath. Relative images resolve against the input's
// directory. The output appears only when the conversion succeeds.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	result, err := c.Convert(ctx, Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(inputPath),
	})
	if err != nil {
		return nil, err
	}

	if err := fileutil.WriteFileAtomic(outputPath, result.DOCX, outputPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	c.logger.Info("wrote document",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
	)
	return result, nil
}

func (c *Converter) imageSource(sourceDir string) assemble.ImageSource {
	if c.images != nil {
		return c.images
	}
	return imaging.NewFetcher(c.cfg.Image,
		imaging.WithHTTPClient(c.client),
		imaging.WithBaseDir(sourceDir),
	)
}
