package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
)

// Sentinel errors for image acquisition.
var (
	ErrEmptySource      = errors.New("empty image source")
	ErrUnsupportedURI   = errors.New("unsupported image source")
	ErrTooLarge         = errors.New("image exceeds size limit")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// Fetcher loads images from URLs, data URIs and local paths.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	baseDir   string
	localDir  string
	resolvers map[string]func(ctx context.Context, ref string) ([]byte, error)
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the HTTP client. A client without a Timeout
// still gets image.download_timeout per request.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithBaseDir sets the directory relative local paths resolve against,
// normally the directory of the Markdown source.
func WithBaseDir(dir string) FetcherOption {
	return func(f *Fetcher) { f.baseDir = dir }
}

// NewFetcher builds a Fetcher from the image configuration.
func NewFetcher(cfg config.ImageConfig, opts ...FetcherOption) *Fetcher {
	timeout := time.Duration(cfg.DownloadTimeout) * time.Second
	f := &Fetcher{
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		localDir:  cfg.LocalDir,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.resolvers = map[string]func(context.Context, string) ([]byte, error){
		"":      f.readLocal,
		"file":  f.readLocal,
		"http":  f.download,
		"https": f.download,
		"data":  f.decodeDataURI,
	}
	return f
}

// Fetch loads ref and returns it in an embeddable format. Every failure is
// an image acquisition error.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (Decoded, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Decoded{}, docerr.Image(ref, ErrEmptySource)
	}

	resolve, ok := f.resolvers[scheme(ref)]
	if !ok {
		return Decoded{}, docerr.Image(ref, fmt.Errorf("%w: scheme %q", ErrUnsupportedURI, scheme(ref)))
	}

	data, err := resolve(ctx, ref)
	if err != nil {
		return Decoded{}, docerr.Image(ref, err)
	}

	img, err := Normalize(data)
	if err != nil {
		return Decoded{}, docerr.Image(ref, err)
	}
	return img, nil
}

// scheme returns the lower-cased URI scheme of ref, or "" for plain paths.
// Windows drive letters are not schemes.
func scheme(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "data"
	}
	idx := strings.Index(ref, "://")
	if idx <= 1 {
		return ""
	}
	return strings.ToLower(ref[:idx])
}

func (f *Fetcher) download(ctx context.Context, ref string) ([]byte, error) {
	if f.client.Timeout == 0 && f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) readLocal(_ context.Context, ref string) ([]byte, error) {
	path := ref
	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parsing file URI: %w", err)
		}
		path = u.Path
	}

	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = []string{filepath.Join(f.baseDir, path)}
		if f.localDir != "" {
			candidates = append(candidates, filepath.Join(f.baseDir, f.localDir, filepath.Base(path)))
		}
	}

	var firstErr error
	for _, p := range candidates {
		file, err := os.Open(filepath.Clean(p)) // #nosec G304 -- path comes from the document being converted
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		data, err := f.readLimited(file)
		_ = file.Close()
		return data, err
	}
	return nil, firstErr
}

func (f *Fetcher) decodeDataURI(_ context.Context, ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrUnsupportedURI)
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URI is not base64", ErrUnsupportedURI)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes max", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// readLimited reads r up to maxBytes and fails when more is available.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes max", ErrTooLarge, f.maxBytes)
	}
	return buf.Bytes(), nil
}
