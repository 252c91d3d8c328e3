package assemble

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
	"github.com/alnah/go-md2docx/internal/doctree"
	"github.com/alnah/go-md2docx/internal/imaging"
	"github.com/alnah/go-md2docx/internal/style"
	"github.com/alnah/go-md2docx/internal/table"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func txt(s string) *doctree.Text { return &doctree.Text{Text: s} }

func heading(level int, s string) *doctree.Heading {
	return &doctree.Heading{Level: level, Content: []doctree.Inline{txt(s)}}
}

func para(inlines ...doctree.Inline) *doctree.Paragraph {
	return &doctree.Paragraph{Content: inlines}
}

func document(blocks ...doctree.Block) *doctree.Document {
	return &doctree.Document{Blocks: blocks}
}

func newDriver(t *testing.T, cfg *config.Config, opts ...Option) *Driver {
	t.Helper()
	d, err := NewDriver(cfg, opts...)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	return d
}

func run(t *testing.T, d *Driver, doc *doctree.Document) (*recorder, *Report) {
	t.Helper()
	rec := &recorder{}
	report, err := d.Run(context.Background(), doc, rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return rec, report
}

// ignoreDetail compares ops by kind, text, flags and placement only.
var ignoreDetail = cmpopts.IgnoreFields(op{}, "Style", "Table", "Cells", "Equation")

func png(w, h int) imaging.Decoded {
	return imaging.Decoded{Data: []byte("png"), Format: "png", Width: w, Height: h}
}

// ---------------------------------------------------------------------------
// TestNewDriver
// ---------------------------------------------------------------------------

func TestNewDriver_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{
			name: "fixed width without width_inches",
			mutate: func(c *config.Config) {
				c.Table.WidthMode = table.WidthFixed
			},
			wantKey: "table.width_inches",
		},
		{
			name: "unknown font size token",
			mutate: func(c *config.Config) {
				c.Styles = map[string]config.StyleConfig{
					"body": {FontSize: config.Named("大号")},
				}
			},
			wantKey: "styles.body.font_size",
		},
		{
			name: "exact spacing without value",
			mutate: func(c *config.Config) {
				rule := "exact"
				zero := 0.0
				c.Styles = map[string]config.StyleConfig{
					"code": {LineSpacingRule: &rule, LineSpacingValue: &zero},
				}
			},
			wantKey: "styles.code.line_spacing_value",
		},
		{
			name: "bad image policy",
			mutate: func(c *config.Config) {
				c.Image.OnError = "retry"
			},
			wantKey: "image.on_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			_, err := NewDriver(cfg)
			if !errors.Is(err, docerr.ErrConfig) {
				t.Fatalf("NewDriver() error = %v, want ErrConfig", err)
			}
			var ce *docerr.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("NewDriver() error type = %T, want *docerr.ConfigError", err)
			}
			if ce.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", ce.Key, tt.wantKey)
			}
		})
	}
}

func TestNewDriver_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	d := newDriver(t, nil)
	if got := d.Styles().Get("heading_1").NumberingFormat; got != "chapter" {
		t.Errorf("heading_1 numbering = %q, want %q", got, "chapter")
	}
}

// ---------------------------------------------------------------------------
// TestRun - end to end
// ---------------------------------------------------------------------------

func TestRun_HeadingParagraphTable(t *testing.T) {
	t.Parallel()

	doc := document(
		heading(1, "Introduction"),
		para(txt("Body text.")),
		&doctree.Table{
			Header: doctree.Row{{txt("A")}, {txt("B")}},
			Rows:   []doctree.Row{{{txt("1")}, {txt("2")}}},
		},
	)

	rec, report := run(t, newDriver(t, config.DefaultConfig()), doc)

	want := []op{
		{Kind: "paragraph", Role: "heading_1", Outline: 1},
		{Kind: "run", Text: "第一章"},
		{Kind: "run", Text: "Introduction"},
		{Kind: "paragraph", Role: "body"},
		{Kind: "run", Text: "Body text."},
		{Kind: "table"},
	}
	if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}

	if got := rec.ops[0].Style.Alignment; got != style.AlignCenter {
		t.Errorf("heading alignment = %q, want %q", got, style.AlignCenter)
	}
	if got := rec.ops[3].Style.Alignment; got != style.AlignJustify {
		t.Errorf("body alignment = %q, want %q", got, style.AlignJustify)
	}

	tbl := rec.ops[5]
	if tbl.Table.Border.Style != table.BorderSingle {
		t.Errorf("border = %q, want %q", tbl.Table.Border.Style, table.BorderSingle)
	}
	if tbl.Table.Columns != 2 || !tbl.Table.Header {
		t.Errorf("table = %d columns header=%v, want 2 columns with header", tbl.Table.Columns, tbl.Table.Header)
	}
	for i, row := range tbl.Cells {
		for j, cell := range row {
			if cell.Params.Shading != "" {
				t.Errorf("cell[%d][%d] shading = %q, want none", i, j, cell.Params.Shading)
			}
		}
	}
	if !tbl.Cells[0][0].Params.Header || tbl.Cells[1][0].Params.Header {
		t.Error("only the first row should be a header row")
	}
	if !tbl.Cells[0][0].Style.Bold {
		t.Error("header cell style should be bold")
	}

	wantHeadings := []HeadingEntry{{Level: 1, Text: "第一章Introduction"}}
	if diff := cmp.Diff(wantHeadings, report.Headings); diff != "" {
		t.Errorf("Headings mismatch (-want +got):\n%s", diff)
	}
	if report.Err() != nil {
		t.Errorf("Report.Err() = %v, want nil", report.Err())
	}
}

func TestRun_HeadingNumbering(t *testing.T) {
	t.Parallel()

	doc := document(
		heading(1, "a"),
		heading(2, "b"),
		heading(2, "c"),
		heading(3, "d"),
		heading(1, "e"),
		heading(2, "f"),
		heading(4, "g"),
	)

	_, report := run(t, newDriver(t, config.DefaultConfig()), doc)

	want := []HeadingEntry{
		{1, "第一章a"},
		{2, "第一节b"},
		{2, "第二节c"},
		{3, "一、d"},
		{1, "第二章e"},
		{2, "第一节f"},
		{4, "g"},
	}
	if diff := cmp.Diff(want, report.Headings); diff != "" {
		t.Errorf("Headings mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_NumberingPrefixIsOwnRun(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	format := "arabic"
	cfg.Styles = map[string]config.StyleConfig{"heading_4": {NumberingFormat: &format}}

	rec, _ := run(t, newDriver(t, cfg), document(heading(4, "Scope")))

	runs := rec.byKind("run")
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Text != "1." || runs[1].Text != "Scope" {
		t.Errorf("runs = %q, %q, want %q, %q", runs[0].Text, runs[1].Text, "1.", "Scope")
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	doc := document(
		heading(1, "x"),
		para(&doctree.Bold{Content: []doctree.Inline{txt("y")}}),
		&doctree.List{Ordered: true, Start: 1, Items: []doctree.ListItem{
			{Blocks: []doctree.Block{para(txt("z"))}},
		}},
		&doctree.MathBlock{LaTeX: "x^2"},
	)
	d := newDriver(t, config.DefaultConfig(), WithMathConverter(&fakeMath{}))

	first, _ := run(t, d, doc)
	second, _ := run(t, d, doc)
	if diff := cmp.Diff(first.ops, second.ops); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestRun - table of contents
// ---------------------------------------------------------------------------

func TestRun_TOC(t *testing.T) {
	t.Parallel()

	t.Run("enabled emits field last", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.TOC = config.TOCConfig{Enabled: true, Title: "Contents", MaxLevel: 2}

		rec, _ := run(t, newDriver(t, cfg), document(heading(1, "a"), para(txt("b"))))

		last := rec.ops[len(rec.ops)-1]
		if last.Kind != "toc" {
			t.Fatalf("last op = %q, want toc", last.Kind)
		}
		if last.Text != "Contents" || last.Level != 2 {
			t.Errorf("toc = (%q, %d), want (%q, 2)", last.Text, last.Level, "Contents")
		}
		if n := len(rec.byKind("toc")); n != 1 {
			t.Errorf("toc calls = %d, want 1", n)
		}
	})

	t.Run("disabled emits nothing", func(t *testing.T) {
		t.Parallel()
		rec, _ := run(t, newDriver(t, config.DefaultConfig()), document(heading(1, "a")))
		if n := len(rec.byKind("toc")); n != 0 {
			t.Errorf("toc calls = %d, want 0", n)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRun - inline formatting
// ---------------------------------------------------------------------------

func TestRun_InlineFlags(t *testing.T) {
	t.Parallel()

	doc := document(para(
		txt("a"),
		&doctree.Bold{Content: []doctree.Inline{txt("b")}},
		&doctree.BoldItalic{Content: []doctree.Inline{txt("c")}},
		&doctree.Strikethrough{Content: []doctree.Inline{txt("d")}},
		&doctree.Highlight{Content: []doctree.Inline{txt("e")}},
		&doctree.Link{URL: "https://x", Content: []doctree.Inline{
			&doctree.Italic{Content: []doctree.Inline{txt("f")}},
		}},
		&doctree.InlineCode{Code: "g"},
		&doctree.LineBreak{},
	))

	rec, _ := run(t, newDriver(t, config.DefaultConfig()), doc)

	want := []op{
		{Kind: "paragraph", Role: "body"},
		{Kind: "run", Text: "a"},
		{Kind: "run", Text: "b", Flags: RunFlags{Bold: true}},
		{Kind: "run", Text: "c", Flags: RunFlags{Bold: true, Italic: true}},
		{Kind: "run", Text: "d", Flags: RunFlags{Strike: true}},
		{Kind: "run", Text: "e", Flags: RunFlags{Highlight: true}},
		{Kind: "run", Text: "f", Flags: RunFlags{Italic: true, Link: "https://x"}},
		{Kind: "run", Text: "g", Flags: RunFlags{Code: true}},
		{Kind: "run", Text: "\n"},
	}
	if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}

	code := rec.ops[7].Style
	if code.FontName != "Consolas" {
		t.Errorf("inline code font = %q, want %q", code.FontName, "Consolas")
	}
	if code.FontSize != rec.ops[1].Style.FontSize {
		t.Errorf("inline code size = %v, want paragraph size %v", code.FontSize, rec.ops[1].Style.FontSize)
	}
}

// ---------------------------------------------------------------------------
// TestRun - lists, quotes, code
// ---------------------------------------------------------------------------

func TestRun_Lists(t *testing.T) {
	t.Parallel()

	done := true
	doc := document(&doctree.List{Ordered: true, Start: 3, Items: []doctree.ListItem{
		{Blocks: []doctree.Block{
			para(txt("first")),
			para(txt("more")),
			&doctree.List{Items: []doctree.ListItem{
				{Checked: &done, Blocks: []doctree.Block{para(txt("nested"))}},
			}},
		}},
		{Blocks: []doctree.Block{para(txt("second"))}},
		{},
	}})

	rec, _ := run(t, newDriver(t, config.DefaultConfig()), doc)

	want := []op{
		{Kind: "paragraph", Role: "list_item", List: &ListInfo{Level: 0, Ordered: true, Index: 3}},
		{Kind: "run", Text: "first"},
		{Kind: "paragraph", Role: "list_item", List: &ListInfo{Level: 0, Ordered: true, Index: 3, Continued: true}},
		{Kind: "run", Text: "more"},
		{Kind: "paragraph", Role: "list_item", List: &ListInfo{Level: 1, Index: 1, Checked: &done}},
		{Kind: "run", Text: "nested"},
		{Kind: "paragraph", Role: "list_item", List: &ListInfo{Level: 0, Ordered: true, Index: 4}},
		{Kind: "run", Text: "second"},
		{Kind: "paragraph", Role: "list_item", List: &ListInfo{Level: 0, Ordered: true, Index: 5}},
	}
	if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BlockQuoteAndCode(t *testing.T) {
	t.Parallel()

	doc := document(
		&doctree.BlockQuote{Blocks: []doctree.Block{
			para(txt("quoted")),
			&doctree.CodeBlock{Language: "go", Text: "x := 1"},
		}},
		&doctree.ThematicBreak{},
	)

	rec, _ := run(t, newDriver(t, config.DefaultConfig()), doc)

	want := []op{
		{Kind: "paragraph", Role: "blockquote"},
		{Kind: "run", Text: "quoted"},
		{Kind: "code", Role: "go", Text: "x := 1"},
		{Kind: "paragraph", Role: "body", Rule: true},
	}
	if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if !rec.ops[0].Style.Italic {
		t.Error("blockquote style should be italic")
	}
	code := rec.ops[2].Style
	if code.BackgroundColor != "F5F5F5" {
		t.Errorf("code background = %q, want %q", code.BackgroundColor, "F5F5F5")
	}
	if code.LeftIndent != 0.5 {
		t.Errorf("code left indent in quote = %v, want 0.5", code.LeftIndent)
	}
}

// ---------------------------------------------------------------------------
// TestRun - structural errors
// ---------------------------------------------------------------------------

func TestRun_StructuralErrorsSkipElement(t *testing.T) {
	t.Parallel()

	doc := document(
		&doctree.Table{
			Header: doctree.Row{{txt("A")}},
			Rows:   []doctree.Row{{}},
		},
		&doctree.Heading{Level: 7, Content: []doctree.Inline{txt("deep")}},
		para(txt("after")),
	)

	rec, report := run(t, newDriver(t, config.DefaultConfig()), doc)

	if diff := cmp.Diff([]string{"paragraph", "run"}, rec.kinds()); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if len(report.Structural) != 2 {
		t.Fatalf("len(Structural) = %d, want 2", len(report.Structural))
	}
	err := report.Err()
	if !errors.Is(err, docerr.ErrStructural) {
		t.Errorf("Report.Err() = %v, want ErrStructural", err)
	}
}

// ---------------------------------------------------------------------------
// TestRun - images
// ---------------------------------------------------------------------------

func TestRun_ImageOrderUnderParallelFetch(t *testing.T) {
	t.Parallel()

	const n = 6
	src := &fakeImages{
		images: make(map[string]imaging.Decoded),
		delays: make(map[string]time.Duration),
	}
	var blocks []doctree.Block
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("img%d.png", i)
		src.images[name] = imaging.Decoded{Data: []byte(name), Format: "png", Width: 96, Height: 96}
		src.delays[name] = time.Duration(n-i) * 5 * time.Millisecond
		blocks = append(blocks, &doctree.Image{Source: name})
	}

	cfg := config.DefaultConfig()
	cfg.Image.ParallelFetch = n
	rec, _ := run(t, newDriver(t, cfg, WithImageSource(src)), document(blocks...))

	images := rec.byKind("image")
	if len(images) != n {
		t.Fatalf("len(images) = %d, want %d", len(images), n)
	}
	for i, img := range images {
		if want := fmt.Sprintf("img%d.png", i); img.Text != want {
			t.Errorf("image[%d] = %q, want %q", i, img.Text, want)
		}
	}
}

func TestRun_ImagePlacement(t *testing.T) {
	t.Parallel()

	src := &fakeImages{images: map[string]imaging.Decoded{
		"wide.png":  png(1152, 576), // 12in x 6in at 96 dpi
		"small.png": png(192, 96),
	}}
	doc := document(
		&doctree.Image{Source: "wide.png"},
		para(txt("x"), &doctree.InlineImage{Source: "small.png"}),
	)

	rec, _ := run(t, newDriver(t, config.DefaultConfig(), WithImageSource(src)), doc)

	images := rec.byKind("image")
	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(images))
	}
	if images[0].Width != 6 || images[0].Height != 3 {
		t.Errorf("wide = %vx%v, want 6x3", images[0].Width, images[0].Height)
	}
	if images[1].Width != 2 || images[1].Height != 1 {
		t.Errorf("small = %vx%v, want 2x1", images[1].Width, images[1].Height)
	}
	if rec.ops[0].Style.Alignment != style.AlignCenter {
		t.Errorf("image paragraph alignment = %q, want center", rec.ops[0].Style.Alignment)
	}
}

func TestRun_ImagePolicies(t *testing.T) {
	t.Parallel()

	doc := document(
		&doctree.Image{Source: "missing.png", Alt: "Logo"},
		para(txt("see "), &doctree.InlineImage{Source: "gone.png"}),
	)

	t.Run("placeholder", func(t *testing.T) {
		t.Parallel()
		d := newDriver(t, config.DefaultConfig(), WithImageSource(&fakeImages{}))
		rec, report := run(t, d, doc)

		want := []op{
			{Kind: "paragraph", Role: "body"},
			{Kind: "run", Text: "[Image: Logo]"},
			{Kind: "paragraph", Role: "body"},
			{Kind: "run", Text: "see "},
			{Kind: "run", Text: "[Image: gone.png]"},
		}
		if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
			t.Fatalf("ops mismatch (-want +got):\n%s", diff)
		}
		ph := rec.ops[1].Style
		if !ph.Italic || ph.Color != "808080" {
			t.Errorf("placeholder style italic=%v color=%q, want italic 808080", ph.Italic, ph.Color)
		}
		if report.DegradedImages != 2 {
			t.Errorf("DegradedImages = %d, want 2", report.DegradedImages)
		}
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Image.OnError = config.ImageOnErrorSkip
		rec, _ := run(t, newDriver(t, cfg, WithImageSource(&fakeImages{})), doc)

		want := []op{
			{Kind: "paragraph", Role: "body"},
			{Kind: "run", Text: "see "},
		}
		if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("abort before any sink call", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Image.OnError = config.ImageOnErrorAbort
		d := newDriver(t, cfg, WithImageSource(&fakeImages{}))

		rec := &recorder{}
		_, err := d.Run(context.Background(), doc, rec)
		if !errors.Is(err, docerr.ErrImageAcquisition) {
			t.Fatalf("Run() error = %v, want ErrImageAcquisition", err)
		}
		if !errors.Is(err, errNotFound) {
			t.Errorf("Run() error = %v, want cause %v", err, errNotFound)
		}
		if len(rec.ops) != 0 {
			t.Errorf("len(ops) = %d, want 0", len(rec.ops))
		}
	})

	t.Run("no source configured", func(t *testing.T) {
		t.Parallel()
		rec, _ := run(t, newDriver(t, config.DefaultConfig()), document(&doctree.Image{Source: "a.png", Alt: "A"}))
		if got := rec.byKind("run"); len(got) != 1 || got[0].Text != "[Image: A]" {
			t.Errorf("runs = %+v, want one placeholder", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRun - math
// ---------------------------------------------------------------------------

func TestRun_Math(t *testing.T) {
	t.Parallel()

	mc := &fakeMath{fail: map[string]bool{`\bad`: true}}
	doc := document(
		&doctree.MathBlock{LaTeX: `\frac{a}{b}`},
		para(txt("area "), &doctree.InlineMath{LaTeX: "x^2"}, txt(" or "), &doctree.InlineMath{LaTeX: `\bad`}),
	)

	t.Run("latex fallback", func(t *testing.T) {
		t.Parallel()
		rec, report := run(t, newDriver(t, config.DefaultConfig(), WithMathConverter(mc)), doc)

		want := []op{
			{Kind: "paragraph", Role: "body"},
			{Kind: "equation", Inline: false},
			{Kind: "paragraph", Role: "body"},
			{Kind: "run", Text: "area "},
			{Kind: "equation", Inline: true},
			{Kind: "run", Text: " or "},
			{Kind: "run", Text: `[LaTeX: \bad]`, Flags: RunFlags{Code: true}},
		}
		if diff := cmp.Diff(want, rec.ops, ignoreDetail); diff != "" {
			t.Fatalf("ops mismatch (-want +got):\n%s", diff)
		}
		if got := rec.ops[1].Equation.Text; got != `\frac{a}{b}` {
			t.Errorf("equation = %q, want %q", got, `\frac{a}{b}`)
		}
		if report.DegradedMath != 1 {
			t.Errorf("DegradedMath = %d, want 1", report.DegradedMath)
		}
	})

	t.Run("abort", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Math.OnError = config.MathOnErrorAbort
		d := newDriver(t, cfg, WithMathConverter(mc))

		rec := &recorder{}
		_, err := d.Run(context.Background(), doc, rec)
		if !errors.Is(err, docerr.ErrMathConversion) {
			t.Fatalf("Run() error = %v, want ErrMathConversion", err)
		}
		if !errors.Is(err, errBadFormula) {
			t.Errorf("Run() error = %v, want cause %v", err, errBadFormula)
		}
		if len(rec.ops) != 0 {
			t.Errorf("len(ops) = %d, want 0", len(rec.ops))
		}
	})
}

func TestRun_NilArguments(t *testing.T) {
	t.Parallel()

	d := newDriver(t, nil)
	if _, err := d.Run(context.Background(), nil, &recorder{}); err == nil {
		t.Error("Run(nil doc) error = nil, want error")
	}
	if _, err := d.Run(context.Background(), document(), nil); err == nil {
		t.Error("Run(nil sink) error = nil, want error")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDriver(t, nil, WithImageSource(&fakeImages{}))
	_, err := d.Run(ctx, document(&doctree.Image{Source: "a.png"}), &recorder{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
