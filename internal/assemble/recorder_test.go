package assemble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alnah/go-md2docx/internal/imaging"
	"github.com/alnah/go-md2docx/internal/mathml"
	"github.com/alnah/go-md2docx/internal/style"
)

// op is one recorded sink call.
type op struct {
	Kind    string // paragraph, run, image, equation, code, table, toc
	Role    string
	Text    string
	Flags   RunFlags
	Outline int
	List    *ListInfo
	Rule    bool
	Inline  bool
	Width   float64
	Height  float64
	Level   int // toc max level

	Style    style.Resolved
	Table    *TableParams
	Cells    [][]TableCell
	Equation *mathml.Element
}

// recorder is a Sink that records every call in order.
type recorder struct {
	ops []op
}

func (r *recorder) AddParagraph(pp ParagraphParams) Paragraph {
	r.ops = append(r.ops, op{
		Kind:    "paragraph",
		Role:    pp.Role,
		Outline: pp.OutlineLevel,
		List:    pp.List,
		Rule:    pp.Rule,
		Style:   pp.Style,
	})
	return &recordedParagraph{r: r}
}

func (r *recorder) InsertCodeBlock(language, code string, st style.Resolved) {
	r.ops = append(r.ops, op{Kind: "code", Role: language, Text: code, Style: st})
}

func (r *recorder) InsertTable(tp TableParams, rows [][]TableCell) {
	r.ops = append(r.ops, op{Kind: "table", Table: &tp, Cells: rows})
}

func (r *recorder) InsertTOCField(p TOCParams) {
	r.ops = append(r.ops, op{Kind: "toc", Text: p.Title, Level: p.MaxLevel, Style: p.TitleStyle})
}

// kinds returns the op kinds in order.
func (r *recorder) kinds() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.Kind
	}
	return out
}

// byKind returns the ops of one kind.
func (r *recorder) byKind(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

type recordedParagraph struct {
	r *recorder
}

func (p *recordedParagraph) AddRun(text string, st style.Resolved, flags RunFlags) {
	p.r.ops = append(p.r.ops, op{Kind: "run", Text: text, Style: st, Flags: flags})
}

func (p *recordedParagraph) InsertImage(data []byte, w, h float64) {
	p.r.ops = append(p.r.ops, op{Kind: "image", Text: string(data), Width: w, Height: h})
}

func (p *recordedParagraph) InsertEquation(root *mathml.Element, inline bool) {
	p.r.ops = append(p.r.ops, op{Kind: "equation", Inline: inline, Equation: root})
}

// fakeImages serves images from a map. A delay per source lets tests
// finish fetches out of document order.
type fakeImages struct {
	mu      sync.Mutex
	images  map[string]imaging.Decoded
	delays  map[string]time.Duration
	fetched []string
}

var errNotFound = errors.New("404 Not Found")

func (f *fakeImages) Fetch(ctx context.Context, ref string) (imaging.Decoded, error) {
	if d := f.delays[ref]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return imaging.Decoded{}, ctx.Err()
		}
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, ref)
	f.mu.Unlock()

	img, ok := f.images[ref]
	if !ok {
		return imaging.Decoded{}, errNotFound
	}
	return img, nil
}

// fakeMath converts every formula except those listed in fail.
type fakeMath struct {
	fail map[string]bool
}

var errBadFormula = errors.New("undefined control sequence")

func (f *fakeMath) Convert(latex string, inline bool) (mathml.Fragment, error) {
	if f.fail[latex] {
		return mathml.Fragment{}, errBadFormula
	}
	return mathml.Fragment{
		LaTeX:  latex,
		Inline: inline,
		Root:   &mathml.Element{Name: "m:oMath", Text: latex},
	}, nil
}
