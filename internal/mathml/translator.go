package mathml

import (
	"bytes"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
)

// Translator turns LaTeX into a MathML document.
type Translator interface {
	ToMathML(latex string) (string, error)
}

// TreebloodTranslator renders LaTeX to MathML with goldmark-treeblood.
// It is safe for concurrent use.
type TreebloodTranslator struct {
	md goldmark.Markdown
}

// NewTreebloodTranslator returns a ready translator.
func NewTreebloodTranslator() *TreebloodTranslator {
	return &TreebloodTranslator{
		md: goldmark.New(goldmark.WithExtensions(treeblood.MathML())),
	}
}

// ToMathML wraps latex in display delimiters and renders it.
func (t *TreebloodTranslator) ToMathML(latex string) (string, error) {
	source := "$$" + strings.TrimSpace(latex) + "$$"

	var buf bytes.Buffer
	if err := t.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering formula: %w", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<math") {
		return "", ErrNoMath
	}
	return out, nil
}
