package docxsink

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/style"
)

const defaultCodeStyle = "github"

// InsertCodeBlock writes one shaded paragraph per source line. Tokens are
// colored from the configured palette; unknown languages are written
// plain.
func (s *Sink) InsertCodeBlock(language, code string, st style.Resolved) {
	lines := s.highlight(language, strings.TrimSuffix(code, "\n"), st)
	for _, line := range lines {
		p := s.doc.AddParagraph()
		props := newParagraphProps(st, assemble.ParagraphParams{Style: st})
		if st.BackgroundColor != "" {
			props.Shade = shade(st.BackgroundColor)
		}
		p.Children = append(p.Children, props)
		h := &paragraph{sink: s, p: p}
		for _, tok := range line {
			h.AddRun(tok.text, tok.style, assemble.RunFlags{})
		}
	}
}

type codeToken struct {
	text  string
	style style.Resolved
}

// highlight splits code into lines of styled tokens.
func (s *Sink) highlight(language, code string, st style.Resolved) [][]codeToken {
	lines := [][]codeToken{nil}
	push := func(text string, ts style.Resolved) {
		parts := strings.Split(text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], codeToken{text: part, style: ts})
			}
		}
	}

	lexer := lexers.Get(language)
	if language == "" || lexer == nil {
		push(code, st)
		return lines
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		s.logger.Debug("tokenizing code failed, writing plain text",
			zap.String("language", language),
			zap.Error(err),
		)
		push(code, st)
		return lines
	}

	palette := styles.Get(s.codeStyle)
	for _, tok := range it.Tokens() {
		push(tok.Value, tokenStyle(palette.Get(tok.Type), st))
	}
	// Some lexers append a final newline.
	if n := len(lines); n > 1 && len(lines[n-1]) == 0 && !strings.HasSuffix(code, "\n") {
		lines = lines[:n-1]
	}
	return lines
}

// tokenStyle applies a palette entry to the code style.
func tokenStyle(e chroma.StyleEntry, st style.Resolved) style.Resolved {
	if e.Colour.IsSet() {
		st.Color = strings.ToUpper(strings.TrimPrefix(e.Colour.String(), "#"))
	}
	if e.Bold == chroma.Yes {
		st.Bold = true
	}
	if e.Italic == chroma.Yes {
		st.Italic = true
	}
	return st
}
