package mdparse

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters. They pass
// through goldmark unchanged and are folded into Highlight nodes when the
// AST is mapped.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)

	// $$ formula $$ on a single line; the block parser wants the fences on
	// their own lines.
	oneLineDisplayMath = regexp.MustCompile(`(?m)^([ \t]*)\$\$([^$\n]+)\$\$[ \t]*$`)
)

// Preprocess normalizes Markdown before parsing.
func Preprocess(content string) string {
	content = normalizeLineEndings(content)
	content = splitDisplayMath(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights transforms ==text== to placeholder markers.
func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, markStart+"$1"+markEnd)
}

// splitDisplayMath rewrites "$$x$$" lines as a fenced math block.
func splitDisplayMath(content string) string {
	return oneLineDisplayMath.ReplaceAllString(content, "$1$$$$\n$1$2\n$1$$$$")
}

// restoreHighlights puts the original == back, for literal contexts such
// as code.
func restoreHighlights(s string) string {
	return strings.NewReplacer(markStart, "==", markEnd, "==").Replace(s)
}
