// Package mdparse turns Markdown source into a doctree.Document.
//
// Parsing happens in two stages:
//   - preprocessing (line endings, blank lines, ==highlight== markers,
//     one-line $$ formulas)
//   - goldmark parsing with GFM and MathJax extensions, followed by a
//     mapping of the goldmark AST onto the closed doctree model
//
// Constructs without a doctree counterpart, such as raw HTML blocks, are
// dropped.
package mdparse
