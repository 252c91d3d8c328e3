// Package numbering implements hierarchical heading counters and the
// prefix formats rendered in front of heading text.
package numbering

import (
	"strconv"
	"strings"
)

// MaxLevel is the deepest heading level tracked.
const MaxLevel = 6

// Built-in format names.
const (
	FormatNone          = "none"
	FormatArabic        = "arabic"
	FormatArabicParen   = "arabic_paren"
	FormatArabicBracket = "arabic_bracket"
	FormatRoman         = "roman"
	FormatRomanLower    = "roman_lower"
	FormatLetter        = "letter"
	FormatLetterLower   = "letter_lower"
	FormatCircle        = "circle"
	FormatChinese       = "chinese"
	FormatChineseParen  = "chinese_paren"
	FormatChapter       = "chapter"
	FormatSection       = "section"
)

var formatters = map[string]func(int) string{
	FormatArabic:        func(n int) string { return strconv.Itoa(n) + "." },
	FormatArabicParen:   func(n int) string { return "(" + strconv.Itoa(n) + ")" },
	FormatArabicBracket: func(n int) string { return "[" + strconv.Itoa(n) + "]" },
	FormatRoman:         func(n int) string { return Roman(n) + "." },
	FormatRomanLower:    func(n int) string { return strings.ToLower(Roman(n)) + "." },
	FormatLetter:        func(n int) string { return Letter(n) + "." },
	FormatLetterLower:   func(n int) string { return strings.ToLower(Letter(n)) + "." },
	FormatCircle:        Circle,
	FormatChinese:       func(n int) string { return Chinese(n) + "、" },
	FormatChineseParen:  func(n int) string { return "（" + Chinese(n) + "）" },
	FormatChapter:       func(n int) string { return "第" + Chinese(n) + "章" },
	FormatSection:       func(n int) string { return "第" + Chinese(n) + "节" },
}

// IsBuiltin reports whether format names a built-in format.
func IsBuiltin(format string) bool {
	_, ok := formatters[format]
	return ok || format == FormatNone || format == ""
}

// Engine holds the per-level heading counters of one conversion.
// It is not safe for concurrent use.
type Engine struct {
	counters [MaxLevel]int
}

// New returns an Engine with all counters at zero.
func New() *Engine {
	return &Engine{}
}

// Next records a heading at level and returns its rendered prefix.
// The counter at level is incremented and every deeper counter reset,
// whatever the format; "none" and "" render nothing. Levels outside
// 1..MaxLevel leave the state untouched and render nothing.
func (e *Engine) Next(level int, format string) string {
	if level < 1 || level > MaxLevel {
		return ""
	}
	e.counters[level-1]++
	for i := level; i < MaxLevel; i++ {
		e.counters[i] = 0
	}
	return Format(e.counters[level-1], format)
}

// Counters returns a copy of the current counter values, level 1 first.
func (e *Engine) Counters() [MaxLevel]int {
	return e.counters
}

// Format renders n through a built-in format name or a custom template.
// Templates replace {n} with the arabic value and {cn} with the Chinese
// numeral; a template without either token is returned unchanged.
func Format(n int, format string) string {
	if format == "" || format == FormatNone {
		return ""
	}
	if f, ok := formatters[format]; ok {
		return f(n)
	}
	return strings.NewReplacer("{n}", strconv.Itoa(n), "{cn}", Chinese(n)).Replace(format)
}
