// Package style resolves per-role style overrides into fully populated
// styles. Every value that reaches a sink operation has been through
// Resolve, so sinks never see unset fields or unknown tokens.
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
)

// errSpacingValue marks a rule whose line_spacing_value is missing or not
// positive.
var errSpacingValue = errors.New("needs line_spacing_value > 0")

// FallbackFont is used when neither the role nor the document names a font.
const FallbackFont = "微软雅黑"

// Fallbacks for fields a role leaves unset.
const (
	fallbackFontSize   = 12.0
	fallbackColor      = "000000"
	fallbackSpaceAfter = 6.0
	fallbackAlignment  = AlignLeft
)

// Alignment is a paragraph justification.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// SpacingRule tells how LineSpacing.Value is interpreted.
type SpacingRule string

const (
	// SpacingMultiple scales the single line height by Value.
	SpacingMultiple SpacingRule = "multiple"
	// SpacingExact fixes the line height at Value points.
	SpacingExact SpacingRule = "exact"
	// SpacingAtLeast sets a minimum line height of Value points.
	SpacingAtLeast SpacingRule = "at_least"
)

// LineSpacing is a resolved line-spacing setting.
type LineSpacing struct {
	Rule  SpacingRule
	Value float64
}

// Resolved is a style with every field populated.
type Resolved struct {
	FontName  string
	FontSize  float64 // points
	Bold      bool
	Italic    bool
	Color     string // upper-case hex RGB, no '#'
	Alignment Alignment

	LineSpacing LineSpacing

	FirstLineIndentChars float64
	FirstLineIndent      float64 // points: chars × font size
	LeftIndent           float64 // inches
	SpaceBefore          float64 // points
	SpaceAfter           float64 // points

	BackgroundColor string // empty when unshaded
	NumberingFormat string // empty when the role is not numbered
}

// chineseSizes maps the named Chinese font sizes to points.
var chineseSizes = map[string]float64{
	"初号": 42,
	"小初": 36,
	"一号": 26,
	"小一": 24,
	"二号": 22,
	"小二": 18,
	"三号": 16,
	"小三": 15,
	"四号": 14,
	"小四": 12,
	"五号": 10.5,
	"小五": 9,
	"六号": 7.5,
	"小六": 6.5,
	"七号": 5.5,
	"八号": 5,
}

// SizeTokens returns the recognized font size names.
func SizeTokens() map[string]float64 {
	out := make(map[string]float64, len(chineseSizes))
	for k, v := range chineseSizes {
		out[k] = v
	}
	return out
}

// Resolve merges override over the built-in style for role and fills the
// remaining gaps from doc and the fallbacks. Invalid values are reported as
// *docerr.ConfigError naming "styles.<role>.<field>".
func Resolve(role string, override *config.StyleConfig, doc config.DocumentConfig) (Resolved, error) {
	canon := config.CanonicalRole(role)
	builtin, ok := config.DefaultStyles()[canon]
	if !ok {
		return Resolved{}, docerr.Configf("styles."+role, "unknown style role")
	}
	sc := builtin.Merge(override)
	key := func(field string) string { return "styles." + canon + "." + field }

	var r Resolved
	var err error

	r.FontName = firstNonEmpty(deref(sc.FontName), doc.DefaultFont, FallbackFont)

	r.FontSize = fallbackFontSize
	if sc.FontSize != nil {
		if r.FontSize, err = FontSizePoints(*sc.FontSize); err != nil {
			return Resolved{}, docerr.Configf(key("font_size"), "%v", err)
		}
	}

	r.Bold = sc.Bold != nil && *sc.Bold
	r.Italic = sc.Italic != nil && *sc.Italic

	r.Color = fallbackColor
	if sc.Color != nil {
		if r.Color, err = NormalizeColor(*sc.Color); err != nil {
			return Resolved{}, docerr.Configf(key("color"), "%v", err)
		}
	}
	if sc.BackgroundColor != nil && *sc.BackgroundColor != "" {
		if r.BackgroundColor, err = NormalizeColor(*sc.BackgroundColor); err != nil {
			return Resolved{}, docerr.Configf(key("background_color"), "%v", err)
		}
	}

	r.Alignment = fallbackAlignment
	if sc.Alignment != nil {
		switch a := Alignment(strings.ToLower(*sc.Alignment)); a {
		case AlignLeft, AlignCenter, AlignRight, AlignJustify:
			r.Alignment = a
		default:
			return Resolved{}, docerr.Configf(key("alignment"), "invalid value %q (must be left, center, right, or justify)", *sc.Alignment)
		}
	}

	// No rule at all means multiple, 1.0 unless a value is given.
	rule, value := "multiple", 1.0
	if sc.LineSpacingValue != nil {
		value = *sc.LineSpacingValue
	}
	if sc.LineSpacingRule != nil {
		rule, value = *sc.LineSpacingRule, deref(sc.LineSpacingValue)
	}
	if r.LineSpacing, err = lineSpacing(rule, value); err != nil {
		field := "line_spacing_rule"
		if errors.Is(err, errSpacingValue) {
			field = "line_spacing_value"
		}
		return Resolved{}, docerr.Configf(key(field), "%v", err)
	}

	lengths := []struct {
		field string
		src   *float64
		dst   *float64
		def   float64
	}{
		{"first_line_indent", sc.FirstLineIndent, &r.FirstLineIndentChars, 0},
		{"left_indent", sc.LeftIndent, &r.LeftIndent, 0},
		{"space_before", sc.SpaceBefore, &r.SpaceBefore, 0},
		{"space_after", sc.SpaceAfter, &r.SpaceAfter, fallbackSpaceAfter},
	}
	for _, l := range lengths {
		*l.dst = l.def
		if l.src == nil {
			continue
		}
		if *l.src < 0 {
			return Resolved{}, docerr.Configf(key(l.field), "must be >= 0, got %g", *l.src)
		}
		*l.dst = *l.src
	}
	r.FirstLineIndent = r.FirstLineIndentChars * r.FontSize

	r.NumberingFormat = deref(sc.NumberingFormat)

	return r, nil
}

// FontSizePoints converts a configured size to points. Numeric strings are
// accepted as points.
func FontSizePoints(fs config.FontSize) (float64, error) {
	var pt float64
	switch {
	case fs.Name == "":
		pt = fs.Points
	default:
		if v, ok := chineseSizes[fs.Name]; ok {
			pt = v
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fs.Name), 64)
		if err != nil {
			return 0, fmt.Errorf("unknown size %q", fs.Name)
		}
		pt = v
	}
	if pt <= 0 {
		return 0, fmt.Errorf("must be > 0, got %g", pt)
	}
	return pt, nil
}

// lineSpacing maps a rule name and value to a LineSpacing.
func lineSpacing(rule string, value float64) (LineSpacing, error) {
	switch strings.ToLower(rule) {
	case "single":
		return LineSpacing{SpacingMultiple, 1.0}, nil
	case "1.5", "one_half", "onehalf":
		return LineSpacing{SpacingMultiple, 1.5}, nil
	case "double":
		return LineSpacing{SpacingMultiple, 2.0}, nil
	case "multiple":
		if value <= 0 {
			return LineSpacing{}, fmt.Errorf("rule %q %w", rule, errSpacingValue)
		}
		return LineSpacing{SpacingMultiple, value}, nil
	case "exact":
		if value <= 0 {
			return LineSpacing{}, fmt.Errorf("rule %q %w", rule, errSpacingValue)
		}
		return LineSpacing{SpacingExact, value}, nil
	case "at_least", "atleast":
		if value <= 0 {
			return LineSpacing{}, fmt.Errorf("rule %q %w", rule, errSpacingValue)
		}
		return LineSpacing{SpacingAtLeast, value}, nil
	default:
		return LineSpacing{}, fmt.Errorf("unknown rule %q", rule)
	}
}

// NormalizeColor validates a 6-digit hex color, with or without a leading
// '#', and returns it upper-cased without the '#'.
func NormalizeColor(s string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid color %q (want 6 hex digits)", s)
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", fmt.Errorf("invalid color %q (want 6 hex digits)", s)
		}
	}
	return strings.ToUpper(hex), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Set holds the resolved style of every known role.
type Set map[string]Resolved

// Get returns the style for role, accepting aliases.
func (s Set) Get(role string) Resolved {
	return s[config.CanonicalRole(role)]
}

// ResolveAll resolves every known role against overrides. An override under
// an alias applies unless the canonical name is also present. Roles are
// resolved in KnownRoles order so the first error reported is stable.
func ResolveAll(overrides map[string]config.StyleConfig, doc config.DocumentConfig) (Set, error) {
	byRole := make(map[string]config.StyleConfig, len(overrides))
	for name, sc := range overrides {
		canon := config.CanonicalRole(name)
		if _, taken := byRole[canon]; taken && name != canon {
			continue
		}
		byRole[canon] = sc
	}

	set := make(Set, len(config.KnownRoles()))
	for _, role := range config.KnownRoles() {
		var over *config.StyleConfig
		if sc, ok := byRole[role]; ok {
			over = &sc
		}
		r, err := Resolve(role, over, doc)
		if err != nil {
			return nil, err
		}
		set[role] = r
	}
	return set, nil
}
