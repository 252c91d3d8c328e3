package config

import (
	"fmt"
	"strconv"
)

// Style roles.
const (
	RoleBody        = "body"
	RoleCode        = "code"
	RoleBlockquote  = "blockquote"
	RoleTableHeader = "table_header"
	RoleTableCell   = "table_cell"
	RoleListItem    = "list_item"
)

// roleAliases maps accepted alternative names to canonical roles.
var roleAliases = map[string]string{
	"quote": RoleBlockquote,
}

// HeadingRole returns the role name for a heading level.
func HeadingRole(level int) string {
	return "heading_" + strconv.Itoa(level)
}

// CanonicalRole resolves aliases; unknown names are returned unchanged.
func CanonicalRole(role string) string {
	if canon, ok := roleAliases[role]; ok {
		return canon
	}
	return role
}

// KnownRoles lists every canonical role in a stable order.
func KnownRoles() []string {
	return []string{
		HeadingRole(1), HeadingRole(2), HeadingRole(3),
		HeadingRole(4), HeadingRole(5), HeadingRole(6),
		RoleBody, RoleCode, RoleBlockquote,
		RoleTableHeader, RoleTableCell, RoleListItem,
	}
}

// IsKnownRole reports whether role (or its alias) names a style role.
func IsKnownRole(role string) bool {
	role = CanonicalRole(role)
	for _, r := range KnownRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// StyleConfig is a per-role style override. Nil fields are unset and
// inherit the role default.
type StyleConfig struct {
	FontName         *string   `yaml:"font_name,omitempty"`
	FontSize         *FontSize `yaml:"font_size,omitempty"`
	Bold             *bool     `yaml:"bold,omitempty"`
	Italic           *bool     `yaml:"italic,omitempty"`
	Color            *string   `yaml:"color,omitempty"`
	Alignment        *string   `yaml:"alignment,omitempty"`
	LineSpacingRule  *string   `yaml:"line_spacing_rule,omitempty"`
	LineSpacingValue *float64  `yaml:"line_spacing_value,omitempty"`
	FirstLineIndent  *float64  `yaml:"first_line_indent,omitempty"` // characters
	LeftIndent       *float64  `yaml:"left_indent,omitempty"`       // inches
	SpaceBefore      *float64  `yaml:"space_before,omitempty"`      // points
	SpaceAfter       *float64  `yaml:"space_after,omitempty"`       // points
	BackgroundColor  *string   `yaml:"background_color,omitempty"`
	NumberingFormat  *string   `yaml:"numbering_format,omitempty"`
}

// Merge returns base with every field set in over replacing base's value.
// A line_spacing_rule override also replaces LineSpacingValue, set or not.
func (s StyleConfig) Merge(over *StyleConfig) StyleConfig {
	if over == nil {
		return s
	}
	out := s
	if over.FontName != nil {
		out.FontName = over.FontName
	}
	if over.FontSize != nil {
		out.FontSize = over.FontSize
	}
	if over.Bold != nil {
		out.Bold = over.Bold
	}
	if over.Italic != nil {
		out.Italic = over.Italic
	}
	if over.Color != nil {
		out.Color = over.Color
	}
	if over.Alignment != nil {
		out.Alignment = over.Alignment
	}
	if over.LineSpacingRule != nil {
		out.LineSpacingRule = over.LineSpacingRule
		out.LineSpacingValue = over.LineSpacingValue
	}
	if over.LineSpacingValue != nil {
		out.LineSpacingValue = over.LineSpacingValue
	}
	if over.FirstLineIndent != nil {
		out.FirstLineIndent = over.FirstLineIndent
	}
	if over.LeftIndent != nil {
		out.LeftIndent = over.LeftIndent
	}
	if over.SpaceBefore != nil {
		out.SpaceBefore = over.SpaceBefore
	}
	if over.SpaceAfter != nil {
		out.SpaceAfter = over.SpaceAfter
	}
	if over.BackgroundColor != nil {
		out.BackgroundColor = over.BackgroundColor
	}
	if over.NumberingFormat != nil {
		out.NumberingFormat = over.NumberingFormat
	}
	return out
}

// FontSize is either a point value or a named Chinese size token.
type FontSize struct {
	Points float64
	Name   string
}

// Points returns a numeric FontSize.
func Points(v float64) *FontSize { return &FontSize{Points: v} }

// Named returns a token FontSize such as "小四".
func Named(name string) *FontSize { return &FontSize{Name: name} }

// UnmarshalYAML accepts a number or a string.
func (f *FontSize) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*f = FontSize{Name: v}
	case int:
		*f = FontSize{Points: float64(v)}
	case int64:
		*f = FontSize{Points: float64(v)}
	case uint64:
		*f = FontSize{Points: float64(v)}
	case float64:
		*f = FontSize{Points: v}
	default:
		return fmt.Errorf("font_size: expected number or string, got %T", raw)
	}
	return nil
}

// MarshalYAML writes the token when set, the number otherwise.
func (f FontSize) MarshalYAML() (any, error) {
	if f.Name != "" {
		return f.Name, nil
	}
	return f.Points, nil
}

func (f FontSize) String() string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.FormatFloat(f.Points, 'f', -1, 64)
}

func ptr[T any](v T) *T { return &v }

// DefaultStyles returns the built-in per-role styles. Body text roles carry
// no font name so that document.default_font applies to them.
func DefaultStyles() map[string]StyleConfig {
	heading := func(align string, indent, before, after float64, format string) StyleConfig {
		return StyleConfig{
			FontName:         ptr("黑体"),
			FontSize:         Named("三号"),
			Bold:             ptr(true),
			Alignment:        ptr(align),
			LineSpacingRule:  ptr("exact"),
			LineSpacingValue: ptr(28.0),
			FirstLineIndent:  ptr(indent),
			SpaceBefore:      ptr(before),
			SpaceAfter:       ptr(after),
			NumberingFormat:  ptr(format),
		}
	}
	minor := func(size float64) StyleConfig {
		return StyleConfig{
			FontName:        ptr("黑体"),
			FontSize:        Points(size),
			Bold:            ptr(true),
			Alignment:       ptr("left"),
			LineSpacingRule: ptr("single"),
			SpaceBefore:     ptr(6.0),
			SpaceAfter:      ptr(6.0),
			NumberingFormat: ptr("none"),
		}
	}

	return map[string]StyleConfig{
		HeadingRole(1): heading("center", 0, 24, 12, "chapter"),
		HeadingRole(2): heading("left", 2, 12, 6, "section"),
		HeadingRole(3): heading("center", 0, 6, 6, "chinese"),
		HeadingRole(4): minor(14),
		HeadingRole(5): minor(12),
		HeadingRole(6): minor(12),
		RoleBody: {
			FontSize:         Points(11),
			Alignment:        ptr("justify"),
			LineSpacingRule:  ptr("multiple"),
			LineSpacingValue: ptr(1.5),
			FirstLineIndent:  ptr(2.0),
			SpaceBefore:      ptr(0.0),
			SpaceAfter:       ptr(10.0),
		},
		RoleCode: {
			FontName:        ptr("Consolas"),
			FontSize:        Points(10),
			Alignment:       ptr("left"),
			LineSpacingRule: ptr("single"),
			FirstLineIndent: ptr(0.0),
			SpaceAfter:      ptr(0.0),
			BackgroundColor: ptr("f5f5f5"),
		},
		RoleBlockquote: {
			FontSize:         Points(11),
			Italic:           ptr(true),
			Color:            ptr("666666"),
			Alignment:        ptr("left"),
			LineSpacingRule:  ptr("multiple"),
			LineSpacingValue: ptr(1.5),
			LeftIndent:       ptr(0.5),
			FirstLineIndent:  ptr(0.0),
		},
		RoleTableHeader: {
			FontSize:        Points(11),
			Bold:            ptr(true),
			Alignment:       ptr("center"),
			LineSpacingRule: ptr("single"),
			SpaceAfter:      ptr(0.0),
		},
		RoleTableCell: {
			FontSize:        Points(11),
			Alignment:       ptr("left"),
			LineSpacingRule: ptr("single"),
			SpaceAfter:      ptr(0.0),
		},
		RoleListItem: {
			FontSize:         Points(11),
			Alignment:        ptr("left"),
			LineSpacingRule:  ptr("multiple"),
			LineSpacingValue: ptr(1.5),
			FirstLineIndent:  ptr(0.0),
			SpaceAfter:       ptr(4.0),
		},
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			DefaultFont:         "仿宋",
			PageWidthInches:     8.5,
			PageHeightInches:    11,
			MaxImageWidthInches: 6.0,
		},
		Styles: DefaultStyles(),
		Table: TableConfig{
			BorderStyle: "single",
			BorderColor: "000000",
			BorderWidth: 4,
			Padding:     PaddingConfig{Left: 5.4, Right: 5.4},
			WidthMode:   "auto",
		},
		Image: ImageConfig{
			LocalDir:        "./images",
			DownloadTimeout: 30,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxBytes:        20 << 20,
			OnError:         ImageOnErrorPlaceholder,
			ParallelFetch:   4,
		},
		Math: MathConfig{OnError: MathOnErrorLaTeX},
		TOC: TOCConfig{
			Title:    "目录",
			MaxLevel: 3,
		},
	}
}
