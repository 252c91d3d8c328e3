package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2docx/internal/docerr"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxFontNameLength  = 64
	MaxUserAgentLength = 512
	MaxLocalDirLength  = 4096
	MaxTOCTitleLength  = 100
	MaxTemplateLength  = 100 // custom numbering templates
)

// Image and math failure policies.
const (
	ImageOnErrorPlaceholder = "placeholder"
	ImageOnErrorSkip        = "skip"
	ImageOnErrorAbort       = "abort"

	MathOnErrorLaTeX = "latex"
	MathOnErrorAbort = "abort"
)

// Config holds all configuration for document generation.
// Sections absent from a file keep their DefaultConfig values; Styles holds
// only the overrides found in the file.
type Config struct {
	Document DocumentConfig         `yaml:"document"`
	Styles   map[string]StyleConfig `yaml:"styles,omitempty"`
	Table    TableConfig            `yaml:"table"`
	Image    ImageConfig            `yaml:"image"`
	Math     MathConfig             `yaml:"math"`
	TOC      TOCConfig              `yaml:"toc"`

	// Warnings lists unknown keys found while loading. Not serialized.
	Warnings []string `yaml:"-"`
}

// DocumentConfig holds document-wide settings.
type DocumentConfig struct {
	DefaultFont         string  `yaml:"default_font"`
	PageWidthInches     float64 `yaml:"page_width_inches"`
	PageHeightInches    float64 `yaml:"page_height_inches"`
	MaxImageWidthInches float64 `yaml:"max_image_width_inches"`
}

// TableConfig drives table rendering. Colors are hex RGB; an empty color
// means "unset".
type TableConfig struct {
	BorderStyle           string        `yaml:"border_style"`
	BorderColor           string        `yaml:"border_color"`
	BorderWidth           int           `yaml:"border_width"` // eighths of a point
	HeaderBackgroundColor string        `yaml:"header_background_color,omitempty"`
	CellBackgroundColor   string        `yaml:"cell_background_color,omitempty"`
	AlternatingRowColor   string        `yaml:"alternating_row_color,omitempty"`
	Padding               PaddingConfig `yaml:"padding"`
	WidthMode             string        `yaml:"width_mode"`
	WidthInches           float64       `yaml:"width_inches,omitempty"`
}

// PaddingConfig is cell padding in points.
type PaddingConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// ImageConfig controls image acquisition.
type ImageConfig struct {
	LocalDir        string `yaml:"local_dir"`
	DownloadTimeout int    `yaml:"download_timeout"` // seconds
	UserAgent       string `yaml:"user_agent"`
	MaxBytes        int64  `yaml:"max_bytes"`
	OnError         string `yaml:"on_error"`
	ParallelFetch   int    `yaml:"parallel_fetch"`
}

// MathConfig controls formula translation failures.
type MathConfig struct {
	OnError string `yaml:"on_error"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`
	MaxLevel int    `yaml:"max_level"`
}

// Validate checks the document, image, math and TOC sections.
// Styles and table settings are checked when they are resolved.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}

	if err := validateFieldLength("document.default_font", c.Document.DefaultFont, MaxFontNameLength); err != nil {
		return err
	}
	if c.Document.MaxImageWidthInches <= 0 {
		return docerr.Configf("document.max_image_width_inches", "must be > 0, got %g", c.Document.MaxImageWidthInches)
	}
	if c.Document.PageWidthInches < 0 || c.Document.PageHeightInches < 0 {
		return docerr.Configf("document.page_width_inches", "page dimensions must be >= 0")
	}

	if err := validateFieldLength("image.user_agent", c.Image.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}
	if err := validateFieldLength("image.local_dir", c.Image.LocalDir, MaxLocalDirLength); err != nil {
		return err
	}
	if c.Image.DownloadTimeout <= 0 {
		return docerr.Configf("image.download_timeout", "must be > 0 seconds, got %d", c.Image.DownloadTimeout)
	}
	if c.Image.MaxBytes <= 0 {
		return docerr.Configf("image.max_bytes", "must be > 0, got %d", c.Image.MaxBytes)
	}
	if c.Image.ParallelFetch < 1 {
		return docerr.Configf("image.parallel_fetch", "must be >= 1, got %d", c.Image.ParallelFetch)
	}
	switch c.Image.OnError {
	case ImageOnErrorPlaceholder, ImageOnErrorSkip, ImageOnErrorAbort:
	default:
		return docerr.Configf("image.on_error", "invalid value %q (must be placeholder, skip, or abort)", c.Image.OnError)
	}

	switch c.Math.OnError {
	case MathOnErrorLaTeX, MathOnErrorAbort:
	default:
		return docerr.Configf("math.on_error", "invalid value %q (must be latex or abort)", c.Math.OnError)
	}

	if err := validateFieldLength("toc.title", c.TOC.Title, MaxTOCTitleLength); err != nil {
		return err
	}
	if c.TOC.MaxLevel < 1 || c.TOC.MaxLevel > 6 {
		return docerr.Configf("toc.max_level", "must be between 1 and 6, got %d", c.TOC.MaxLevel)
	}

	for role, sc := range c.Styles {
		if sc.FontName != nil {
			if err := validateFieldLength("styles."+role+".font_name", *sc.FontName, MaxFontNameLength); err != nil {
				return err
			}
		}
		if sc.NumberingFormat != nil {
			if err := validateFieldLength("styles."+role+".numbering_format", *sc.NumberingFormat, MaxTemplateLength); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %w", ErrFieldTooLong, docerr.Configf(fieldName, "%d chars, max %d", len(value), maxLength))
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes JSON or YAML config data over the defaults.
// Unknown keys inside known sections are collected in Config.Warnings.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Styles = nil

	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, &docerr.ConfigError{
			Key:    yamlutil.ErrorPath(data, err),
			Reason: yamlutil.ErrorMessage(err),
		})
	}

	var raw map[string]any
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.Warnings = unknownKeys(raw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .json, .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2docx/
func resolveConfigPath(name string) (string, error) {
	if filepath.Ext(name) != "" && fileutil.FileExists(name) {
		return name, nil
	}

	extensions := []string{".json", ".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2docx", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Marshal encodes cfg for --init-config. JSON is used when asJSON is set,
// YAML otherwise.
func Marshal(cfg *Config, asJSON bool) ([]byte, error) {
	if asJSON {
		return yamlutil.MarshalJSON(cfg)
	}
	return yamlutil.Marshal(cfg)
}
