package md2docx

import (
	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/config"
)

// Input is one Markdown document to convert.
type Input struct {
	Markdown string
	// SourceDir resolves relative image paths, normally the directory of
	// the Markdown file. Empty means the working directory.
	SourceDir string
}

// Result holds the generated document and what happened while building it.
type Result struct {
	DOCX   []byte
	Report *Report
}

// Report summarizes a conversion: emitted headings, skipped elements and
// degraded images and formulas.
type Report = assemble.Report

// HeadingEntry is a heading as written, numbering prefix included.
type HeadingEntry = assemble.HeadingEntry

// Config is the full conversion configuration.
type Config = config.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig loads a configuration by file path or by name. A name is
// searched as name.json, name.yaml and name.yml in the working directory,
// then in the user config directory under go-md2docx.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// ParseConfig decodes JSON or YAML configuration over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	return config.Parse(data)
}
