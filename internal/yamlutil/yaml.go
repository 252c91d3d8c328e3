// Package yamlutil decodes and encodes go-md2docx configuration files.
// Both .yaml and .json configs go through goccy/go-yaml: JSON input is
// read as flow YAML, and --init-config can write either form.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// MaxInputSize caps the size of a config file in bytes.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes a YAML or JSON config into v. Keys without a matching
// field are left for the caller to report.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as block YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// MarshalJSON encodes v as indented JSON, honoring yaml struct tags.
func MarshalJSON(v any) ([]byte, error) {
	result, err := yaml.MarshalWithOptions(v, yaml.JSON(), yaml.Indent(4))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// ErrorPath returns the dotted key path, such as "styles.body.bold", of
// the value a decode error points at. It returns "" when err carries no
// source position or the position is not a value in data.
func ErrorPath(data []byte, err error) string {
	var yerr yaml.Error
	if !errors.As(err, &yerr) {
		return ""
	}
	tk := yerr.GetToken()
	if tk == nil || tk.Position == nil {
		return ""
	}

	file, perr := parser.ParseBytes(data, 0)
	if perr != nil {
		return ""
	}
	f := &pathFinder{line: tk.Position.Line, column: tk.Position.Column}
	for _, doc := range file.Docs {
		if f.path != "" {
			break
		}
		ast.Walk(f, doc)
	}

	path := strings.TrimPrefix(f.path, "$")
	return strings.TrimPrefix(path, ".")
}

// ErrorMessage returns the decode message without goccy's source excerpt.
func ErrorMessage(err error) string {
	var yerr yaml.Error
	if errors.As(err, &yerr) {
		return yerr.GetMessage()
	}
	return err.Error()
}

// pathFinder stops at the first node whose token starts at line:column.
type pathFinder struct {
	line, column int
	path         string
}

func (f *pathFinder) Visit(n ast.Node) ast.Visitor {
	if n == nil || f.path != "" {
		return nil
	}
	if _, ok := n.(*ast.MappingValueNode); !ok {
		if tk := n.GetToken(); tk != nil && tk.Position != nil &&
			tk.Position.Line == f.line && tk.Position.Column == f.column {
			f.path = n.GetPath()
			return nil
		}
	}
	return f
}
