// Package docerr defines the error kinds shared by the conversion stages.
// Each typed error matches its sentinel through errors.Is so callers can
// branch on the kind without knowing the concrete type.
package docerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind.
var (
	ErrConfig           = errors.New("invalid configuration")
	ErrImageAcquisition = errors.New("image acquisition failed")
	ErrMathConversion   = errors.New("math conversion failed")
	ErrStructural       = errors.New("malformed document structure")
)

// ConfigError identifies the configuration key that failed validation.
type ConfigError struct {
	Key    string // dotted path, e.g. "styles.body.font_size"
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %s", ErrConfig, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrConfig, e.Key, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Configf builds a ConfigError for key with a formatted reason.
func Configf(key, format string, args ...any) *ConfigError {
	return &ConfigError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// NodeError reports a failure tied to one document node.
type NodeError struct {
	Kind error  // one of the sentinels above
	Node string // short description, e.g. `image "logo.png"`
	Err  error
}

func (e *NodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Node)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Node, e.Err)
}

// Is matches the node error's kind sentinel.
func (e *NodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Image wraps err as an ImageAcquisitionError for src.
func Image(src string, err error) *NodeError {
	return &NodeError{Kind: ErrImageAcquisition, Node: fmt.Sprintf("image %q", src), Err: err}
}

// Math wraps err as a MathConversionError for the given formula.
func Math(latex string, err error) *NodeError {
	return &NodeError{Kind: ErrMathConversion, Node: fmt.Sprintf("formula %q", truncate(latex, 40)), Err: err}
}

// Structural reports a tree invariant violation at node.
func Structural(node, format string, args ...any) *NodeError {
	return &NodeError{Kind: ErrStructural, Node: node, Err: fmt.Errorf(format, args...)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
