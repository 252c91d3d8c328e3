package md2docx

import (
	"errors"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
)

// Error kinds shared with the conversion stages.
var (
	ErrConfig           = docerr.ErrConfig
	ErrImageAcquisition = docerr.ErrImageAcquisition
	ErrMathConversion   = docerr.ErrMathConversion
	ErrStructural       = docerr.ErrStructural
)

// Config loading errors.
var (
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrConfigParse    = config.ErrConfigParse
)

// Sentinel errors for library operations.
var (
	ErrReadInput   = errors.New("reading input failed")
	ErrWriteOutput = errors.New("writing output failed")
	ErrDocxWrite   = errors.New("DOCX generation failed")
)

// ConfigError names the configuration key that failed validation.
type ConfigError = docerr.ConfigError

// NodeError reports a failure tied to one document element.
type NodeError = docerr.NodeError
