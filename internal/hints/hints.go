// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"net"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docerr"
)

// For returns the hint matching err, or "" when none applies.
func For(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrConfigNotFound):
		return ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, docerr.ErrConfig):
		return ForConfigKey(configKey(err))
	case errors.Is(err, docerr.ErrImageAcquisition):
		return ForImage(isTimeout(err))
	case errors.Is(err, docerr.ErrMathConversion):
		return ForMath()
	}
	return ""
}

// ForImage returns hints for an aborted image fetch.
func ForImage(timedOut bool) string {
	var hints []string
	if timedOut {
		hints = append(hints, "raise image.download_timeout for slow hosts")
	}
	hints = append(hints, "set image.on_error to placeholder or skip to continue without the image")
	return formatHints(hints)
}

// ForMath returns a hint for an aborted formula conversion.
func ForMath() string {
	return format("set math.on_error: latex to keep the formula as text")
}

// ForConfigKey points at the offending configuration key.
func ForConfigKey(key string) string {
	if key == "" {
		return format("run with --init-config to see every supported key")
	}
	return format("check " + key + "; run with --init-config to see the defaults")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2docx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2docx") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func configKey(err error) string {
	var ce *docerr.ConfigError
	if errors.As(err, &ce) {
		return ce.Key
	}
	return ""
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// searchedPaths extracts the "tried a, b" list from a not-found error.
func searchedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
