package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled bool
	title   string
	level   int
}

// renderFlags holds flags that tune the generated document.
type renderFlags struct {
	noHardWraps bool
	codeStyle   string
}

// cliFlags holds every md2docx flag.
type cliFlags struct {
	output     string
	config     string
	workers    int
	initConfig string
	quiet      bool
	verbose    bool
	version    bool
	completion string
	toc        tocFlags
	render     renderFlags
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents title (default 目录)")
	fs.IntVar(&f.level, "toc-level", 0, "deepest heading level in the TOC (1-6, default 3)")
}

// addRenderFlags adds document rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.noHardWraps, "no-hard-wraps", false, "join single newlines inside paragraphs")
	fs.StringVar(&f.codeStyle, "code-style", "", "syntax highlighting style for code blocks")
}

// newFlagSet registers every flag on a new FlagSet bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("md2docx", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.initConfig, "init-config", "", "write the default config to a path (.json for JSON, - for stdout) and exit")
	fs.StringVar(&f.completion, "completion", "", "print a shell completion script (bash, zsh, fish) and exit")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "show version information")

	addTOCFlags(fs, &f.toc)
	addRenderFlags(fs, &f.render)
	return fs
}

// parseFlags parses args (program name excluded) and returns the
// positional arguments. Usage goes to w.
func parseFlags(args []string, w io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
