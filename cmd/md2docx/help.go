package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx [flags] <input.md|dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown files to Word documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --init-config <path>  Write the default config and exit")
	fmt.Fprintln(w, "                            (.json for JSON, - for stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC title (default 目录)")
	fmt.Fprintln(w, "      --toc-level <n>       Deepest heading level (1-6, default 3)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --no-hard-wraps       Join single newlines inside paragraphs")
	fmt.Fprintln(w, "      --code-style <name>   Code highlighting style (default github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "      --completion <shell>  Print a completion script (bash, zsh, fish)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2DOCX_CONFIG            Config used when --config is not set")
	fmt.Fprintln(w, "  MD2DOCX_OUTPUT_DIR        Output directory used when --output is not set")
	fmt.Fprintln(w, "  MD2DOCX_WORKERS           Workers used when --workers is not set")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 error, 2 usage or config, 3 I/O, 4 image or math abort")
}
