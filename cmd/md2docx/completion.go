package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Type   flagType
	Desc   string
	Values []string // flagEnum
	Exts   []string // flagFile, without dots
}

// completionMeta holds completion hints for flags whose values can be
// enumerated. Names, types and descriptions come from the FlagSet.
type completionMeta struct {
	Values func() []string
	Exts   []string
	IsDir  bool
}

var flagCompletionMeta = map[string]completionMeta{
	"completion":  {Values: func() []string { return []string{string(ShellBash), string(ShellZsh), string(ShellFish)} }},
	"code-style":  {Values: styles.Names},
	"config":      {Exts: []string{"yaml", "yml", "json"}},
	"init-config": {Exts: []string{"yaml", "yml", "json"}},
	"output":      {IsDir: true},
}

// markdownExts are offered for positional arguments.
var markdownExts = []string{"md", "markdown"}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// sorted by long name.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case meta.Values != nil:
				fd.Type = flagEnum
				fd.Values = meta.Values()
			case len(meta.Exts) > 0:
				fd.Type = flagFile
				fd.Exts = meta.Exts
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	flags := extractFlagsFromFlagSet(newFlagSet(&cliFlags{}))

	switch shell {
	case ShellBash:
		return generateBash(w, flags)
	case ShellZsh:
		return generateZsh(w, flags)
	case ShellFish:
		return generateFish(w, flags)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func generateBash(w io.Writer, flags []flagDef) error {
	var b strings.Builder
	var words []string

	b.WriteString("# bash completion for md2docx\n")
	b.WriteString("_md2docx() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		names := "--" + f.Long
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			names += "|-" + f.Short
			words = append(words, "-"+f.Short)
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\")); return ;;\n", names, strings.Join(f.Exts, "|"))
		case flagDir:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
		case flagString, flagInt:
			fmt.Fprintf(&b, "        %s) return ;;\n", names)
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", strings.Join(markdownExts, "|"))
	b.WriteString("}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _md2docx md2docx\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, flags []flagDef) error {
	var b strings.Builder

	b.WriteString("#compdef md2docx\n\n")
	b.WriteString("_arguments -s \\\n")
	for _, f := range flags {
		optSpec := "--" + f.Long
		if f.Short != "" {
			optSpec = fmt.Sprintf("(-%s --%s)'{-%s,--%s}'", f.Short, f.Long, f.Short, f.Long)
		}
		desc := zshEscape(f.Desc)

		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
		case flagFile:
			action = fmt.Sprintf(":%s:_files -g \"*.(%s)\"", f.Long, strings.Join(f.Exts, "|"))
		case flagDir:
			action = fmt.Sprintf(":%s:_files", f.Long)
		case flagString, flagInt:
			action = fmt.Sprintf(":%s: ", f.Long)
		}
		fmt.Fprintf(&b, "  '%s[%s]%s' \\\n", optSpec, desc, action)
	}
	fmt.Fprintf(&b, "  '*:markdown file:_files -g \"*.(%s)\"'\n", strings.Join(markdownExts, "|"))

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, flags []flagDef) error {
	var b strings.Builder

	b.WriteString("# fish completion for md2docx\n")
	for _, f := range flags {
		line := "complete -c md2docx"
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += " -l " + f.Long + " -d " + fishQuote(f.Desc)

		switch f.Type {
		case flagEnum:
			line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
		case flagFile:
			line += " -r -F"
		case flagDir:
			line += " -x -a '(__fish_complete_directories)'"
		case flagString, flagInt:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape escapes characters special inside an _arguments description.
func zshEscape(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
