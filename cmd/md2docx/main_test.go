package main

// Notes:
// - runMain is exercised end to end with real conversions into temp dirs.
// - Signal handling is not tested; notifyContext is a thin wrapper.

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2docx/internal/config"
)

const sampleMarkdown = `# Intro

Body text with **bold** and $x^2$.

## Scope

| a | b |
|---|---|
| 1 | 2 |
`

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// documentXML returns word/document.xml from the DOCX at path.
func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatalf("%s has no word/document.xml", path)
	return ""
}

// ---------------------------------------------------------------------------
// TestRunMain - Exit codes and end-to-end runs
// ---------------------------------------------------------------------------

func TestRunMain_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeMarkdown(t, dir, "report.md", sampleMarkdown)
	env, stdout, stderr := testEnv(nil)

	code := runMain([]string{"md2docx", "--toc", in}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (stderr %q)", code, ExitSuccess, stderr.String())
	}

	out := filepath.Join(dir, "report.docx")
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q, want Created line", stdout.String())
	}

	xml := documentXML(t, out)
	for _, want := range []string{"第一章", "第一节", "TOC", "m:oMath"} {
		if !strings.Contains(xml, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestRunMain_Directory(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeMarkdown(t, src, "a.md", "# A\n")
	writeMarkdown(t, src, filepath.Join("sub", "b.md"), "# B\n")
	out := filepath.Join(t.TempDir(), "out")
	env, stdout, stderr := testEnv(nil)

	code := runMain([]string{"md2docx", "-w", "2", "-o", out, src}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (stderr %q)", code, ExitSuccess, stderr.String())
	}

	for _, p := range []string{filepath.Join(out, "a.docx"), filepath.Join(out, "sub", "b.docx")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", stdout.String())
	}
}

func TestRunMain_OutputFromEnvironment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeMarkdown(t, dir, "a.md", "# A\n")
	out := filepath.Join(t.TempDir(), "env-out")
	env, _, stderr := testEnv(map[string]string{"MD2DOCX_OUTPUT_DIR": out})

	if code := runMain([]string{"md2docx", "-q", in}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (stderr %q)", code, ExitSuccess, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "a.docx")); err != nil {
		t.Errorf("expected output in MD2DOCX_OUTPUT_DIR: %v", err)
	}
}

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := writeMarkdown(t, dir, "a.md", "# A\n")
	txt := writeMarkdown(t, dir, "a.txt", "# A\n")
	abort := writeMarkdown(t, dir, "img.md", "![x](missing.png)\n")
	abortCfg := writeMarkdown(t, dir, "abort.yaml", "image:\n  on_error: abort\n")
	badCfg := writeMarkdown(t, dir, "bad.yaml", "styles:\n  body:\n    font_size: 大号\n")

	tests := []struct {
		name       string
		args       []string
		want       int
		wantStderr string
	}{
		{"version", []string{"--version"}, ExitSuccess, ""},
		{"help", []string{"--help"}, ExitSuccess, "Usage: md2docx"},
		{"unknown flag", []string{"--bogus"}, ExitUsage, "unknown flag"},
		{"no input", []string{}, ExitIO, "no input specified"},
		{"missing file", []string{filepath.Join(dir, "nope.md")}, ExitIO, "no such file"},
		{"wrong extension", []string{txt}, ExitUsage, ".md or .markdown"},
		{"too many workers", []string{"-w", "99", md}, ExitUsage, "invalid worker count"},
		{"toc level out of range", []string{"--toc-level", "9", md}, ExitUsage, "toc.max_level"},
		{"config not found", []string{"-c", "does-not-exist", md}, ExitUsage, "config file not found"},
		{"invalid style", []string{"-c", badCfg, md}, ExitUsage, "hint: check styles.body.font_size"},
		{"image abort", []string{"-c", abortCfg, abort}, ExitAbort, "image.on_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv(nil)
			got := runMain(append([]string{"md2docx"}, tt.args...), env)
			if got != tt.want {
				t.Errorf("runMain(%v) = %d, want %d (stderr %q)", tt.args, got, tt.want, stderr.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "img.docx")); !os.IsNotExist(err) {
		t.Errorf("aborted conversion left an output file (stat err %v)", err)
	}
}

// ---------------------------------------------------------------------------
// TestRunInitConfig - Default config export
// ---------------------------------------------------------------------------

func TestRunInitConfig(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"md2docx.yaml", "md2docx.json"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			env, stdout, stderr := testEnv(nil)

			if code := runMain([]string{"md2docx", "--init-config", path}, env); code != ExitSuccess {
				t.Fatalf("runMain() = %d, want %d (stderr %q)", code, ExitSuccess, stderr.String())
			}
			if !strings.Contains(stdout.String(), "Created "+path) {
				t.Errorf("stdout = %q, want Created line", stdout.String())
			}

			cfg, err := config.LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig(%s) error = %v", path, err)
			}
			if len(cfg.Warnings) != 0 {
				t.Errorf("written config has unknown keys: %v", cfg.Warnings)
			}

			env, _, stderr = testEnv(nil)
			if code := runMain([]string{"md2docx", "--init-config", path}, env); code != ExitUsage {
				t.Errorf("second --init-config = %d, want %d", code, ExitUsage)
			}
			if !strings.Contains(stderr.String(), "already exists") {
				t.Errorf("stderr = %q, want already exists", stderr.String())
			}
		})
	}
}

func TestRunInitConfig_Stdout(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	if err := runInitConfig("-", env); err != nil {
		t.Fatalf("runInitConfig(-) error = %v", err)
	}
	for _, key := range []string{"document:", "styles:", "heading_1:", "toc:"} {
		if !strings.Contains(stdout.String(), key) {
			t.Errorf("stdout missing %q", key)
		}
	}
}
