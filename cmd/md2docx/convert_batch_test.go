package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	md2docx "github.com/alnah/go-md2docx"
)

func batchFiles(t *testing.T, names ...string) []FileToConvert {
	t.Helper()
	in, out := t.TempDir(), t.TempDir()
	files := make([]FileToConvert, 0, len(names))
	for _, n := range names {
		path := filepath.Join(in, n+".md")
		if err := os.WriteFile(path, []byte("# "+n), 0o600); err != nil {
			t.Fatal(err)
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: filepath.Join(out, "nested", n+".docx"),
		})
	}
	return files
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Concurrent conversion through the pool
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	files := batchFiles(t, "a", "b", "c", "d")
	conv := &mockConverter{
		errFor: map[string]error{files[2].InputPath: md2docx.ErrMathConversion},
		report: &md2docx.Report{
			Headings:       []md2docx.HeadingEntry{{Level: 1, Text: "A"}},
			DegradedImages: 1,
		},
	}
	pool := &mockPool{conv: conv, size: 2}
	env, _, _ := testEnv(nil)

	results := convertBatch(context.Background(), pool, files, env)

	if len(results) != len(files) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.InputPath != files[i].InputPath {
			t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
		}
		wantErr := i == 2
		if (r.Err != nil) != wantErr {
			t.Errorf("results[%d].Err = %v, wantErr %v", i, r.Err, wantErr)
		}
		if !wantErr {
			if _, err := os.Stat(r.OutputPath); err != nil {
				t.Errorf("output %s not written: %v", r.OutputPath, err)
			}
			if r.Headings != 1 || r.DegradedImages != 1 {
				t.Errorf("results[%d] report counts = %d headings, %d images, want 1, 1", i, r.Headings, r.DegradedImages)
			}
		}
	}
	if pool.acquired != 2 || pool.released != 2 {
		t.Errorf("acquired/released = %d/%d, want 2/2", pool.acquired, pool.released)
	}

	err := collectErrors(results)
	if !errors.Is(err, md2docx.ErrMathConversion) {
		t.Errorf("collectErrors() = %v, want ErrMathConversion", err)
	}
	if !strings.HasPrefix(err.Error(), "1 of 4") {
		t.Errorf("collectErrors().Error() = %q, want prefix %q", err.Error(), "1 of 4")
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	if got := convertBatch(context.Background(), &mockPool{size: 1}, nil, env); got != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", got)
	}
	if err := collectErrors(nil); err != nil {
		t.Errorf("collectErrors(nil) = %v, want nil", err)
	}
}

func TestConvertBatch_NilConverter(t *testing.T) {
	t.Parallel()

	files := batchFiles(t, "a", "b")
	env, _, _ := testEnv(nil)

	results := convertBatch(context.Background(), &mockPool{size: 1}, files, env)
	for i, r := range results {
		if !errors.Is(r.Err, ErrConverterInit) {
			t.Errorf("results[%d].Err = %v, want ErrConverterInit", i, r.Err)
		}
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	t.Parallel()

	files := batchFiles(t, "a", "b")
	conv := &mockConverter{}
	env, _, _ := testEnv(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := convertBatch(ctx, &mockPool{conv: conv, size: 1}, files, env)
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
	if len(conv.calls) != 0 {
		t.Errorf("converter called %d times after cancel, want 0", len(conv.calls))
	}
}

func TestConvertFile_OutputDirFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv(nil)

	r := convertFile(context.Background(), &mockConverter{}, FileToConvert{
		InputPath:  "a.md",
		OutputPath: filepath.Join(blocker, "sub", "a.docx"),
	}, env)

	if !errors.Is(r.Err, ErrCreateOutputDir) {
		t.Errorf("Err = %v, want ErrCreateOutputDir", r.Err)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults - Output formatting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.docx", Headings: 3},
		{InputPath: "b.md", Err: fmt.Errorf("%w: disk full", md2docx.ErrWriteOutput)},
		{InputPath: "c.md", Err: fmt.Errorf("%w: denied", ErrCreateOutputDir)},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		noStdout   bool
	}{
		{name: "default", wantStdout: []string{"Created a.docx", "1 succeeded, 2 failed"}},
		{name: "verbose", verbose: true, wantStdout: []string{"a.md -> a.docx", "3 headings"}},
		{name: "quiet", quiet: true, noStdout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			printResults(results, tt.quiet, tt.verbose, env)

			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout = %q, want to contain %q", stdout.String(), want)
				}
			}
			if tt.noStdout && stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
			if !strings.Contains(stderr.String(), "FAILED b.md") {
				t.Errorf("stderr = %q, want FAILED line for b.md", stderr.String())
			}
			if !strings.Contains(stderr.String(), "hint: check parent directory") {
				t.Errorf("stderr = %q, want output directory hint", stderr.String())
			}
		})
	}
}
