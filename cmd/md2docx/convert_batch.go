package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/hints"
)

// dirPermissions is rwxr-x---: owner full, group read+execute.
const dirPermissions = 0o750

// Sentinel errors for batch operations.
var (
	ErrConverterInit   = errors.New("failed to initialize converter")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration

	Headings       int
	DegradedImages int
	DegradedMath   int
	Skipped        int
}

// batchError reports failed conversions. It unwraps to every failure so
// exit codes and hints follow their kind.
type batchError struct {
	failed int
	total  int
	errs   []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, env *Environment) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ErrConverterInit,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], env)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv FileConverter, f FileToConvert, env *Environment) ConversionResult {
	start := env.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
		result.Duration = env.Now().Sub(start)
		return result
	}

	res, err := conv.ConvertFile(ctx, f.InputPath, f.OutputPath)
	result.Duration = env.Now().Sub(start)
	if err != nil {
		result.Err = err
		return result
	}

	if rep := res.Report; rep != nil {
		result.Headings = len(rep.Headings)
		result.DegradedImages = rep.DegradedImages
		result.DegradedMath = rep.DegradedMath
		result.Skipped = len(rep.Structural)
	}
	env.Logger.Debug("converted",
		zap.String("input", f.InputPath),
		zap.Duration("duration", result.Duration),
	)
	return result
}

// collectErrors returns nil when every conversion succeeded.
func collectErrors(results []ConversionResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.InputPath, r.Err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &batchError{failed: len(errs), total: len(results), errs: errs}
}

// printResults writes one line per file and a summary for batches.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) {
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, resultHint(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d headings", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), r.Headings)
			if n := r.DegradedImages + r.DegradedMath + r.Skipped; n > 0 {
				fmt.Fprintf(env.Stdout, ", %d degraded", n)
			}
			fmt.Fprintln(env.Stdout, ")")
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
}

func resultHint(err error) string {
	if errors.Is(err, ErrCreateOutputDir) {
		return hints.ForOutputDirectory()
	}
	return hints.For(err)
}
