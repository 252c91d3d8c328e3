package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/alnah/go-md2docx/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI with args (program name first) and returns the
// process exit code.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args[1:], env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "md2docx %s\n", Version)
		return ExitSuccess
	}

	if flags.completion != "" {
		if err := GenerateCompletion(env.Stdout, Shell(flags.completion)); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	if env.Logger == nil {
		env.Logger = newLogger(env.Stderr, flags.quiet, flags.verbose)
	}
	defer func() { _ = env.Logger.Sync() }()

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env,
	// in which case the runtime default stays in place.
	undo, _ := maxprocs.Set(maxprocs.Logger(env.Logger.Sugar().Debugf))
	defer undo()

	if flags.initConfig != "" {
		err = runInitConfig(flags.initConfig, env)
	} else {
		ctx, stop := notifyContext(context.Background())
		defer stop()
		err = runConvert(ctx, positional, flags, env)
	}

	if err != nil {
		env.Logger.Debug("run failed", zap.Error(err))
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, errorHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// errorHint returns the hint for err. Batch failures were already
// printed per file with their own hints.
func errorHint(err error) string {
	var be *batchError
	if errors.As(err, &be) {
		return ""
	}
	return hints.For(err)
}
