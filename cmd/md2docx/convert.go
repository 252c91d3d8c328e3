package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	md2docx "github.com/alnah/go-md2docx"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *cliFlags, env *Environment) error {
	warnUnknownEnvVars(env)
	applyEnvConfig(loadEnvConfig(env), flags)

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, flags.output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	size := min(md2docx.ResolvePoolSize(flags.workers), len(files))
	env.Logger.Debug("starting conversion",
		zap.Int("files", len(files)),
		zap.Int("workers", size),
	)

	convPool, err := md2docx.NewConverterPool(size,
		md2docx.WithConfig(cfg),
		md2docx.WithLogger(env.Logger),
		md2docx.WithHardWraps(!flags.render.noHardWraps),
		md2docx.WithCodeStyle(flags.render.codeStyle),
	)
	if err != nil {
		return err
	}
	defer convPool.Close()

	results := convertBatch(ctx, &poolAdapter{pool: convPool}, files, env)
	printResults(results, flags.quiet, flags.verbose, env)

	return collectErrors(results)
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*md2docx.Config, error) {
	if name == "" {
		return md2docx.DefaultConfig(), nil
	}
	cfg, err := md2docx.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *cliFlags, cfg *md2docx.Config) {
	if flags.toc.enabled {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.level != 0 {
		cfg.TOC.MaxLevel = flags.toc.level
	}
}
