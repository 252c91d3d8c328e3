package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the CLI logger: nothing with quiet, debug-level
// development output with verbose, warnings and errors otherwise.
func newLogger(w io.Writer, quiet, verbose bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	level := zapcore.WarnLevel
	if verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
