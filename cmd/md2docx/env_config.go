package main

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const envPrefix = "MD2DOCX_"

// envConfig holds overrides read from MD2DOCX_* variables.
type envConfig struct {
	ConfigPath string // MD2DOCX_CONFIG
	OutputDir  string // MD2DOCX_OUTPUT_DIR
	Workers    int    // MD2DOCX_WORKERS
}

var knownEnvVars = map[string]bool{
	"MD2DOCX_CONFIG":     true,
	"MD2DOCX_OUTPUT_DIR": true,
	"MD2DOCX_WORKERS":    true,
}

// loadEnvConfig reads the MD2DOCX_* variables. A malformed or
// non-positive MD2DOCX_WORKERS is ignored.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.Getenv("MD2DOCX_CONFIG"),
		OutputDir:  env.Getenv("MD2DOCX_OUTPUT_DIR"),
	}
	if workers := env.Getenv("MD2DOCX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars logs MD2DOCX_* variables that nothing reads,
// which are usually typos.
func warnUnknownEnvVars(env *Environment) {
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			env.Logger.Warn("unknown environment variable", zap.String("name", name))
		}
	}
}

// applyEnvConfig fills flags left unset from the environment.
// Priority: flags > environment > config file > defaults.
func applyEnvConfig(ec *envConfig, f *cliFlags) {
	if f.config == "" {
		f.config = ec.ConfigPath
	}
	if f.output == "" {
		f.output = ec.OutputDir
	}
	if f.workers == 0 {
		f.workers = ec.Workers
	}
}
