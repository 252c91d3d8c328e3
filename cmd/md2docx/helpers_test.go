package main

import (
	"bytes"
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	md2docx "github.com/alnah/go-md2docx"
)

// testEnv returns an Environment with captured output, a fixed clock and
// an empty process environment.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Logger: zap.NewNop(),
	}
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converter and pool
// ---------------------------------------------------------------------------

type mockConverter struct {
	mu     sync.Mutex
	calls  []string
	errFor map[string]error
	report *md2docx.Report
}

func (m *mockConverter) ConvertFile(_ context.Context, in, out string) (*md2docx.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()

	if err := m.errFor[in]; err != nil {
		return nil, err
	}
	if err := os.WriteFile(out, []byte("PK mock"), 0o600); err != nil {
		return nil, err
	}
	return &md2docx.Result{DOCX: []byte("PK mock"), Report: m.report}, nil
}

type mockPool struct {
	conv     FileConverter
	size     int
	acquired int
	released int
	mu       sync.Mutex
}

func (p *mockPool) Acquire() FileConverter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.conv
}

func (p *mockPool) Release(FileConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *mockPool) Size() int { return p.size }
