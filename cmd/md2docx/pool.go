package main

import (
	"context"
	"fmt"

	md2docx "github.com/alnah/go-md2docx"
)

// FileConverter converts one Markdown file into a DOCX file.
type FileConverter interface {
	ConvertFile(ctx context.Context, inputPath, outputPath string) (*md2docx.Result, error)
}

// Compile-time interface implementation check.
var _ FileConverter = (*md2docx.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() FileConverter
	Release(FileConverter)
	Size() int
}

// poolAdapter exposes a md2docx.ConverterPool as a Pool.
type poolAdapter struct {
	pool *md2docx.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire returns nil once the pool is closed.
func (a *poolAdapter) Acquire() FileConverter {
	conv := a.pool.Acquire()
	if conv == nil {
		return nil
	}
	return conv
}

// Release panics when c did not come from this adapter.
func (a *poolAdapter) Release(c FileConverter) {
	conv, ok := c.(*md2docx.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
