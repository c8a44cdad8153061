package chisel

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// TraceFunc receives the time spent in each pipeline stage.
type TraceFunc func(stage string, elapsed time.Duration)

type Compiler struct {
	toolchain *Toolchain
	trace     TraceFunc
}

type Option func(c *Compiler)

func WithToolchain(t *Toolchain) Option {
	return func(c *Compiler) {
		c.toolchain = t
	}
}

func WithTrace(fn TraceFunc) Option {
	return func(c *Compiler) {
		c.trace = fn
	}
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		toolchain: NewToolchain(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile translates the file at path and builds it, returning the path of
// the executable.
func (c *Compiler) Compile(ctx context.Context, path string) (string, error) {
	csrc, err := c.TranslateFile(path)
	if err != nil {
		return "", err
	}

	defer c.stage("compile", time.Now())

	exe, err := c.toolchain.Build(ctx, csrc)
	if err != nil {
		return "", errors.Wrap(err, "compile")
	}

	return exe, nil
}

func (c *Compiler) TranslateFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "unable to read file")
	}
	defer f.Close()

	return c.Translate(path, f)
}

// Translate runs the whole pipeline over the source read from reader and
// returns the generated C. It stops at the first stage that fails.
func (c *Compiler) Translate(filename string, reader io.Reader) (string, error) {
	start := time.Now()
	lexer := NewLexer(filename, reader)
	tokens := lexer.Run()
	if err := lexer.Err(); err != nil {
		return "", errors.Wrapf(err, "unable to read %s", filename)
	}
	c.stage("lex", start)

	start = time.Now()
	ast, err := Parse(filename, tokens)
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}
	c.stage("parse", start)

	start = time.Now()
	prog := Lower(ast)
	c.stage("lower", start)

	start = time.Now()
	csrc, err := Generate(prog)
	if err != nil {
		return "", errors.Wrap(err, "generate")
	}
	c.stage("generate", start)

	return csrc, nil
}

func (c *Compiler) stage(name string, start time.Time) {
	if c.trace != nil {
		c.trace(name, time.Since(start))
	}
}
