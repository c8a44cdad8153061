package chisel

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// DefaultFlags is the strict gcc configuration generated programs are
// built with.
var DefaultFlags = []string{
	"-std=c2x", "-pedantic-errors", "-Wall", "-Wextra", "-Wconversion", "-Wshadow",
	"-Wstrict-aliasing=3", "-Wcast-align", "-Wcast-qual", "-Wwrite-strings",
	"-Wformat=2", "-Wswitch-enum", "-Wswitch-default", "-Wfloat-equal", "-Wundef",
	"-Wredundant-decls", "-Wpointer-arith", "-Winit-self", "-Wmissing-declarations",
	"-Wmissing-prototypes", "-Wstrict-prototypes", "-Wold-style-definition", "-Werror",
	"-fno-common", "-O3", "-flto", "-march=native", "-funroll-loops",
	"-fstack-protector-strong", "-fstack-clash-protection", "-D_FORTIFY_SOURCE=2",
	"-fPIC",
	"-fsanitize=undefined,address,leak,signed-integer-overflow,shift,alignment,bounds,object-size,float-divide-by-zero,float-cast-overflow",
	"-fno-omit-frame-pointer", "-fvisibility=hidden",
}

const (
	DefaultCC     = "gcc"
	DefaultOutput = "./a.out"
)

// Toolchain builds generated C into a native executable.
type Toolchain struct {
	CC     string
	Flags  []string
	Output string

	// Stdout and Stderr receive the compiler's output when set. Stderr is
	// also kept for the returned error.
	Stdout io.Writer
	Stderr io.Writer
}

func NewToolchain() *Toolchain {
	return &Toolchain{
		CC:     DefaultCC,
		Flags:  append([]string(nil), DefaultFlags...),
		Output: DefaultOutput,
	}
}

// Available reports whether the C compiler can be found.
func (t *Toolchain) Available() bool {
	_, err := exec.LookPath(t.CC)
	return err == nil
}

// Build compiles csrc and returns the path of the produced executable.
func (t *Toolchain) Build(ctx context.Context, csrc string) (string, error) {
	src, err := os.CreateTemp("", "chisel-*.c")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp source file")
	}
	defer os.Remove(src.Name())

	if _, err := src.WriteString(csrc); err != nil {
		src.Close()
		return "", errors.Wrap(err, "failed to write temp source file")
	}

	if err := src.Close(); err != nil {
		return "", errors.Wrap(err, "failed to write temp source file")
	}

	args := append(append([]string(nil), t.Flags...), src.Name(), "-o", t.Output)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.CC, args...)
	cmd.Stdout = t.Stdout
	cmd.Stderr = &stderr
	if t.Stderr != nil {
		cmd.Stderr = io.MultiWriter(t.Stderr, &stderr)
	}

	if err := cmd.Run(); err != nil {
		return "", &ToolchainError{
			CC:     t.CC,
			Args:   args,
			Output: stderr.String(),
			Err:    err,
		}
	}

	return t.Output, nil
}
