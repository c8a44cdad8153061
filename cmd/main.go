package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.chisel.dev/pkg"
)

var (
	output     = flag.String("o", chisel.DefaultOutput, "Output executable")
	cc         = flag.String("cc", chisel.DefaultCC, "C compiler")
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	emitIC     = flag.Bool("emit-ic", false, "Output intermediate code")
	emitC      = flag.Bool("emit-c", false, "Output generated C instead of compiling it")
	trace      = flag.Bool("trace", false, "Output timing trace")
	version    = flag.Bool("version", false, "Print version")
)

const Version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chisel %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: chisel [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("chisel version %s\n", Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: Please provide exactly one argument (the file path)")
		flag.Usage()
		os.Exit(1)
	}

	filename := flag.Arg(0)

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(filename))
	case *emitAST:
		os.Exit(runEmitAST(filename))
	case *emitIC:
		os.Exit(runEmitIC(filename))
	}

	os.Exit(run(filename))
}

func newCompiler() *chisel.Compiler {
	tc := chisel.NewToolchain()
	tc.CC = *cc
	tc.Output = *output
	tc.Stdout = os.Stdout
	tc.Stderr = os.Stderr

	opts := []chisel.Option{chisel.WithToolchain(tc)}
	if *trace {
		opts = append(opts, chisel.WithTrace(func(stage string, elapsed time.Duration) {
			fmt.Fprintf(os.Stderr, "%-10s %v\n", stage, elapsed)
		}))
	}

	return chisel.NewCompiler(opts...)
}

func run(filename string) int {
	c := newCompiler()

	if *emitC {
		csrc, err := c.TranslateFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}

		fmt.Println(csrc)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exe, err := c.Compile(ctx, filename)
	if err != nil {
		// The toolchain already streamed its diagnostics to stderr
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Println(exe)
	return 0
}

func readSource(filename string) (string, bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to read file or directory: %v\n", err)
		return "", false
	}

	return string(data), true
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	src, ok := readSource(filename)
	if !ok {
		return 1
	}

	for _, tok := range chisel.Lex(filename, src) {
		fmt.Printf("%-20s %s\n", tok.Loc, tok)
	}

	return 0
}

func parseSource(filename string) (*chisel.AST, bool) {
	src, ok := readSource(filename)
	if !ok {
		return nil, false
	}

	ast, err := chisel.Parse(filename, chisel.Lex(filename, src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		return nil, false
	}

	return ast, true
}

func runEmitAST(filename string) int {
	ast, ok := parseSource(filename)
	if !ok {
		return 1
	}

	fmt.Print(ast)
	return 0
}

func runEmitIC(filename string) int {
	ast, ok := parseSource(filename)
	if !ok {
		return 1
	}

	fmt.Print(chisel.Lower(ast))
	return 0
}
