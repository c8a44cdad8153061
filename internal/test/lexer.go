package test

import (
	"fmt"
	"math/rand"
	"strings"
)

var validTokens = []string{
	"import", "from", "void", "fn", "main", "exit", "return", "puts", "_tmp9",
	"(", ")", "{", "}", ";",
	"0", "42", "255", "007", "99999999999999999999",
	`"this is a string"`, `"escaped \"quote\" and \\ slash"`, `""`,
	"@", ",", "é",
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	var toks []string
	for len(toks) < size {
		toks = append(toks, validTokens[rand.Intn(len(validTokens))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram returns a well-formed program with funcs helper
// functions, each called from main.
func GetRandomProgram(funcs int) string {
	var src strings.Builder
	src.WriteString("import puts from stdio;\n")

	for i := 0; i < funcs; i++ {
		fmt.Fprintf(&src, "void fn f%d() {\n\tputs(\"f%d\");\n\t%d;\n}\n", i, i, rand.Intn(1000))
	}

	src.WriteString("void fn main() {\n")
	for i := 0; i < funcs; i++ {
		fmt.Fprintf(&src, "\tf%d();\n", i)
	}
	fmt.Fprintf(&src, "\texit(%d);\n}\n", rand.Intn(256))

	return src.String()
}
