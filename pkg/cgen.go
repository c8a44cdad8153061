package chisel

import (
	"fmt"
	"strings"
)

const stdlibInclude = "#include <stdlib.h>\n"

const (
	minExitCode = 0
	maxExitCode = 255
)

var cTypes = map[Type]string{
	TypeVoid: "void",
}

// CGenerator renders a Program as C source.
type CGenerator struct {
	prog *Program
	buf  strings.Builder
}

func NewCGenerator(prog *Program) *CGenerator {
	return &CGenerator{
		prog: prog,
	}
}

// Generate renders prog as C. It only fails on an exit call whose code is
// outside [0, 255].
func Generate(prog *Program) (string, error) {
	return NewCGenerator(prog).Do()
}

func (g *CGenerator) Do() (string, error) {
	g.buf.Reset()

	if callsExit(g.prog.Instructions) {
		g.buf.WriteString(stdlibInclude)
	}

	for _, in := range g.prog.Instructions {
		if err := g.instruction(in); err != nil {
			return "", err
		}
	}

	return g.buf.String(), nil
}

func (g *CGenerator) instruction(in Instruction) error {
	switch i := in.(type) {
	case *LiteralInstr:
		g.buf.WriteString(g.value(i.Value))
		g.buf.WriteByte(';')
	case *ImportInstr:
		// Imports have no C counterpart yet
	case *CallInstr:
		return g.call(i)
	case *FuncInstr:
		return g.function(i)
	}

	return nil
}

func (g *CGenerator) call(i *CallInstr) error {
	switch i.Function {
	case "return":
		arg := ""
		if len(i.Args) > 0 {
			arg = g.value(i.Args[0])
		}
		fmt.Fprintf(&g.buf, "return %s;", arg)
		return nil
	case "exit":
		if err := checkExitCode(i); err != nil {
			return err
		}
	}

	fmt.Fprintf(&g.buf, "%s(%s);", i.Function, g.args(i.Args))
	return nil
}

func checkExitCode(i *CallInstr) error {
	if len(i.Args) == 0 || i.Args[0].Typ != LiteralNumber {
		return nil
	}

	code, err := i.Args[0].Int()
	if err != nil || code < minExitCode || code > maxExitCode {
		return &RangeError{
			Loc:      i.Loc,
			Function: i.Function,
			Value:    i.Args[0].Text,
		}
	}

	return nil
}

func (g *CGenerator) function(i *FuncInstr) error {
	isMain := i.Name == "main"

	ret := "int"
	if !isMain {
		ret = g.typeToC(i.ReturnType)
	}

	params := "void"
	if len(i.Args) > 0 {
		voids := make([]string, len(i.Args))
		for n := range voids {
			voids[n] = "void"
		}
		params = strings.Join(voids, ", ")
	}

	fmt.Fprintf(&g.buf, "%s %s(%s) {", ret, i.Name, params)

	for _, stmt := range i.Body {
		if err := g.instruction(stmt); err != nil {
			return err
		}
	}

	if isMain && !terminates(i.Body) {
		g.buf.WriteString("return 0;")
	}

	g.buf.WriteByte('}')
	return nil
}

func (g *CGenerator) typeToC(t Type) string {
	if c, ok := cTypes[t]; ok {
		return c
	}

	return "void"
}

func (g *CGenerator) args(vals []Value) string {
	args := make([]string, len(vals))
	for n, v := range vals {
		args[n] = g.value(v)
	}

	return strings.Join(args, ", ")
}

func (g *CGenerator) value(v Value) string {
	switch v.Typ {
	case LiteralNumber:
		return v.Text
	case LiteralString:
		return quoteC(v.Text)
	}

	return ""
}

// quoteC renders s as a C string literal.
func quoteC(s string) string {
	var str strings.Builder
	str.WriteByte('"')

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			str.WriteString(`\"`)
		case c == '\\':
			str.WriteString(`\\`)
		case c == '\n':
			str.WriteString(`\n`)
		case c == '\t':
			str.WriteString(`\t`)
		case c == '\r':
			str.WriteString(`\r`)
		case c < 0x20 || c == 0x7f:
			// Always three digits so a following digit is not absorbed
			fmt.Fprintf(&str, `\%03o`, c)
		default:
			str.WriteByte(c)
		}
	}

	str.WriteByte('"')
	return str.String()
}

// terminates reports whether body, or any function nested in it, calls
// return or exit.
func terminates(body []Instruction) bool {
	for _, in := range body {
		switch i := in.(type) {
		case *CallInstr:
			if i.Function == "return" || i.Function == "exit" {
				return true
			}
		case *FuncInstr:
			if terminates(i.Body) {
				return true
			}
		}
	}

	return false
}

func callsExit(ins []Instruction) bool {
	for _, in := range ins {
		switch i := in.(type) {
		case *CallInstr:
			if i.Function == "exit" {
				return true
			}
		case *FuncInstr:
			if callsExit(i.Body) {
				return true
			}
		}
	}

	return false
}
