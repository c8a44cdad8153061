package chisel

import (
	"fmt"
	"strconv"
	"strings"
)

type Opcode int

const (
	OpLiteral Opcode = iota
	OpImport
	OpFunc
	OpCall
)

func (o Opcode) String() string {
	switch o {
	case OpLiteral:
		return "literal"
	case OpImport:
		return "import"
	case OpFunc:
		return "func"
	case OpCall:
		return "call"
	}

	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Instruction is one lowered statement. Function bodies are lowered too, so
// the code generator only ever dispatches over instructions.
type Instruction interface {
	Op() Opcode
	GetLocation() *Location
}

// Value is a literal operand. The zero Value stands for an argument that
// was not a literal and renders as nothing.
type Value struct {
	Typ  LiteralType
	Text string
}

func (v Value) Int() (int64, error) {
	return strconv.ParseInt(v.Text, 10, 64)
}

func (v Value) String() string {
	return literalString(v.Typ, v.Text)
}

type LiteralInstr struct {
	Value Value
	Loc   *Location
}

func (i *LiteralInstr) Op() Opcode             { return OpLiteral }
func (i *LiteralInstr) GetLocation() *Location { return i.Loc }

type ImportInstr struct {
	Module string
	Name   string
	Loc    *Location
}

func (i *ImportInstr) Op() Opcode             { return OpImport }
func (i *ImportInstr) GetLocation() *Location { return i.Loc }

type FuncInstr struct {
	Name       string
	Args       []Instruction
	Body       []Instruction
	ReturnType Type
	Loc        *Location
}

func (i *FuncInstr) Op() Opcode             { return OpFunc }
func (i *FuncInstr) GetLocation() *Location { return i.Loc }

type CallInstr struct {
	Function string
	Args     []Value
	Loc      *Location
}

func (i *CallInstr) Op() Opcode             { return OpCall }
func (i *CallInstr) GetLocation() *Location { return i.Loc }

type Program struct {
	Filename     string
	Instructions []Instruction
}

func (p *Program) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "program %s\n", p.Filename)
	writeInstructions(&str, p.Instructions, 1)

	return str.String()
}

func writeInstructions(str *strings.Builder, ins []Instruction, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, in := range ins {
		switch i := in.(type) {
		case *LiteralInstr:
			fmt.Fprintf(str, "%s%s %s\n", indent, i.Op(), i.Value)
		case *ImportInstr:
			fmt.Fprintf(str, "%s%s %s from %s\n", indent, i.Op(), i.Name, i.Module)
		case *FuncInstr:
			fmt.Fprintf(str, "%s%s %s %s\n", indent, i.Op(), i.Name, i.ReturnType)
			writeInstructions(str, i.Body, depth+1)
		case *CallInstr:
			args := make([]string, len(i.Args))
			for n, arg := range i.Args {
				args[n] = arg.String()
			}
			fmt.Fprintf(str, "%s%s %s(%s)\n", indent, i.Op(), i.Function, strings.Join(args, ", "))
		}
	}
}

type Lowering struct {
	ast *AST
}

func NewLowering(ast *AST) *Lowering {
	return &Lowering{
		ast: ast,
	}
}

// Lower turns ast into a Program, one instruction per statement. It does
// no analysis and never fails.
func Lower(ast *AST) *Program {
	return NewLowering(ast).Do()
}

func (g *Lowering) Do() *Program {
	return &Program{
		Filename:     g.ast.Filename,
		Instructions: g.block(g.ast.Statements),
	}
}

func (g *Lowering) block(nodes []Node) []Instruction {
	if nodes == nil {
		return nil
	}

	ins := make([]Instruction, 0, len(nodes))
	for _, node := range nodes {
		if in := g.visit(node); in != nil {
			ins = append(ins, in)
		}
	}

	return ins
}

func (g *Lowering) visit(node Node) Instruction {
	switch n := node.(type) {
	case *LiteralExpr:
		return &LiteralInstr{
			Value: Value{Typ: n.Typ, Text: n.Value},
			Loc:   n.Loc,
		}
	case *Import:
		return &ImportInstr{
			Module: n.Module,
			Name:   n.Name,
			Loc:    n.Loc,
		}
	case *FuncDecl:
		return &FuncInstr{
			Name:       n.Name,
			Args:       g.block(n.Args),
			Body:       g.block(n.Body),
			ReturnType: n.ReturnType,
			Loc:        n.Loc,
		}
	case *FuncCall:
		return &CallInstr{
			Function: n.Name,
			Args:     g.operands(n.Args),
			Loc:      n.Loc,
		}
	}

	return nil
}

func (g *Lowering) operands(args []Node) []Value {
	if args == nil {
		return nil
	}

	vals := make([]Value, len(args))
	for i, arg := range args {
		if lit, ok := arg.(*LiteralExpr); ok {
			vals[i] = Value{Typ: lit.Typ, Text: lit.Value}
		}
	}

	return vals
}
