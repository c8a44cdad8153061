package chisel

import (
	"fmt"
	"strconv"
	"strings"
)

type AST struct {
	Filename   string
	Statements []Node
}

type Node interface {
	GetLocation() *Location
}

type Type int

const (
	TypeVoid Type = iota
)

var typeTable = map[string]Type{
	"void": TypeVoid,
}

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

type LiteralType int

const (
	LiteralNone LiteralType = iota
	LiteralNumber
	LiteralString
)

type LiteralExpr struct {
	Typ   LiteralType
	Value string
	Loc   *Location
}

func (e *LiteralExpr) GetLocation() *Location { return e.Loc }

type Import struct {
	Module string
	Name   string
	Loc    *Location
}

func (e *Import) GetLocation() *Location { return e.Loc }

type FuncDecl struct {
	Name       string
	Args       []Node
	Body       []Node
	ReturnType Type
	Loc        *Location
}

func (e *FuncDecl) GetLocation() *Location { return e.Loc }

// FuncCall holds at most one argument, always a *LiteralExpr.
type FuncCall struct {
	Name string
	Args []Node
	Loc  *Location
}

func (e *FuncCall) GetLocation() *Location { return e.Loc }

func (a *AST) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "AST %s\n", a.Filename)
	for _, stmt := range a.Statements {
		writeNode(&str, stmt, 1)
	}

	return str.String()
}

func writeNode(str *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *LiteralExpr:
		fmt.Fprintf(str, "%sLiteral %s\n", indent, literalString(n.Typ, n.Value))
	case *Import:
		fmt.Fprintf(str, "%sImport %s from %s\n", indent, n.Name, n.Module)
	case *FuncDecl:
		fmt.Fprintf(str, "%sFuncDecl %s() %s\n", indent, n.Name, n.ReturnType)
		for _, stmt := range n.Body {
			writeNode(str, stmt, depth+1)
		}
	case *FuncCall:
		fmt.Fprintf(str, "%sFuncCall %s\n", indent, n.Name)
		for _, arg := range n.Args {
			writeNode(str, arg, depth+1)
		}
	default:
		fmt.Fprintf(str, "%s%T\n", indent, n)
	}
}

func literalString(typ LiteralType, value string) string {
	switch typ {
	case LiteralString:
		return strconv.Quote(value)
	case LiteralNumber:
		return value
	}

	return "<none>"
}
