package chisel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(typ TokenType, value string) Token {
	return Token{Typ: typ, Value: value}
}

var (
	tVoid   = tok(TokenTypeName, "void")
	tFn     = tok(TokenFn, "fn")
	tImport = tok(TokenImport, "import")
	tFrom   = tok(TokenFrom, "from")
	tOpenP  = tok(TokenOpenParentheses, "(")
	tCloseP = tok(TokenCloseParentheses, ")")
	tOpenC  = tok(TokenOpenCurly, "{")
	tCloseC = tok(TokenCloseCurly, "}")
	tSemi   = tok(TokenSemicolon, ";")
)

func ident(name string) Token { return tok(TokenIdentifier, name) }
func num(n string) Token      { return tok(TokenNumber, n) }
func str(s string) Token      { return tok(TokenString, s) }

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		expect []Node
	}{
		{
			nil,
			nil,
		},
		{
			[]Token{tVoid, tFn, ident("main"), tOpenP, tCloseP, tOpenC, tCloseC},
			[]Node{
				&FuncDecl{Name: "main", ReturnType: TypeVoid},
			},
		},
		{
			[]Token{
				tVoid, tFn, ident("main"), tOpenP, tCloseP, tOpenC,
				ident("exit"), tOpenP, num("0"), tCloseP, tSemi,
				tCloseC,
			},
			[]Node{
				&FuncDecl{
					Name: "main",
					Body: []Node{
						&FuncCall{
							Name: "exit",
							Args: []Node{&LiteralExpr{Typ: LiteralNumber, Value: "0"}},
						},
					},
					ReturnType: TypeVoid,
				},
			},
		},
		{
			[]Token{tImport, ident("puts"), tFrom, ident("stdio"), tSemi},
			[]Node{
				&Import{Module: "stdio", Name: "puts"},
			},
		},
		{
			[]Token{ident("foo"), tOpenP, tCloseP, tSemi},
			[]Node{
				&FuncCall{Name: "foo"},
			},
		},
		{
			[]Token{ident("puts"), tOpenP, str("hi"), tCloseP, tSemi},
			[]Node{
				&FuncCall{
					Name: "puts",
					Args: []Node{&LiteralExpr{Typ: LiteralString, Value: "hi"}},
				},
			},
		},
		{
			[]Token{
				tVoid, tFn, ident("main"), tOpenP, tCloseP, tOpenC,
				num("42"), tSemi,
				tCloseC,
			},
			[]Node{
				&FuncDecl{
					Name:       "main",
					Body:       []Node{&LiteralExpr{Typ: LiteralNumber, Value: "42"}},
					ReturnType: TypeVoid,
				},
			},
		},
		{
			// Nested declarations keep their own bodies
			[]Token{
				tVoid, tFn, ident("outer"), tOpenP, tCloseP, tOpenC,
				tVoid, tFn, ident("inner"), tOpenP, tCloseP, tOpenC,
				ident("return"), tOpenP, tCloseP, tSemi,
				tCloseC,
				ident("inner"), tOpenP, tCloseP, tSemi,
				tCloseC,
			},
			[]Node{
				&FuncDecl{
					Name: "outer",
					Body: []Node{
						&FuncDecl{
							Name:       "inner",
							Body:       []Node{&FuncCall{Name: "return"}},
							ReturnType: TypeVoid,
						},
						&FuncCall{Name: "inner"},
					},
					ReturnType: TypeVoid,
				},
			},
		},
	}

	for _, c := range cases {
		got, err := NewParser("testing", c.data).Run()
		require.NoError(t, err)

		expect := &AST{
			Filename:   "testing",
			Statements: c.expect,
		}

		assert.Equal(t, expect, got)
	}
}

func TestParserErrors(t *testing.T) {
	cases := []struct {
		name   string
		data   []Token
		reason string
	}{
		{
			"two arguments",
			[]Token{ident("foo"), tOpenP, num("1"), num("2"), tCloseP, tSemi},
			"too many arguments in call to foo: at most one literal is allowed",
		},
		{
			"comma separated arguments",
			[]Token{ident("foo"), tOpenP, str("a"), tok(TokenUnknown, ","), num("2"), tCloseP, tSemi},
			"too many arguments in call to foo: at most one literal is allowed",
		},
		{
			"non literal argument",
			[]Token{ident("foo"), tOpenP, ident("x"), tCloseP, tSemi},
			"expected close paren or literal, got identifier 'x'",
		},
		{
			"import without from",
			[]Token{tImport, ident("puts"), ident("stdio"), tSemi},
			"expected 'from' after import identifier, got identifier 'stdio'",
		},
		{
			"import at EOF",
			[]Token{tImport, ident("puts")},
			"unexpected EOF: expected 'from' after import identifier",
		},
		{
			"import missing semicolon",
			[]Token{tImport, ident("puts"), tFrom, ident("stdio")},
			"unexpected EOF: expected semicolon after import statement",
		},
		{
			"declaration without parentheses",
			[]Token{tVoid, tFn, ident("main"), tOpenC, tCloseC},
			"expected open paren after function name, got '{'",
		},
		{
			"declaration with parameter",
			[]Token{tVoid, tFn, ident("main"), tOpenP, ident("x"), tCloseP, tOpenC, tCloseC},
			"expected close paren after open paren, got identifier 'x'",
		},
		{
			"declaration without fn",
			[]Token{tVoid, ident("main"), tOpenP, tCloseP, tOpenC, tCloseC},
			"expected fn after type, got identifier 'main'",
		},
		{
			"unclosed body",
			[]Token{tVoid, tFn, ident("main"), tOpenP, tCloseP, tOpenC, ident("foo"), tOpenP, tCloseP, tSemi},
			"unexpected EOF: expected close brace in function body",
		},
		{
			"error inside body",
			[]Token{tVoid, tFn, ident("main"), tOpenP, tCloseP, tOpenC, num("42"), tCloseP, tCloseC},
			"unexpected literal",
		},
		{
			"call without semicolon",
			[]Token{ident("foo"), tOpenP, tCloseP},
			"unexpected EOF: expected semicolon after function call",
		},
		{
			"call at EOF",
			[]Token{ident("foo"), tOpenP},
			"unexpected EOF: expected close paren or literal after open paren",
		},
		{"leading literal", []Token{num("1"), num("2"), tSemi}, "unexpected literal"},
		{"literal at EOF", []Token{str("s")}, "unexpected literal"},
		{"leading semicolon", []Token{tSemi}, "unexpected semicolon"},
		{"leading from", []Token{tFrom}, "unexpected from"},
		{"leading fn", []Token{tFn}, "unexpected fn"},
		{"leading open brace", []Token{tOpenC}, "unexpected open brace"},
		{"leading close brace", []Token{tCloseC}, "unexpected close brace"},
		{"leading open paren", []Token{tOpenP}, "unexpected open paren"},
		{"leading close paren", []Token{tCloseP}, "unexpected close paren"},
		{"unknown symbol", []Token{tok(TokenUnknown, "@")}, "syntax error: unknown symbol '@'"},
	}

	for _, c := range cases {
		got, err := NewParser("testing", c.data).Run()
		assert.Nil(t, got, c.name)

		var perr *ParseError
		if assert.ErrorAs(t, err, &perr, c.name) {
			assert.Equal(t, c.reason, perr.Reason, c.name)
		}
	}
}

func TestParserStopsAtFirstError(t *testing.T) {
	toks := Lex("main.ch", "import a from b;\n@ foo(1 2);")

	ast, err := Parse("main.ch", toks)
	assert.Nil(t, ast)
	require.Error(t, err)
	assert.Equal(t, "main.ch:2:1: syntax error: unknown symbol '@'", err.Error())
}

func TestParseLexedSource(t *testing.T) {
	src := `
import puts from stdio;
void fn greet() {
	puts("hello");
}
void fn main() {
	greet(message);
}
`
	_, err := Parse("main.ch", Lex("main.ch", src))
	require.Error(t, err, "call arguments must be literals")

	src = `
import puts from stdio;
void fn greet() { puts("hello"); }
void fn main() { greet(); exit(3); }
`
	ast, err := Parse("main.ch", Lex("main.ch", src))
	require.NoError(t, err)
	require.Len(t, ast.Statements, 3)

	main, ok := ast.Statements[2].(*FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, &Location{Filename: "main.ch", Line: 4, Col: 1, Offset: 60}, main.GetLocation())
	assert.Len(t, main.Body, 2)
}

func TestASTString(t *testing.T) {
	ast := &AST{
		Filename: "main.ch",
		Statements: []Node{
			&Import{Module: "stdio", Name: "puts"},
			&FuncDecl{
				Name: "main",
				Body: []Node{
					&FuncCall{Name: "puts", Args: []Node{&LiteralExpr{Typ: LiteralString, Value: "hi"}}},
				},
			},
		},
	}

	expect := "AST main.ch\n" +
		"  Import puts from stdio\n" +
		"  FuncDecl main() void\n" +
		"    FuncCall puts\n" +
		"      Literal \"hi\"\n"

	assert.Equal(t, expect, ast.String())
}
