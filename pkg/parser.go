package chisel

import "fmt"

type Parser struct {
	filename string
	tokens   []Token
	pos      int
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		filename: filename,
		tokens:   tokens,
	}
}

// Parse builds the AST for tokens. The first structural error aborts the
// parse and no AST is returned.
func Parse(filename string, tokens []Token) (*AST, error) {
	return NewParser(filename, tokens).Run()
}

func (p *Parser) Run() (*AST, error) {
	ast := &AST{Filename: p.filename}

	for !p.done() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		ast.Statements = append(ast.Statements, stmt)
	}

	return ast, nil
}

func (p *Parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() (Token, bool) {
	if p.done() {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *Parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}

// expect consumes the next token and fails unless it is of type typ. what
// names the expected token in the error.
func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.errorf(p.eofLocation(), "unexpected EOF: expected %s", what)
	}

	if tok.Typ != typ {
		return tok, p.errorf(tok.Loc, "expected %s, got %s", what, tok.describe())
	}

	return tok, nil
}

// eofLocation points errors at end of input to the last token seen.
func (p *Parser) eofLocation() *Location {
	if len(p.tokens) == 0 {
		return nil
	}

	return p.tokens[len(p.tokens)-1].Loc
}

func (p *Parser) errorf(l *Location, format string, args ...interface{}) error {
	return &ParseError{Loc: l, Reason: fmt.Sprintf(format, args...)}
}

func (p *Parser) statement() (Node, error) {
	tok, _ := p.next()

	switch tok.Typ {
	case TokenImport:
		return p.importDecl(tok)
	case TokenTypeName:
		return p.funcDecl(tok)
	case TokenIdentifier:
		return p.funcCall(tok)
	case TokenNumber, TokenString:
		return p.literalStmt(tok)
	case TokenSemicolon:
		return nil, p.errorf(tok.Loc, "unexpected semicolon")
	case TokenFrom:
		return nil, p.errorf(tok.Loc, "unexpected from")
	case TokenFn:
		return nil, p.errorf(tok.Loc, "unexpected fn")
	case TokenOpenCurly:
		return nil, p.errorf(tok.Loc, "unexpected open brace")
	case TokenCloseCurly:
		return nil, p.errorf(tok.Loc, "unexpected close brace")
	case TokenOpenParentheses:
		return nil, p.errorf(tok.Loc, "unexpected open paren")
	case TokenCloseParentheses:
		return nil, p.errorf(tok.Loc, "unexpected close paren")
	case TokenUnknown:
		return nil, p.errorf(tok.Loc, "syntax error: unknown symbol '%s'", tok.Value)
	}

	return nil, p.errorf(tok.Loc, "unexpected %s", tok.describe())
}

func (p *Parser) importDecl(start Token) (Node, error) {
	name, err := p.expect(TokenIdentifier, "identifier after import")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenFrom, "'from' after import identifier"); err != nil {
		return nil, err
	}

	module, err := p.expect(TokenIdentifier, "module identifier after from")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "semicolon after import statement"); err != nil {
		return nil, err
	}

	return &Import{
		Module: module.Value,
		Name:   name.Value,
		Loc:    start.Loc,
	}, nil
}

func (p *Parser) funcDecl(start Token) (Node, error) {
	returnType, ok := typeTable[start.Value]
	if !ok {
		return nil, p.errorf(start.Loc, "unknown type '%s'", start.Value)
	}

	if _, err := p.expect(TokenFn, "fn after type"); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier, "function name after fn")
	if err != nil {
		return nil, err
	}

	// TODO: Allow parameters once the language has variables
	if _, err := p.expect(TokenOpenParentheses, "open paren after function name"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses, "close paren after open paren"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenOpenCurly, "open brace after close paren"); err != nil {
		return nil, err
	}

	toks, err := p.blockTokens()
	if err != nil {
		return nil, err
	}

	body, err := NewParser(p.filename, toks).Run()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Name:       name.Value,
		Body:       body.Statements,
		ReturnType: returnType,
		Loc:        start.Loc,
	}, nil
}

// blockTokens collects the tokens of a block whose opening brace was
// already consumed, up to its matching closing brace.
func (p *Parser) blockTokens() ([]Token, error) {
	start := p.pos
	depth := 1

	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.errorf(p.eofLocation(), "unexpected EOF: expected close brace in function body")
		}

		switch tok.Typ {
		case TokenOpenCurly:
			depth++
		case TokenCloseCurly:
			depth--
			if depth == 0 {
				toks := make([]Token, p.pos-1-start)
				copy(toks, p.tokens[start:p.pos-1])
				return toks, nil
			}
		}
	}
}

func (p *Parser) funcCall(id Token) (Node, error) {
	if _, err := p.expect(TokenOpenParentheses, "open paren after identifier"); err != nil {
		return nil, err
	}

	call := &FuncCall{
		Name: id.Value,
		Loc:  id.Loc,
	}

	tok, ok := p.next()
	switch {
	case !ok:
		return nil, p.errorf(p.eofLocation(), "unexpected EOF: expected close paren or literal after open paren")
	case tok.Typ == TokenCloseParentheses:
	case tok.IsLiteral():
		call.Args = []Node{p.literal(tok)}

		if extra, ok := p.peek(); ok && (extra.IsLiteral() || (extra.Typ == TokenUnknown && extra.Value == ",")) {
			return nil, p.errorf(extra.Loc, "too many arguments in call to %s: at most one literal is allowed", id.Value)
		}

		if _, err := p.expect(TokenCloseParentheses, "close paren after literal"); err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf(tok.Loc, "expected close paren or literal, got %s", tok.describe())
	}

	if _, err := p.expect(TokenSemicolon, "semicolon after function call"); err != nil {
		return nil, err
	}

	return call, nil
}

// literalStmt accepts a bare literal only when it forms a whole
// statement, as in "42;".
func (p *Parser) literalStmt(tok Token) (Node, error) {
	if next, ok := p.peek(); !ok || next.Typ != TokenSemicolon {
		return nil, p.errorf(tok.Loc, "unexpected literal")
	}
	p.next()

	return p.literal(tok), nil
}

func (p *Parser) literal(tok Token) *LiteralExpr {
	typ := LiteralNumber
	if tok.Typ == TokenString {
		typ = LiteralString
	}

	return &LiteralExpr{
		Typ:   typ,
		Value: tok.Value,
		Loc:   tok.Loc,
	}
}
