package chisel

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = -1

	TokenUnknown TokenType = iota
	TokenNumber
	TokenString

	TokenIdentifier
	TokenImport
	TokenFrom
	TokenFn
	TokenTypeName

	TokenSemicolon
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
)

var tokenNames = map[TokenType]string{
	TokenUnknown:          "Unknown",
	TokenNumber:           "Number",
	TokenString:           "String",
	TokenIdentifier:       "Identifier",
	TokenImport:           "Import",
	TokenFrom:             "From",
	TokenFn:               "Fn",
	TokenTypeName:         "TypeName",
	TokenSemicolon:        "Semicolon",
	TokenOpenParentheses:  "OpenParentheses",
	TokenCloseParentheses: "CloseParentheses",
	TokenOpenCurly:        "OpenCurly",
	TokenCloseCurly:       "CloseCurly",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "TokenType(" + strconv.FormatUint(uint64(t), 10) + ")"
}

var keywordTable = map[string]TokenType{
	"import": TokenImport,
	"from":   TokenFrom,
	"fn":     TokenFn,
	"void":   TokenTypeName,
}

var operatorTable = map[rune]TokenType{
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
	'{': TokenOpenCurly,
	'}': TokenCloseCurly,
	';': TokenSemicolon,
}

// escapeTable maps the character following a backslash inside a string
// literal to the character it stands for.
var escapeTable = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
}

// Location is the position of the first byte of a token in its source.
type Location struct {
	Filename string
	Line     int
	Col      int
	Offset   int
}

func (l *Location) String() string {
	if l == nil {
		return "-"
	}

	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
	Len   int // source bytes covered, quotes included
}

func (t Token) IsLiteral() bool {
	return t.Typ == TokenNumber || t.Typ == TokenString
}

func (t Token) String() string {
	switch t.Typ {
	case TokenIdentifier, TokenNumber, TokenTypeName, TokenUnknown:
		return fmt.Sprintf("%s(%s)", t.Typ, t.Value)
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Typ, t.Value)
	default:
		return t.Typ.String()
	}
}

// describe renders the token the way parse errors refer to it.
func (t Token) describe() string {
	switch t.Typ {
	case TokenIdentifier:
		return fmt.Sprintf("identifier '%s'", t.Value)
	case TokenNumber:
		return "number " + t.Value
	case TokenString:
		return fmt.Sprintf("string %q", t.Value)
	case TokenTypeName:
		return fmt.Sprintf("type '%s'", t.Value)
	case TokenImport:
		return "keyword 'import'"
	case TokenFrom:
		return "keyword 'from'"
	case TokenFn:
		return "keyword 'fn'"
	case TokenUnknown:
		return fmt.Sprintf("unknown symbol '%s'", t.Value)
	case TokenSemicolon:
		return "';'"
	case TokenOpenParentheses:
		return "'('"
	case TokenCloseParentheses:
		return "')'"
	case TokenOpenCurly:
		return "'{'"
	case TokenCloseCurly:
		return "'}'"
	}

	return t.Typ.String()
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	tokens   []Token
	err      error

	line, col, offset int
	start             Location
}

func NewLexer(filename string, reader io.Reader) *Lexer {
	return &Lexer{
		filename: filename,
		reader:   bufio.NewReader(reader),
		line:     1,
		col:      1,
	}
}

// Lex tokenizes src. It never fails: symbols it does not recognise become
// TokenUnknown tokens for the parser to reject.
func Lex(filename, src string) []Token {
	return NewLexer(filename, strings.NewReader(src)).Run()
}

// Run scans the whole input and returns its tokens.
func (l *Lexer) Run() []Token {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	return l.tokens
}

// Err returns the first error returned by the underlying reader, other
// than io.EOF. Scanning stops at that point.
func (l *Lexer) Err() error {
	return l.err
}

func defaultState(l *Lexer) stateFunc {
	for {
		r := l.peek()
		switch {
		case r == EOF:
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		}

		l.mark()

		if t, ok := operatorTable[r]; ok {
			return l.emitNext(t)
		}

		switch {
		case r == '"':
			return stringState
		case isDigit(r):
			return numberState
		case isIdentStart(r):
			return identifierState
		default:
			return l.emitValue(TokenUnknown, string(l.next()))
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
	}

	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return l.emitValue(TokenUnknown, num.String())
	}

	return l.emitValue(TokenNumber, strconv.FormatInt(n, 10))
}

func stringState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for {
		switch r := l.next(); r {
		case EOF:
			// Unterminated strings end with the input
			return l.emitValue(TokenString, str.String())
		case '"':
			return l.emitValue(TokenString, str.String())
		case '\\':
			if esc, ok := escapeTable[l.peek()]; ok {
				l.next()
				str.WriteRune(esc)
				continue
			}

			str.WriteRune(r)
		default:
			str.WriteRune(r)
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isIdentStart(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// mark records the start of the token about to be scanned.
func (l *Lexer) mark() {
	l.start = Location{
		Filename: l.filename,
		Line:     l.line,
		Col:      l.col,
		Offset:   l.offset,
	}
}

func (l *Lexer) emitNext(t TokenType) stateFunc {
	return l.emitValue(t, string(l.next()))
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	loc := l.start
	l.tokens = append(l.tokens, Token{
		Typ:   t,
		Value: val,
		Loc:   &loc,
		Len:   l.offset - loc.Offset,
	})

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		l.fail(err)
		return EOF
	}
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		l.fail(err)
		return EOF
	}

	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) fail(err error) {
	if err != io.EOF && l.err == nil {
		l.err = err
	}
}
