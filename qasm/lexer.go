package qasm

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies a lexical token class.
type TokenType int

const (
	TEOF TokenType = iota
	TIdent
	TInt
	TFloat
	TString
	TSemicolon
	TComma
	TLParen
	TRParen
	TLBracket
	TRBracket
	TLBrace
	TRBrace
	TArrow
	TAssign
	TEq
	TNeq
	TLt
	TLe
	TGt
	TGe
	TPlus
	TMinus
	TMul
	TDiv
	TMod
	TPow
	TNot
	TAnd
	TOr
	TAt
)

var tokenTypes = map[TokenType]string{
	TEOF:       "end of input",
	TIdent:     "identifier",
	TInt:       "integer",
	TFloat:     "float",
	TString:    "string",
	TSemicolon: ";",
	TComma:     ",",
	TLParen:    "(",
	TRParen:    ")",
	TLBracket:  "[",
	TRBracket:  "]",
	TLBrace:    "{",
	TRBrace:    "}",
	TArrow:     "->",
	TAssign:    "=",
	TEq:        "==",
	TNeq:       "!=",
	TLt:        "<",
	TLe:        "<=",
	TGt:        ">",
	TGe:        ">=",
	TPlus:      "+",
	TMinus:     "-",
	TMul:       "*",
	TDiv:       "/",
	TMod:       "%",
	TPow:       "**",
	TNot:       "!",
	TAnd:       "&&",
	TOr:        "||",
	TAt:        "@",
}

func (t TokenType) String() string {
	if name, ok := tokenTypes[t]; ok {
		return name
	}
	return fmt.Sprintf("{TokenType %d}", int(t))
}

// Token is one lexical token.
type Token struct {
	Type TokenType
	Text string
	Pos  Pos
}

func (t Token) String() string {
	switch t.Type {
	case TIdent, TInt, TFloat:
		return t.Text
	case TString:
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Type.String()
}

// lexer splits OpenQASM source into tokens.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:  src,
		line: 1,
		col:  1,
	}
}

func (l *lexer) peekRune(ahead int) rune {
	off := l.off
	for i := 0; i < ahead; i++ {
		if off >= len(l.src) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) next() rune {
	if l.off >= len(l.src) {
		return -1
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) pos() Pos {
	return Pos{Line: l.line, Col: l.col}
}

func (l *lexer) errorf(pos Pos, format string, a ...interface{}) error {
	return &SyntaxError{
		Pos: pos,
		Msg: fmt.Sprintf(format, a...),
	}
}

// skipSpace skips whitespace and comments.
func (l *lexer) skipSpace() error {
	for {
		r := l.peekRune(0)
		switch {
		case r == -1:
			return nil
		case unicode.IsSpace(r):
			l.next()
		case r == '/' && l.peekRune(1) == '/':
			for r := l.peekRune(0); r != -1 && r != '\n'; r = l.peekRune(0) {
				l.next()
			}
		case r == '/' && l.peekRune(1) == '*':
			start := l.pos()
			l.next()
			l.next()
			for {
				if l.peekRune(0) == -1 {
					return l.errorf(start, "unterminated block comment")
				}
				if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
					l.next()
					l.next()
					break
				}
				l.next()
			}
		default:
			return nil
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// Token returns the next token.
func (l *lexer) Token() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	start := l.pos()
	r := l.peekRune(0)
	if r == -1 {
		return Token{Type: TEOF, Pos: start}, nil
	}

	if isIdentStart(r) {
		var sb strings.Builder
		for isIdentPart(l.peekRune(0)) {
			sb.WriteRune(l.next())
		}
		return Token{Type: TIdent, Text: sb.String(), Pos: start}, nil
	}
	if unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekRune(1))) {
		return l.number(start)
	}
	if r == '"' || r == '\'' {
		return l.str(start)
	}

	l.next()
	tok := Token{Pos: start}
	switch r {
	case ';':
		tok.Type = TSemicolon
	case ',':
		tok.Type = TComma
	case '(':
		tok.Type = TLParen
	case ')':
		tok.Type = TRParen
	case '[':
		tok.Type = TLBracket
	case ']':
		tok.Type = TRBracket
	case '{':
		tok.Type = TLBrace
	case '}':
		tok.Type = TRBrace
	case '+':
		tok.Type = TPlus
	case '/':
		tok.Type = TDiv
	case '%':
		tok.Type = TMod
	case '@':
		tok.Type = TAt
	case '-':
		tok.Type = TMinus
		if l.peekRune(0) == '>' {
			l.next()
			tok.Type = TArrow
		}
	case '*':
		tok.Type = TMul
		if l.peekRune(0) == '*' {
			l.next()
			tok.Type = TPow
		}
	case '=':
		tok.Type = TAssign
		if l.peekRune(0) == '=' {
			l.next()
			tok.Type = TEq
		}
	case '!':
		tok.Type = TNot
		if l.peekRune(0) == '=' {
			l.next()
			tok.Type = TNeq
		}
	case '<':
		tok.Type = TLt
		if l.peekRune(0) == '=' {
			l.next()
			tok.Type = TLe
		}
	case '>':
		tok.Type = TGt
		if l.peekRune(0) == '=' {
			l.next()
			tok.Type = TGe
		}
	case '&':
		if l.peekRune(0) != '&' {
			return Token{}, l.errorf(start, "unexpected character '&'")
		}
		l.next()
		tok.Type = TAnd
	case '|':
		if l.peekRune(0) != '|' {
			return Token{}, l.errorf(start, "unexpected character '|'")
		}
		l.next()
		tok.Type = TOr
	default:
		return Token{}, l.errorf(start, "unexpected character %q", r)
	}
	return tok, nil
}

func (l *lexer) number(start Pos) (Token, error) {
	var sb strings.Builder
	typ := TInt
	for unicode.IsDigit(l.peekRune(0)) {
		sb.WriteRune(l.next())
	}
	if l.peekRune(0) == '.' {
		typ = TFloat
		sb.WriteRune(l.next())
		for unicode.IsDigit(l.peekRune(0)) {
			sb.WriteRune(l.next())
		}
	}
	if r := l.peekRune(0); r == 'e' || r == 'E' {
		sign := l.peekRune(1)
		digit := sign
		if sign == '+' || sign == '-' {
			digit = l.peekRune(2)
		}
		if unicode.IsDigit(digit) {
			typ = TFloat
			sb.WriteRune(l.next())
			if sign == '+' || sign == '-' {
				sb.WriteRune(l.next())
			}
			for unicode.IsDigit(l.peekRune(0)) {
				sb.WriteRune(l.next())
			}
		}
	}
	if isIdentStart(l.peekRune(0)) {
		return Token{}, l.errorf(start, "malformed number %s%c", sb.String(), l.peekRune(0))
	}
	return Token{Type: typ, Text: sb.String(), Pos: start}, nil
}

func (l *lexer) str(start Pos) (Token, error) {
	quote := l.next()
	var sb strings.Builder
	for {
		r := l.next()
		switch r {
		case -1, '\n':
			return Token{}, l.errorf(start, "unterminated string")
		case quote:
			return Token{Type: TString, Text: sb.String(), Pos: start}, nil
		}
		sb.WriteRune(r)
	}
}
