package qasm

import (
	"fmt"
	"strconv"
)

// SyntaxError reports malformed OpenQASM source.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// classicalTypes are declaration keywords whose variables play no part in
// the circuit drawing.
var classicalTypes = map[string]bool{
	"int":      true,
	"uint":     true,
	"float":    true,
	"angle":    true,
	"bool":     true,
	"duration": true,
	"stretch":  true,
	"complex":  true,
}

var declModifiers = map[string]bool{
	"const":  true,
	"input":  true,
	"output": true,
}

// Parse parses OpenQASM 2 or 3 source text.
func Parse(src string) (*Program, error) {
	p := &parser{
		lex: newLexer(src),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	prog := new(Program)
	for p.tok.Type != TEOF {
		switch {
		case p.isKeyword("OPENQASM"):
			if err := p.parseVersion(prog); err != nil {
				return nil, err
			}
		case p.isKeyword("include"):
			if err := p.parseInclude(prog); err != nil {
				return nil, err
			}
		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if stmt != nil {
				prog.Statements = append(prog.Statements, stmt)
			}
		}
	}
	return prog, nil
}

// ParseExprList parses a comma separated list of expressions such as the
// parameter list of a gate call, without the surrounding parentheses.
func ParseExprList(src string) ([]Expr, error) {
	p := &parser{
		lex: newLexer(src),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var list []Expr
	for p.tok.Type != TEOF {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, x)
		switch p.tok.Type {
		case TComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type == TEOF {
				return nil, p.errorf(p.tok.Pos, "expected expression, got %s", p.tok)
			}
		case TEOF:
		default:
			return nil, p.unexpected()
		}
	}
	return list, nil
}

type parser struct {
	lex *lexer
	tok Token
}

func (p *parser) advance() error {
	tok, err := p.lex.Token()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.Type == TIdent && p.tok.Text == kw
}

func (p *parser) errorf(pos Pos, format string, a ...interface{}) error {
	return &SyntaxError{
		Pos: pos,
		Msg: fmt.Sprintf(format, a...),
	}
}

func (p *parser) unexpected() error {
	return p.errorf(p.tok.Pos, "unexpected %s", p.tok)
}

func (p *parser) expect(t TokenType) (Token, error) {
	tok := p.tok
	if tok.Type != t {
		return tok, p.errorf(tok.Pos, "expected %s, got %s", t, tok)
	}
	return tok, p.advance()
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf(p.tok.Pos, "expected %s, got %s", kw, p.tok)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	tok, err := p.expect(TIdent)
	return tok.Text, err
}

func (p *parser) parseVersion(prog *Program) error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Type != TInt && p.tok.Type != TFloat {
		return p.errorf(p.tok.Pos, "expected version number, got %s", p.tok)
	}
	prog.Version = p.tok.Text
	if err := p.advance(); err != nil {
		return err
	}
	_, err := p.expect(TSemicolon)
	return err
}

func (p *parser) parseInclude(prog *Program) error {
	if err := p.advance(); err != nil {
		return err
	}
	tok, err := p.expect(TString)
	if err != nil {
		return err
	}
	prog.Includes = append(prog.Includes, tok.Text)
	_, err = p.expect(TSemicolon)
	return err
}

// parseStatement parses one statement. It returns nil for statements that
// carry nothing, such as a stray semicolon.
func (p *parser) parseStatement() (Statement, error) {
	at := p.tok.Pos
	switch p.tok.Type {
	case TSemicolon:
		return nil, p.advance()
	case TIdent:
	default:
		return nil, p.unexpected()
	}

	switch kw := p.tok.Text; {
	case kw == "qreg" || kw == "creg":
		return p.parseOldDecl(at, kw == "qreg")
	case kw == "qubit" || kw == "bit":
		return p.parseNewDecl(at, kw == "qubit")
	case classicalTypes[kw] || declModifiers[kw]:
		return p.parseClassicalDecl(at)
	case kw == "measure":
		return p.parseMeasureArrow(at)
	case kw == "barrier":
		return p.parseBarrier(at)
	case kw == "reset":
		return p.parseReset(at)
	case kw == "if":
		return p.parseBranch(at)
	case kw == "gate":
		return p.parseGateDef(at)
	case kw == "else":
		return nil, p.errorf(at, "else without if")
	case kw == "ctrl" || kw == "negctrl" || kw == "inv" || kw == "pow":
		return nil, p.errorf(at, "gate modifier %s not supported", kw)
	}

	name := p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Type == TLBracket || p.tok.Type == TAssign {
		return p.parseMeasureAssign(at, name)
	}
	return p.parseGateCall(at, name)
}

// parseOldDecl parses `qreg q[n];` and `creg c[n];`.
func (p *parser) parseOldDecl(at Pos, quantum bool) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	size, err := p.parseDesignator()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	if quantum {
		return &QubitDecl{At: at, Name: name, Size: size}, nil
	}
	return &BitDecl{At: at, Name: name, Size: size}, nil
}

// parseNewDecl parses `qubit[n] q;`, `qubit q;`, `bit[n] c;` and `bit c;`.
func (p *parser) parseNewDecl(at Pos, quantum bool) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	size := 1
	if p.tok.Type == TLBracket {
		var err error
		size, err = p.parseDesignator()
		if err != nil {
			return nil, err
		}
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !quantum && p.tok.Type == TAssign {
		// Initial values do not affect the drawing.
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	if quantum {
		return &QubitDecl{At: at, Name: name, Size: size}, nil
	}
	return &BitDecl{At: at, Name: name, Size: size}, nil
}

func (p *parser) parseDesignator() (int, error) {
	if _, err := p.expect(TLBracket); err != nil {
		return 0, err
	}
	tok, err := p.expect(TInt)
	if err != nil {
		return 0, err
	}
	size, err := strconv.Atoi(tok.Text)
	if err != nil {
		return 0, p.errorf(tok.Pos, "invalid register size %s", tok.Text)
	}
	if _, err := p.expect(TRBracket); err != nil {
		return 0, err
	}
	return size, nil
}

// parseClassicalDecl parses declarations like `const float theta = pi/2;`
// and `input angle[32] phi;`.
func (p *parser) parseClassicalDecl(at Pos) (Statement, error) {
	typ := p.tok.Text
	if declModifiers[typ] {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Type != TIdent {
			return nil, p.unexpected()
		}
		typ = typ + " " + p.tok.Text
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Type == TLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		width, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRBracket); err != nil {
			return nil, err
		}
		typ = fmt.Sprintf("%s[%s]", typ, width)
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ClassicalDecl{
		At:   at,
		Type: typ,
		Name: name,
	}
	if p.tok.Type == TAssign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		decl.Init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseMeasureArrow parses `measure q[0];` and `measure q[0] -> c[0];`.
func (p *parser) parseMeasureArrow(at Pos) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	qubit, err := p.parseRef()
	if err != nil {
		return nil, err
	}
	m := &Measure{
		At:    at,
		Qubit: qubit,
	}
	if p.tok.Type == TArrow {
		if err := p.advance(); err != nil {
			return nil, err
		}
		target, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		m.Target = &target
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return m, nil
}

// parseMeasureAssign parses `c[0] = measure q[0];`. The target name has
// already been consumed.
func (p *parser) parseMeasureAssign(at Pos, name string) (Statement, error) {
	target := Ref{
		At:   at,
		Name: name,
	}
	if p.tok.Type == TLBracket {
		idx, err := p.parseIndex()
		if err != nil {
			return nil, err
		}
		target.Index = idx
	}
	if _, err := p.expect(TAssign); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("measure"); err != nil {
		return nil, err
	}
	qubit, err := p.parseRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return &Measure{
		At:     at,
		Qubit:  qubit,
		Target: &target,
	}, nil
}

func (p *parser) parseBarrier(at Pos) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	b := &Barrier{At: at}
	if p.tok.Type != TSemicolon {
		refs, err := p.parseRefList()
		if err != nil {
			return nil, err
		}
		b.Qubits = refs
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) parseReset(at Pos) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	r := &Reset{At: at}
	if p.tok.Type != TSemicolon {
		refs, err := p.parseRefList()
		if err != nil {
			return nil, err
		}
		r.Qubits = refs
	}
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseBranch(at Pos) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TRParen); err != nil {
		return nil, err
	}
	b := &Branch{
		At:   at,
		Cond: cond,
	}
	b.Then, err = p.parseBody()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		b.Else, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// parseBody parses a braced block or a single statement.
func (p *parser) parseBody() ([]Statement, error) {
	if p.tok.Type != TLBrace {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, nil
		}
		return []Statement{stmt}, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var body []Statement
	for p.tok.Type != TRBrace {
		if p.tok.Type == TEOF {
			return nil, p.errorf(p.tok.Pos, "unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return body, p.advance()
}

// parseGateDef parses a gate definition signature and skips its body.
func (p *parser) parseGateDef(at Pos) (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	def := &GateDef{
		At:   at,
		Name: name,
	}
	if p.tok.Type == TLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.Type != TRParen {
			param, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			def.Params = append(def.Params, param)
			if p.tok.Type == TComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for p.tok.Type != TLBrace {
		qubit, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		def.Qubits = append(def.Qubits, qubit)
		if p.tok.Type == TComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	start := p.tok.Pos
	depth := 0
	for {
		switch p.tok.Type {
		case TLBrace:
			depth++
		case TRBrace:
			depth--
		case TEOF:
			return nil, p.errorf(start, "unterminated gate body")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if depth == 0 {
			return def, nil
		}
	}
}

// parseGateCall parses the rest of `name(params) q0, q1;`.
func (p *parser) parseGateCall(at Pos, name string) (Statement, error) {
	g := &GateCall{
		At:   at,
		Name: name,
	}
	if p.tok.Type == TLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.Type != TRParen {
			param, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			g.Params = append(g.Params, param)
			if p.tok.Type == TComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else if p.tok.Type != TRParen {
				return nil, p.unexpected()
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.Type != TIdent {
		return nil, p.errorf(p.tok.Pos, "expected qubit operand, got %s", p.tok)
	}
	refs, err := p.parseRefList()
	if err != nil {
		return nil, err
	}
	g.Qubits = refs
	if _, err := p.expect(TSemicolon); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) parseRefList() ([]Ref, error) {
	var refs []Ref
	for {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		if p.tok.Type != TComma {
			return refs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseRef() (Ref, error) {
	at := p.tok.Pos
	name, err := p.expectIdent()
	if err != nil {
		return Ref{}, err
	}
	ref := Ref{
		At:   at,
		Name: name,
	}
	if p.tok.Type == TLBracket {
		ref.Index, err = p.parseIndex()
		if err != nil {
			return Ref{}, err
		}
	}
	return ref, nil
}

func (p *parser) parseIndex() (Expr, error) {
	if _, err := p.expect(TLBracket); err != nil {
		return nil, err
	}
	idx, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TRBracket); err != nil {
		return nil, err
	}
	return idx, nil
}

var binaryTokens = map[TokenType]BinaryOp{
	TOr:    OpOr,
	TAnd:   OpAnd,
	TEq:    OpEq,
	TNeq:   OpNeq,
	TLt:    OpLt,
	TLe:    OpLe,
	TGt:    OpGt,
	TGe:    OpGe,
	TPlus:  OpAdd,
	TMinus: OpSub,
	TMul:   OpMul,
	TDiv:   OpDiv,
	TMod:   OpMod,
	TPow:   OpPow,
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(1)
}

// parseBinary is a precedence climbing parser. Exponentiation is right
// associative; every other operator is left associative.
func (p *parser) parseBinary(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryTokens[p.tok.Type]
		if !ok || op.precedence() < minPrec {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		next := op.precedence() + 1
		if op == OpPow {
			next = op.precedence()
		}
		rhs, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{
			Op:  op,
			LHS: lhs,
			RHS: rhs,
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	var op UnaryOp
	switch p.tok.Type {
	case TMinus:
		op = OpNeg
	case TNot:
		op = OpNot
	case TPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	default:
		return p.parsePrimary()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{
		Op: op,
		X:  x,
	}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.Type {
	case TInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid integer %s", tok.Text)
		}
		return &IntLit{Value: v}, nil

	case TFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid float %s", tok.Text)
		}
		return &FloatLit{Value: v}, nil

	case TLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
		return x, nil

	case TIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Type {
		case TLBracket:
			idx, err := p.parseIndex()
			if err != nil {
				return nil, err
			}
			return &IndexExpr{Name: tok.Text, Index: idx}, nil

		case TLParen:
			if err := p.advance(); err != nil {
				return nil, err
			}
			call := &CallExpr{Func: tok.Text}
			for p.tok.Type != TRParen {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if p.tok.Type == TComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
				} else if p.tok.Type != TRParen {
					return nil, p.unexpected()
				}
			}
			return call, p.advance()
		}
		return &Ident{Name: tok.Text}, nil
	}
	return nil, p.errorf(tok.Pos, "expected expression, got %s", tok)
}
