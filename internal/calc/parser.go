package calc

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrSyntax is returned for input the parser cannot read.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownFunction is returned for a call to a name that is not built in.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArity is returned when a function gets the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src []rune
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case unicode.IsDigit(c) || c == '.':
		return l.number()
	case unicode.IsLetter(c):
		for l.pos < len(l.src) && (unicode.IsLetter(l.src[l.pos]) || unicode.IsDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		return token{kind: tokIdent, text: strings.ToLower(string(l.src[start:l.pos])), pos: start}, nil
	case strings.ContainsRune("+-*/^(),", c):
		l.pos++
		return token{kind: tokOp, text: string(c), pos: start}, nil
	}
	return token{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, start)
}

// number reads whole[.fraction][(cycle)]. A parenthesised cycle is only
// taken after a decimal point and only when it holds nothing but digits.
func (l *lexer) number() (token, error) {
	start := l.pos
	digits := l.digits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		digits += l.digits()
		if end, ok := l.cycleEnd(); ok {
			l.pos = end
		}
	}
	if digits == 0 {
		return token{}, fmt.Errorf("%w: malformed number at %d", ErrSyntax, start)
	}
	return token{kind: tokNumber, text: string(l.src[start:l.pos]), pos: start}, nil
}

func (l *lexer) digits() int {
	n := 0
	for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
		l.pos++
		n++
	}
	return n
}

func (l *lexer) cycleEnd() (int, bool) {
	i := l.pos
	if i >= len(l.src) || l.src[i] != '(' {
		return 0, false
	}
	i++
	first := i
	for i < len(l.src) && unicode.IsDigit(l.src[i]) {
		i++
	}
	if i == first || i >= len(l.src) || l.src[i] != ')' {
		return 0, false
	}
	return i + 1, true
}

type parser struct {
	lex *lexer
	tok token
}

// Parse reads an arithmetic expression.
//
//	Parse("1/3 + 0.1(6)")
//	Parse("sqrt(8) * root(2, 3)^3")
//	Parse("-2^2") → -(2^2)
//
// Operators are + - * / and right-associative ^. Literals are integers,
// decimals and periodic decimals such as 0.(3). Function names are case
// insensitive; see Evaluator for the built-in set.
func Parse(input string) (Node, error) {
	p := &parser{lex: &lexer{src: []rune(input)}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.tok.text, p.tok.pos)
	}
	return n, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) isOp(ops string) bool {
	return p.tok.kind == tokOp && strings.Contains(ops, p.tok.text)
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		if p.tok.kind == tokEOF {
			return fmt.Errorf("%w: expected %q at end of input", ErrSyntax, op)
		}
		return fmt.Errorf("%w: expected %q at %d, got %q", ErrSyntax, op, p.tok.pos, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*/") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.isOp("+-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: "^", Left: base, Right: exp}, nil
}

func (p *parser) primary() (Node, error) {
	switch p.tok.kind {
	case tokNumber:
		n := &Literal{Text: p.tok.text}
		return n, p.advance()
	case tokIdent:
		return p.call()
	case tokOp:
		if p.tok.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			n, err := p.expr()
			if err != nil {
				return nil, err
			}
			return n, p.expect(")")
		}
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.tok.text, p.tok.pos)
	}
	return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
}

func (p *parser) call() (Node, error) {
	name, pos := p.tok.text, p.tok.pos
	if _, ok := builtins[name]; !ok {
		return nil, fmt.Errorf("%w: %s at %d", ErrUnknownFunction, name, pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	c := &Call{Name: name}
	if !p.isOp("(") {
		return c, checkArity(c)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !p.isOp(")") {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, arg)
			if !p.isOp(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return c, checkArity(c)
}

func checkArity(c *Call) error {
	b := builtins[c.Name]
	if len(c.Args) < b.minArgs || (b.maxArgs >= 0 && len(c.Args) > b.maxArgs) {
		return fmt.Errorf("%w: %s takes %s, got %d", ErrArity, c.Name, b.arity(), len(c.Args))
	}
	return nil
}
