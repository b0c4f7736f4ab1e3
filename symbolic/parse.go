package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"text/scanner"
)

// ============================================================
// Parser: infix text to Expr
// ============================================================
//
// Grammar:
//
//	expr   := term { ("+" | "-") term }
//	term   := unary { ("*" | "/") unary }
//	unary  := ("-" | "+") unary | power
//	power  := atom [ ("^" | "**") unary ]
//	atom   := number | ident [ "(" expr ")" ] | "(" expr ")"
//
// Decimal literals are read as exact rationals, so "0.5" parses to 1/2.

// Parse reads an infix expression. Every error wraps ErrParse.
func Parse(src string) (Expr, error) {
	p := &parser{}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Filename = "expr"
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s at %s", ErrParse, msg, s.Position)
		}
	}
	p.next()
	if p.tok == scanner.EOF {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.unexpected()
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid; it panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *parser) next() { p.tok = p.s.Scan() }

func (p *parser) unexpected() error {
	if p.err != nil {
		return p.err
	}
	if p.tok == scanner.EOF {
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at %s", ErrParse, p.s.TokenText(), p.s.Position)
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.tok == '+' || p.tok == '-' {
		op := p.tok
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == '-' {
			right = NegOf(right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return AddOf(terms...), nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok == '*' || p.tok == '/' {
		op := p.tok
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == '/' {
			if IsZero(right) {
				return nil, fmt.Errorf("%w: %w", ErrParse, ErrDivisionByZero)
			}
			left = DivOf(left, right)
		} else {
			left = MulOf(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.tok {
	case '-':
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NegOf(e), nil
	case '+':
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	switch {
	case p.tok == '^':
	case p.tok == '*' && p.s.Peek() == '*':
		p.s.Next()
	default:
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if IsZero(base) {
		if n, ok := exp.(*Num); ok && !n.IsPositive() {
			return nil, fmt.Errorf("%w: %w", ErrParse, ErrDivisionByZero)
		}
	}
	return PowOf(base, exp), nil
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.tok {
	case scanner.Int, scanner.Float:
		text := p.s.TokenText()
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, fmt.Errorf("%w: invalid number %q", ErrParse, text)
		}
		p.next()
		return &Num{val: r}, nil
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		if p.tok != '(' {
			return S(name), nil
		}
		p.next()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok != ')' {
			return nil, p.unexpected()
		}
		p.next()
		return Apply(name, arg), nil
	case '(':
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok != ')' {
			return nil, p.unexpected()
		}
		p.next()
		return e, nil
	}
	return nil, p.unexpected()
}
