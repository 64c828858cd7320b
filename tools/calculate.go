package tools

import (
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"math"
	"strconv"
	"strings"

	"github.com/rickchristie/reagent"
)

// CalculateName is the name of the calculator tool.
const CalculateName = "calculate"

// ErrDivisionByZero is returned for "/" or "%" by zero.
var ErrDivisionByZero = errors.New("division by zero")

// NewCalculate returns the calculator tool.
//
// Supported: numbers, + - * / %, unary + and -, parentheses and ** for powers. Power is
// right-associative and binds tighter than unary minus, so -2 ** 2 is -4. Anything else
// is rejected.
func NewCalculate() *reagent.ToolFunc {
	return reagent.NewToolFunc(
		CalculateName,
		"Runs a calculation and returns the number. Supports + - * / % ** and parentheses",
		func(_ context.Context, argument string) (string, error) {
			v, err := Evaluate(argument)
			if err != nil {
				return "", err
			}
			return FormatNumber(v), nil
		},
	).WithExample("4 * 7 / 3")
}

// Evaluate computes an arithmetic expression.
func Evaluate(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, errors.New("empty expression")
	}
	if strings.Contains(expr, "//") || strings.Contains(expr, "/*") {
		return 0, errors.New("unsupported operator //")
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &calcParser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.tok != token.EOF {
		return 0, fmt.Errorf("unexpected %q at offset %d", t.text(), t.off)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return v, nil
}

// FormatNumber prints integral values without a fraction and everything else in the
// shortest form that round-trips.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// -----------------------------------------------------------------------------
// Tokens
// -----------------------------------------------------------------------------

// tokPow is produced for two adjacent '*'.
const tokPow = token.Token(-1)

type calcToken struct {
	tok token.Token
	lit string
	off int
}

func (t calcToken) text() string {
	switch {
	case t.tok == tokPow:
		return "**"
	case t.tok == token.EOF:
		return "end of input"
	case t.lit != "":
		return t.lit
	default:
		return t.tok.String()
	}
}

func tokenize(expr string) ([]calcToken, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("expr", fset.Base(), len(expr))

	var scanErr error
	var s scanner.Scanner
	s.Init(file, []byte(expr), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("invalid expression at offset %d: %s", pos.Offset, msg)
		}
	}, 0)

	var toks []calcToken
	for {
		pos, tok, lit := s.Scan()
		off := file.Offset(pos)
		if scanErr != nil {
			return nil, scanErr
		}

		switch tok {
		case token.EOF:
			return append(toks, calcToken{tok: token.EOF, off: off}), nil
		case token.SEMICOLON:
			// Automatic semicolon at end of input.
			if lit == "\n" {
				continue
			}
		case token.INT, token.FLOAT, token.ADD, token.SUB, token.QUO, token.REM,
			token.LPAREN, token.RPAREN:
			toks = append(toks, calcToken{tok: tok, lit: lit, off: off})
			continue
		case token.INC, token.DEC:
			// "--5" scans as a decrement; split it back into two signs.
			op := token.ADD
			if tok == token.DEC {
				op = token.SUB
			}
			toks = append(toks, calcToken{tok: op, off: off}, calcToken{tok: op, off: off + 1})
			continue
		case token.MUL:
			if n := len(toks); n > 0 && toks[n-1].tok == token.MUL && toks[n-1].off == off-1 {
				toks[n-1].tok = tokPow
				continue
			}
			toks = append(toks, calcToken{tok: tok, off: off})
			continue
		}

		t := calcToken{tok: tok, lit: lit, off: off}
		if tok == token.IDENT {
			return nil, fmt.Errorf("unsupported name %q: only numbers and operators are allowed", lit)
		}
		return nil, fmt.Errorf("unsupported token %q at offset %d", t.text(), off)
	}
}

// -----------------------------------------------------------------------------
// Parser
// -----------------------------------------------------------------------------

// calcParser is a recursive descent evaluator:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | "(" expr ")"
type calcParser struct {
	toks []calcToken
	pos  int
}

func (p *calcParser) peek() calcToken {
	return p.toks[p.pos]
}

func (p *calcParser) next() calcToken {
	t := p.toks[p.pos]
	if t.tok != token.EOF {
		p.pos++
	}
	return t
}

func (p *calcParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek().tok
		if op != token.ADD && op != token.SUB {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == token.ADD {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *calcParser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek().tok
		if op != token.MUL && op != token.QUO && op != token.REM {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case token.MUL:
			left *= right
		case token.QUO:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		case token.REM:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			// Result takes the sign of the divisor.
			m := math.Mod(left, right)
			if m != 0 && (m < 0) != (right < 0) {
				m += right
			}
			left = m
		}
	}
}

func (p *calcParser) unary() (float64, error) {
	switch p.peek().tok {
	case token.ADD:
		p.next()
		return p.unary()
	case token.SUB:
		p.next()
		v, err := p.unary()
		return -v, err
	}
	return p.power()
}

func (p *calcParser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().tok != tokPow {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	if base == 0 && exp < 0 {
		return 0, ErrDivisionByZero
	}
	return math.Pow(base, exp), nil
}

func (p *calcParser) primary() (float64, error) {
	t := p.next()
	switch t.tok {
	case token.INT:
		if v, err := strconv.ParseInt(t.lit, 0, 64); err == nil {
			return float64(v), nil
		}
		return strconv.ParseFloat(t.lit, 64)
	case token.FLOAT:
		return strconv.ParseFloat(t.lit, 64)
	case token.LPAREN:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.tok != token.RPAREN {
			return 0, fmt.Errorf("expected ) at offset %d, got %q", closing.off, closing.text())
		}
		return v, nil
	}
	return 0, fmt.Errorf("expected a number at offset %d, got %q", t.off, t.text())
}
