package engine

import (
	"io"
)

// ParsedVariable is a named variable of a parsed clause or goal, in
// first-appearance order.
type ParsedVariable struct {
	Name     string
	Variable Variable
}

// Parser reads a token stream and produces clause or goal terms. It is
// an operator-precedence parser driven by the operator table.
type Parser struct {
	lexer     *Lexer
	current   Token
	lexErr    error
	operators Operators
	vars      []ParsedVariable
}

// NewParser returns a parser over input using the operator table ops.
func NewParser(input string, ops Operators) *Parser {
	p := Parser{
		lexer:     NewLexer(input),
		operators: ops,
	}
	p.current, p.lexErr = p.lexer.Next()
	return &p
}

func (p *Parser) advance() error {
	if p.lexErr != nil {
		return p.lexErr
	}
	p.current, p.lexErr = p.lexer.Next()
	return nil
}

// Next returns the next clause term, or io.EOF at the end of input.
// Named variables of the clause are available from Vars until the
// following call.
func (p *Parser) Next() (Term, error) {
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	if p.current.Kind == TokenEOS {
		return nil, io.EOF
	}

	p.vars = nil
	t, err := p.expr(1200)
	if err != nil {
		return nil, err
	}

	switch p.current.Kind {
	case TokenEnd:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return t, nil
	case TokenEOS:
		return t, nil
	default:
		return nil, &ParseError{Token: p.current, Message: "operator expected"}
	}
}

// Vars returns the named variables of the last term returned by Next.
func (p *Parser) Vars() []ParsedVariable {
	return p.vars
}

func (p *Parser) expr(max int) (Term, error) {
	lhs, lhsPriority, err := p.primary(max)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.infixOperator()
		if !ok || op.Priority > max {
			break
		}
		left, right := op.leftRight()
		if lhsPriority > left {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.expr(right)
		if err != nil {
			return nil, err
		}
		lhs = &Compound{Functor: op.Name, Args: []Term{lhs, rhs}}
		lhsPriority = op.Priority
	}

	return lhs, nil
}

// infixOperator reports whether the current token continues a
// left-operand expression.
func (p *Parser) infixOperator() (Operator, bool) {
	switch p.current.Kind {
	case TokenAtom:
		return p.operators.Infix(Atom(p.current.Val))
	case TokenPunct:
		if p.current.Val == "," {
			return p.operators.Infix(",")
		}
	}
	return Operator{}, false
}

// primary parses one operand: a literal, variable, atom or compound,
// a parenthesized or prefix-operator expression, or a list.
func (p *Parser) primary(max int) (Term, int, error) {
	switch tok := p.current; tok.Kind {
	case TokenInteger, TokenFloat:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		n, err := ParseNumber(tok.Val)
		if err != nil {
			return nil, 0, &ParseError{Token: tok, Message: err.Error()}
		}
		return n, 0, nil
	case TokenString:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		return String(tok.Val), 0, nil
	case TokenVariable:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		return p.variable(tok.Val), 0, nil
	case TokenPunct:
		switch tok.Val {
		case "(":
			if err := p.advance(); err != nil {
				return nil, 0, err
			}
			t, err := p.expr(1200)
			if err != nil {
				return nil, 0, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, 0, err
			}
			return t, 0, nil
		case "[":
			t, err := p.list()
			if err != nil {
				return nil, 0, err
			}
			return t, 0, nil
		}
		return nil, 0, &ParseError{Token: tok, Message: "term expected"}
	case TokenAtom:
		return p.atomic(max)
	default:
		return nil, 0, &ParseError{Token: tok, Message: "term expected"}
	}
}

func (p *Parser) atomic(max int) (Term, int, error) {
	tok := p.current
	a := Atom(tok.Val)
	if err := p.advance(); err != nil {
		return nil, 0, err
	}

	// Negative numeric literal.
	if a == "-" && (p.current.Kind == TokenInteger || p.current.Kind == TokenFloat) {
		num := p.current
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		n, err := ParseNumber("-" + num.Val)
		if err != nil {
			return nil, 0, &ParseError{Token: num, Message: err.Error()}
		}
		return n, 0, nil
	}

	// Compound in canonical notation.
	if p.current.Kind == TokenPunct && p.current.Val == "(" {
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		var args []Term
		for {
			arg, err := p.expr(999)
			if err != nil {
				return nil, 0, err
			}
			args = append(args, arg)
			if p.current.Kind == TokenPunct && p.current.Val == "," {
				if err := p.advance(); err != nil {
					return nil, 0, err
				}
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, 0, err
		}
		return &Compound{Functor: a, Args: args}, 0, nil
	}

	// Prefix operator applied to an operand.
	if op, ok := p.operators.Prefix(a); ok && op.Priority <= max && p.startsTerm() {
		_, right := op.leftRight()
		x, err := p.expr(right)
		if err != nil {
			return nil, 0, err
		}
		return &Compound{Functor: a, Args: []Term{x}}, op.Priority, nil
	}

	return a, 0, nil
}

// startsTerm reports whether the current token can begin an operand.
func (p *Parser) startsTerm() bool {
	switch p.current.Kind {
	case TokenAtom, TokenVariable, TokenInteger, TokenFloat, TokenString:
		return true
	case TokenPunct:
		return p.current.Val == "(" || p.current.Val == "["
	default:
		return false
	}
}

func (p *Parser) list() (Term, error) {
	if err := p.advance(); err != nil { // consume [
		return nil, err
	}
	if p.current.Kind == TokenPunct && p.current.Val == "]" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Atom("[]"), nil
	}

	var elems []Term
	for {
		e, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.current.Kind == TokenPunct && p.current.Val == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	rest := Term(Atom("[]"))
	if p.current.Kind == TokenPunct && p.current.Val == "|" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		rest = t
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return ListRest(rest, elems...), nil
}

func (p *Parser) expectPunct(val string) error {
	if p.current.Kind != TokenPunct || p.current.Val != val {
		return &ParseError{Token: p.current, Message: val + " expected"}
	}
	return p.advance()
}

// variable returns the term for a variable name within the current
// clause: occurrences of the same name share one variable, while each
// occurrence of the anonymous _ is fresh.
func (p *Parser) variable(name string) Term {
	if name == "_" {
		return NewVariable()
	}
	for _, v := range p.vars {
		if v.Name == name {
			return v.Variable
		}
	}
	v := NewVariable()
	p.vars = append(p.vars, ParsedVariable{Name: name, Variable: v})
	return v
}
