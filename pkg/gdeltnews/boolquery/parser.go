package boolquery

import (
	"errors"
	"fmt"
	"strings"
)

// parser is a recursive-descent parser over the lexed token stream,
// one function per precedence level.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// match consumes the next token when it has the given kind.
func (p *parser) match(kind tokenKind) bool {
	if p.done() || p.tokens[p.pos].kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = And{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.match(tokenNot) {
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Expr, error) {
	if p.done() {
		return nil, errors.New("missing operand at end of query")
	}
	switch t := p.next(); t.kind {
	case tokenLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("unbalanced parentheses")
		}
		return expr, nil
	case tokenPhrase:
		return Phrase{Literal: strings.ToLower(t.text)}, nil
	case tokenTerm:
		return Term{Literal: strings.ToLower(t.text)}, nil
	default:
		return nil, fmt.Errorf("missing operand, found %s", t)
	}
}
