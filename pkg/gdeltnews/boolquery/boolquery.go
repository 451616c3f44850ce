// Package boolquery compiles boolean filter queries into evaluable
// expressions.
//
// Queries combine bare terms and double-quoted phrases with AND, OR and NOT
// (case-insensitive) plus parentheses, for example:
//
//	((elezioni OR voto) AND (regionali OR campania)) OR (fico AND NOT veneto)
//
// NOT binds tightest, then AND, then OR; AND and OR associate to the left.
// Evaluation is case-insensitive substring containment against the document
// text, with no stemming or tokenization. A keyword inside a quoted phrase
// is literal text, not an operator.
package boolquery

import (
	"fmt"
	"strings"
)

// QueryError describes a boolean query that could not be compiled.
type QueryError struct {
	Query  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid boolean query %q: %s", e.Query, e.Reason)
}

// Expr is one node of a compiled query expression. Implementations are the
// exported Term, Phrase, And, Or and Not types.
type Expr interface {
	// eval reports whether the already case-folded text satisfies the node.
	eval(folded string) bool
}

// Term matches when its literal occurs anywhere in the document text.
type Term struct {
	Literal string
}

// Phrase matches like Term; it exists as a distinct node so a compiled
// query preserves whether the literal was quoted.
type Phrase struct {
	Literal string
}

// And matches when both operands match.
type And struct {
	X, Y Expr
}

// Or matches when either operand matches.
type Or struct {
	X, Y Expr
}

// Not inverts its operand.
type Not struct {
	X Expr
}

func (t Term) eval(folded string) bool   { return strings.Contains(folded, t.Literal) }
func (p Phrase) eval(folded string) bool { return strings.Contains(folded, p.Literal) }
func (a And) eval(folded string) bool    { return a.X.eval(folded) && a.Y.eval(folded) }
func (o Or) eval(folded string) bool     { return o.X.eval(folded) || o.Y.eval(folded) }
func (n Not) eval(folded string) bool    { return !n.X.eval(folded) }

// Query is a compiled boolean query ready for evaluation.
type Query struct {
	expr Expr // nil matches everything
}

// Compile parses a query string. An empty or all-whitespace query compiles
// to a universal match. Compilation fails with a *QueryError on unbalanced
// parentheses, a missing operand, an unterminated or empty phrase, or
// trailing input after a complete expression.
func Compile(query string) (*Query, error) {
	if strings.TrimSpace(query) == "" {
		return &Query{}, nil
	}

	tokens, err := lex(query)
	if err != nil {
		return nil, &QueryError{Query: query, Reason: err.Error()}
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, &QueryError{Query: query, Reason: err.Error()}
	}
	if !p.done() {
		return nil, &QueryError{
			Query:  query,
			Reason: fmt.Sprintf("unexpected %s after complete expression", p.peek()),
		}
	}
	return &Query{expr: expr}, nil
}

// MatchAll reports whether the query accepts every document.
func (q *Query) MatchAll() bool {
	return q == nil || q.expr == nil
}

// Matches reports whether text satisfies the query. Text and query literals
// are both case-folded, so matching is case-insensitive.
func (q *Query) Matches(text string) bool {
	if q.MatchAll() {
		return true
	}
	return q.expr.eval(strings.ToLower(text))
}
