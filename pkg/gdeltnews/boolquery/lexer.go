package boolquery

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenPhrase
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

func (t token) String() string {
	switch t.kind {
	case tokenTerm:
		return fmt.Sprintf("term %q", t.text)
	case tokenPhrase:
		return fmt.Sprintf("phrase %q", t.text)
	case tokenAnd:
		return "AND"
	case tokenOr:
		return "OR"
	case tokenNot:
		return "NOT"
	case tokenLParen:
		return `"("`
	default:
		return `")"`
	}
}

// lex splits a query into tokens. Quoted phrases are consumed whole before
// keyword recognition, so operators inside quotes stay literal. Keywords
// are matched case-insensitively against whole tokens only; a term such as
// "android" is not an operator.
func lex(query string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(query) {
		r, size := utf8.DecodeRuneInString(query[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen})
			i++
		case r == '"':
			end := strings.IndexByte(query[i+1:], '"')
			if end < 0 {
				return nil, errors.New("unterminated phrase")
			}
			if end == 0 {
				return nil, errors.New("empty phrase")
			}
			tokens = append(tokens, token{kind: tokenPhrase, text: query[i+1 : i+1+end]})
			i += end + 2
		default:
			start := i
			for i < len(query) {
				r, size := utf8.DecodeRuneInString(query[i:])
				if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
					break
				}
				i += size
			}
			word := query[start:i]
			switch {
			case strings.EqualFold(word, "AND"):
				tokens = append(tokens, token{kind: tokenAnd})
			case strings.EqualFold(word, "OR"):
				tokens = append(tokens, token{kind: tokenOr})
			case strings.EqualFold(word, "NOT"):
				tokens = append(tokens, token{kind: tokenNot})
			default:
				tokens = append(tokens, token{kind: tokenTerm, text: word})
			}
		}
	}
	return tokens, nil
}
