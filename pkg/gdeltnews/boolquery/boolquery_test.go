package boolquery

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  bool
	}{
		{"single term present", "fico", "il presidente fico a roma", true},
		{"single term absent", "fico", "consiglio regionale del veneto", false},
		{"term match is case-insensitive", "FICO", "roberto fico", true},
		{"text folding is case-insensitive", "fico", "Roberto FICO", true},
		{"substring containment without tokenization", "meloni", "il melonismo avanza", true},

		{"and not matches without excluded term", "fico AND NOT veneto", "fico a roma", true},
		{"and not rejects excluded term", "fico AND NOT veneto", "fico in veneto", false},
		{"and not rejects excluded term alone", "fico AND NOT veneto", "solo veneto", false},
		{"and not rejects neither term", "fico AND NOT veneto", "nessuno dei due", false},

		{"phrase matches exact sequence", `"giorgia meloni"`, "oggi Giorgia Meloni ha parlato", true},
		{"phrase rejects separated words", `"giorgia meloni"`, "giorgia incontra meloni", false},
		{"keyword inside phrase is literal", `"war and peace"`, "reading war and peace tonight", true},

		{"and binds tighter than or when left matches", "a OR b AND c", "only a here", true},
		{"and binds tighter than or when and fails", "a OR b AND c", "only b here", false},
		{"and binds tighter than or when and holds", "a OR b AND c", "b with c", true},
		{"not binds tighter than and", "NOT a AND b", "just b", true},
		{"not binds tighter than and rejecting", "NOT a AND b", "a with b", false},
		{"double negation", "NOT NOT fico", "fico", true},

		{"parentheses group or", "(a OR b) AND c", "a with c", true},
		{"parentheses group or rejecting", "(a OR b) AND c", "a alone", false},
		{"lowercase keywords", "fico and not veneto", "fico a roma", true},
		{"keyword-like term stays literal", "android", "new android release", true},

		{
			"nested realistic query matching",
			`((elezioni OR voto) AND (regionali OR campania)) OR ((fico OR cirielli) AND NOT veneto)`,
			"le elezioni regionali si avvicinano",
			true,
		},
		{
			"nested realistic query rejecting",
			`((elezioni OR voto) AND (regionali OR campania)) OR ((fico OR cirielli) AND NOT veneto)`,
			"cirielli visita il veneto",
			false,
		},

		{"empty query matches everything", "", "qualsiasi testo", true},
		{"whitespace query matches everything", "   \t ", "qualsiasi testo", true},
		{"empty query matches empty text", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Compile(tt.query)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.query, err)
			}
			if got := q.Matches(tt.text); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing closing parenthesis", "(fico AND veneto"},
		{"stray closing parenthesis", "fico)"},
		{"missing right operand", "fico AND"},
		{"missing left operand", "AND fico"},
		{"lone not", "NOT"},
		{"empty group", "()"},
		{"unterminated phrase", `"giorgia meloni`},
		{"empty phrase", `""`},
		{"adjacent terms without operator", "fico veneto"},
		{"doubled operator", "fico AND AND veneto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.query)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, want error", tt.query)
			}
			var qerr *QueryError
			if !errors.As(err, &qerr) {
				t.Fatalf("error type = %T, want *QueryError", err)
			}
			if qerr.Query != tt.query {
				t.Errorf("QueryError.Query = %q, want %q", qerr.Query, tt.query)
			}
		})
	}
}

func TestCompileStructure(t *testing.T) {
	q, err := Compile(`a OR B AND NOT "C d"`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// Literals are folded at compile time; precedence shapes the tree.
	want := Or{
		X: Term{Literal: "a"},
		Y: And{
			X: Term{Literal: "b"},
			Y: Not{X: Phrase{Literal: "c d"}},
		},
	}
	if !reflect.DeepEqual(q.expr, want) {
		t.Errorf("expr = %#v, want %#v", q.expr, want)
	}
}

func TestCompileLeftAssociative(t *testing.T) {
	q, err := Compile("a OR b OR c")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := Or{
		X: Or{X: Term{Literal: "a"}, Y: Term{Literal: "b"}},
		Y: Term{Literal: "c"},
	}
	if !reflect.DeepEqual(q.expr, want) {
		t.Errorf("expr = %#v, want %#v", q.expr, want)
	}
}

func TestMatchAll(t *testing.T) {
	empty, err := Compile("")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !empty.MatchAll() {
		t.Error("empty query should report MatchAll")
	}

	real, err := Compile("fico")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if real.MatchAll() {
		t.Error("non-empty query should not report MatchAll")
	}

	var nilQuery *Query
	if !nilQuery.Matches("anything") {
		t.Error("nil query should match everything")
	}
}
