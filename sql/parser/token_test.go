package parser

import (
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		types []TokenType
	}{
		{
			name:  "SimpleSelect",
			sql:   "SELECT name FROM users",
			types: []TokenType{KEYWORD_TOK, IDENT_TOK, KEYWORD_TOK, IDENT_TOK},
		},
		{
			name:  "Punctuation",
			sql:   "(a, b);",
			types: []TokenType{LPAREN_TOK, IDENT_TOK, COMMA_TOK, IDENT_TOK, RPAREN_TOK, SEMICOLON_TOK},
		},
		{
			name:  "Arithmetic",
			sql:   "1 + 2 * 3 / 4 % 5",
			types: []TokenType{NUMBER_TOK, PLUS_TOK, NUMBER_TOK, ASTERISK_TOK, NUMBER_TOK, DIVIDE_TOK, NUMBER_TOK, MODULUS_TOK, NUMBER_TOK},
		},
		{
			name:  "Concat",
			sql:   "a || b",
			types: []TokenType{IDENT_TOK, CONCAT_TOK, IDENT_TOK},
		},
		{
			name:  "QualifiedName",
			sql:   "users.id",
			types: []TokenType{IDENT_TOK, DOT_TOK, IDENT_TOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Tokenize(tt.sql)
			if err != nil {
				t.Fatal(err)
			}
			if q.Len() != len(tt.types) {
				t.Fatalf("expected %d tokens, got %d", len(tt.types), q.Len())
			}
			for i, want := range tt.types {
				tok := q.Pop()
				if tok.Type != want {
					t.Errorf("token %d: expected type %d, got %d (%q)", i, want, tok.Type, tok.Text)
				}
			}
		})
	}
}

func TestTokenizeComparisons(t *testing.T) {
	ops := []string{"=", "==", "!=", "<>", "<", ">", "<=", ">="}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			q, err := Tokenize("a " + op + " b")
			if err != nil {
				t.Fatal(err)
			}
			q.Pop() // a
			tok := q.Pop()
			if tok.Type != COMPARISON_TOK || tok.Text != op {
				t.Errorf("expected comparison %q, got %q (type %d)", op, tok.Text, tok.Type)
			}
		})
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		text  string
		quote byte
	}{
		{"SingleQuoted", `'hello'`, "hello", '\''},
		{"DoubleQuoted", `"column name"`, "column name", '"'},
		{"DoubledQuoteEscape", `'it''s'`, "it's", '\''},
		{"BackslashEscape", `'it\'s'`, "it's", '\''},
		{"Empty", `''`, "", '\''},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Tokenize(tt.sql)
			if err != nil {
				t.Fatal(err)
			}
			tok := q.Pop()
			if tok.Type != STRING_TOK {
				t.Fatalf("expected string token, got type %d", tok.Type)
			}
			if tok.Text != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, tok.Text)
			}
			if tok.Quote != tt.quote {
				t.Errorf("expected quote %c, got %c", tt.quote, tok.Quote)
			}
		})
	}
}

func TestTokenizeComments(t *testing.T) {
	q, err := Tokenize("SELECT -- trailing comment\n a /* block\ncomment */ FROM t")
	if err != nil {
		t.Fatal(err)
	}
	if q.Len() != 4 {
		t.Fatalf("expected comments to be discarded, got %d tokens", q.Len())
	}
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"select", "SELECT", "SeLeCt"} {
		q, err := Tokenize(word)
		if err != nil {
			t.Fatal(err)
		}
		tok := q.Pop()
		if !tok.Is(KwSelect) {
			t.Errorf("expected %q to resolve to SELECT keyword", word)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		code string
	}{
		{"UnterminatedSingle", "'abc", ErrMismatchedSingleQuotes.String()},
		{"UnterminatedDouble", `"abc`, ErrMismatchedDoubleQuotes.String()},
		{"UnbalancedOpen", "(a + b", ErrMismatchedParenthesis.String()},
		{"UnbalancedClose", "a + b)", ErrMismatchedParenthesis.String()},
		{"StrayBang", "a ! b", ErrMalformedCommand.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.sql)
			if err == nil {
				t.Fatalf("expected error for %q", tt.sql)
			}
			perr, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Code.String() != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, perr.Code)
			}
		})
	}
}

func TestTokenQueueOperations(t *testing.T) {
	q, err := Tokenize("a b c")
	if err != nil {
		t.Fatal(err)
	}

	if q.LookAhead().Text != "a" {
		t.Error("LookAhead should not consume")
	}
	if q.LookAheadAt(2).Text != "c" {
		t.Error("LookAheadAt(2) should see the third token")
	}

	first := q.Pop()
	if first.Text != "a" {
		t.Errorf("expected 'a', got %q", first.Text)
	}

	q.Push(first)
	if q.Pop().Text != "a" {
		t.Error("Push should undo the Pop")
	}

	q.Pop()
	q.Pop()
	if q.Pop().Type != EOF_TOK {
		t.Error("drained queue should return EOF tokens")
	}
	if q.LookAheadAt(5).Type != EOF_TOK {
		t.Error("lookahead past the end should return EOF tokens")
	}
}

func TestTokenQueueReset(t *testing.T) {
	q, err := Tokenize("a b")
	if err != nil {
		t.Fatal(err)
	}
	q.Pop()

	if err := q.Reset("x y z"); err != nil {
		t.Fatal(err)
	}
	if q.Len() != 3 {
		t.Errorf("expected 3 tokens after reset, got %d", q.Len())
	}
	if q.Pop().Text != "x" {
		t.Error("reset should rewind to the new input's first token")
	}
}
