package css

import (
	"testing"
)

func TestTokenizerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"", nil},
		{"   ", []TokenType{TokenWhitespace}},
		{",", []TokenType{TokenComma}},
		{":", []TokenType{TokenColon}},
		{"[]", []TokenType{TokenOpenSquare, TokenCloseSquare}},
		{")", []TokenType{TokenCloseParen}},
		{"p", []TokenType{TokenIdent}},
		{"#main", []TokenType{TokenHash}},
		{"not(", []TokenType{TokenFunction}},
		{"'x'", []TokenType{TokenString}},
		{"ul > li", []TokenType{TokenIdent, TokenWhitespace, TokenDelim, TokenWhitespace, TokenIdent}},
		{"p.lead", []TokenType{TokenIdent, TokenDelim, TokenIdent}},
	}

	for _, tt := range tests {
		tokens := NewTokenizer(tt.input).TokenizeAll()
		if len(tokens) != len(tt.expected) {
			t.Errorf("input %q: expected %d tokens, got %d", tt.input, len(tt.expected), len(tokens))
			continue
		}
		for i, tok := range tokens {
			if tok.Type != tt.expected[i] {
				t.Errorf("input %q: token %d: expected type %d, got %d", tt.input, i, tt.expected[i], tok.Type)
			}
		}
	}
}

func TestTokenizerValues(t *testing.T) {
	tests := []struct {
		input string
		want  Token
	}{
		{"h1", Token{Type: TokenIdent, Value: "h1"}},
		{"-webkit-x", Token{Type: TokenIdent, Value: "-webkit-x"}},
		{"data-id", Token{Type: TokenIdent, Value: "data-id"}},
		{"#a-1", Token{Type: TokenHash, Value: "a-1"}},
		{"#", Token{Type: TokenDelim, Delim: '#'}},
		{"is(", Token{Type: TokenFunction, Value: "is"}},
		{`"a\"b"`, Token{Type: TokenString, Value: `a"b`}},
		{"'open", Token{Type: TokenString, Value: "open"}},
		{"~", Token{Type: TokenDelim, Delim: '~'}},
		{"-", Token{Type: TokenDelim, Delim: '-'}},
		{"é", Token{Type: TokenIdent, Value: "é"}},
	}
	for _, tt := range tests {
		got := NewTokenizer(tt.input).Next()
		if got != tt.want {
			t.Errorf("Next() for %q = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
