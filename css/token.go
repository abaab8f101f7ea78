// Package css parses and matches the selector subset used to filter content
// nodes, and resolves the inline styles that selection state reports on.
package css

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies a selector token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenFunction // ident followed by '('
	TokenHash
	TokenString
	TokenDelim
	TokenWhitespace
	TokenComma
	TokenColon
	TokenOpenSquare
	TokenCloseSquare
	TokenCloseParen
)

// Token is a single lexical unit of a selector.
type Token struct {
	Type  TokenType
	Value string
	Delim rune
}

// Tokenizer splits selector text into tokens.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a tokenizer over input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// TokenizeAll returns every token up to, but not including, EOF.
func (t *Tokenizer) TokenizeAll() []Token {
	var tokens []Token
	for {
		tok := t.Next()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token.
func (t *Tokenizer) Next() Token {
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}
	r, size := utf8.DecodeRuneInString(t.input[t.pos:])

	switch {
	case isWhitespace(r):
		for t.pos < len(t.input) && isWhitespace(rune(t.input[t.pos])) {
			t.pos++
		}
		return Token{Type: TokenWhitespace}
	case r == '"' || r == '\'':
		return t.consumeString(r)
	case r == '#':
		t.pos += size
		if name := t.consumeName(); name != "" {
			return Token{Type: TokenHash, Value: name}
		}
		return Token{Type: TokenDelim, Delim: '#'}
	case r == ',':
		t.pos += size
		return Token{Type: TokenComma}
	case r == ':':
		t.pos += size
		return Token{Type: TokenColon}
	case r == '[':
		t.pos += size
		return Token{Type: TokenOpenSquare}
	case r == ']':
		t.pos += size
		return Token{Type: TokenCloseSquare}
	case r == ')':
		t.pos += size
		return Token{Type: TokenCloseParen}
	case isNameStart(r) || (r == '-' && t.pos+size < len(t.input)):
		name := t.consumeName()
		if name == "" {
			t.pos += size
			return Token{Type: TokenDelim, Delim: r}
		}
		if t.pos < len(t.input) && t.input[t.pos] == '(' {
			t.pos++
			return Token{Type: TokenFunction, Value: name}
		}
		return Token{Type: TokenIdent, Value: name}
	default:
		t.pos += size
		return Token{Type: TokenDelim, Delim: r}
	}
}

func (t *Tokenizer) consumeName() string {
	start := t.pos
	for t.pos < len(t.input) {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if !isNameChar(r) {
			break
		}
		t.pos += size
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) consumeString(quote rune) Token {
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		t.pos += size
		switch {
		case r == quote:
			return Token{Type: TokenString, Value: sb.String()}
		case r == '\\' && t.pos < len(t.input):
			esc, escSize := utf8.DecodeRuneInString(t.input[t.pos:])
			t.pos += escSize
			sb.WriteRune(esc)
		default:
			sb.WriteRune(r)
		}
	}
	// unterminated strings run to the end of input
	return Token{Type: TokenString, Value: sb.String()}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isNameStart(r rune) bool {
	return r == '_' || r >= 0x80 || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || (r >= '0' && r <= '9')
}
