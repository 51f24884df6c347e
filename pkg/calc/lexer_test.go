package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"", []TokenType{TOKEN_EOF}},
		{"1+2", []TokenType{TOKEN_NUMBER, TOKEN_PLUS, TOKEN_NUMBER, TOKEN_EOF}},
		{"3.14*(2-1)", []TokenType{TOKEN_NUMBER, TOKEN_STAR, TOKEN_LPAREN, TOKEN_NUMBER, TOKEN_MINUS, TOKEN_NUMBER, TOKEN_RPAREN, TOKEN_EOF}},
		{"sqrt(4)^2", []TokenType{TOKEN_SQRT, TOKEN_LPAREN, TOKEN_NUMBER, TOKEN_RPAREN, TOKEN_CARET, TOKEN_NUMBER, TOKEN_EOF}},
		{"(5)%3/1", []TokenType{TOKEN_LPAREN, TOKEN_NUMBER, TOKEN_RPAREN, TOKEN_PERCENT, TOKEN_NUMBER, TOKEN_SLASH, TOKEN_NUMBER, TOKEN_EOF}},
		{"5.", []TokenType{TOKEN_ILLEGAL, TOKEN_EOF}},
		{"sin", []TokenType{TOKEN_ILLEGAL, TOKEN_EOF}},
		{"1 2", []TokenType{TOKEN_NUMBER, TOKEN_ILLEGAL, TOKEN_NUMBER, TOKEN_EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			got := make([]TokenType, len(toks))
			for i, tok := range toks {
				got[i] = tok.Type
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexerLiteralsAndPositions(t *testing.T) {
	toks := Tokenize("12.5+sqrt(3)")

	assert.Equal(t, Token{Type: TOKEN_NUMBER, Literal: "12.5", Pos: 0}, toks[0])
	assert.Equal(t, Token{Type: TOKEN_PLUS, Literal: "+", Pos: 4}, toks[1])
	assert.Equal(t, Token{Type: TOKEN_SQRT, Literal: "sqrt", Pos: 5}, toks[2])
	assert.Equal(t, Token{Type: TOKEN_LPAREN, Literal: "(", Pos: 9}, toks[3])
	assert.Equal(t, TOKEN_EOF, toks[len(toks)-1].Type)
	assert.Equal(t, 12, toks[len(toks)-1].Pos)
}
