package calc

// TokenType identifies the lexical class of a token.
type TokenType int

// Token types produced by the Lexer.
const (
	TOKEN_ILLEGAL TokenType = iota //nolint:revive // matches parser naming
	TOKEN_EOF
	TOKEN_NUMBER
	TOKEN_SQRT
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_PERCENT
	TOKEN_CARET
	TOKEN_LPAREN
	TOKEN_RPAREN
)

var tokenNames = [...]string{
	TOKEN_ILLEGAL: "ILLEGAL",
	TOKEN_EOF:     "end of input",
	TOKEN_NUMBER:  "number",
	TOKEN_SQRT:    "sqrt",
	TOKEN_PLUS:    "'+'",
	TOKEN_MINUS:   "'-'",
	TOKEN_STAR:    "'*'",
	TOKEN_SLASH:   "'/'",
	TOKEN_PERCENT: "'%'",
	TOKEN_CARET:   "'^'",
	TOKEN_LPAREN:  "'('",
	TOKEN_RPAREN:  "')'",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token is a lexical token with its byte offset in the input.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}
