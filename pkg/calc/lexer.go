package calc

// Lexer tokenizes a rewritten calculator expression.
// It works on bytes; any non-ASCII byte is reported as TOKEN_ILLEGAL.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token. Whitespace is not skipped; the
// evaluator strips it during normalization.
func (l *Lexer) NextToken() Token {
	pos := l.pos

	switch {
	case l.ch == 0 && l.pos >= len(l.input):
		return Token{Type: TOKEN_EOF, Pos: pos}
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		return l.readWord()
	}

	var tok Token
	switch l.ch {
	case '+':
		tok = l.newToken(TOKEN_PLUS)
	case '-':
		tok = l.newToken(TOKEN_MINUS)
	case '*':
		tok = l.newToken(TOKEN_STAR)
	case '/':
		tok = l.newToken(TOKEN_SLASH)
	case '%':
		tok = l.newToken(TOKEN_PERCENT)
	case '^':
		tok = l.newToken(TOKEN_CARET)
	case '(':
		tok = l.newToken(TOKEN_LPAREN)
	case ')':
		tok = l.newToken(TOKEN_RPAREN)
	default:
		tok = l.newToken(TOKEN_ILLEGAL)
	}
	l.readChar()
	return tok
}

// Tokenize returns every token of input up to and including TOKEN_EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TOKEN_EOF {
			return toks
		}
	}
}

func (l *Lexer) newToken(t TokenType) Token {
	return Token{Type: t, Literal: string(l.ch), Pos: l.pos}
}

// readNumber reads digits ('.' digits)?. A dot without digits on both
// sides yields TOKEN_ILLEGAL carrying the offending literal.
func (l *Lexer) readNumber() Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		if !isDigit(l.peekChar()) {
			l.readChar()
			return Token{Type: TOKEN_ILLEGAL, Literal: l.input[start:l.pos], Pos: start}
		}
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: TOKEN_NUMBER, Literal: l.input[start:l.pos], Pos: start}
}

// readWord reads a run of ASCII letters. Only "sqrt" is a known name.
func (l *Lexer) readWord() Token {
	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	if word == "sqrt" {
		return Token{Type: TOKEN_SQRT, Literal: word, Pos: start}
	}
	return Token{Type: TOKEN_ILLEGAL, Literal: word, Pos: start}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
