package calc

import (
	"math"
	"math/big"
	"strconv"
)

// Grammar, evaluated while parsing:
//
//	expr    → term (('+' | '-') term)*
//	term    → factor (('*' | '/' | '%') factor)*
//	factor  → unary ('^' unary)*            left-associative
//	unary   → '-' unary | primary
//	primary → NUMBER | '(' expr ')' | 'sqrt' '(' expr ')'
//
// Unary minus binds tighter than '^', so -2^2 is 4 and 2^3^2 is 64.

// Parser is a recursive-descent evaluator over the token stream of a
// single expression. A Parser is not reused across expressions.
type Parser struct {
	lexer *Lexer
	token Token // current token
}

// NewParser creates a parser for the given rewritten expression.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	return p
}

// Parse evaluates the whole input and returns its numeric value.
func (p *Parser) Parse() (float64, error) {
	if p.token.Type == TOKEN_EOF {
		return 0, newError(KindSyntax, p.token.Pos, "empty expression")
	}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.token.Type != TOKEN_EOF {
		return 0, p.unexpected("operator or end of input")
	}
	return v, nil
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.lexer.NextToken()
}

// expect consumes a token of type t or fails with a syntax error.
func (p *Parser) expect(t TokenType) error {
	if p.token.Type != t {
		return p.unexpected(t.String())
	}
	p.nextToken()
	return nil
}

func (p *Parser) unexpected(want string) *Error {
	tok := p.token
	switch {
	case tok.Type == TOKEN_ILLEGAL && len(tok.Literal) > 0 && isLetter(tok.Literal[0]):
		return newError(KindSyntax, tok.Pos, errUnknownWord, tok.Literal)
	case tok.Type == TOKEN_ILLEGAL && len(tok.Literal) > 0 && isDigit(tok.Literal[0]):
		return newError(KindSyntax, tok.Pos, errInvalidNumber, tok.Literal)
	case tok.Type == TOKEN_ILLEGAL:
		return newError(KindSyntax, tok.Pos, errUnexpectedToken, strconv.Quote(tok.Literal), want)
	default:
		return newError(KindSyntax, tok.Pos, errUnexpectedToken, tok.Type, want)
	}
}

func (p *Parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.token.Type == TOKEN_PLUS || p.token.Type == TOKEN_MINUS {
		op := p.token
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op.Type == TOKEN_PLUS {
			left += right
		} else {
			left -= right
		}
		if err := checkFinite(left, op.Pos); err != nil {
			return 0, err
		}
	}
	return left, nil
}

func (p *Parser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for p.token.Type == TOKEN_STAR || p.token.Type == TOKEN_SLASH || p.token.Type == TOKEN_PERCENT {
		op := p.token
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		switch op.Type {
		case TOKEN_STAR:
			left *= right
		case TOKEN_SLASH:
			if right == 0 {
				return 0, newError(KindDivisionByZero, op.Pos, "division by zero")
			}
			left /= right
		case TOKEN_PERCENT:
			if right == 0 {
				return 0, newError(KindDivisionByZero, op.Pos, "modulo by zero")
			}
			left = floorMod(left, right)
		}
		if err := checkFinite(left, op.Pos); err != nil {
			return 0, err
		}
	}
	return left, nil
}

func (p *Parser) parseFactor() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.token.Type == TOKEN_CARET {
		op := p.token
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if left == 0 && right < 0 {
			return 0, newError(KindDivisionByZero, op.Pos, "zero raised to a negative power")
		}
		left = pow(left, right)
		if math.IsNaN(left) {
			return 0, newError(KindDomain, op.Pos, "fractional power of a negative number")
		}
		if err := checkFinite(left, op.Pos); err != nil {
			return 0, err
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (float64, error) {
	if p.token.Type == TOKEN_MINUS {
		p.nextToken()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (float64, error) {
	tok := p.token
	switch tok.Type {
	case TOKEN_NUMBER:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return 0, newError(KindSyntax, tok.Pos, errInvalidNumber, tok.Literal)
		}
		p.nextToken()
		return v, nil

	case TOKEN_LPAREN:
		p.nextToken()
		v, err := p.parseGroup()
		if err != nil {
			return 0, err
		}
		return v, nil

	case TOKEN_SQRT:
		p.nextToken()
		if err := p.expect(TOKEN_LPAREN); err != nil {
			return 0, err
		}
		v, err := p.parseGroup()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, newError(KindDomain, tok.Pos, "square root of a negative number")
		}
		return math.Sqrt(v), nil

	default:
		return 0, p.unexpected("number, '(' or sqrt")
	}
}

// parseGroup parses the inside of a parenthesized group after '(' and
// consumes the closing ')'.
func (p *Parser) parseGroup() (float64, error) {
	if p.token.Type == TOKEN_RPAREN {
		return 0, newError(KindSyntax, p.token.Pos, "empty parentheses")
	}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if err := p.expect(TOKEN_RPAREN); err != nil {
		return 0, err
	}
	return v, nil
}

// floorMod returns a mod b with the sign of b.
func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Integer powers are computed by repeated squaring in extended precision
// and rounded once, so results such as 10^200 are the float64 nearest to
// the exact value. Exponents beyond maxExactExponent overflow or underflow
// for every base other than ±1.
const (
	maxExactExponent = 1024
	powPrecision     = 512
)

func pow(base, exp float64) float64 {
	if base == 0 || exp != math.Trunc(exp) || math.Abs(exp) > maxExactExponent {
		return math.Pow(base, exp)
	}

	result := new(big.Float).SetPrec(powPrecision).SetInt64(1)
	b := new(big.Float).SetPrec(powPrecision).SetFloat64(base)
	for n := int64(math.Abs(exp)); n > 0; n >>= 1 {
		if n&1 == 1 {
			result.Mul(result, b)
		}
		b.Mul(b, b)
	}
	if exp < 0 {
		result.Quo(new(big.Float).SetPrec(powPrecision).SetInt64(1), result)
	}

	f, _ := result.Float64()
	return f
}

func checkFinite(v float64, pos int) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return newError(KindDomain, pos, "result out of range")
	}
	return nil
}
