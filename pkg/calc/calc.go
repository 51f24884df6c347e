// Package calc evaluates calculator expressions.
//
// Input goes through a fixed pipeline before any interpretation happens:
//
//	normalize  → strip whitespace, map × and ÷ to * and /
//	validate   → whitelist of digits, . + - * / % ( ) ^ √ and the word sqrt
//	rewrite    → "<digits>%" becomes "(<digits>/100)", √ becomes sqrt
//	length     → at most MaxLength bytes after rewriting
//	parse      → recursive descent over an explicit token stream
//
// Nothing is ever handed to a general-purpose interpreter. All functions
// are pure and safe for concurrent use.
package calc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the longest rewritten expression that will be parsed.
const MaxLength = 100

var (
	symbolReplacer = strings.NewReplacer("×", "*", "÷", "/")

	// Percent applies only to a literal digit run, never to a parenthesized
	// group or a decimal fraction as a whole: "2.50%" becomes "2.(50/100)".
	percentPattern = regexp.MustCompile(`([0-9]+)%`)
)

// Evaluate evaluates raw and returns the canonical result string.
// Every failure is an *Error.
func Evaluate(raw string) (string, error) {
	v, err := Compute(raw)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// Compute runs the evaluation pipeline and returns the unformatted value.
func Compute(raw string) (float64, error) {
	expr := Normalize(raw)
	if err := Validate(expr); err != nil {
		return 0, err
	}
	expr = Rewrite(expr)
	if len(expr) > MaxLength {
		return 0, newError(KindExpressionTooLong, -1, "expression is %d characters, limit is %d", len(expr), MaxLength)
	}
	return NewParser(expr).Parse()
}

// Normalize removes all whitespace and substitutes the typographic
// multiplication and division signs.
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return symbolReplacer.Replace(stripped)
}

// Validate checks expr against the character whitelist. The word "sqrt"
// is accepted as a unit; any other letter is rejected.
func Validate(expr string) error {
	for i := 0; i < len(expr); {
		if strings.HasPrefix(expr[i:], "sqrt") {
			i += len("sqrt")
			continue
		}
		r, size := utf8.DecodeRuneInString(expr[i:])
		if !isAllowed(r) {
			return newError(KindInvalidCharacters, i, "character %q is not allowed", r)
		}
		i += size
	}
	return nil
}

// Rewrite applies the percent and square-root textual rewrites.
func Rewrite(expr string) string {
	expr = percentPattern.ReplaceAllString(expr, "(${1}/100)")
	return strings.ReplaceAll(expr, "√", "sqrt")
}

func isAllowed(r rune) bool {
	switch r {
	case '.', '+', '-', '*', '/', '%', '(', ')', '^', '√':
		return true
	}
	return r >= '0' && r <= '9'
}
