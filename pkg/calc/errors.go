package calc

import (
	"errors"
	"fmt"
)

// Kind classifies an evaluation failure.
type Kind int

// Evaluation failure kinds.
const (
	KindInvalidCharacters Kind = iota + 1
	KindExpressionTooLong
	KindSyntax
	KindDivisionByZero
	KindDomain
)

var kindNames = map[Kind]string{
	KindInvalidCharacters: "invalid characters",
	KindExpressionTooLong: "expression too long",
	KindSyntax:            "syntax error",
	KindDivisionByZero:    "division by zero",
	KindDomain:            "domain error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned for every expected evaluation failure.
// Pos is a byte offset into the rewritten expression, or -1 when the
// failure is not tied to a position.
type Error struct {
	Kind    Kind
	Pos     int
	Message string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, so that the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidCharacters = &Error{Kind: KindInvalidCharacters, Pos: -1, Message: "expression contains unsupported characters"}
	ErrExpressionTooLong = &Error{Kind: KindExpressionTooLong, Pos: -1, Message: "expression exceeds maximum length"}
	ErrSyntax            = &Error{Kind: KindSyntax, Pos: -1, Message: "malformed expression"}
	ErrDivisionByZero    = &Error{Kind: KindDivisionByZero, Pos: -1, Message: "division by zero"}
	ErrDomain            = &Error{Kind: KindDomain, Pos: -1, Message: "value outside function domain"}
)

// KindOf extracts the failure kind from err. It returns 0 when err is not
// an evaluation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Common error messages
const (
	errUnexpectedToken = "unexpected %s, expected %s"
	errInvalidNumber   = "invalid number literal %q"
	errUnknownWord     = "unknown name %q"
)
