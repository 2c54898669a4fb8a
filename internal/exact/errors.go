package exact

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when an operand cannot be comprehended
	// into the requested exact type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDivisionByZero covers zero denominators, zero reciprocals and
	// zeroth roots.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrMalformedAlgebraic is returned for polynomials of degree < 1 or
	// with non-integer coefficients.
	ErrMalformedAlgebraic = errors.New("malformed algebraic number")

	ErrUnsupportedOperand = errors.New("unsupported operand")
	ErrNotImplemented     = errors.New("not implemented")

	// ErrImmutable is returned when a constructed value is asked to change.
	ErrImmutable = errors.New("value is immutable")

	ErrUnknownType = errors.New("unknown numeric type")

	// ErrNonReal is returned when a result would leave the real numbers,
	// e.g. an even root of a negative radicand.
	ErrNonReal = errors.New("result is not a real number")

	// ErrLimitExceeded is returned when a computation would exceed the
	// bounds configured through Configure.
	ErrLimitExceeded = errors.New("computation limit exceeded")
)

func unsupported(op string, a, b any) error {
	return fmt.Errorf("%w: %s %s %s", ErrUnsupportedOperand, kindOf(a), op, kindOf(b))
}

func mixedIndex(op string, m, n int64) error {
	return fmt.Errorf("%w: %w: %s of roots with index %d and %d", ErrUnsupportedOperand, ErrNotImplemented, op, m, n)
}
