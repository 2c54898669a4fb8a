package exact

import (
	"fmt"
	"math"
	"math/big"
)

const maxSimplifySteps = 64

// Simplify narrows v step by step until it reaches a fixed point:
// Algebraic and Root to Rational when the value is rational, Rational to
// Integer when the denominator is 1, integral floats to Integer, Int to
// Integer and Decimal text to its exact value.
//
//	Simplify(root of 4, index 2) → Integer 2
//	Simplify(root of 2, index 2) → the same *Root
//	Simplify(Float(0.5))         → Float(0.5)
func Simplify(v Operand) (Operand, error) {
	current := v
	for step := 0; step < maxSimplifySteps; step++ {
		next, changed, err := narrow(current)
		if err != nil {
			return nil, err
		}
		if !changed || sameValue(next, current) {
			return current, nil
		}
		current = next
	}
	return current, nil
}

func narrow(v Operand) (Operand, bool, error) {
	switch x := v.(type) {
	case Int:
		return NewInteger(int64(x)), true, nil
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false, fmt.Errorf("%w: %v has no exact value", ErrTypeMismatch, f)
		}
		if f != math.Trunc(f) {
			return x, false, nil
		}
		n, _ := big.NewFloat(f).Int(nil)
		return Integer{v: n}, true, nil
	case Decimal:
		q, err := parseDecimal(string(x))
		if err != nil {
			return nil, false, err
		}
		return q, true, nil
	case Integer:
		return x, false, nil
	case Rational:
		if n, ok := x.Reduce(); ok {
			return n, true, nil
		}
		return x, false, nil
	case *Algebraic:
		if x == nil {
			break
		}
		if n, ok := x.Reduce(); ok {
			return n, true, nil
		}
		return x, false, nil
	case *Root:
		if x == nil {
			break
		}
		if n, ok := x.Reduce(); ok {
			return n, true, nil
		}
		return x, false, nil
	}
	return nil, false, fmt.Errorf("%w: %s", ErrUnknownType, kindOf(v))
}

func sameValue(a, b Operand) bool {
	if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// ToNumber simplifies v and returns it as a Number. Non-integral floats
// are comprehended into a Rational.
func ToNumber(v Operand) (Number, error) {
	s, err := Simplify(v)
	if err != nil {
		return nil, err
	}
	if n, ok := s.(Number); ok {
		return n, nil
	}
	q, err := Comprehend(s)
	if err != nil {
		return nil, err
	}
	return q, nil
}
