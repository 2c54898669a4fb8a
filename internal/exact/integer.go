package exact

import "math/big"

// Integer is the narrowest member of the tower.
type Integer struct {
	v *big.Int
}

// NewInteger returns x as an Integer.
func NewInteger(x int64) Integer { return Integer{v: big.NewInt(x)} }

// IntegerFromBig copies x into an Integer.
func IntegerFromBig(x *big.Int) Integer { return Integer{v: new(big.Int).Set(x)} }

func (i Integer) val() *big.Int {
	if i.v == nil {
		return bigZero
	}
	return i.v
}

// Big returns a copy of the value.
func (i Integer) Big() *big.Int { return new(big.Int).Set(i.val()) }

// Int64 returns the value and whether it fits in an int64.
func (i Integer) Int64() (int64, bool) { return i.val().Int64(), i.val().IsInt64() }

// Rational widens i to a Rational with denominator 1.
func (i Integer) Rational() Rational { return integral(i.val()) }

func (i Integer) String() string         { return i.val().String() }
func (i Integer) Sign() int              { return i.val().Sign() }
func (i Integer) IsNegative() bool       { return i.val().Sign() < 0 }
func (i Integer) Neg() Number            { return Integer{v: new(big.Int).Neg(i.val())} }
func (i Integer) Reduce() (Number, bool) { return nil, false }

func (i Integer) Add(other Operand) (Number, error) { return narrowed(i.Rational().Add(other)) }
func (i Integer) Sub(other Operand) (Number, error) { return narrowed(i.Rational().Sub(other)) }
func (i Integer) Mul(other Operand) (Number, error) { return narrowed(i.Rational().Mul(other)) }
func (i Integer) Quo(other Operand) (Number, error) { return narrowed(i.Rational().Quo(other)) }
func (i Integer) Pow(exponent Operand) (Number, error) {
	return narrowed(i.Rational().Pow(exponent))
}

func (i Integer) Cmp(other Operand) (int, error)      { return i.Rational().Cmp(other) }
func (i Integer) Equal(other Operand) (bool, error)   { return i.Rational().Equal(other) }
func (i Integer) Less(other Operand) (bool, error)    { return less(i.Cmp(other)) }
func (i Integer) Greater(other Operand) (bool, error) { return greater(i.Cmp(other)) }

// MarshalText implements encoding.TextMarshaler.
func (i Integer) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// narrowed collapses an integer-valued rational result into an Integer.
func narrowed(n Number, err error) (Number, error) {
	if err != nil {
		return nil, err
	}
	if r, ok := n.(Rational); ok {
		if q, ok := r.Reduce(); ok {
			return q, nil
		}
	}
	return n, nil
}
