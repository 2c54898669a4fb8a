package exact

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Operand is any value an arithmetic method accepts. The set is closed:
// Int, Float, Decimal, Integer, Rational, *Algebraic and *Root.
type Operand interface {
	operand()
}

// Int is an int64 literal operand.
type Int int64

// Float is a float64 literal operand. It is converted exactly from its
// binary form and then rounded to Limits.FloatDigits decimal places.
type Float float64

// Decimal is a textual operand: "12", "-0.125", "0.1(6)" or "3/4".
type Decimal string

func (Int) operand()        {}
func (Float) operand()      {}
func (Decimal) operand()    {}
func (Integer) operand()    {}
func (Rational) operand()   {}
func (*Algebraic) operand() {}
func (*Root) operand()      {}

func (i Int) String() string     { return strconv.FormatInt(int64(i), 10) }
func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (d Decimal) String() string { return string(d) }

// Number is the contract every exact numeric type satisfies.
type Number interface {
	Operand
	fmt.Stringer

	Add(other Operand) (Number, error)
	Sub(other Operand) (Number, error)
	Mul(other Operand) (Number, error)
	Quo(other Operand) (Number, error)
	Pow(exponent Operand) (Number, error)

	Cmp(other Operand) (int, error)
	Equal(other Operand) (bool, error)
	Less(other Operand) (bool, error)
	Greater(other Operand) (bool, error)

	// Reduce performs one narrowing step (Algebraic to Rational, Rational
	// to Integer). It reports false when no narrowing is possible.
	Reduce() (Number, bool)
	Neg() Number
	IsNegative() bool
}

// FromGo maps a native Go value onto an Operand.
func FromGo(v any) (Operand, error) {
	switch x := v.(type) {
	case Operand:
		return x, nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint:
		return IntegerFromBig(new(big.Int).SetUint64(uint64(x))), nil
	case uint64:
		if x <= math.MaxInt64 {
			return Int(x), nil
		}
		return IntegerFromBig(new(big.Int).SetUint64(x)), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return Decimal(x), nil
	case *big.Int:
		if x != nil {
			return IntegerFromBig(x), nil
		}
	case *big.Rat:
		if x != nil {
			q, err := RationalFromBig(x.Num(), x.Denom())
			if err != nil {
				return nil, err
			}
			return q, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownType, v)
}

func kindOf(v any) string {
	switch v.(type) {
	case Int:
		return "int"
	case Float:
		return "float"
	case Decimal:
		return "decimal"
	case Integer:
		return "integer"
	case Rational:
		return "rational"
	case *Algebraic:
		return "algebraic"
	case *Root:
		return "root"
	case string:
		return v.(string)
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func less(c int, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

func greater(c int, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
