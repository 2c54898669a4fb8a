package exact

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
)

// Rational is an exact fraction kept in lowest terms with a positive
// denominator. The zero value is 0.
type Rational struct {
	num *big.Int
	den *big.Int
}

// NewRational returns num/den in lowest terms.
//
//	NewRational(6, 8)  → 3/4
//	NewRational(6, -8) → -3/4
//	NewRational(5, 0)  → ErrDivisionByZero
func NewRational(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, fmt.Errorf("%w: %d/0", ErrDivisionByZero, num)
	}
	return normalize(big.NewInt(num), big.NewInt(den)), nil
}

// MustRational is like NewRational but panics on a zero denominator.
func MustRational(num, den int64) Rational {
	r, err := NewRational(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// RationalFromBig returns num/den in lowest terms. The arguments are copied.
func RationalFromBig(num, den *big.Int) (Rational, error) {
	if num == nil || den == nil {
		return Rational{}, fmt.Errorf("%w: nil numerator or denominator", ErrTypeMismatch)
	}
	if den.Sign() == 0 {
		return Rational{}, fmt.Errorf("%w: %s/0", ErrDivisionByZero, num)
	}
	return normalize(new(big.Int).Set(num), new(big.Int).Set(den)), nil
}

// normalize takes ownership of num and den; den must be non-zero.
func normalize(num, den *big.Int) Rational {
	if num.Sign() == 0 {
		return Rational{num: num.SetInt64(0), den: den.SetInt64(1)}
	}
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Cmp(bigOne) != 0 {
		num.Quo(num, g)
		den.Quo(den, g)
	}
	return Rational{num: num, den: den}
}

// integral takes ownership of n.
func integral(n *big.Int) Rational {
	return Rational{num: n, den: bigOne}
}

func (r Rational) n() *big.Int {
	if r.num == nil {
		return bigZero
	}
	return r.num
}

func (r Rational) d() *big.Int {
	if r.den == nil {
		return bigOne
	}
	return r.den
}

// Num returns a copy of the numerator.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.n()) }

// Denom returns a copy of the denominator.
func (r Rational) Denom() *big.Int { return new(big.Int).Set(r.d()) }

// Sign returns -1, 0 or +1.
func (r Rational) Sign() int { return r.n().Sign() }

// IsInteger reports whether the denominator is 1.
func (r Rational) IsInteger() bool { return r.d().Cmp(bigOne) == 0 }

// IsNegative reports whether r < 0.
func (r Rational) IsNegative() bool { return r.n().Sign() < 0 }

func (r Rational) String() string {
	if r.IsInteger() {
		return r.n().String()
	}
	return r.n().String() + "/" + r.d().String()
}

// Float64 returns the nearest float64.
func (r Rational) Float64() float64 {
	f, _ := r.rat().Float64()
	return f
}

func (r Rational) rat() *big.Rat {
	return new(big.Rat).SetFrac(r.n(), r.d())
}

func (r Rational) neg() Rational {
	return Rational{num: new(big.Int).Neg(r.n()), den: r.d()}
}

func (r Rational) abs() Rational {
	if r.Sign() >= 0 {
		return r
	}
	return r.neg()
}

func (r Rational) add(o Rational) Rational {
	n := new(big.Int).Mul(r.n(), o.d())
	n.Add(n, new(big.Int).Mul(o.n(), r.d()))
	return normalize(n, new(big.Int).Mul(r.d(), o.d()))
}

func (r Rational) sub(o Rational) Rational {
	return r.add(o.neg())
}

func (r Rational) mul(o Rational) Rational {
	return normalize(new(big.Int).Mul(r.n(), o.n()), new(big.Int).Mul(r.d(), o.d()))
}

// quo panics on a zero divisor; callers check first.
func (r Rational) quo(o Rational) Rational {
	return normalize(new(big.Int).Mul(r.n(), o.d()), new(big.Int).Mul(r.d(), o.n()))
}

func (r Rational) cmp(o Rational) int {
	a := new(big.Int).Mul(r.n(), o.d())
	b := new(big.Int).Mul(o.n(), r.d())
	return a.Cmp(b)
}

func (r Rational) powInt(k int64) Rational {
	e := big.NewInt(k)
	return Rational{
		num: new(big.Int).Exp(r.n(), e, nil),
		den: new(big.Int).Exp(r.d(), e, nil),
	}
}

// resolve narrows other. Rational-valued operands come back as a Rational;
// irrational ones come back as the Number that has to handle the operation.
func resolve(other Operand) (Rational, Number, error) {
	s, err := Simplify(other)
	if err != nil {
		return Rational{}, nil, err
	}
	switch v := s.(type) {
	case *Algebraic:
		return Rational{}, v, nil
	case *Root:
		return Rational{}, v, nil
	}
	q, err := Comprehend(s)
	return q, nil, err
}

func (r Rational) Add(other Operand) (Number, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return irr.Add(r)
	}
	return r.add(o), nil
}

func (r Rational) Sub(other Operand) (Number, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return irr.Neg().Add(r)
	}
	return r.sub(o), nil
}

func (r Rational) Mul(other Operand) (Number, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return irr.Mul(r)
	}
	return r.mul(o), nil
}

func (r Rational) Quo(other Operand) (Number, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		inv, err := inverse(irr)
		if err != nil {
			return nil, err
		}
		return inv.Mul(r)
	}
	if o.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, r)
	}
	return r.quo(o), nil
}

// Inv returns 1/r.
func (r Rational) Inv() (Rational, error) {
	if r.Sign() == 0 {
		return Rational{}, fmt.Errorf("%w: reciprocal of 0", ErrDivisionByZero)
	}
	return normalize(new(big.Int).Set(r.d()), new(big.Int).Set(r.n())), nil
}

// Abs returns |r|.
func (r Rational) Abs() Rational { return r.abs() }

// Pow raises r to a rational exponent. Integer exponents stay rational;
// an exponent p/q produces the principal real q-th root of r^p, narrowed
// back to a Rational when it is one.
func (r Rational) Pow(exponent Operand) (Number, error) {
	e, irr, err := resolve(exponent)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return nil, unsupported("^", r, irr)
	}
	if err := checkExponent(e); err != nil {
		return nil, err
	}
	p, q := e.n().Int64(), e.d().Int64()

	base := r
	if p < 0 {
		if base, err = r.Inv(); err != nil {
			return nil, err
		}
		p = -p
	}
	powered := base.powInt(p)
	if q == 1 {
		return powered, nil
	}
	root, err := newRoot(powered, q)
	if err != nil {
		return nil, err
	}
	return root.Simplify(), nil
}

func (r Rational) Cmp(other Operand) (int, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return 0, err
	}
	if irr != nil {
		c, err := irr.Cmp(r)
		return -c, err
	}
	return r.cmp(o), nil
}

func (r Rational) Equal(other Operand) (bool, error) {
	o, irr, err := resolve(other)
	if err != nil {
		return false, err
	}
	if irr != nil {
		return irr.Equal(r)
	}
	return r.cmp(o) == 0, nil
}

func (r Rational) Less(other Operand) (bool, error)    { return less(r.Cmp(other)) }
func (r Rational) Greater(other Operand) (bool, error) { return greater(r.Cmp(other)) }

// Reduce narrows an integer-valued rational to an Integer.
func (r Rational) Reduce() (Number, bool) {
	if !r.IsInteger() {
		return nil, false
	}
	return Integer{v: r.n()}, true
}

func (r Rational) Neg() Number { return r.neg() }

// Round rounds r to precision decimal places, half away from zero, and
// returns the result as an exact fraction. A negative precision rounds to
// tens, hundreds and so on.
//
//	MustRational(22, 7).Round(2) → 157/50
func (r Rational) Round(precision int) Rational {
	p := precision
	if p < 0 {
		p = -p
	}
	scale := pow10(p)

	n := new(big.Int).Abs(r.n())
	d := new(big.Int).Set(r.d())
	if precision >= 0 {
		n.Mul(n, scale)
	} else {
		d.Mul(d, scale)
	}
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if m.Lsh(m, 1).Cmp(d) >= 0 {
		q.Add(q, bigOne)
	}
	if r.IsNegative() {
		q.Neg(q)
	}
	if precision >= 0 {
		return normalize(q, scale)
	}
	return integral(q.Mul(q, scale))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It only fills a zero
// Rational; a constructed value fails with ErrImmutable.
func (r *Rational) UnmarshalText(text []byte) error {
	if r.num != nil || r.den != nil {
		return fmt.Errorf("%w: rational %s is already constructed", ErrImmutable, r)
	}
	q, err := parseDecimal(string(text))
	if err != nil {
		return err
	}
	*r = q
	return nil
}

// UnmarshalJSON accepts a JSON string or a bare JSON number.
func (r *Rational) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	return r.UnmarshalText([]byte(text))
}

// MarshalYAML writes r as a plain scalar.
func (r Rational) MarshalYAML() (interface{}, error) { return r.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rational) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: yaml node at line %d is not a scalar", ErrTypeMismatch, value.Line)
	}
	return r.UnmarshalText([]byte(value.Value))
}

func pow10(k int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(k)), nil)
}

// inverse returns 1/n for the irrational members of the tower.
func inverse(n Number) (Number, error) {
	switch v := n.(type) {
	case *Root:
		inv, err := v.Inv()
		if err != nil {
			return nil, err
		}
		return inv, nil
	case *Algebraic:
		return v.Inv()
	case Rational:
		inv, err := v.Inv()
		if err != nil {
			return nil, err
		}
		return inv, nil
	case Integer:
		return inverse(v.Rational())
	}
	return nil, unsupported("1/", "inverse", n)
}
