package exact

import (
	"fmt"
	"math"
	"math/big"
)

// Root is the principal real radical coef · radicand^(1/index). The
// radicand is a positive integer kept free of index-th powers as far as
// trial division can tell, so equal radicals usually share one form.
type Root struct {
	coef     Rational
	radicand *big.Int
	index    int64
}

// NewRoot returns the principal real root radicand^(1/index). A rational
// index p/q denotes radicand^(q/p); a negative index takes the root of the
// reciprocal.
//
//	NewRoot(Int(4), Int(2))  → 2 after Simplify
//	NewRoot(Int(-8), Int(3)) → -2 after Simplify
//	NewRoot(Int(-4), Int(2)) → ErrNonReal
func NewRoot(radicand, index Operand) (*Root, error) {
	e, irr, err := resolve(index)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return nil, unsupported("root", radicand, irr)
	}
	if e.Sign() == 0 {
		return nil, fmt.Errorf("%w: zeroth root", ErrDivisionByZero)
	}
	if err := checkExponent(e); err != nil {
		return nil, err
	}
	p, q := e.n().Int64(), e.d().Int64()

	s, err := Simplify(radicand)
	if err != nil {
		return nil, err
	}
	switch v := s.(type) {
	case *Algebraic:
		return nil, fmt.Errorf("%w: algebraic radicand %s, use RootOf", ErrUnsupportedOperand, v)
	case *Root:
		if p < 0 {
			return v.powRoot(-q, -p)
		}
		return v.powRoot(q, p)
	}
	x, err := Comprehend(s)
	if err != nil {
		return nil, err
	}
	if p < 0 {
		if x, err = x.Inv(); err != nil {
			return nil, err
		}
		p = -p
	}
	return newRoot(x.powInt(q), p)
}

// RootOf is NewRoot for every member of the tower, narrowed with Simplify.
func RootOf(radicand, index Operand) (Number, error) {
	s, err := Simplify(radicand)
	if err != nil {
		return nil, err
	}
	a, ok := s.(*Algebraic)
	if !ok {
		r, err := NewRoot(s, index)
		if err != nil {
			return nil, err
		}
		return r.Simplify(), nil
	}
	e, irr, err := resolve(index)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return nil, unsupported("root", a, irr)
	}
	if e.Sign() == 0 {
		return nil, fmt.Errorf("%w: zeroth root", ErrDivisionByZero)
	}
	if !e.IsInteger() {
		inv, _ := e.Inv()
		return a.Pow(inv)
	}
	if err := checkExponent(e); err != nil {
		return nil, err
	}
	n := e.n().Int64()
	if n > 0 {
		return a.nthRoot(n)
	}
	inv, err := a.Inv()
	if err != nil {
		return nil, err
	}
	return RootOf(inv, Int(-n))
}

func checkExponent(e Rational) error {
	limit := big.NewInt(CurrentLimits().MaxExponent)
	if e.n().CmpAbs(limit) > 0 || e.d().Cmp(limit) > 0 {
		return fmt.Errorf("%w: exponent %s", ErrLimitExceeded, e)
	}
	return nil
}

// newRoot returns the principal real n-th root of x for n >= 1.
func newRoot(x Rational, n int64) (*Root, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: root index %d", ErrUnsupportedOperand, n)
	}
	if n > CurrentLimits().MaxExponent {
		return nil, fmt.Errorf("%w: root index %d", ErrLimitExceeded, n)
	}
	if x.IsNegative() && n%2 == 0 {
		return nil, fmt.Errorf("%w: root %d of %s", ErrNonReal, n, x)
	}
	return signedRoot(x.abs(), n, x.IsNegative()), nil
}

// signedRoot returns ±x^(1/n) for x >= 0.
func signedRoot(x Rational, n int64, negative bool) *Root {
	// (a/b)^(1/n) = (a·b^(n-1))^(1/n) / b
	w := new(big.Int).Exp(x.d(), big.NewInt(n-1), nil)
	w.Mul(w, x.n())
	coef := normalize(big.NewInt(1), new(big.Int).Set(x.d()))
	if negative {
		coef = coef.neg()
	}
	return canonicalRoot(coef, w, n)
}

// canonicalRoot pulls index-th powers out of w into the coefficient and
// lowers the index while w is a perfect power of one of its divisors.
func canonicalRoot(coef Rational, w *big.Int, n int64) *Root {
	if coef.Sign() == 0 || w.Sign() == 0 {
		return &Root{coef: Rational{}, radicand: big.NewInt(1), index: n}
	}
	k, r := extractPowers(w, n)
	coef = coef.mul(integral(k))
	for lowered := true; lowered && r.Cmp(bigOne) > 0; {
		lowered = false
		for p := int64(2); p <= n; p++ {
			if n%p != 0 || !isPrime(p) {
				continue
			}
			if s, ok := exactRoot(r, p); ok {
				r, n, lowered = s, n/p, true
				break
			}
		}
	}
	return &Root{coef: coef, radicand: r, index: n}
}

func isPrime(n int64) bool { return big.NewInt(n).ProbablyPrime(0) }

// Radicand returns x with Root = x^(1/Index) for the principal root. For a
// negated even root the radicand stays positive and IsNegative reports the
// sign.
func (r *Root) Radicand() Rational {
	x := r.coef.abs().powInt(r.index).mul(integral(r.radicand))
	if r.coef.IsNegative() && r.index%2 == 1 {
		return x.neg()
	}
	return x
}

func (r *Root) Index() int64 { return r.index }

// Coefficient returns c in c·w^(1/n).
func (r *Root) Coefficient() Rational { return r.coef }

// Reduce narrows r to a Rational when the radicand is a perfect power.
func (r *Root) Reduce() (Number, bool) {
	if r.radicand.Cmp(bigOne) != 0 {
		return nil, false
	}
	return r.coef, true
}

// Simplify returns the rational value of r, or r itself.
func (r *Root) Simplify() Number {
	if q, ok := r.Reduce(); ok {
		return q
	}
	return r
}

// Algebraic returns r as a root of n·x^index ∓ m = 0 where m/n is the
// radicand.
func (r *Root) Algebraic() *Algebraic {
	if r.coef.Sign() == 0 {
		return &Algebraic{coeffs: []*big.Int{big.NewInt(0), big.NewInt(1)}}
	}
	x := r.coef.abs().powInt(r.index).mul(integral(r.radicand))
	coeffs := make([]*big.Int, r.index+1)
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	coeffs[r.index].Set(x.d())
	coeffs[0].Neg(x.n())

	index := 0
	switch {
	case r.index%2 == 1 && r.coef.IsNegative():
		coeffs[0].Neg(coeffs[0])
	case r.index%2 == 0 && !r.coef.IsNegative():
		index = 1
	}
	return &Algebraic{coeffs: coeffs, index: index}
}

// Inv returns 1/r as w^((n-1)/n) / (c·w).
func (r *Root) Inv() (*Root, error) {
	if r.coef.Sign() == 0 {
		return nil, fmt.Errorf("%w: reciprocal of 0", ErrDivisionByZero)
	}
	if r.radicand.Cmp(bigOne) == 0 {
		c, _ := r.coef.Inv()
		return &Root{coef: c, radicand: r.radicand, index: r.index}, nil
	}
	cw := r.coef.mul(integral(r.radicand))
	c, _ := cw.Inv()
	w := new(big.Int).Exp(r.radicand, big.NewInt(r.index-1), nil)
	return canonicalRoot(c, w, r.index), nil
}

// powRoot returns r^(num/den) for den >= 1.
func (r *Root) powRoot(num, den int64) (*Root, error) {
	if num < 0 {
		inv, err := r.Inv()
		if err != nil {
			return nil, err
		}
		return inv.powRoot(-num, den)
	}
	limit := CurrentLimits().MaxExponent
	if num*r.index > limit || den*r.index > limit {
		return nil, fmt.Errorf("%w: exponent %d/%d of a root with index %d", ErrLimitExceeded, num, den, r.index)
	}
	negative := r.coef.IsNegative() && num%2 == 1
	if negative && den%2 == 0 {
		return nil, fmt.Errorf("%w: root %d of %s", ErrNonReal, den, r)
	}
	// |r|^num = (|c|^(n·num) · w^num)^(1/n)
	x := r.coef.abs().powInt(r.index * num)
	x = x.mul(integral(new(big.Int).Exp(r.radicand, big.NewInt(num), nil)))
	return signedRoot(x, r.index*den, negative), nil
}

func (r *Root) Add(other Operand) (Number, error) {
	if q, ok := r.Reduce(); ok {
		return q.Add(other)
	}
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	if irr == nil {
		return r.Algebraic().Add(o)
	}
	if v, ok := irr.(*Root); ok && r.like(v) {
		return canonicalRoot(r.coef.add(v.coef), r.radicand, r.index).Simplify(), nil
	}
	return r.Algebraic().Add(irr)
}

func (r *Root) like(v *Root) bool {
	return r.index == v.index && r.radicand.Cmp(v.radicand) == 0
}

func (r *Root) Sub(other Operand) (Number, error) {
	n, err := ToNumber(other)
	if err != nil {
		return nil, err
	}
	return r.Add(n.Neg())
}

// Mul multiplies radicals of the same index under one radical. Radicals of
// different index are not combined.
func (r *Root) Mul(other Operand) (Number, error) {
	if q, ok := r.Reduce(); ok {
		return q.Mul(other)
	}
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	switch v := irr.(type) {
	case nil:
		return canonicalRoot(r.coef.mul(o), r.radicand, r.index).Simplify(), nil
	case *Root:
		if v.index != r.index {
			return nil, mixedIndex("product", r.index, v.index)
		}
		w := new(big.Int).Mul(r.radicand, v.radicand)
		return canonicalRoot(r.coef.mul(v.coef), w, r.index).Simplify(), nil
	}
	return r.Algebraic().Mul(irr)
}

func (r *Root) Quo(other Operand) (Number, error) {
	if q, ok := r.Reduce(); ok {
		return q.Quo(other)
	}
	o, irr, err := resolve(other)
	if err != nil {
		return nil, err
	}
	switch v := irr.(type) {
	case nil:
		if o.Sign() == 0 {
			return nil, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, r)
		}
		return canonicalRoot(r.coef.quo(o), r.radicand, r.index).Simplify(), nil
	case *Root:
		if v.index != r.index {
			return nil, mixedIndex("quotient", r.index, v.index)
		}
		inv, err := v.Inv()
		if err != nil {
			return nil, err
		}
		return r.Mul(inv)
	}
	return r.Algebraic().Quo(irr)
}

func (r *Root) Pow(exponent Operand) (Number, error) {
	if q, ok := r.Reduce(); ok {
		return q.Pow(exponent)
	}
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
	if e.Sign() == 0 {
		return integral(big.NewInt(1)), nil
	}
	p, err := r.powRoot(e.n().Int64(), e.d().Int64())
	if err != nil {
		return nil, err
	}
	return p.Simplify(), nil
}

// magnitude returns |r|^index as a Rational.
func (r *Root) magnitude() Rational {
	return r.coef.abs().powInt(r.index).mul(integral(r.radicand))
}

func (r *Root) Cmp(other Operand) (int, error) {
	if q, ok := r.Reduce(); ok {
		return q.Cmp(other)
	}
	o, irr, err := resolve(other)
	if err != nil {
		return 0, err
	}
	switch v := irr.(type) {
	case nil:
		if s := r.coef.Sign(); s != o.Sign() {
			return signCmp(s, o.Sign()), nil
		}
		c := r.magnitude().cmp(o.abs().powInt(r.index))
		return c * r.coef.Sign(), nil
	case *Root:
		if s := r.coef.Sign(); s != v.coef.Sign() {
			return signCmp(s, v.coef.Sign()), nil
		}
		if r.index*v.index > CurrentLimits().MaxExponent {
			return 0, fmt.Errorf("%w: comparing roots with index %d and %d", ErrLimitExceeded, r.index, v.index)
		}
		c := r.magnitude().powInt(v.index).cmp(v.magnitude().powInt(r.index))
		return c * r.coef.Sign(), nil
	}
	c, err := irr.Cmp(r)
	return -c, err
}

func signCmp(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

// Equal holds for structurally identical radicals and otherwise compares
// values.
func (r *Root) Equal(other Operand) (bool, error) {
	if v, ok := other.(*Root); ok && v != nil && r.like(v) && r.coef.cmp(v.coef) == 0 {
		return true, nil
	}
	c, err := r.Cmp(other)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

func (r *Root) Less(other Operand) (bool, error)    { return less(r.Cmp(other)) }
func (r *Root) Greater(other Operand) (bool, error) { return greater(r.Cmp(other)) }

func (r *Root) Neg() Number {
	return &Root{coef: r.coef.neg(), radicand: r.radicand, index: r.index}
}

func (r *Root) IsNegative() bool { return r.coef.IsNegative() }

// Float64 returns an approximation of r.
func (r *Root) Float64() float64 {
	w, _ := new(big.Float).SetInt(r.radicand).Float64()
	return r.coef.Float64() * math.Pow(w, 1/float64(r.index))
}

// String renders c*sqrt(w)/d for square roots and c*w^(1/n)/d otherwise.
func (r *Root) String() string {
	if q, ok := r.Reduce(); ok {
		return q.String()
	}
	body := fmt.Sprintf("%s^(1/%d)", r.radicand, r.index)
	if r.index == 2 {
		body = "sqrt(" + r.radicand.String() + ")"
	}
	return formatSurd(r.coef.n(), body, r.coef.d())
}

// MarshalText implements encoding.TextMarshaler.
func (r *Root) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
