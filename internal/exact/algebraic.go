package exact

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"sync"
)

// maxRefinements bounds the bisection used to separate two irrational roots.
const maxRefinements = 4096

// Algebraic is one real root of an integer polynomial
// c[0] + c[1]·x + ... + c[n]·x^n = 0, selected by a root index.
//
// Indices run over the distinct real roots in ascending order, rational and
// irrational alike. An Algebraic whose index lands on a rational root
// narrows to that Rational through Reduce.
type Algebraic struct {
	coeffs []*big.Int
	index  int

	mu   sync.Mutex
	info *analysis
}

type analysis struct {
	roots []Rational
	// at[k] is the root index of roots[k] among all real roots.
	at []int
	// residual is the primitive polynomial left after dividing out every
	// rational root; it has no rational roots of its own.
	residual []*big.Int
	chain    sturmChain
	real     int
	err      error
}

// NewAlgebraic returns the rootIndex-th root of the polynomial with the
// given coefficients, constant term first.
//
//	NewAlgebraic([]int64{-2, 0, 1}, 1) → sqrt(2)
//	NewAlgebraic([]int64{7}, 0)        → ErrMalformedAlgebraic
func NewAlgebraic(coeffs []int64, rootIndex int) (*Algebraic, error) {
	p := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		p[i] = big.NewInt(c)
	}
	return newAlgebraic(p, rootIndex)
}

// AlgebraicFromBig is NewAlgebraic for arbitrary-precision coefficients.
// The coefficients are copied.
func AlgebraicFromBig(coeffs []*big.Int, rootIndex int) (*Algebraic, error) {
	for i, c := range coeffs {
		if c == nil {
			return nil, fmt.Errorf("%w: coefficient %d is nil", ErrMalformedAlgebraic, i)
		}
	}
	return newAlgebraic(copyPoly(coeffs), rootIndex)
}

// AlgebraicFromOperands accepts any operands that simplify to integers.
func AlgebraicFromOperands(coeffs []Operand, rootIndex int) (*Algebraic, error) {
	p := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		s, err := Simplify(c)
		if err != nil {
			return nil, fmt.Errorf("%w: coefficient %d: %w", ErrMalformedAlgebraic, i, err)
		}
		n, ok := s.(Integer)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient %d is %s, not an integer", ErrMalformedAlgebraic, i, kindOf(s))
		}
		p[i] = n.Big()
	}
	return newAlgebraic(p, rootIndex)
}

// newAlgebraic takes ownership of coeffs.
func newAlgebraic(coeffs []*big.Int, rootIndex int) (*Algebraic, error) {
	if len(coeffs) < 2 {
		return nil, fmt.Errorf("%w: need at least two coefficients, got %d", ErrMalformedAlgebraic, len(coeffs))
	}
	p := trimPoly(coeffs)
	if len(p) < 2 {
		return nil, fmt.Errorf("%w: polynomial %s has degree < 1", ErrMalformedAlgebraic, polyString(coeffs))
	}
	if rootIndex < 0 {
		return nil, fmt.Errorf("%w: negative root index %d", ErrMalformedAlgebraic, rootIndex)
	}
	return &Algebraic{coeffs: p, index: rootIndex}, nil
}

// Coefficients returns a copy of the coefficients, constant term first.
func (a *Algebraic) Coefficients() []*big.Int { return copyPoly(a.coeffs) }

func (a *Algebraic) RootIndex() int { return a.index }

func (a *Algebraic) Degree() int { return len(a.coeffs) - 1 }

func (a *Algebraic) analyze() *analysis {
	return a.analyzeContext(context.Background())
}

// analyzeContext runs the rational-root search and the Sturm analysis of
// the rest once. A run stopped by ctx is not kept.
func (a *Algebraic) analyzeContext(ctx context.Context) *analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.info != nil {
		return a.info
	}

	info := &analysis{}
	info.roots, info.err = rationalRoots(ctx, a.coeffs)
	if info.err == nil {
		res := a.coeffs
		for _, r := range info.roots {
			for len(res) > 1 && evalAt(res, r.n(), r.d()).Sign() == 0 {
				res = deflate(res, r)
			}
		}
		info.residual = primitive(res)
		if len(info.residual) > 1 {
			info.chain = newSturmChain(info.residual)
			info.real = info.chain.realRoots()
		}
		info.at = make([]int, len(info.roots))
		for k, r := range info.roots {
			info.at[k] = k
			if info.real > 0 {
				info.at[k] += info.chain.rootsBelow(r.rat())
			}
		}
	}
	if info.err != nil && ctx.Err() != nil {
		return info
	}
	a.info = info
	return info
}

// rationalAt returns the rational root with the given root index.
func (info *analysis) rationalAt(index int) (Rational, bool) {
	for k, at := range info.at {
		if at == index {
			return info.roots[k], true
		}
	}
	return Rational{}, false
}

// irrationalIndex maps a root index to the index among the irrational
// roots.
func (info *analysis) irrationalIndex(index int) int {
	j := index
	for _, at := range info.at {
		if at < index {
			j--
		}
	}
	return j
}

// RationalRoots returns the distinct rational roots of the polynomial in
// ascending order.
func (a *Algebraic) RationalRoots() ([]Rational, error) {
	return a.RationalRootsContext(context.Background())
}

// RationalRootsContext is RationalRoots with a context that stops the
// candidate search.
func (a *Algebraic) RationalRootsContext(ctx context.Context) ([]Rational, error) {
	info := a.analyzeContext(ctx)
	if info.err != nil {
		return nil, info.err
	}
	return append([]Rational(nil), info.roots...), nil
}

// RealRootCount returns the number of distinct real roots, which bounds the
// indices that select a real value.
func (a *Algebraic) RealRootCount() (int, error) {
	return a.RealRootCountContext(context.Background())
}

// RealRootCountContext is RealRootCount with a context that stops the
// candidate search.
func (a *Algebraic) RealRootCountContext(ctx context.Context) (int, error) {
	info := a.analyzeContext(ctx)
	if info.err != nil {
		return 0, info.err
	}
	return len(info.roots) + info.real, nil
}

// Reduce narrows a to a Rational when its index selects a rational root.
func (a *Algebraic) Reduce() (Number, bool) {
	info := a.analyze()
	if info.err != nil {
		return nil, false
	}
	q, ok := info.rationalAt(a.index)
	if !ok {
		return nil, false
	}
	return q, true
}

// Simplify returns the rational value of a, or a itself.
func (a *Algebraic) Simplify() Number {
	if q, ok := a.Reduce(); ok {
		return q
	}
	return a
}

// SimplifyContext is Simplify with a context that stops the analysis. It
// fails only when ctx ends first.
func (a *Algebraic) SimplifyContext(ctx context.Context) (Number, error) {
	info := a.analyzeContext(ctx)
	if info.err != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return a, nil
	}
	return a.Simplify(), nil
}

// symbolic is an irrational real root: the index-th real root of a
// polynomial without rational roots.
type symbolic struct {
	poly  []*big.Int
	chain sturmChain
	index int
	real  int
}

func (a *Algebraic) symbolic() (symbolic, error) {
	info := a.analyze()
	if info.err != nil {
		return symbolic{}, info.err
	}
	if _, ok := info.rationalAt(a.index); ok {
		return symbolic{}, fmt.Errorf("%w: %s is rational", ErrUnsupportedOperand, a.Tag())
	}
	j := info.irrationalIndex(a.index)
	if j >= info.real {
		return symbolic{}, fmt.Errorf("%w: %s has %d real roots", ErrNonReal, a.Tag(), len(info.roots)+info.real)
	}
	return symbolic{poly: info.residual, chain: info.chain, index: j, real: info.real}, nil
}

func (s symbolic) algebraic(poly []*big.Int, index int) *Algebraic {
	return &Algebraic{coeffs: primitive(poly), index: index}
}

func (s symbolic) cmpRational(q Rational) int {
	if s.chain.rootsBelow(q.rat()) > s.index {
		return -1
	}
	return 1
}

func (s symbolic) negatives() int { return s.chain.rootsBelow(new(big.Rat)) }

func (s symbolic) translate(q Rational) *Algebraic {
	return s.algebraic(translate(s.poly, q), s.index)
}

func (s symbolic) scale(q Rational) Number {
	switch q.Sign() {
	case 0:
		return Rational{}
	case 1:
		return s.algebraic(scale(s.poly, q), s.index)
	}
	return s.algebraic(scale(s.poly, q), s.real-1-s.index)
}

func (s symbolic) inv() *Algebraic {
	// 1/x reverses the order within the negative and the positive roots.
	neg := s.negatives()
	index := neg - 1 - s.index
	if s.index >= neg {
		index = neg + s.real - 1 - s.index
	}
	return s.algebraic(reverse(s.poly), index)
}

// root returns the principal real n-th root.
func (s symbolic) root(n int64) (*Algebraic, error) {
	if n > CurrentLimits().MaxExponent || int64(len(s.poly)-1)*n > CurrentLimits().MaxExponent {
		return nil, fmt.Errorf("%w: root index %d", ErrLimitExceeded, n)
	}
	poly := substitutePower(s.poly, int(n))
	if n%2 == 1 {
		return s.algebraic(poly, s.index), nil
	}
	neg := s.negatives()
	if s.index < neg {
		return nil, fmt.Errorf("%w: even root of a negative number", ErrNonReal)
	}
	positives := s.real - neg
	return s.algebraic(poly, positives+s.index-neg), nil
}

func (s symbolic) same(t symbolic) bool {
	return s.index == t.index && polyEqual(s.poly, t.poly)
}

// conjugate reports whether s and t are the two roots of one quadratic.
func (s symbolic) conjugate(t symbolic) bool {
	return len(s.poly) == 3 && s.index != t.index && polyEqual(s.poly, t.poly)
}

// powInt raises a quadratic irrational to k >= 2 by reducing α^k to
// u·α + v with α² = -(b·α + c)/a.
func (s symbolic) powInt(k int64) (Number, error) {
	if len(s.poly) != 3 {
		return nil, fmt.Errorf("%w: %w: power of a degree %d algebraic", ErrUnsupportedOperand, ErrNotImplemented, len(s.poly)-1)
	}
	c, b, a := integral(s.poly[0]), integral(s.poly[1]), integral(s.poly[2])
	ba, ca := b.quo(a), c.quo(a)
	u, v := integral(big.NewInt(1)), Rational{}
	for i := int64(1); i < k; i++ {
		u, v = v.sub(u.mul(ba)), u.mul(ca).neg()
	}
	if u.Sign() == 0 {
		return v, nil
	}
	return s.scale(u).Add(v)
}

func cmpSymbolic(s, t symbolic) (int, error) {
	lo1, hi1 := s.chain.isolate(s.index)
	lo2, hi2 := t.chain.isolate(t.index)

	if g := ratGCD(toRatPoly(s.poly), toRatPoly(t.poly)); g.degree() >= 1 {
		lo, hi := lo1, hi1
		if lo2.Cmp(lo) > 0 {
			lo = lo2
		}
		if hi2.Cmp(hi) < 0 {
			hi = hi2
		}
		if lo.Cmp(hi) < 0 {
			common := newRatSturmChain(g)
			if common.rootsBelow(hi)-common.rootsBelow(lo) > 0 {
				return 0, nil
			}
		}
	}
	for i := 0; i < maxRefinements; i++ {
		if hi1.Cmp(lo2) <= 0 {
			return -1, nil
		}
		if hi2.Cmp(lo1) <= 0 {
			return 1, nil
		}
		lo1, hi1 = s.chain.refine(s.index, lo1, hi1)
		lo2, hi2 = t.chain.refine(t.index, lo2, hi2)
	}
	return 0, fmt.Errorf("%w: could not separate two algebraic roots", ErrLimitExceeded)
}

// asAlgebraic widens the irrational tower members to *Algebraic.
func asAlgebraic(n Number) (*Algebraic, bool) {
	switch v := n.(type) {
	case *Algebraic:
		return v, true
	case *Root:
		return v.Algebraic(), true
	}
	return nil, false
}

// pair resolves other against a symbolic a. The rational case comes back
// with t unset.
func (a *Algebraic) pair(op string, other Operand) (s symbolic, q Rational, t *symbolic, err error) {
	if s, err = a.symbolic(); err != nil {
		return
	}
	o, irr, err := resolve(other)
	if err != nil {
		return
	}
	if irr == nil {
		return s, o, nil, nil
	}
	b, ok := asAlgebraic(irr)
	if !ok {
		return s, q, nil, unsupported(op, a, irr)
	}
	sb, err := b.symbolic()
	if err != nil {
		return
	}
	return s, q, &sb, nil
}

func (a *Algebraic) Add(other Operand) (Number, error) {
	if q, ok := a.Reduce(); ok {
		return q.Add(other)
	}
	s, q, t, err := a.pair("+", other)
	if err != nil {
		return nil, err
	}
	switch {
	case t == nil:
		return s.translate(q), nil
	case s.same(*t):
		return s.scale(integral(big.NewInt(2))), nil
	case s.conjugate(*t):
		// sum of the roots of c + b·x + a·x²
		return normalize(new(big.Int).Neg(s.poly[1]), new(big.Int).Set(s.poly[2])), nil
	}
	return nil, fmt.Errorf("%w: %w: %s + %s", ErrUnsupportedOperand, ErrNotImplemented, a, other)
}

func (a *Algebraic) Sub(other Operand) (Number, error) {
	n, err := ToNumber(other)
	if err != nil {
		return nil, err
	}
	return a.Add(n.Neg())
}

func (a *Algebraic) Mul(other Operand) (Number, error) {
	if q, ok := a.Reduce(); ok {
		return q.Mul(other)
	}
	s, q, t, err := a.pair("*", other)
	if err != nil {
		return nil, err
	}
	switch {
	case t == nil:
		return s.scale(q), nil
	case s.same(*t):
		return s.powInt(2)
	case s.conjugate(*t):
		// product of the roots of c + b·x + a·x²
		return normalize(new(big.Int).Set(s.poly[0]), new(big.Int).Set(s.poly[2])), nil
	}
	return nil, fmt.Errorf("%w: %w: %s * %s", ErrUnsupportedOperand, ErrNotImplemented, a, other)
}

func (a *Algebraic) Quo(other Operand) (Number, error) {
	n, err := ToNumber(other)
	if err != nil {
		return nil, err
	}
	inv, err := inverse(n)
	if err != nil {
		return nil, err
	}
	return a.Mul(inv)
}

// Inv returns 1/a.
func (a *Algebraic) Inv() (Number, error) {
	if q, ok := a.Reduce(); ok {
		return inverse(q)
	}
	s, err := a.symbolic()
	if err != nil {
		return nil, err
	}
	return s.inv(), nil
}

// Pow supports every rational exponent when a is rational. Irrational
// quadratic values take integer powers and roots; higher degrees only
// take roots.
func (a *Algebraic) Pow(exponent Operand) (Number, error) {
	if q, ok := a.Reduce(); ok {
		return q.Pow(exponent)
	}
	s, err := a.symbolic()
	if err != nil {
		return nil, err
	}
	e, irr, err := resolve(exponent)
	if err != nil {
		return nil, err
	}
	if irr != nil {
		return nil, unsupported("^", a, irr)
	}
	if err := checkExponent(e); err != nil {
		return nil, err
	}
	p, q := e.n().Int64(), e.d().Int64()

	if p < 0 {
		s = symbolicOf(s.inv())
		p = -p
	}
	var result Number
	switch p {
	case 0:
		return integral(big.NewInt(1)), nil
	case 1:
		result = s.algebraic(s.poly, s.index)
	default:
		if result, err = s.powInt(p); err != nil {
			return nil, err
		}
	}
	if q == 1 {
		return result, nil
	}
	return RootOf(result, Int(q))
}

// symbolicOf re-analyses an Algebraic produced from a symbolic value.
func symbolicOf(a *Algebraic) symbolic {
	s, _ := a.symbolic()
	return s
}

// nthRoot returns the principal real n-th root of a.
func (a *Algebraic) nthRoot(n int64) (Number, error) {
	if q, ok := a.Reduce(); ok {
		return RootOf(q, Int(n))
	}
	s, err := a.symbolic()
	if err != nil {
		return nil, err
	}
	r, err := s.root(n)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (a *Algebraic) Cmp(other Operand) (int, error) {
	if q, ok := a.Reduce(); ok {
		return q.Cmp(other)
	}
	s, q, t, err := a.pair("<=>", other)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return s.cmpRational(q), nil
	}
	return cmpSymbolic(s, *t)
}

// Equal is true for the same root of the same polynomial up to a constant
// factor, and otherwise compares values.
func (a *Algebraic) Equal(other Operand) (bool, error) {
	if b, ok := other.(*Algebraic); ok && b != nil && a.index == b.index && polyEqual(primitive(a.coeffs), primitive(b.coeffs)) {
		return true, nil
	}
	c, err := a.Cmp(other)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

func (a *Algebraic) Less(other Operand) (bool, error)    { return less(a.Cmp(other)) }
func (a *Algebraic) Greater(other Operand) (bool, error) { return greater(a.Cmp(other)) }

func (a *Algebraic) Neg() Number {
	if q, ok := a.Reduce(); ok {
		return q.Neg()
	}
	s, err := a.symbolic()
	if err != nil {
		return &Algebraic{coeffs: scale(a.coeffs, integral(big.NewInt(-1))), index: a.index}
	}
	return s.scale(integral(big.NewInt(-1)))
}

func (a *Algebraic) IsNegative() bool {
	if q, ok := a.Reduce(); ok {
		return q.IsNegative()
	}
	s, err := a.symbolic()
	return err == nil && s.cmpRational(Rational{}) < 0
}

// Float64 returns an approximation of a, or NaN when a is not a real root.
func (a *Algebraic) Float64() float64 {
	if q, ok := a.Reduce(); ok {
		return q.(Rational).Float64()
	}
	s, err := a.symbolic()
	if err != nil {
		return math.NaN()
	}
	lo, hi := s.chain.isolate(s.index)
	width, mag := new(big.Rat), new(big.Rat)
	for i := 0; i < maxRefinements; i++ {
		width.Sub(hi, lo)
		mag.Abs(lo)
		if m := new(big.Rat).Abs(hi); m.Cmp(mag) > 0 {
			mag = m
		}
		if width.Mul(width, new(big.Rat).SetInt(new(big.Int).Lsh(bigOne, 55))).Cmp(mag) <= 0 {
			break
		}
		lo, hi = s.chain.refine(s.index, lo, hi)
	}
	f, _ := new(big.Rat).Add(lo, hi).Float64()
	return f / 2
}

// String renders the rational value when there is one, a surd for
// quadratic irrationals and Tag otherwise.
func (a *Algebraic) String() string {
	if q, ok := a.Reduce(); ok {
		return q.String()
	}
	s, err := a.symbolic()
	if err != nil || len(s.poly) != 3 {
		return a.Tag()
	}
	c, b, lead := s.poly[0], s.poly[1], s.poly[2]
	disc := new(big.Int).Mul(b, b)
	disc.Sub(disc, new(big.Int).Mul(big.NewInt(4), new(big.Int).Mul(lead, c)))
	twoA := new(big.Int).Lsh(lead, 1)
	k, r, d := SimplifySqrtDiv(disc, twoA)
	surd := "sqrt(" + r.String() + ")"

	t := normalize(new(big.Int).Neg(b), new(big.Int).Set(twoA))
	if t.Sign() == 0 {
		if s.index == 0 {
			k.Neg(k)
		}
		return formatSurd(k, surd, d)
	}
	op := " + "
	if s.index == 0 {
		op = " - "
	}
	return t.String() + op + formatSurd(k, surd, d)
}

// Tag is the symbolic form "<j-th solution of 0 = c0x^0 + c1x^1 + ...>"
// with a 1-based j.
func (a *Algebraic) Tag() string {
	return fmt.Sprintf("<%d-th solution of 0 = %s>", a.index+1, polyString(a.coeffs))
}

// MarshalText implements encoding.TextMarshaler.
func (a *Algebraic) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
