package exact

import (
	"context"
	"fmt"
	"math/big"
	"sort"
)

// Polynomials are coefficient slices in ascending order of power:
// p[i] is the coefficient of x^i.

func trimPoly(p []*big.Int) []*big.Int {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func copyPoly(p []*big.Int) []*big.Int {
	out := make([]*big.Int, len(p))
	for i, c := range p {
		out[i] = new(big.Int).Set(c)
	}
	return out
}

func polyString(p []*big.Int) string {
	s := ""
	for i, c := range p {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%sx^%d", c, i)
	}
	return s
}

// evalAt returns q^n · p(num/q), which is zero exactly when num/q is a root.
func evalAt(p []*big.Int, num, q *big.Int) *big.Int {
	n := len(p) - 1
	acc := new(big.Int).Set(p[n])
	qpow := big.NewInt(1)
	t := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		qpow.Mul(qpow, q)
		acc.Mul(acc, num)
		acc.Add(acc, t.Mul(p[i], qpow))
	}
	return acc
}

// primitive divides out the content and makes the leading coefficient
// positive. The roots are unchanged.
func primitive(p []*big.Int) []*big.Int {
	p = trimPoly(p)
	g := new(big.Int)
	for _, c := range p {
		g.GCD(nil, nil, g, new(big.Int).Abs(c))
	}
	out := make([]*big.Int, len(p))
	for i, c := range p {
		out[i] = new(big.Int).Set(c)
		if g.Sign() != 0 && g.Cmp(bigOne) != 0 {
			out[i].Quo(out[i], g)
		}
	}
	if len(out) > 0 && out[len(out)-1].Sign() < 0 {
		for _, c := range out {
			c.Neg(c)
		}
	}
	return out
}

func polyEqual(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

func polyMul(a, b []*big.Int) []*big.Int {
	out := make([]*big.Int, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	return out
}

// translate returns a polynomial whose roots are the roots of p shifted by
// s: b^n · p(x - a/b) for s = a/b.
func translate(p []*big.Int, s Rational) []*big.Int {
	n := len(p) - 1
	a, b := s.n(), s.d()
	linear := []*big.Int{new(big.Int).Neg(a), new(big.Int).Set(b)}

	out := make([]*big.Int, n+1)
	for i := range out {
		out[i] = new(big.Int)
	}
	power := []*big.Int{big.NewInt(1)}
	for i := 0; i <= n; i++ {
		if i > 0 {
			power = polyMul(power, linear)
		}
		w := new(big.Int).Exp(b, big.NewInt(int64(n-i)), nil)
		w.Mul(w, p[i])
		for j, c := range power {
			out[j].Add(out[j], new(big.Int).Mul(c, w))
		}
	}
	return out
}

// scale returns a polynomial whose roots are the roots of p multiplied by
// the non-zero rational s = u/v: the coefficients c_i · v^i · u^(n-i).
func scale(p []*big.Int, s Rational) []*big.Int {
	n := len(p) - 1
	u, v := s.n(), s.d()
	out := make([]*big.Int, n+1)
	for i, c := range p {
		x := new(big.Int).Exp(v, big.NewInt(int64(i)), nil)
		x.Mul(x, new(big.Int).Exp(u, big.NewInt(int64(n-i)), nil))
		out[i] = x.Mul(x, c)
	}
	return out
}

// reverse returns x^n · p(1/x), whose roots are the reciprocals of the
// non-zero roots of p.
func reverse(p []*big.Int) []*big.Int {
	out := make([]*big.Int, len(p))
	for i, c := range p {
		out[len(p)-1-i] = new(big.Int).Set(c)
	}
	return out
}

// substitutePower returns p(x^k).
func substitutePower(p []*big.Int, k int) []*big.Int {
	out := make([]*big.Int, (len(p)-1)*k+1)
	for i := range out {
		out[i] = new(big.Int)
	}
	for i, c := range p {
		out[i*k].Set(c)
	}
	return out
}

// deflate divides p by (q·x - r) for the rational root r/q. The division
// is exact over the integers because the factor is primitive.
func deflate(p []*big.Int, root Rational) []*big.Int {
	r, q := root.n(), root.d()
	n := len(p) - 1
	out := make([]*big.Int, n)
	carry := new(big.Int)
	for i := n; i >= 1; i-- {
		c := new(big.Int).Add(p[i], carry)
		out[i-1] = c.Quo(c, q)
		carry = new(big.Int).Mul(out[i-1], r)
	}
	return out
}

// rationalRoots returns the distinct rational roots of p in ascending
// order using the rational-root theorem.
func rationalRoots(ctx context.Context, p []*big.Int) ([]Rational, error) {
	p = trimPoly(p)
	var roots []Rational
	if len(p) > 0 && p[0].Sign() == 0 {
		roots = append(roots, Rational{})
		for len(p) > 0 && p[0].Sign() == 0 {
			p = p[1:]
		}
	}
	if len(p) < 2 {
		return roots, nil
	}

	ps, err := divisors(p[0])
	if err != nil {
		return nil, err
	}
	qs, err := divisors(p[len(p)-1])
	if err != nil {
		return nil, err
	}
	g := new(big.Int)
	for _, num := range ps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, den := range qs {
			if g.GCD(nil, nil, num, den).Cmp(bigOne) != 0 {
				continue
			}
			for _, cand := range []*big.Int{num, new(big.Int).Neg(num)} {
				if evalAt(p, cand, den).Sign() == 0 {
					roots = append(roots, Rational{num: new(big.Int).Set(cand), den: den})
				}
			}
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].cmp(roots[j]) < 0 })
	return roots, nil
}
