package exact

import "math/big"

// ratPoly is a polynomial over the rationals, ascending powers.
type ratPoly []*big.Rat

func toRatPoly(p []*big.Int) ratPoly {
	out := make(ratPoly, len(p))
	for i, c := range p {
		out[i] = new(big.Rat).SetInt(c)
	}
	return out.trim()
}

func (p ratPoly) trim() ratPoly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func (p ratPoly) degree() int { return len(p) - 1 }

func (p ratPoly) derivative() ratPoly {
	if len(p) < 2 {
		return nil
	}
	out := make(ratPoly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], new(big.Rat).SetInt64(int64(i)))
	}
	return out.trim()
}

// divMod divides p by a non-zero d.
func (p ratPoly) divMod(d ratPoly) (quo, rem ratPoly) {
	rem = make(ratPoly, len(p))
	for i, c := range p {
		rem[i] = new(big.Rat).Set(c)
	}
	rem = rem.trim()
	if len(rem) < len(d) {
		return nil, rem
	}
	quo = make(ratPoly, len(rem)-len(d)+1)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	lead := d[len(d)-1]
	t := new(big.Rat)
	for len(rem) >= len(d) && len(rem) > 0 {
		shift := len(rem) - len(d)
		f := new(big.Rat).Quo(rem[len(rem)-1], lead)
		quo[shift] = f
		for i, c := range d {
			rem[shift+i].Sub(rem[shift+i], t.Mul(f, c))
		}
		rem = rem[:len(rem)-1].trim()
	}
	return quo, rem
}

func ratGCD(a, b ratPoly) ratPoly {
	for len(b) > 0 {
		_, r := a.divMod(b)
		a, b = b, r
	}
	return a
}

func (p ratPoly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// sturmChain holds the Sturm sequence of the square-free part of a
// polynomial and answers root-counting queries on the real line.
type sturmChain struct {
	seq []ratPoly
}

func newSturmChain(p []*big.Int) sturmChain {
	return newRatSturmChain(toRatPoly(p))
}

func newRatSturmChain(base ratPoly) sturmChain {
	if g := ratGCD(base, base.derivative()); g.degree() > 0 {
		base, _ = base.divMod(g)
	}
	seq := []ratPoly{base}
	if next := base.derivative(); len(next) > 0 {
		seq = append(seq, next)
	}
	for len(seq) >= 2 {
		_, r := seq[len(seq)-2].divMod(seq[len(seq)-1])
		if len(r) == 0 {
			break
		}
		for _, c := range r {
			c.Neg(c)
		}
		seq = append(seq, r)
	}
	return sturmChain{seq: seq}
}

func variations(signs []int) int {
	v, last := 0, 0
	for _, s := range signs {
		if s == 0 {
			continue
		}
		if last != 0 && s != last {
			v++
		}
		last = s
	}
	return v
}

func (s sturmChain) signsAtInfinity(negative bool) []int {
	out := make([]int, len(s.seq))
	for i, p := range s.seq {
		sign := p[len(p)-1].Sign()
		if negative && p.degree()%2 == 1 {
			sign = -sign
		}
		out[i] = sign
	}
	return out
}

func (s sturmChain) signsAt(x *big.Rat) []int {
	out := make([]int, len(s.seq))
	for i, p := range s.seq {
		out[i] = p.eval(x).Sign()
	}
	return out
}

// realRoots returns the number of distinct real roots.
func (s sturmChain) realRoots() int {
	return variations(s.signsAtInfinity(true)) - variations(s.signsAtInfinity(false))
}

// rootsBelow returns the number of distinct real roots strictly less than x.
func (s sturmChain) rootsBelow(x *big.Rat) int {
	n := variations(s.signsAtInfinity(true)) - variations(s.signsAt(x))
	if s.seq[0].eval(x).Sign() == 0 {
		n--
	}
	return n
}

// positiveRoots returns the number of distinct real roots greater than 0.
func (s sturmChain) positiveRoots() int {
	zero := new(big.Rat)
	n := s.realRoots() - s.rootsBelow(zero)
	if s.seq[0].eval(zero).Sign() == 0 {
		n--
	}
	return n
}

// bound returns B with every real root inside (-B, B).
func (s sturmChain) bound() *big.Rat {
	p := s.seq[0]
	lead := new(big.Rat).Abs(p[len(p)-1])
	m := new(big.Rat)
	t := new(big.Rat)
	for _, c := range p[:len(p)-1] {
		if t.Quo(new(big.Rat).Abs(c), lead).Cmp(m) > 0 {
			m.Set(t)
		}
	}
	return m.Add(m, big.NewRat(1, 1))
}

// isolate returns an open interval containing the j-th real root (in
// ascending order) and no other root. The polynomial must have no rational
// roots, so no bisection point is ever a root.
func (s sturmChain) isolate(j int) (lo, hi *big.Rat) {
	b := s.bound()
	lo, hi = new(big.Rat).Neg(b), b
	for s.rootsBelow(hi)-s.rootsBelow(lo) > 1 {
		lo, hi = s.refine(j, lo, hi)
	}
	return lo, hi
}

// refine halves an interval around the j-th root.
func (s sturmChain) refine(j int, lo, hi *big.Rat) (*big.Rat, *big.Rat) {
	mid := new(big.Rat).Add(lo, hi)
	mid.Quo(mid, big.NewRat(2, 1))
	if s.rootsBelow(mid) > j {
		return lo, mid
	}
	return mid, hi
}
