package exact

import (
	"fmt"
	"math/big"
	"sort"
)

type primePower struct {
	p *big.Int
	k int
}

// factorize splits |n| into prime powers by trial division up to
// Limits.MaxTrialDivisor. When a cofactor remains that cannot be shown
// prime, it is returned separately and complete is false.
func factorize(n *big.Int) (factors []primePower, rest *big.Int, complete bool) {
	m := new(big.Int).Abs(n)
	limit := CurrentLimits().MaxTrialDivisor
	if m.IsUint64() {
		return factorizeSmall(m.Uint64(), limit)
	}

	q, r := new(big.Int), new(big.Int)
	d, sq := new(big.Int), new(big.Int)
	for i := int64(2); i <= limit; i++ {
		d.SetInt64(i)
		if sq.Mul(d, d).Cmp(m) > 0 {
			break
		}
		k := 0
		for {
			q.QuoRem(m, d, r)
			if r.Sign() != 0 {
				break
			}
			m.Set(q)
			k++
		}
		if k > 0 {
			factors = append(factors, primePower{p: big.NewInt(i), k: k})
		}
	}
	return finishFactors(factors, m, limit)
}

func factorizeSmall(m uint64, limit int64) ([]primePower, *big.Int, bool) {
	var factors []primePower
	for i := uint64(2); i <= uint64(limit) && i <= m/i; i++ {
		k := 0
		for m%i == 0 {
			m /= i
			k++
		}
		if k > 0 {
			factors = append(factors, primePower{p: new(big.Int).SetUint64(i), k: k})
		}
	}
	return finishFactors(factors, new(big.Int).SetUint64(m), limit)
}

func finishFactors(factors []primePower, m *big.Int, limit int64) ([]primePower, *big.Int, bool) {
	if m.Cmp(bigOne) <= 0 {
		return factors, big.NewInt(1), true
	}
	bound := new(big.Int).Mul(big.NewInt(limit), big.NewInt(limit))
	if m.Cmp(bound) <= 0 || m.ProbablyPrime(20) {
		return append(factors, primePower{p: m, k: 1}), big.NewInt(1), true
	}
	return factors, m, false
}

// intRoot returns the largest integer r with r^n <= x for x >= 0.
func intRoot(x *big.Int, n int64) *big.Int {
	if x.Sign() == 0 || x.Cmp(bigOne) == 0 || n == 1 {
		return new(big.Int).Set(x)
	}
	if n == 2 {
		return new(big.Int).Sqrt(x)
	}
	bits := (int64(x.BitLen()) + n - 1) / n
	g := new(big.Int).Lsh(bigOne, uint(bits))
	nb := big.NewInt(n)
	n1 := big.NewInt(n - 1)
	for {
		// y = ((n-1)·g + x / g^(n-1)) / n
		y := new(big.Int).Exp(g, n1, nil)
		y.Quo(x, y)
		y.Add(y, new(big.Int).Mul(n1, g))
		y.Quo(y, nb)
		if y.Cmp(g) >= 0 {
			return g
		}
		g = y
	}
}

// exactRoot returns r with r^n == x, if there is one.
func exactRoot(x *big.Int, n int64) (*big.Int, bool) {
	r := intRoot(x, n)
	if new(big.Int).Exp(r, big.NewInt(n), nil).Cmp(x) == 0 {
		return r, true
	}
	return nil, false
}

// divisors returns the positive divisors of |n| in ascending order.
func divisors(n *big.Int) ([]*big.Int, error) {
	if n.Sign() == 0 {
		return nil, fmt.Errorf("%w: divisors of zero", ErrUnsupportedOperand)
	}
	factors, _, complete := factorize(n)
	if !complete {
		return nil, fmt.Errorf("%w: cannot factor %s with trial divisors up to %d", ErrLimitExceeded, n, CurrentLimits().MaxTrialDivisor)
	}
	out := []*big.Int{big.NewInt(1)}
	for _, f := range factors {
		size := len(out)
		pk := big.NewInt(1)
		for e := 1; e <= f.k; e++ {
			pk = new(big.Int).Mul(pk, f.p)
			for _, x := range out[:size] {
				out = append(out, new(big.Int).Mul(x, pk))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out, nil
}
