package exact

import (
	"math/big"
	"strings"
)

// SimplifySqrtDiv rewrites sqrt(n)/denom as k*sqrt(r)/d with r free of
// square factors found by trial division, and k/d in lowest terms.
// n must be non-negative and denom non-zero.
//
//	SimplifySqrtDiv(8, 2)  → 1, 2, 1
//	SimplifySqrtDiv(45, 6) → 1, 5, 2
func SimplifySqrtDiv(n, denom *big.Int) (k, r, d *big.Int) {
	k, r = extractPowers(n, 2)
	g := new(big.Int).GCD(nil, nil, k, new(big.Int).Abs(denom))
	k.Quo(k, g)
	d = new(big.Int).Quo(denom, g)
	if d.Sign() < 0 {
		d.Neg(d)
		k.Neg(k)
	}
	return k, r, d
}

// extractPowers splits n >= 0 into k^e · r where r carries no e-th power
// of a prime found by trial division. A cofactor that could not be
// factored is kept in r unless it is itself a perfect e-th power.
func extractPowers(n *big.Int, e int64) (k, r *big.Int) {
	if n.Sign() == 0 {
		return big.NewInt(0), big.NewInt(1)
	}
	if root, ok := exactRoot(n, e); ok {
		return root, big.NewInt(1)
	}
	factors, rest, _ := factorize(n)
	k, r = big.NewInt(1), new(big.Int).Set(rest)
	if root, ok := exactRoot(rest, e); ok {
		k.Set(root)
		r.SetInt64(1)
	}
	for _, f := range factors {
		q, m := f.k/int(e), f.k%int(e)
		if q > 0 {
			k.Mul(k, new(big.Int).Exp(f.p, big.NewInt(int64(q)), nil))
		}
		if m > 0 {
			r.Mul(r, new(big.Int).Exp(f.p, big.NewInt(int64(m)), nil))
		}
	}
	return k, r
}

// formatSurd renders k*body/d, dropping a unit k and a unit d.
func formatSurd(k *big.Int, body string, d *big.Int) string {
	var b strings.Builder
	abs := new(big.Int).Abs(k)
	if k.Sign() < 0 {
		b.WriteByte('-')
	}
	if abs.Cmp(bigOne) != 0 {
		b.WriteString(abs.String())
		b.WriteByte('*')
	}
	b.WriteString(body)
	if d.Cmp(bigOne) != 0 {
		b.WriteByte('/')
		b.WriteString(d.String())
	}
	return b.String()
}
