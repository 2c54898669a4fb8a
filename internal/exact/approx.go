package exact

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
)

const (
	approxIterations = 500
	approxTolerance  = 1e-14
	realTolerance    = 1e-9
)

// PolynomialRoots approximates every complex root of the polynomial
// coeffs[0] + coeffs[1]·x + ... with the Durand-Kerner iteration. Roots are
// returned ordered by real part, then imaginary part.
func PolynomialRoots(coeffs []*big.Int) ([]complex128, error) {
	p := trimPoly(coeffs)
	if len(p) < 2 {
		return nil, fmt.Errorf("%w: polynomial of degree < 1", ErrMalformedAlgebraic)
	}
	n := len(p) - 1
	lead, _ := new(big.Float).SetInt(p[n]).Float64()
	fc := make([]complex128, n+1)
	for i, c := range p {
		f, _ := new(big.Float).SetInt(c).Float64()
		fc[i] = complex(f/lead, 0)
	}
	eval := func(x complex128) complex128 {
		acc := fc[n]
		for i := n - 1; i >= 0; i-- {
			acc = acc*x + fc[i]
		}
		return acc
	}

	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	roots[0] = 1
	for i := 1; i < n; i++ {
		roots[i] = roots[i-1] * seed
	}
	for iter := 0; iter < approxIterations; iter++ {
		delta := 0.0
		for i, x := range roots {
			denom := complex(1, 0)
			for j, y := range roots {
				if i != j {
					denom *= x - y
				}
			}
			if denom == 0 {
				continue
			}
			next := x - eval(x)/denom
			delta = math.Max(delta, cmplx.Abs(next-x))
			roots[i] = next
		}
		if delta < approxTolerance {
			break
		}
	}
	for i, r := range roots {
		if math.Abs(imag(r)) <= realTolerance*math.Max(1, cmplx.Abs(r)) {
			roots[i] = complex(real(r), 0)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
	return roots, nil
}
