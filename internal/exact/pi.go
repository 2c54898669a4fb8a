package exact

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
)

// Pi returns π rounded to digits decimal places as an exact fraction.
// See PiContext.
//
//	Pi(2) → 157/50
func Pi(digits int) (Rational, error) {
	return PiContext(context.Background(), digits)
}

// PiContext returns π rounded to digits decimal places as an exact
// fraction, from Machin's formula π = 16·atan(1/5) - 4·atan(1/239) summed
// in fixed point with guard digits.
func PiContext(ctx context.Context, digits int) (Rational, error) {
	if digits < 0 {
		return Rational{}, fmt.Errorf("%w: negative digit count %d", ErrUnsupportedOperand, digits)
	}
	if limit := CurrentLimits().MaxExpansionDigits; digits > limit {
		return Rational{}, fmt.Errorf("%w: %d digits of pi exceeds %d", ErrLimitExceeded, digits, limit)
	}

	// Every term truncates by less than one unit; digits+10 bounds the
	// number of terms in either series.
	guard := len(strconv.Itoa(digits+10)) + 5
	scale := pow10(digits + guard)

	a, err := arctanInv(ctx, 5, scale)
	if err != nil {
		return Rational{}, err
	}
	b, err := arctanInv(ctx, 239, scale)
	if err != nil {
		return Rational{}, err
	}
	pi := a.Mul(a, big.NewInt(16))
	pi.Sub(pi, b.Mul(b, big.NewInt(4)))
	return normalize(pi, scale).Round(digits), nil
}

// arctanInv returns atan(1/m)·scale, summing
// Σ (-1)^k / ((2k+1)·m^(2k+1)) until the terms vanish.
func arctanInv(ctx context.Context, m int64, scale *big.Int) (*big.Int, error) {
	sum := new(big.Int)
	power := new(big.Int).Quo(scale, big.NewInt(m))
	m2 := big.NewInt(m * m)
	term := new(big.Int)
	for k := int64(0); power.Sign() != 0; k++ {
		if k%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		term.Quo(power, big.NewInt(2*k+1))
		if k%2 == 0 {
			sum.Add(sum, term)
		} else {
			sum.Sub(sum, term)
		}
		power.Quo(power, m2)
	}
	return sum, nil
}
