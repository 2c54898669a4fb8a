package exact

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ctxCheckInterval is how many loop steps run between context checks.
const ctxCheckInterval = 1024

// DecimalParts is the decimal expansion of a rational: sign, integer part
// and the digits after the point split into a non-repeating prefix and a
// repeating cycle. 1/3 is {Integer: 0, Repeating: [3]}; -7/4 is
// {Negative: true, Integer: 1, NonRepeating: [7 5]}.
type DecimalParts struct {
	Negative     bool
	Integer      *big.Int
	NonRepeating []uint8
	Repeating    []uint8
}

// DecimalParts expands r by long division. See DecimalPartsContext.
func (r Rational) DecimalParts() (DecimalParts, error) {
	return r.DecimalPartsContext(context.Background())
}

// DecimalPartsContext expands r by long division. The non-repeating prefix
// is as long as the larger power of 2 or 5 in the denominator and the cycle
// as long as the multiplicative order of 10 modulo the rest, so no
// remainders are kept. The expansion fails with ErrLimitExceeded when it
// would pass Limits.MaxExpansionDigits digits, or when digits times the
// denominator's bit length passes Limits.MaxExpansionWork.
func (r Rational) DecimalPartsContext(ctx context.Context) (DecimalParts, error) {
	d := r.d()
	whole, rem := new(big.Int).QuoRem(new(big.Int).Abs(r.n()), d, new(big.Int))
	parts := DecimalParts{Negative: r.IsNegative(), Integer: whole}
	if rem.Sign() == 0 {
		return parts, nil
	}

	l := CurrentLimits()
	budget := int64(l.MaxExpansionDigits)
	if steps := l.MaxExpansionWork / int64(d.BitLen()); steps < budget {
		budget = steps
	}
	pre, m := splitTwoFive(d)
	if int64(pre) > budget {
		return DecimalParts{}, expansionLimit(r, budget)
	}
	period := 0
	if m.Cmp(bigOne) != 0 {
		var err error
		if period, err = orderOfTen(ctx, m, budget-int64(pre)); err != nil {
			if errors.Is(err, ErrLimitExceeded) {
				return DecimalParts{}, expansionLimit(r, budget)
			}
			return DecimalParts{}, err
		}
		if int64(pre+period) > budget {
			return DecimalParts{}, expansionLimit(r, budget)
		}
	}

	digits := make([]uint8, 0, pre+period)
	digit := new(big.Int)
	for i := 0; i < pre+period; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return DecimalParts{}, err
			}
		}
		rem.Mul(rem, bigTen)
		digit.QuoRem(rem, d, rem)
		digits = append(digits, uint8(digit.Int64()))
	}

	parts.NonRepeating = digits[:pre:pre]
	if period > 0 {
		parts.Repeating = digits[pre:]
	}
	for len(parts.Repeating) == 0 && len(parts.NonRepeating) > 0 && parts.NonRepeating[len(parts.NonRepeating)-1] == 0 {
		parts.NonRepeating = parts.NonRepeating[:len(parts.NonRepeating)-1]
	}
	return parts, nil
}

func expansionLimit(r Rational, budget int64) error {
	return fmt.Errorf("%w: decimal expansion of %s exceeds %d digits", ErrLimitExceeded, r, budget)
}

// splitTwoFive writes d as 2^a·5^b·m and returns max(a, b) and m.
func splitTwoFive(d *big.Int) (int, *big.Int) {
	m := new(big.Int).Set(d)
	q, rem := new(big.Int), new(big.Int)
	var counts [2]int
	for i, p := range []*big.Int{bigTwo, bigFive} {
		for {
			q.QuoRem(m, p, rem)
			if rem.Sign() != 0 {
				break
			}
			m.Set(q)
			counts[i]++
		}
	}
	return max(counts[0], counts[1]), m
}

// orderOfTen returns the smallest k >= 1 with 10^k ≡ 1 (mod m), for m > 1
// coprime to 10. It gives up with ErrLimitExceeded after maxSteps.
func orderOfTen(ctx context.Context, m *big.Int, maxSteps int64) (int, error) {
	x := new(big.Int).Mod(bigTen, m)
	for k := int64(1); ; k++ {
		if x.Cmp(bigOne) == 0 {
			return int(k), nil
		}
		if k >= maxSteps {
			return 0, ErrLimitExceeded
		}
		if k%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		x.Mul(x, bigTen)
		x.Mod(x, m)
	}
}

// IsPeriodic reports whether the decimal expansion of r never terminates,
// i.e. whether the denominator has a prime factor other than 2 and 5.
func (r Rational) IsPeriodic() bool {
	_, m := splitTwoFive(r.d())
	return m.Cmp(bigOne) != 0
}

// DecimalString renders r in decimal notation with the repeating cycle in
// parentheses: "0.(3)", "-1.75", "0.1(6)". The result parses back through
// Comprehend to the same value.
func (r Rational) DecimalString() (string, error) {
	parts, err := r.DecimalParts()
	if err != nil {
		return "", err
	}
	return parts.String(), nil
}

func (p DecimalParts) String() string {
	var b strings.Builder
	if p.Negative {
		b.WriteByte('-')
	}
	if p.Integer == nil {
		b.WriteByte('0')
	} else {
		b.WriteString(p.Integer.String())
	}
	if len(p.NonRepeating)+len(p.Repeating) == 0 {
		return b.String()
	}
	b.WriteByte('.')
	for _, d := range p.NonRepeating {
		b.WriteByte('0' + d)
	}
	if len(p.Repeating) > 0 {
		b.WriteByte('(')
		for _, d := range p.Repeating {
			b.WriteByte('0' + d)
		}
		b.WriteByte(')')
	}
	return b.String()
}
