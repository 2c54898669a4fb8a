package exact

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Comprehend converts an operand into a Rational. Algebraic values are
// accepted only when they narrow to a rational; anything else fails with
// ErrTypeMismatch.
func Comprehend(v Operand) (Rational, error) {
	switch x := v.(type) {
	case Rational:
		return x, nil
	case Integer:
		return x.Rational(), nil
	case Int:
		return integral(big.NewInt(int64(x))), nil
	case Float:
		return fromFloat(float64(x), CurrentLimits().FloatDigits)
	case Decimal:
		return parseDecimal(string(x))
	case *Algebraic:
		if x != nil {
			if q, ok := x.Reduce(); ok {
				return Comprehend(q)
			}
		}
	case *Root:
		if x != nil {
			if q, ok := x.Reduce(); ok {
				return Comprehend(q)
			}
		}
	}
	return Rational{}, fmt.Errorf("%w: cannot comprehend %s as rational", ErrTypeMismatch, kindOf(v))
}

// fromFloat decomposes f into its exact binary fraction and rounds it to
// digits decimal places, dropping the binary noise beyond float precision.
func fromFloat(f float64, digits int) (Rational, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rational{}, fmt.Errorf("%w: %v has no rational value", ErrTypeMismatch, f)
	}
	if f == 0 {
		return integral(new(big.Int)), nil
	}
	mant, exp := math.Frexp(f)
	num := big.NewInt(int64(mant * (1 << 53)))
	den := new(big.Int).Lsh(bigOne, 53)
	if exp > 0 {
		num.Lsh(num, uint(exp))
	} else {
		den.Lsh(den, uint(-exp))
	}
	return normalize(num, den).Round(digits), nil
}

// parseDecimal reads "[-+]whole[.fraction[(cycle)]]" or "n/d".
func parseDecimal(s string) (Rational, error) {
	text := strings.TrimSpace(s)
	malformed := fmt.Errorf("%w: malformed number %q", ErrTypeMismatch, s)

	if num, den, ok := strings.Cut(text, "/"); ok {
		n, okN := new(big.Int).SetString(strings.TrimSpace(num), 10)
		d, okD := new(big.Int).SetString(strings.TrimSpace(den), 10)
		if !okN || !okD {
			return Rational{}, malformed
		}
		if d.Sign() == 0 {
			return Rational{}, fmt.Errorf("%w: %s", ErrDivisionByZero, text)
		}
		return normalize(n, d), nil
	}

	negative := false
	if text != "" && (text[0] == '-' || text[0] == '+') {
		negative = text[0] == '-'
		text = text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	var cycle string
	if open := strings.IndexByte(frac, '('); open >= 0 {
		if !strings.HasSuffix(frac, ")") {
			return Rational{}, malformed
		}
		cycle = frac[open+1 : len(frac)-1]
		frac = frac[:open]
		if cycle == "" {
			return Rational{}, malformed
		}
	}
	if whole == "" && frac == "" {
		return Rational{}, malformed
	}
	if !isDigits(whole) || !isDigits(frac) || !isDigits(cycle) {
		return Rational{}, malformed
	}

	scale := pow10(len(frac))
	n := digitsValue(whole)
	n.Mul(n, scale)
	n.Add(n, digitsValue(frac))
	value := normalize(n, new(big.Int).Set(scale))

	if cycle != "" {
		// 0.0(6) = 6 / (9 · 10)
		period := pow10(len(cycle))
		period.Sub(period, bigOne)
		period.Mul(period, scale)
		value = value.add(normalize(digitsValue(cycle), period))
	}
	if negative {
		value = value.neg()
	}
	return value, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func digitsValue(s string) *big.Int {
	n := new(big.Int)
	if s != "" {
		n.SetString(s, 10)
	}
	return n
}
