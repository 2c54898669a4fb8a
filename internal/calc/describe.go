package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ppiankov/ametrine/internal/exact"
	"github.com/ppiankov/ametrine/internal/model"
)

// Describe turns an evaluated value into a Result. Rationals get their
// periodic decimal form; irrationals get a float approximation to digits
// significant digits and their defining polynomial. ctx bounds the decimal
// expansion.
func Describe(ctx context.Context, expr string, node Node, v exact.Number, digits int, now time.Time) (*model.Result, error) {
	if digits <= 0 || digits > 17 {
		digits = 15
	}
	res := &model.Result{
		Expression:  expr,
		Value:       v.String(),
		EvaluatedAt: now.UTC(),
	}
	if node != nil {
		res.Normalized = node.String()
	}

	switch x := v.(type) {
	case exact.Integer:
		res.Kind = model.KindInteger
		res.Decimal = x.String()
	case exact.Rational:
		res.Kind = model.KindRational
		parts, err := x.DecimalPartsContext(ctx)
		switch {
		case err == nil:
			res.Decimal = parts.String()
			res.Periodic = x.IsPeriodic()
		case errors.Is(err, exact.ErrLimitExceeded):
			res.Approx = formatApprox(x.Float64(), digits)
		default:
			return nil, err
		}
	case *exact.Root:
		res.Kind = model.KindRoot
		res.Approx = formatApprox(x.Float64(), digits)
		a := x.Algebraic()
		res.Polynomial = polyStrings(a)
		idx := a.RootIndex()
		res.RootIndex = &idx
	case *exact.Algebraic:
		res.Kind = model.KindAlgebraic
		res.Approx = formatApprox(x.Float64(), digits)
		res.Polynomial = polyStrings(x)
		idx := x.RootIndex()
		res.RootIndex = &idx
	default:
		return nil, fmt.Errorf("%w: %T", exact.ErrUnknownType, v)
	}
	return res, nil
}

func formatApprox(f float64, digits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', digits, 64)
}

func polyStrings(a *exact.Algebraic) []string {
	coeffs := a.Coefficients()
	out := make([]string, len(coeffs))
	for i, c := range coeffs {
		out[i] = c.String()
	}
	return out
}
