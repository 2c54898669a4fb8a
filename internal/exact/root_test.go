package exact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRoot(t *testing.T, radicand, index Operand) *Root {
	t.Helper()
	r, err := NewRoot(radicand, index)
	require.NoError(t, err)
	return r
}

func TestRootPerfectSquare(t *testing.T) {
	r := mustRoot(t, Int(4), Int(2))

	ok, err := r.Simplify().Equal(MustRational(2, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.IsType(t, Rational{}, r.Simplify())

	s, err := Simplify(r)
	require.NoError(t, err)
	assert.Equal(t, NewInteger(2).String(), s.(Integer).String())
}

func TestRootIrrational(t *testing.T) {
	r := mustRoot(t, Int(2), Int(2))

	assert.Same(t, r, r.Simplify())
	s, err := Simplify(r)
	require.NoError(t, err)
	assert.Same(t, r, s)
	assert.Equal(t, "sqrt(2)", r.String())
	assert.Equal(t, "sqrt(2)", r.Algebraic().String())
}

func TestRootProduct(t *testing.T) {
	product, err := mustRoot(t, Int(2), Int(2)).Mul(mustRoot(t, Int(8), Int(2)))
	require.NoError(t, err)

	s, err := Simplify(product)
	require.NoError(t, err)
	ok, err := MustRational(4, 1).Equal(s)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRoot(t *testing.T) {
	tests := []struct {
		radicand Operand
		index    Operand
		want     string
	}{
		{Int(-8), Int(3), "-2"},
		{Int(8), Int(2), "2*sqrt(2)"},
		{Decimal("1/2"), Int(2), "sqrt(2)/2"},
		{Int(2), Int(3), "2^(1/3)"},
		{Int(16), Int(4), "2"},
		{Int(4), Int(4), "sqrt(2)"},
		{Int(4), Decimal("2/3"), "8"},
		{Int(4), Int(-2), "1/2"},
		{Int(0), Int(5), "0"},
		{Int(7), Int(1), "7"},
		{Int(-54), Int(3), "-3*2^(1/3)"},
		{Decimal("0.25"), Int(2), "1/2"},
	}

	for _, tt := range tests {
		r := mustRoot(t, tt.radicand, tt.index)
		assert.Equal(t, tt.want, r.String(), "root %v of %v", tt.index, tt.radicand)
	}
}

func TestNewRootErrors(t *testing.T) {
	_, err := NewRoot(Int(-4), Int(2))
	assert.ErrorIs(t, err, ErrNonReal)

	_, err = NewRoot(Int(2), Int(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = NewRoot(Int(0), Int(-2))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = NewRoot(Decimal("x"), Int(2))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewRoot(mustAlgebraic(t, []int64{-2, 0, 0, 1}, 0), Int(2))
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}

func TestNestedRoot(t *testing.T) {
	sqrt2 := mustRoot(t, Int(2), Int(2))

	fourth := mustRoot(t, sqrt2, Int(2))
	assert.Equal(t, "2^(1/4)", fourth.String())

	back, err := fourth.Pow(Int(4))
	require.NoError(t, err)
	assert.Equal(t, "2", back.String())

	r, err := RootOf(sqrt2, Int(2))
	require.NoError(t, err)
	assert.Equal(t, "2^(1/4)", r.String())

	r, err = RootOf(Int(9), Int(2))
	require.NoError(t, err)
	assert.Equal(t, "3", r.String())
}

func TestRootMixedIndex(t *testing.T) {
	_, err := mustRoot(t, Int(2), Int(2)).Mul(mustRoot(t, Int(2), Int(3)))
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = mustRoot(t, Int(2), Int(2)).Quo(mustRoot(t, Int(2), Int(3)))
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestRootArithmetic(t *testing.T) {
	sqrt2 := mustRoot(t, Int(2), Int(2))
	sqrt8 := mustRoot(t, Int(8), Int(2))
	sqrt3 := mustRoot(t, Int(3), Int(2))

	tests := []struct {
		name string
		op   func() (Number, error)
		want string
	}{
		{"like radicals", func() (Number, error) { return sqrt2.Add(sqrt8) }, "3*sqrt(2)"},
		{"cancel", func() (Number, error) { return sqrt2.Sub(sqrt2) }, "0"},
		{"rational sum", func() (Number, error) { return sqrt2.Add(Int(1)) }, "1 + sqrt(2)"},
		{"scale", func() (Number, error) { return sqrt2.Mul(Decimal("3/4")) }, "3*sqrt(2)/4"},
		{"product", func() (Number, error) { return sqrt2.Mul(sqrt3) }, "sqrt(6)"},
		{"quotient", func() (Number, error) { return sqrt8.Quo(sqrt2) }, "2"},
		{"divide rational", func() (Number, error) { return sqrt8.Quo(Int(4)) }, "sqrt(2)/2"},
		{"square", func() (Number, error) { return sqrt2.Pow(Int(2)) }, "2"},
		{"inverse power", func() (Number, error) { return sqrt2.Pow(Int(-1)) }, "sqrt(2)/2"},
		{"fourth root", func() (Number, error) { return sqrt2.Pow(Decimal("1/2")) }, "2^(1/4)"},
		{"zero power", func() (Number, error) { return sqrt2.Pow(Int(0)) }, "1"},
		{"rational over root", func() (Number, error) { return MustRational(1, 1).Quo(sqrt2) }, "sqrt(2)/2"},
		{"integer times root", func() (Number, error) { return NewInteger(3).Mul(sqrt2) }, "3*sqrt(2)"},
		{"negated cube", func() (Number, error) { return mustRoot(t, Int(2), Int(3)).Mul(Int(-1)) }, "-2^(1/3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRootInv(t *testing.T) {
	inv, err := mustRoot(t, Int(2), Int(3)).Inv()
	require.NoError(t, err)
	assert.Equal(t, "4^(1/3)/2", inv.String())

	_, err = mustRoot(t, Int(0), Int(2)).Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestRootCompare(t *testing.T) {
	sqrt2 := mustRoot(t, Int(2), Int(2))

	less, err := sqrt2.Less(Decimal("1.415"))
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := sqrt2.Greater(Decimal("1.414"))
	require.NoError(t, err)
	assert.True(t, greater)

	c, err := mustRoot(t, Int(3), Int(3)).Cmp(sqrt2)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = sqrt2.Neg().Cmp(Int(-1))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = sqrt2.Cmp(Int(-5))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = sqrt2.Cmp(mustAlgebraic(t, []int64{-2, 0, 0, 1}, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestRootEqual(t *testing.T) {
	sqrt2 := mustRoot(t, Int(2), Int(2))

	ok, err := sqrt2.Equal(mustRoot(t, Decimal("1/2"), Int(-2)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sqrt2.Equal(mustAlgebraic(t, []int64{-2, 0, 1}, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sqrt2.Equal(mustRoot(t, Int(3), Int(2)))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mustRoot(t, Int(4), Int(2)).Equal(Int(2))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRootAlgebraic(t *testing.T) {
	tests := []struct {
		r      *Root
		coeffs string
		index  int
	}{
		{mustRoot(t, Int(2), Int(2)), "-2x^0 + 0x^1 + 1x^2", 1},
		{mustRoot(t, Int(-2), Int(3)), "2x^0 + 0x^1 + 0x^2 + 1x^3", 0},
		{mustRoot(t, Decimal("1/2"), Int(2)), "-1x^0 + 0x^1 + 2x^2", 1},
	}

	for _, tt := range tests {
		a := tt.r.Algebraic()
		assert.Equal(t, tt.coeffs, polyString(a.Coefficients()))
		assert.Equal(t, tt.index, a.RootIndex())
		ok, err := a.Equal(tt.r)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	neg := mustRoot(t, Int(2), Int(2)).Neg().(*Root).Algebraic()
	assert.Equal(t, 0, neg.RootIndex())
	assert.Equal(t, "-sqrt(2)", neg.String())
}

func TestRootAccessors(t *testing.T) {
	r := mustRoot(t, Int(-54), Int(3))
	assert.Equal(t, "-54", r.Radicand().String())
	assert.Equal(t, int64(3), r.Index())
	assert.Equal(t, "-3", r.Coefficient().String())
	assert.True(t, r.IsNegative())
	assert.InDelta(t, -math.Cbrt(54), r.Float64(), 1e-12)
}
