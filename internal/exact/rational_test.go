package exact

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewRational(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{6, 8, "3/4"},
		{6, -8, "-3/4"},
		{-6, -8, "3/4"},
		{0, 5, "0"},
		{-4, 2, "-2"},
		{7, 1, "7"},
	}

	for _, tt := range tests {
		r, err := NewRational(tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.String())
		assert.Equal(t, 1, r.Denom().Sign(), "denominator must be positive")

		// ratio preserved: num·den' == den·num'
		lhs := new(big.Int).Mul(r.Num(), big.NewInt(tt.den))
		rhs := new(big.Int).Mul(r.Denom(), big.NewInt(tt.num))
		assert.Equal(t, 0, lhs.Cmp(rhs))

		g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(r.Num()), r.Denom())
		assert.Equal(t, "1", g.String())
	}
}

func TestNewRationalZeroDenominator(t *testing.T) {
	_, err := NewRational(5, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = RationalFromBig(big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestRationalZeroValue(t *testing.T) {
	var r Rational
	assert.Equal(t, "0", r.String())
	assert.Equal(t, 0, r.Sign())

	sum, err := r.Add(Int(3))
	require.NoError(t, err)
	assert.Equal(t, "3", sum.String())
}

func TestRationalArithmetic(t *testing.T) {
	half := MustRational(1, 2)
	third := MustRational(1, 3)

	tests := []struct {
		name string
		op   func() (Number, error)
		want string
	}{
		{"add decimal", func() (Number, error) { return half.Add(Decimal("0.25")) }, "3/4"},
		{"add int", func() (Number, error) { return half.Add(Int(1)) }, "3/2"},
		{"add float", func() (Number, error) { return half.Add(Float(0.1)) }, "3/5"},
		{"sub", func() (Number, error) { return half.Sub(third) }, "1/6"},
		{"mul", func() (Number, error) { return half.Mul(third) }, "1/6"},
		{"quo", func() (Number, error) { return half.Quo(third) }, "3/2"},
		{"quo periodic", func() (Number, error) { return half.Quo(Decimal("0.(3)")) }, "3/2"},
		{"integer result", func() (Number, error) { return half.Mul(Int(4)) }, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRationalQuoByZero(t *testing.T) {
	_, err := MustRational(1, 2).Quo(Int(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Rational{}.Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestRationalAddNegation(t *testing.T) {
	for a := int64(-6); a <= 6; a++ {
		for b := int64(-4); b <= 4; b++ {
			if b == 0 {
				continue
			}
			sum, err := MustRational(a, b).Add(MustRational(-a, b))
			require.NoError(t, err)
			ok, err := sum.Equal(MustRational(0, 1))
			require.NoError(t, err)
			assert.True(t, ok, "%d/%d + %d/%d", a, b, -a, b)
		}
	}

	zero, ok := MustRational(0, 1).Reduce()
	require.True(t, ok)
	assert.IsType(t, Integer{}, zero)
	assert.Equal(t, "0", zero.String())
}

func TestRationalRound(t *testing.T) {
	tests := []struct {
		r         Rational
		precision int
		want      string
	}{
		{MustRational(22, 7), 2, "157/50"},
		{MustRational(-22, 7), 2, "-157/50"},
		{MustRational(1, 2), 0, "1"},
		{MustRational(-1, 2), 0, "-1"},
		{MustRational(5, 1000), 2, "1/100"},
		{MustRational(1250, 1), -2, "1300"},
		{MustRational(1, 3), 3, "333/1000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.r.Round(tt.precision).String(), "%s rounded to %d", tt.r, tt.precision)
	}
}

func TestRationalPow(t *testing.T) {
	tests := []struct {
		base     Rational
		exponent Operand
		want     string
	}{
		{MustRational(2, 3), Int(2), "4/9"},
		{MustRational(2, 3), Int(-2), "9/4"},
		{MustRational(2, 3), Int(0), "1"},
		{MustRational(4, 1), Decimal("1/2"), "2"},
		{MustRational(8, 1), Decimal("2/3"), "4"},
		{MustRational(-8, 1), Decimal("1/3"), "-2"},
		{MustRational(9, 4), Decimal("-1/2"), "2/3"},
		{MustRational(2, 1), Decimal("0.5"), "sqrt(2)"},
		{MustRational(1, 2), Decimal("1/2"), "sqrt(2)/2"},
	}

	for _, tt := range tests {
		got, err := tt.base.Pow(tt.exponent)
		require.NoError(t, err, "%s ^ %s", tt.base, tt.exponent)
		assert.Equal(t, tt.want, got.String(), "%s ^ %s", tt.base, tt.exponent)
	}
}

func TestRationalPowErrors(t *testing.T) {
	_, err := MustRational(-4, 1).Pow(Decimal("1/2"))
	assert.ErrorIs(t, err, ErrNonReal)

	_, err = Rational{}.Pow(Int(-1))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MustRational(2, 1).Pow(Int(1 << 20))
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestRationalCompare(t *testing.T) {
	a := MustRational(1, 3)

	less, err := a.Less(Decimal("0.34"))
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := a.Greater(Float(0.33))
	require.NoError(t, err)
	assert.True(t, greater)

	eq, err := a.Equal(Decimal("0.(3)"))
	require.NoError(t, err)
	assert.True(t, eq)

	c, err := MustRational(-1, 2).Cmp(MustRational(-1, 3))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestComprehend(t *testing.T) {
	tests := []struct {
		in   Operand
		want string
	}{
		{Int(5), "5"},
		{NewInteger(-3), "-3"},
		{Float(0.1), "1/10"},
		{Float(0.5), "1/2"},
		{Float(-2.75), "-11/4"},
		{Float(1e-20), "0"},
		{Decimal("0.1(6)"), "1/6"},
		{Decimal("-1.75"), "-7/4"},
		{Decimal("+.5"), "1/2"},
		{Decimal("12"), "12"},
		{Decimal("0.(9)"), "1"},
		{Decimal(" 3/-4 "), "-3/4"},
	}

	for _, tt := range tests {
		got, err := Comprehend(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.String(), "%v", tt.in)
	}
}

func TestComprehendErrors(t *testing.T) {
	for _, in := range []Operand{Decimal("abc"), Decimal("1.2.3"), Decimal("0.(3"), Decimal(""), Decimal("0.()")} {
		_, err := Comprehend(in)
		assert.ErrorIs(t, err, ErrTypeMismatch, "%v", in)
	}

	_, err := Comprehend(Decimal("1/0"))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	root, err := NewRoot(Int(2), Int(2))
	require.NoError(t, err)
	_, err = Comprehend(root)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestComprehendRoundTrip(t *testing.T) {
	for _, r := range []Rational{MustRational(3, 4), MustRational(-7, 3), MustRational(12, 1), MustRational(1, 7)} {
		got, err := Comprehend(Decimal(r.String()))
		require.NoError(t, err)
		assert.Equal(t, 0, got.cmp(r))

		text, err := r.DecimalString()
		require.NoError(t, err)
		got, err = Comprehend(Decimal(text))
		require.NoError(t, err)
		assert.Equal(t, 0, got.cmp(r), "%s via %q", r, text)
	}
}

func TestRationalUnmarshalImmutable(t *testing.T) {
	var r Rational
	require.NoError(t, r.UnmarshalText([]byte("0.5")))
	assert.Equal(t, "1/2", r.String())

	err := r.UnmarshalText([]byte("3"))
	assert.ErrorIs(t, err, ErrImmutable)
	assert.Equal(t, "1/2", r.String())
}

func TestRationalJSON(t *testing.T) {
	var v struct {
		A Rational `json:"a"`
		B Rational `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"3/4","b":0.25}`), &v))
	assert.Equal(t, "3/4", v.A.String())
	assert.Equal(t, "1/4", v.B.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"3/4","b":"1/4"}`, string(out))
}

func TestRationalYAML(t *testing.T) {
	type doc struct {
		V Rational `yaml:"v"`
	}
	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("v: 0.1(6)\n"), &d))
	assert.Equal(t, "1/6", d.V.String())

	out, err := yaml.Marshal(doc{V: MustRational(1, 3)})
	require.NoError(t, err)
	assert.Equal(t, "v: 1/3\n", string(out))
}
