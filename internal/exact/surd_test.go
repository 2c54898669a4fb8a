package exact

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifySqrtDiv(t *testing.T) {
	tests := []struct {
		n, denom int64
		k, r, d  string
	}{
		{8, 2, "1", "2", "1"},
		{45, 6, "1", "5", "2"},
		{12, 4, "1", "3", "2"},
		{7, 1, "1", "7", "1"},
		{72, 3, "2", "2", "1"},
		{5, -2, "-1", "5", "2"},
	}

	for _, tt := range tests {
		k, r, d := SimplifySqrtDiv(big.NewInt(tt.n), big.NewInt(tt.denom))
		assert.Equal(t, []string{tt.k, tt.r, tt.d}, []string{k.String(), r.String(), d.String()}, "sqrt(%d)/%d", tt.n, tt.denom)
	}
}

func TestIntRoot(t *testing.T) {
	assert.Equal(t, "10", intRoot(big.NewInt(1000), 3).String())
	assert.Equal(t, "9", intRoot(big.NewInt(999), 3).String())
	assert.Equal(t, "2", intRoot(big.NewInt(1<<20), 20).String())

	_, ok := exactRoot(big.NewInt(1<<20+1), 20)
	assert.False(t, ok)
}

func TestDivisors(t *testing.T) {
	ds, err := divisors(big.NewInt(-12))
	assert.NoError(t, err)
	var got []string
	for _, d := range ds {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "6", "12"}, got)
}
