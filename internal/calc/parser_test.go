package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"(1 - 2) - 3", "1 - 2 - 3"},
		{"-2^2", "-2^2"},
		{"(-2)^2", "(-2)^2"},
		{"2^3^2", "2^3^2"},
		{"(2^3)^2", "(2^3)^2"},
		{"2^-1", "2^(-1)"},
		{"--3", "--3"},
		{"-(1 + 2)", "-(1 + 2)"},
		{"SQRT( 8 )", "sqrt(8)"},
		{"root(2,3)", "root(2, 3)"},
		{"pi", "pi"},
		{"pi(10)", "pi(10)"},
		{"0.1(6) + 1", "0.1(6) + 1"},
		{".5 * 4", ".5 * 4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())

			again, err := Parse(n.String())
			require.NoError(t, err)
			assert.Equal(t, n.String(), again.String())
		})
	}
}

func TestParse_Tree(t *testing.T) {
	n, err := Parse("1 + 2 * 3")
	require.NoError(t, err)

	sum, ok := n.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
	assert.Equal(t, &Literal{Text: "1"}, sum.Left)

	prod, ok := sum.Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", prod.Op)

	n, err = Parse("2^3^2")
	require.NoError(t, err)
	pow := n.(*Binary)
	assert.Equal(t, &Literal{Text: "2"}, pow.Left)
	_, rightAssoc := pow.Right.(*Binary)
	assert.True(t, rightAssoc)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrSyntax},
		{"   ", ErrSyntax},
		{"1 +", ErrSyntax},
		{"(1", ErrSyntax},
		{"1)", ErrSyntax},
		{"1 2", ErrSyntax},
		{"1 $ 2", ErrSyntax},
		{".", ErrSyntax},
		{"*3", ErrSyntax},
		{"foo(1)", ErrUnknownFunction},
		{"x", ErrUnknownFunction},
		{"sqrt(1, 2)", ErrArity},
		{"sqrt", ErrArity},
		{"root(8)", ErrArity},
		{"algebraic(0, 1)", ErrArity},
		{"sqrt(1,", ErrSyntax},
		// a cycle holds digits only, so this is 1.5 followed by a group
		{"1.5(2 + 3)", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
