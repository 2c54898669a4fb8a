package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ametrine/internal/calc"
	"github.com/ppiankov/ametrine/internal/exact"
)

var showComplex bool

// rootsCmd represents the roots command
var rootsCmd = &cobra.Command{
	Use:   "roots <c0> <c1> ...",
	Short: "List the roots of an integer polynomial",
	Long: `Roots lists every real root of c0 + c1*x + c2*x^2 + ... exactly, in
ascending order. The index printed next to each root is the one
algebraic() takes in expressions.

Coefficients are integers, constant term first, separated by spaces or
commas. Put "--" before a negative leading coefficient.

Example:
  ametrine roots -- -2 0 1
  ametrine roots 2,-2,-1,1 --complex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoots,
}

func init() {
	rootCmd.AddCommand(rootsCmd)

	rootsCmd.Flags().BoolVar(&showComplex, "complex", false, "also print approximations of the non-real roots")
}

func runRoots(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	coeffs, err := parseCoefficients(args)
	if err != nil {
		return err
	}
	ctx, cancel := evalContext(cfg)
	defer cancel()
	return writeRoots(ctx, cmd.OutOrStdout(), coeffs, cfg.Eval.DecimalDigits, showComplex)
}

// parseCoefficients reads integer coefficients from arguments that may
// themselves be comma separated
func parseCoefficients(args []string) ([]*big.Int, error) {
	var coeffs []*big.Int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			c, ok := new(big.Int).SetString(field, 10)
			if !ok {
				return nil, fmt.Errorf("invalid coefficient %q", field)
			}
			coeffs = append(coeffs, c)
		}
	}
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("no coefficients given")
	}
	return coeffs, nil
}

func writeRoots(ctx context.Context, out io.Writer, coeffs []*big.Int, digits int, withComplex bool) error {
	first, err := exact.AlgebraicFromBig(coeffs, 0)
	if err != nil {
		return err
	}
	count, err := first.RealRootCountContext(ctx)
	if err != nil {
		return err
	}

	var terms []string
	for _, c := range first.Coefficients() {
		terms = append(terms, c.String())
	}
	fmt.Fprintf(out, "polynomial:  %s\n", calc.PolynomialText(terms))
	fmt.Fprintf(out, "real roots:  %d\n", count)

	now := time.Now()
	for i := 0; i < count; i++ {
		a, err := exact.AlgebraicFromBig(coeffs, i)
		if err != nil {
			return err
		}
		v, err := exact.ToNumber(a)
		if err != nil {
			return err
		}
		res, err := calc.Describe(ctx, v.String(), nil, v, digits, now)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  [%d] %s", i, res.Value)
		switch {
		case res.Approx != "":
			line += "  ≈ " + res.Approx
		case res.Decimal != "" && res.Decimal != res.Value:
			line += "  = " + res.Decimal
		}
		fmt.Fprintln(out, line)
	}

	if !withComplex {
		return nil
	}
	approx, err := exact.PolynomialRoots(coeffs)
	if err != nil {
		return err
	}
	for _, z := range approx {
		if imag(z) == 0 {
			continue
		}
		fmt.Fprintf(out, "  ≈ %.*g %+.*gi\n", digits, real(z), digits, imag(z))
	}
	return nil
}
