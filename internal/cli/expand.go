package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ametrine/internal/calc"
	"github.com/ppiankov/ametrine/internal/exact"
)

var roundPlaces int

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand <expression>",
	Short: "Show the decimal expansion of a rational expression",
	Long: `Expand evaluates a rational expression and splits its decimal expansion
into the integer part, the non-repeating digits and the repeating cycle.

Example:
  ametrine expand "1/7"
  ametrine expand "7/12"
  ametrine expand "2/3" --round 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().IntVar(&roundPlaces, "round", -1, "round to this many decimal places first (half away from zero)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	node, err := calc.Parse(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	ctx, cancel := evalContext(cfg)
	defer cancel()

	v, err := calc.NewEvaluator(cfg.Eval.PiDigits).EvaluateContext(ctx, node)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", node, err)
	}
	q, err := exact.Comprehend(v)
	if err != nil {
		return fmt.Errorf("%s is not rational: %w", v, err)
	}
	if cmd.Flags().Changed("round") {
		q = q.Round(roundPlaces)
	}

	parts, err := q.DecimalPartsContext(ctx)
	if err != nil {
		return err
	}
	writeExpansion(cmd.OutOrStdout(), q, parts)
	return nil
}

func writeExpansion(out io.Writer, q exact.Rational, parts exact.DecimalParts) {
	sign := ""
	if parts.Negative {
		sign = "-"
	}
	fmt.Fprintf(out, "value:          %s\n", q)
	fmt.Fprintf(out, "decimal:        %s\n", parts)
	fmt.Fprintf(out, "integer:        %s%s\n", sign, parts.Integer)
	fmt.Fprintf(out, "non-repeating:  %s\n", digitString(parts.NonRepeating))
	fmt.Fprintf(out, "repeating:      %s\n", digitString(parts.Repeating))
	fmt.Fprintf(out, "periodic:       %t\n", q.IsPeriodic())
}

func digitString(digits []uint8) string {
	if len(digits) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, d := range digits {
		b.WriteByte('0' + d)
	}
	return b.String()
}
