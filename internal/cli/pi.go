package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ametrine/internal/exact"
)

// piCmd represents the pi command
var piCmd = &cobra.Command{
	Use:   "pi [digits]",
	Short: "Print pi to a number of decimal places",
	Long: `Print pi rounded to the given number of decimal places, computed exactly
from Machin's formula. Without an argument the configured eval.pi_digits
is used.

Example:
  ametrine pi
  ametrine pi 200`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPi,
}

func init() {
	rootCmd.AddCommand(piCmd)
}

func runPi(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	digits := cfg.Eval.PiDigits
	if len(args) == 1 {
		if digits, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid digit count %q: %w", args[0], err)
		}
	}

	ctx, cancel := evalContext(cfg)
	defer cancel()

	pi, err := exact.PiContext(ctx, digits)
	if err != nil {
		return err
	}
	parts, err := pi.DecimalPartsContext(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), parts)
	return nil
}
