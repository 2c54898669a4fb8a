package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ametrine/internal/cache"
	"github.com/ppiankov/ametrine/internal/calc"
	"github.com/ppiankov/ametrine/internal/logging"
	"github.com/ppiankov/ametrine/internal/model"
)

var (
	jsonOut   string
	mdOut     string
	printJSON bool
	noCache   bool
	noFooter  bool
	piDigits  int
	colorMode string
	timeout   time.Duration
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression exactly",
	Long: `Evaluate an arithmetic expression without rounding.

Operators: + - * / ^ (right-associative), unary minus, parentheses.
Literals:  12, -0.125, 0.1(6) (periodic decimal, cycle in parentheses).

Functions:
` + functionHelp() + `
Irrational values combine when they share a defining polynomial, so
2*sqrt(2) + sqrt(8) works. Adding or subtracting irrationals of
different polynomials is not implemented, so this fails even though
the answer is rational:
  (1 + sqrt(2)) - sqrt(2)

Example:
  ametrine eval "sqrt(8)/2"
  ametrine eval "0.(3) + 2/3"
  ametrine eval "algebraic(1, -1, -1, 1)^2" --json
  ametrine eval "pi(30)" --json-out pi.json --md-out pi.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&jsonOut, "json-out", "", "write the result as JSON to this file")
	evalCmd.Flags().StringVar(&mdOut, "md-out", "", "write the result as Markdown to this file")
	evalCmd.Flags().BoolVar(&printJSON, "json", false, "print JSON to stdout instead of the summary")
	evalCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	evalCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	evalCmd.Flags().IntVar(&piDigits, "pi-digits", 0, "precision of a bare pi (default from config)")
	evalCmd.Flags().StringVar(&colorMode, "color", "", "color output: auto, always, never (default from config)")
	evalCmd.Flags().DurationVar(&timeout, "timeout", 0, "evaluation timeout (default from config)")
}

func runEval(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyEvalFlags(cmd, cfg)
	logger := newLogger(cfg)

	ctx, cancel := evalContext(cfg)
	defer cancel()

	p := newPipeline(cfg, logger)
	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Evaluating: %s\n", expr)
	}

	res, err := p.Evaluate(ctx, expr)
	if err != nil {
		return err
	}

	if printJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return writeReports(p, res, jsonOut, mdOut)
	}

	return p.RenderReport(cmd.OutOrStdout(), res, jsonOut, mdOut, verbose)
}

// applyEvalFlags lets explicitly set flags override the loaded config
func applyEvalFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("no-cache") && noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("no-footer") && noFooter {
		cfg.Output.IncludeFooter = false
	}
	if flags.Changed("pi-digits") {
		cfg.Eval.PiDigits = piDigits
	}
	if flags.Changed("color") {
		cfg.Output.Color = colorMode
	}
	if flags.Changed("timeout") {
		cfg.Concurrency.Timeout = timeout
	}
}

// newPipeline wires the layered result cache into a pipeline when enabled
func newPipeline(cfg *model.Config, logger *logging.Logger) *calc.Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	return calc.NewPipeline(cfg, c, logger)
}

func writeReports(p *calc.Pipeline, res *model.Result, jsonPath, mdPath string) error {
	r := p.Renderer()
	if jsonPath != "" {
		if err := r.RenderJSON(res, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if mdPath != "" {
		if err := r.RenderMarkdown(res, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	return nil
}

func functionHelp() string {
	fns := calc.Functions()
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %s\n", fns[name])
	}
	return b.String()
}

// evalContext bounds one evaluation by the configured timeout
func evalContext(cfg *model.Config) (context.Context, context.CancelFunc) {
	if cfg.Concurrency.Timeout > 0 {
		return context.WithTimeout(context.Background(), cfg.Concurrency.Timeout)
	}
	return context.WithCancel(context.Background())
}
