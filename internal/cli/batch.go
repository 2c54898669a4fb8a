package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/ametrine/internal/model"
	"github.com/ppiankov/ametrine/internal/worker"
)

// maxParallelFiles bounds how many input files are read and queued at once
const maxParallelFiles = 4

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	rateLimit    float64
	burst        int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Evaluate expressions from files in parallel",
	Long: `Batch evaluates many expressions concurrently:
- Read expressions from each input file (one per line, # comments, "-" for stdin)
- Evaluate in parallel with a configurable worker count
- Optionally throttle each file to a number of evaluations per second
- Write one JSON and one Markdown report per input file

Example:
  ametrine batch exprs.txt
  ametrine batch a.txt b.txt --concurrency 8 --output-dir ./results
  ametrine batch exprs.txt --rate 100 --timeout 2s`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "total-timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&rateLimit, "rate", 0, "evaluations per second per file, 0 = unlimited (default from config)")
	batchCmd.Flags().IntVar(&burst, "burst", 0, "rate limiter burst size (default from config)")

	// Shared with eval
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().IntVar(&piDigits, "pi-digits", 0, "precision of a bare pi (default from config)")
	batchCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for individual evaluations (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyEvalFlags(cmd, cfg)
	applyBatchFlags(cmd, cfg)
	logger := newLogger(cfg)

	runID := uuid.NewString()[:8]
	logger = logger.With("run", runID)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Ametrine Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Input files:  %s\n", strings.Join(args, ", "))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.Concurrency.RateLimit > 0 {
		fmt.Fprintf(os.Stderr, "  Rate limit:   %.1f/s per file (burst %d)\n", cfg.Concurrency.RateLimit, cfg.Concurrency.Burst)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := newPipeline(cfg, logger)
	limiter := worker.NewLimiter(cfg.Concurrency.RateLimit, cfg.Concurrency.Burst)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter, cfg.Concurrency.Timeout, logger)

	// Each file gets its own worker pool and rate limit bucket
	fileResults := make([][]*worker.EvalResult, len(args))
	fileErrs := make([]error, len(args))
	var g errgroup.Group
	g.SetLimit(maxParallelFiles)
	for i, file := range args {
		i, file := i, file
		g.Go(func() error {
			fileResults[i], fileErrs[i] = processor.ProcessFile(ctx, file)
			return nil
		})
	}
	_ = g.Wait()

	successCount := 0
	failureCount := 0

	for fi, file := range args {
		fmt.Fprintf(os.Stderr, "⚙️  %s\n", file)
		results, err := fileResults[fi], fileErrs[fi]
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", file, err)
			continue
		}

		exprs := make([]string, len(results))
		values := make([]*model.Result, len(results))
		errs := make([]error, len(results))
		for i, res := range results {
			exprs[i] = res.Expression
			values[i] = res.Result
			errs[i] = res.Error
			if res.Error != nil {
				failureCount++
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Expression, res.Error)
				continue
			}
			successCount++
			fmt.Fprintf(os.Stderr, "✓ %s = %s\n", res.Expression, res.Result.Value)
		}

		if err := writeBatchReports(p.Renderer(), cfg, runID, file, exprs, values, errs); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", file, err)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d expressions\n", successCount+failureCount)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

func applyBatchFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("rate") {
		cfg.Concurrency.RateLimit = rateLimit
	}
	if flags.Changed("burst") {
		cfg.Concurrency.Burst = burst
	}
}

// batchReport is the JSON layout of one input file's results
type batchReport struct {
	RunID   string        `json:"run_id"`
	Source  string        `json:"source"`
	Summary model.Summary `json:"summary"`
	Entries []batchEntry  `json:"entries"`
}

type batchEntry struct {
	Expression string        `json:"expression"`
	Result     *model.Result `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type batchRenderer interface {
	RenderJSON(v any, path string) error
	RenderBatchMarkdown(exprs []string, results []*model.Result, errs []error, path string) error
}

func writeBatchReports(r batchRenderer, cfg *model.Config, runID, source string, exprs []string, values []*model.Result, errs []error) error {
	slug := sanitizeFilename(source)

	if cfg.Output.JSON {
		report := batchReport{RunID: runID, Source: source, Summary: model.Summarize(values)}
		for i, expr := range exprs {
			entry := batchEntry{Expression: expr, Result: values[i]}
			if errs[i] != nil {
				entry.Error = errs[i].Error()
			}
			report.Entries = append(report.Entries, entry)
		}
		if err := r.RenderJSON(report, filepath.Join(cfg.Output.Dir, slug+".json")); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	}

	if cfg.Output.Markdown {
		if err := r.RenderBatchMarkdown(exprs, values, errs, filepath.Join(cfg.Output.Dir, slug+".md")); err != nil {
			return fmt.Errorf("failed to write Markdown: %w", err)
		}
	}

	return nil
}

// sanitizeFilename turns an input path into a safe report base name
func sanitizeFilename(s string) string {
	if s == "-" {
		return "stdin"
	}
	s = filepath.Base(filepath.Clean(s))
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if s == "" || s == "." {
		s = "batch"
	}
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
