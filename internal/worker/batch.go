package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/ametrine/internal/logging"
	"github.com/ppiankov/ametrine/internal/model"
)

// Evaluator computes one expression
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (*model.Result, error)
}

// EvalJob evaluates one expression from a batch
type EvalJob struct {
	Index      int
	Source     string
	Expression string
	Evaluator  Evaluator
	Limiter    *Limiter
	Timeout    time.Duration
}

// Execute waits for the source's rate limit, then evaluates. A job that
// outlives its timeout reports context.DeadlineExceeded.
func (j *EvalJob) Execute(ctx context.Context) Result {
	res := &EvalResult{Index: j.Index, Source: j.Source, Expression: j.Expression}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Source); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	type outcome struct {
		result *model.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := j.Evaluator.Evaluate(ctx, j.Expression)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		res.Result, res.Error = o.result, o.err
	case <-ctx.Done():
		res.Error = ctx.Err()
	}
	return res
}

// EvalResult represents the result of an evaluation job
type EvalResult struct {
	Index      int
	Source     string
	Expression string
	Result     *model.Result
	Error      error
}

// GetError returns the error from the evaluation
func (r *EvalResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many expressions concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	limiter     *Limiter
	timeout     time.Duration
	logger      *logging.Logger
}

// NewBatchProcessor creates a batch processor. limiter and logger may be nil;
// a zero timeout means none.
func NewBatchProcessor(evaluator Evaluator, concurrency int, limiter *Limiter, timeout time.Duration, logger *logging.Logger) *BatchProcessor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
		limiter:     limiter,
		timeout:     timeout,
		logger:      logger,
	}
}

// ProcessExpressions evaluates exprs and returns one result per input, in
// input order
func (b *BatchProcessor) ProcessExpressions(ctx context.Context, source string, exprs []string) []*EvalResult {
	if len(exprs) == 0 {
		return []*EvalResult{}
	}

	jobs := make([]Job, len(exprs))
	for i, expr := range exprs {
		jobs[i] = &EvalJob{
			Index:      i,
			Source:     source,
			Expression: expr,
			Evaluator:  b.evaluator,
			Limiter:    b.limiter,
			Timeout:    b.timeout,
		}
	}
	b.logger.Debug("batch started", "source", source, "jobs", len(jobs), "workers", b.concurrency)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	results := pool.Run(jobs)

	ordered := make([]*EvalResult, len(exprs))
	for _, r := range results {
		er := r.(*EvalResult)
		ordered[er.Index] = er
	}

	// Jobs dropped by cancellation still get an entry
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &EvalResult{Index: i, Source: source, Expression: exprs[i], Error: err}
		}
	}

	failed := 0
	for _, r := range ordered {
		if r.Error != nil {
			failed++
			b.logger.Debug("evaluation failed", "source", source, "expr", r.Expression, "error", r.Error)
		}
	}
	b.logger.Info("batch complete", "source", source, "total", len(ordered), "failed", failed)

	return ordered
}

// ProcessFile reads expressions from a file ("-" for stdin) and evaluates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvalResult, error) {
	exprs, err := ReadExpressionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read expressions: %w", err)
	}

	return b.ProcessExpressions(ctx, filePath, exprs), nil
}

// ReadExpressionsFromFile reads one expression per line. "-" reads stdin.
func ReadExpressionsFromFile(filePath string) ([]string, error) {
	if filePath == "-" {
		return ReadExpressions(os.Stdin)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadExpressions(file)
}

// ReadExpressions reads one expression per line, skipping blank lines and
// # comments and dropping repeats
func ReadExpressions(r io.Reader) ([]string, error) {
	var exprs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			exprs = append(exprs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return exprs, nil
}
