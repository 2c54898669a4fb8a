package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ametrine/internal/model"
)

// mockEvaluator echoes the expression back as the value
type mockEvaluator struct {
	delay time.Duration
	fail  string // expressions containing this fail
}

func (m *mockEvaluator) Evaluate(ctx context.Context, expr string) (*model.Result, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.fail != "" && strings.Contains(expr, m.fail) {
		return nil, errors.New("evaluation error")
	}
	return &model.Result{Expression: expr, Value: expr, Kind: model.KindInteger}, nil
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBatchProcessor_ProcessExpressions(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 3, nil, 0, nil)

	exprs := make([]string, 50)
	for i := range exprs {
		exprs[i] = fmt.Sprintf("%d + 1", i)
	}

	results := processor.ProcessExpressions(context.Background(), "test", exprs)
	require.Len(t, results, len(exprs))

	for i, res := range results {
		require.NoError(t, res.Error)
		assert.Equal(t, i, res.Index, "results keep input order")
		assert.Equal(t, exprs[i], res.Expression)
		assert.Equal(t, exprs[i], res.Result.Value)
		assert.Equal(t, "test", res.Source)
	}
}

func TestBatchProcessor_ProcessExpressions_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{fail: "bad"}, 2, nil, 0, nil)

	results := processor.ProcessExpressions(context.Background(), "test", []string{"1", "bad", "2"})
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Error)
	assert.Error(t, results[1].Error)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[2].Error)
}

func TestBatchProcessor_ProcessExpressions_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil, 0, nil)
	assert.Empty(t, processor.ProcessExpressions(context.Background(), "test", nil))
}

func TestBatchProcessor_Timeout(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{delay: time.Second}, 1, nil, 20*time.Millisecond, nil)

	results := processor.ProcessExpressions(context.Background(), "test", []string{"1"})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Error, context.DeadlineExceeded)
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessExpressions(ctx, "test", []string{"1", "2", "3"})
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, []string{"1", "2", "3"}[i], res.Expression)
	}
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	limiter := NewLimiter(50, 1)
	processor := NewBatchProcessor(&mockEvaluator{}, 4, limiter, 0, nil)

	start := time.Now()
	results := processor.ProcessExpressions(context.Background(), "test", []string{"1", "2", "3", "4", "5"})
	elapsed := time.Since(start)

	require.Len(t, results, 5)
	for _, res := range results {
		assert.NoError(t, res.Error)
	}
	// one token up front, then four more at 50/s
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestReadExpressionsFromFile(t *testing.T) {
	path := writeTemp(t, "1/3 + 1/6\n# comment\nsqrt(8)\n   \n  pi(5)  \n1/3 + 1/6\n")

	exprs, err := ReadExpressionsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1/3 + 1/6", "sqrt(8)", "pi(5)"}, exprs)
}

func TestReadExpressionsFromFile_NonExistent(t *testing.T) {
	_, err := ReadExpressionsFromFile("non_existent_file.txt")
	assert.Error(t, err)
}

func TestReadExpressions(t *testing.T) {
	exprs, err := ReadExpressions(strings.NewReader("2\n\n#x\n3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, exprs)
}

func TestEvalResult_GetError(t *testing.T) {
	r1 := &EvalResult{Expression: "1"}
	assert.NoError(t, r1.GetError())

	expected := errors.New("failed")
	r2 := &EvalResult{Expression: "1", Error: expected}
	assert.Equal(t, expected, r2.GetError())
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTemp(t, "1\n2\n# comment\n\n3\n")
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil, 0, nil)

	results, err := processor.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, path, results[0].Source)
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil, 0, nil)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	assert.Error(t, err)
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeTemp(t, "")
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil, 0, nil)

	results, err := processor.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, results)
}
