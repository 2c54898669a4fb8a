package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ametrine/internal/calc"
	"github.com/ppiankov/ametrine/internal/exact"
	"github.com/ppiankov/ametrine/internal/model"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	bindEnv(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	defer exact.Configure(exact.DefaultLimits())

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	defer exact.Configure(exact.DefaultLimits())

	t.Setenv("AMETRINE_EVAL_PI_DIGITS", "120")
	t.Setenv("AMETRINE_CACHE_ENABLED", "false")
	t.Setenv("AMETRINE_CONCURRENCY_TIMEOUT", "2s")
	t.Setenv("AMETRINE_LIMITS_MAX_EXPANSION_DIGITS", "64")

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Eval.PiDigits)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Concurrency.Timeout)
	assert.Equal(t, 64, cfg.Limits.MaxExpansionDigits)
	assert.Equal(t, 64, exact.CurrentLimits().MaxExpansionDigits)
}

func TestRenderDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderDefaultConfig(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Ametrine Configuration File")
	assert.Contains(t, out, "pi_digits: 50")

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Ametrine Configuration File")

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-", "stdin"},
		{"exprs.txt", "exprs"},
		{"/tmp/data/my exprs.txt", "my-exprs"},
		{"a:b?.list", "a_b_"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ametrine v"+Version+"\n", buf.String())
}

func TestParseCoefficients(t *testing.T) {
	coeffs, err := parseCoefficients([]string{"-2", "0,1"})
	require.NoError(t, err)
	require.Len(t, coeffs, 3)
	assert.Equal(t, "-2", coeffs[0].String())
	assert.Equal(t, "0", coeffs[1].String())
	assert.Equal(t, "1", coeffs[2].String())

	_, err = parseCoefficients([]string{"1", "x"})
	assert.Error(t, err)

	_, err = parseCoefficients([]string{","})
	assert.Error(t, err)
}

func TestWriteRoots(t *testing.T) {
	var buf bytes.Buffer
	coeffs := []*big.Int{big.NewInt(2), big.NewInt(-3), big.NewInt(1)}

	require.NoError(t, writeRoots(context.Background(), &buf, coeffs, 15, false))

	out := buf.String()
	assert.Contains(t, out, "polynomial:  x^2 - 3*x + 2")
	assert.Contains(t, out, "real roots:  2")
	assert.Contains(t, out, "  [0] 1\n")
	assert.Contains(t, out, "  [1] 2\n")
}

func TestWriteRootsAscending(t *testing.T) {
	var buf bytes.Buffer
	// (x - 1)(x^2 - 2)
	coeffs := []*big.Int{big.NewInt(2), big.NewInt(-2), big.NewInt(-1), big.NewInt(1)}

	require.NoError(t, writeRoots(context.Background(), &buf, coeffs, 6, false))

	out := buf.String()
	assert.Contains(t, out, "real roots:  3")
	assert.Contains(t, out, "  [0] -sqrt(2)  ≈ -1.41421\n")
	assert.Contains(t, out, "  [1] 1\n")
	assert.Contains(t, out, "  [2] sqrt(2)  ≈ 1.41421\n")
	assert.Contains(t, rootsCmd.Long, "ascending order")
}

func TestWriteRootsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	coeffs := []*big.Int{big.NewInt(2), big.NewInt(-2), big.NewInt(-1), big.NewInt(1)}
	err := writeRoots(ctx, &buf, coeffs, 6, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvalHelpNamesUnsupportedSums(t *testing.T) {
	assert.Contains(t, evalCmd.Long, "(1 + sqrt(2)) - sqrt(2)")
	assert.Contains(t, evalCmd.Long, "not implemented")

	_, err := calc.NewPipeline(model.DefaultConfig(), nil, nil).Evaluate(context.Background(), "(1 + sqrt(2)) - sqrt(2)")
	assert.ErrorIs(t, err, exact.ErrNotImplemented)
}

func TestWriteRootsComplex(t *testing.T) {
	var buf bytes.Buffer
	coeffs := []*big.Int{big.NewInt(1), big.NewInt(0), big.NewInt(1)}

	require.NoError(t, writeRoots(context.Background(), &buf, coeffs, 6, true))

	out := buf.String()
	assert.Contains(t, out, "real roots:  0")
	assert.NotContains(t, out, "[0]")
	assert.Contains(t, out, "i\n")
}

func TestWriteRootsMalformed(t *testing.T) {
	var buf bytes.Buffer
	err := writeRoots(context.Background(), &buf, []*big.Int{big.NewInt(7)}, 15, false)
	assert.True(t, errors.Is(err, exact.ErrMalformedAlgebraic))
}

func TestWriteExpansion(t *testing.T) {
	q := exact.MustRational(7, 12)
	parts, err := q.DecimalParts()
	require.NoError(t, err)

	var buf bytes.Buffer
	writeExpansion(&buf, q, parts)

	out := buf.String()
	assert.Contains(t, out, "value:          7/12\n")
	assert.Contains(t, out, "decimal:        0.58(3)\n")
	assert.Contains(t, out, "integer:        0\n")
	assert.Contains(t, out, "non-repeating:  58\n")
	assert.Contains(t, out, "repeating:      3\n")
	assert.Contains(t, out, "periodic:       true\n")
}

func TestWriteExpansionTerminating(t *testing.T) {
	q := exact.MustRational(-7, 4)
	parts, err := q.DecimalParts()
	require.NoError(t, err)

	var buf bytes.Buffer
	writeExpansion(&buf, q, parts)

	out := buf.String()
	assert.Contains(t, out, "integer:        -1\n")
	assert.Contains(t, out, "non-repeating:  75\n")
	assert.Contains(t, out, "repeating:      -\n")
	assert.Contains(t, out, "periodic:       false\n")
}

func TestWriteBatchReports(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultConfig()
	cfg.Output.Dir = dir

	res := &model.Result{Expression: "1/2", Normalized: "1 / 2", Kind: model.KindRational, Value: "1/2", Decimal: "0.5"}
	exprs := []string{"1/2", "1/0"}
	values := []*model.Result{res, nil}
	errs := []error{nil, exact.ErrDivisionByZero}

	r := calc.NewRenderer(cfg.Output)
	require.NoError(t, writeBatchReports(r, cfg, "run1", "/data/exprs.txt", exprs, values, errs))

	data, err := os.ReadFile(filepath.Join(dir, "exprs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source": "/data/exprs.txt"`)
	assert.Contains(t, string(data), `"run_id": "run1"`)
	assert.Contains(t, string(data), `"succeeded": 1`)
	assert.Contains(t, string(data), exact.ErrDivisionByZero.Error())

	md, err := os.ReadFile(filepath.Join(dir, "exprs.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "2 expressions, 1 succeeded, 1 failed.")
}
