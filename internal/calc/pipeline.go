package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ppiankov/ametrine/internal/cache"
	"github.com/ppiankov/ametrine/internal/logging"
	"github.com/ppiankov/ametrine/internal/model"
)

// Pipeline runs parse, evaluate and describe for one expression, with an
// optional result cache in front.
type Pipeline struct {
	evaluator *Evaluator
	cache     cache.Cache // nil disables caching
	renderer  *Renderer
	logger    *logging.Logger
	config    *model.Config
	now       func() time.Time
}

// NewPipeline creates a pipeline. c and logger may be nil.
func NewPipeline(cfg *model.Config, c cache.Cache, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		evaluator: NewEvaluator(cfg.Eval.PiDigits),
		cache:     c,
		renderer:  NewRenderer(cfg.Output),
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// Evaluate computes one expression
func (p *Pipeline) Evaluate(ctx context.Context, expr string) (*model.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Parse
	node, err := Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	// 2. Cache lookup, keyed on the canonical form and the settings that
	// change the answer
	key := p.cacheKey(node)
	if p.cache != nil {
		if data, ok := p.cache.Get(key); ok {
			var res model.Result
			if err := json.Unmarshal(data, &res); err == nil {
				res.Expression = expr
				res.Cached = true
				p.logger.Debug("cache hit", "expr", node.String())
				return &res, nil
			}
			p.logger.Warn("discarding unreadable cache entry", "expr", node.String())
			_ = p.cache.Delete(key)
		}
	}

	// 3. Evaluate
	start := p.now()
	v, err := p.evaluator.EvaluateContext(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", node, err)
	}

	// 4. Describe
	res, err := Describe(ctx, expr, node, v, p.config.Eval.DecimalDigits, p.now())
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	p.logger.Debug("evaluated", "expr", res.Normalized, "kind", res.Kind, "elapsed", p.now().Sub(start))

	// 5. Store
	if p.cache != nil {
		data, err := json.Marshal(res)
		if err == nil {
			err = p.cache.Set(key, data, 0)
		}
		if err != nil {
			p.logger.Warn("cache store failed", "expr", res.Normalized, "error", err)
		}
	}

	return res, nil
}

func (p *Pipeline) cacheKey(node Node) string {
	l := p.config.Limits
	return cache.CacheKey(
		node.String(),
		strconv.Itoa(p.evaluator.PiDigits),
		strconv.Itoa(p.config.Eval.DecimalDigits),
		strconv.Itoa(l.MaxExpansionDigits),
		strconv.FormatInt(l.MaxExpansionWork, 10),
		strconv.FormatInt(l.MaxTrialDivisor, 10),
		strconv.Itoa(l.FloatDigits),
		strconv.FormatInt(l.MaxExponent, 10),
	)
}

// RenderReport writes the requested files and prints the summary to out
func (p *Pipeline) RenderReport(out io.Writer, res *model.Result, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(res, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(res, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(out, res)
	return nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
