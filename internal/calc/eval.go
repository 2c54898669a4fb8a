package calc

import (
	"context"
	"fmt"

	"github.com/ppiankov/ametrine/internal/exact"
)

type builtin struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	usage            string
	fn               func(ctx context.Context, e *Evaluator, args []exact.Number) (exact.Number, error)
}

func (b builtin) arity() string {
	switch {
	case b.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", b.minArgs)
	case b.minArgs == b.maxArgs:
		return fmt.Sprintf("%d arguments", b.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", b.minArgs, b.maxArgs)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"sqrt":      {1, 1, "sqrt(x): principal square root", fnSqrt},
		"root":      {2, 2, "root(x, n): principal real n-th root, n may be a fraction", fnRoot},
		"round":     {1, 2, "round(x, p): round a rational to p decimal places, half away from zero", fnRound},
		"recip":     {1, 1, "recip(x): 1/x", fnRecip},
		"abs":       {1, 1, "abs(x): absolute value", fnAbs},
		"pi":        {0, 1, "pi(d): pi correct to d decimal places", fnPi},
		"algebraic": {3, -1, "algebraic(i, c0, c1, ...): i-th real root of c0 + c1*x + ...", fnAlgebraic},
	}
}

// Functions lists the built-in functions with a one-line usage each.
func Functions() map[string]string {
	out := make(map[string]string, len(builtins))
	for name, b := range builtins {
		out[name] = b.usage
	}
	return out
}

// Evaluator folds a parsed expression through the exact number tower.
type Evaluator struct {
	// PiDigits is the precision of a bare "pi".
	PiDigits int
}

// NewEvaluator returns an evaluator that expands a bare pi to piDigits.
func NewEvaluator(piDigits int) *Evaluator {
	if piDigits <= 0 {
		piDigits = 50
	}
	return &Evaluator{PiDigits: piDigits}
}

// Evaluate computes n exactly and returns the simplest representation.
//
//	Evaluate(Parse("sqrt(8)/2"))    → sqrt(2)
//	Evaluate(Parse("0.(3) + 2/3"))  → 1
func (e *Evaluator) Evaluate(n Node) (exact.Number, error) {
	return e.EvaluateContext(context.Background(), n)
}

// EvaluateContext is Evaluate bounded by ctx. The context is checked at
// every node and inside long-running builtins.
func (e *Evaluator) EvaluateContext(ctx context.Context, n Node) (exact.Number, error) {
	v, err := e.eval(ctx, n)
	if err != nil {
		return nil, err
	}
	return exact.ToNumber(v)
}

func (e *Evaluator) eval(ctx context.Context, n Node) (exact.Number, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch n := n.(type) {
	case *Literal:
		return exact.ToNumber(exact.Decimal(n.Text))
	case *Unary:
		x, err := e.eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == "-" {
			return x.Neg(), nil
		}
		return x, nil
	case *Binary:
		return e.binary(ctx, n)
	case *Call:
		args := make([]exact.Number, len(n.Args))
		for i, a := range n.Args {
			v, err := e.eval(ctx, a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		b, ok := builtins[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, n.Name)
		}
		if err := checkArity(n); err != nil {
			return nil, err
		}
		v, err := b.fn(ctx, e, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: node %T", ErrSyntax, n)
}

func (e *Evaluator) binary(ctx context.Context, n *Binary) (exact.Number, error) {
	left, err := e.eval(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var v exact.Number
	switch n.Op {
	case "+":
		v, err = left.Add(right)
	case "-":
		v, err = left.Sub(right)
	case "*":
		v, err = left.Mul(right)
	case "/":
		v, err = left.Quo(right)
	case "^":
		v, err = left.Pow(right)
	default:
		return nil, fmt.Errorf("%w: operator %q", ErrSyntax, n.Op)
	}
	if err != nil {
		return nil, err
	}
	return exact.ToNumber(v)
}

func fnSqrt(_ context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	return exact.RootOf(args[0], exact.Int(2))
}

func fnRoot(_ context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	return exact.RootOf(args[0], args[1])
}

func fnRound(_ context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	q, err := exact.Comprehend(args[0])
	if err != nil {
		return nil, err
	}
	precision := 0
	if len(args) == 2 {
		if precision, err = smallInt(args[1]); err != nil {
			return nil, err
		}
	}
	return exact.ToNumber(q.Round(precision))
}

func fnRecip(_ context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	return exact.NewInteger(1).Quo(args[0])
}

func fnAbs(_ context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	if args[0].IsNegative() {
		return args[0].Neg(), nil
	}
	return args[0], nil
}

func fnPi(ctx context.Context, e *Evaluator, args []exact.Number) (exact.Number, error) {
	digits := e.PiDigits
	if len(args) == 1 {
		d, err := smallInt(args[0])
		if err != nil {
			return nil, err
		}
		digits = d
	}
	q, err := exact.PiContext(ctx, digits)
	if err != nil {
		return nil, err
	}
	return exact.ToNumber(q)
}

func fnAlgebraic(ctx context.Context, _ *Evaluator, args []exact.Number) (exact.Number, error) {
	index, err := smallInt(args[0])
	if err != nil {
		return nil, err
	}
	coeffs := make([]exact.Operand, len(args)-1)
	for i, a := range args[1:] {
		coeffs[i] = a
	}
	a, err := exact.AlgebraicFromOperands(coeffs, index)
	if err != nil {
		return nil, err
	}
	return a.SimplifyContext(ctx)
}

// smallInt converts an integer-valued argument to an int.
func smallInt(n exact.Number) (int, error) {
	i, ok := n.(exact.Integer)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", exact.ErrTypeMismatch, n)
	}
	v, ok := i.Int64()
	if !ok || v != int64(int(v)) {
		return 0, fmt.Errorf("%w: %s does not fit an int", exact.ErrLimitExceeded, n)
	}
	return int(v), nil
}
