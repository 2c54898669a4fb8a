// Demo program that walks expressions through the number tower and shows
// where each one lands after simplification
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/ametrine/internal/calc"
	"github.com/ppiankov/ametrine/internal/model"
)

func main() {
	fmt.Println("=== Number Tower Demo ===")
	fmt.Println()

	// Each of these narrows to a lower level than its operands suggest
	exprs := []string{
		"0.(3) + 2/3",
		"1/3 + 0.1(6)",
		"sqrt(8) / 2",
		"sqrt(2) * sqrt(2)",
		"root(27, 3) + 1/2",
		"algebraic(1, -1, -1, 1)^2",
		"algebraic(0, -2, 0, 1) + 1",
		"round(pi(20), 4)",
		"2^(1/2) - sqrt(2)",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p := calc.NewPipeline(model.DefaultConfig(), nil, nil)
	for _, expr := range exprs {
		fmt.Printf("Evaluating: %s\n", expr)
		fmt.Println(strings.Repeat("-", 60))

		res, err := p.Evaluate(ctx, expr)
		if err != nil {
			fmt.Printf("  ✗ %v\n\n", err)
			continue
		}

		fmt.Printf("  = %s  (%s)\n", res.Value, res.Kind)
		if res.Decimal != "" && res.Decimal != res.Value {
			fmt.Printf("    decimal: %s\n", res.Decimal)
		}
		if res.Approx != "" {
			fmt.Printf("    ≈ %s\n", res.Approx)
		}
		if len(res.Polynomial) > 0 {
			fmt.Printf("    root %d of %s\n", *res.RootIndex, calc.PolynomialText(res.Polynomial))
		}
		fmt.Println()
	}

	fmt.Println("=== Demo Complete ===")
	fmt.Println()
	fmt.Println("Values are exact; ≈ lines are float approximations for reading only.")
}
