package calc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/ppiankov/ametrine/internal/model"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorValue   = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Renderer writes results as JSON, Markdown and a terminal summary
type Renderer struct {
	config model.OutputConfig
}

// NewRenderer creates a renderer for the given output settings
func NewRenderer(cfg model.OutputConfig) *Renderer {
	return &Renderer{config: cfg}
}

// RenderJSON writes v as indented JSON, creating parent directories
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a single result as a Markdown report
func (r *Renderer) RenderMarkdown(res *model.Result, path string) error {
	var b strings.Builder
	b.WriteString("# Ametrine Evaluation\n\n")
	fmt.Fprintf(&b, "**Expression:** `%s`\n\n", res.Expression)
	r.writeTable(&b, res)
	r.writeFooter(&b)
	return writeFile(path, []byte(b.String()))
}

// RenderBatchMarkdown writes one Markdown report covering a whole batch.
// Failed entries carry their error message.
func (r *Renderer) RenderBatchMarkdown(exprs []string, results []*model.Result, errs []error, path string) error {
	var b strings.Builder
	b.WriteString("# Ametrine Batch Evaluation\n\n")

	sum := model.Summarize(results)
	fmt.Fprintf(&b, "%d expressions, %d succeeded, %d failed.\n\n", sum.Total, sum.Succeeded, sum.Failed)

	b.WriteString("| # | Expression | Kind | Value | Decimal |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i, expr := range exprs {
		res := results[i]
		if res == nil {
			msg := ""
			if i < len(errs) && errs[i] != nil {
				msg = errs[i].Error()
			}
			fmt.Fprintf(&b, "| %d | `%s` | error | %s | |\n", i+1, mdEscape(expr), mdEscape(msg))
			continue
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | `%s` | %s |\n",
			i+1, mdEscape(expr), res.Kind, mdEscape(res.Value), mdEscape(decimalOrApprox(res)))
	}
	b.WriteString("\n")
	r.writeFooter(&b)
	return writeFile(path, []byte(b.String()))
}

func (r *Renderer) writeTable(b *strings.Builder, res *model.Result) {
	b.WriteString("| Field | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(b, "| Normalized | `%s` |\n", mdEscape(res.Normalized))
	fmt.Fprintf(b, "| Kind | %s |\n", res.Kind)
	fmt.Fprintf(b, "| Value | `%s` |\n", mdEscape(res.Value))
	if res.Decimal != "" {
		fmt.Fprintf(b, "| Decimal | `%s` |\n", res.Decimal)
		fmt.Fprintf(b, "| Periodic | %t |\n", res.Periodic)
	}
	if res.Approx != "" {
		fmt.Fprintf(b, "| Approximation | ≈ %s |\n", res.Approx)
	}
	if len(res.Polynomial) > 0 {
		fmt.Fprintf(b, "| Polynomial | `%s` |\n", PolynomialText(res.Polynomial))
	}
	if res.RootIndex != nil {
		fmt.Fprintf(b, "| Root index | %d |\n", *res.RootIndex)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeFooter(b *strings.Builder) {
	if !r.config.IncludeFooter {
		return
	}
	b.WriteString("---\n\n*Generated by ametrine. Values are exact; approximations are marked ≈.*\n")
}

// RenderSummary prints a styled result to out
func (r *Renderer) RenderSummary(out io.Writer, res *model.Result) {
	lg := r.lipgloss(out)
	label := lg.NewStyle().Foreground(colorMuted).Width(12)
	value := lg.NewStyle().Foreground(colorValue).Bold(true)
	plain := lg.NewStyle()

	lines := []string{
		lg.NewStyle().Foreground(colorPrimary).Bold(true).Render(res.Expression),
		label.Render("value") + value.Render(res.Value),
		label.Render("kind") + plain.Render(string(res.Kind)),
	}
	if res.Decimal != "" && res.Decimal != res.Value {
		lines = append(lines, label.Render("decimal")+plain.Render(res.Decimal))
	}
	if res.Approx != "" {
		lines = append(lines, label.Render("approx")+lg.NewStyle().Foreground(colorAccent).Render("≈ "+res.Approx))
	}
	if len(res.Polynomial) > 0 {
		lines = append(lines, label.Render("polynomial")+plain.Render(PolynomialText(res.Polynomial)))
	}
	if res.Cached {
		lines = append(lines, lg.NewStyle().Foreground(colorMuted).Italic(true).Render("(cached)"))
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

// RenderError prints a styled error line to out
func (r *Renderer) RenderError(out io.Writer, expr string, err error) {
	lg := r.lipgloss(out)
	fmt.Fprintln(out, lg.NewStyle().Foreground(colorError).Render("✗ "+expr+": "+err.Error()))
}

// lipgloss returns a renderer for out honouring the color setting:
// "always", "never", or "auto" (color only on a terminal).
func (r *Renderer) lipgloss(out io.Writer) *lipgloss.Renderer {
	lg := lipgloss.NewRenderer(out)
	switch r.config.Color {
	case "always":
		lg.SetColorProfile(termenv.TrueColor)
	case "never":
		lg.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(out) {
			lg.SetColorProfile(termenv.Ascii)
		}
	}
	return lg
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PolynomialText renders coefficients (constant first) as "x^2 - 2"
func PolynomialText(coeffs []string) string {
	var terms []string
	for i := len(coeffs) - 1; i >= 0; i-- {
		c := coeffs[i]
		if c == "0" {
			continue
		}
		neg := strings.HasPrefix(c, "-")
		c = strings.TrimPrefix(c, "-")

		var term string
		switch {
		case i == 0:
			term = c
		case c == "1":
			term = monomial(i)
		default:
			term = c + "*" + monomial(i)
		}

		switch {
		case len(terms) == 0 && neg:
			terms = append(terms, "-"+term)
		case len(terms) == 0:
			terms = append(terms, term)
		case neg:
			terms = append(terms, "- "+term)
		default:
			terms = append(terms, "+ "+term)
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " ")
}

func monomial(i int) string {
	if i == 1 {
		return "x"
	}
	return fmt.Sprintf("x^%d", i)
}

func decimalOrApprox(res *model.Result) string {
	if res.Decimal != "" {
		return res.Decimal
	}
	if res.Approx != "" {
		return "≈ " + res.Approx
	}
	return ""
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
