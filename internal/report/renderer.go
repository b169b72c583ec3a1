package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer handles report template rendering
type Renderer struct {
	templates *template.Template
}

// NewRenderer creates a new template renderer
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatMoney":   formatMoney,
		"formatPercent": formatPercent,
		"formatPct":     formatPctFraction,
		"formatDate":    formatDate,
		"truncate":      truncate,
		"abs":           func(d decimal.Decimal) decimal.Decimal { return d.Abs() },
		"isNegative":    func(d decimal.Decimal) bool { return d.Sign() < 0 },
		"add":           func(a, b int) int { return a + b },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// RenderWIP renders the WIP report to HTML
func (r *Renderer) RenderWIP(w io.Writer, report *WIPReport) error {
	return r.templates.ExecuteTemplate(w, "wip.html", report)
}

// formatMoney formats a decimal as currency, accounting-style negatives
func formatMoney(amount decimal.Decimal) string {
	negative := amount.Sign() < 0
	fixed := amount.Abs().StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	formatted := fmt.Sprintf("$%s.%s", strings.Join(groups, ","), decPart)

	if negative {
		return "(" + formatted + ")"
	}
	return formatted
}

// formatPercent formats a decimal percentage (42.5 -> "42.5%")
func formatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// formatPctFraction formats a decimal fraction as a percentage
// (0.5 -> "50.0%")
func formatPctFraction(frac decimal.Decimal) string {
	return frac.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// formatDate formats a time as YYYY-MM-DD
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

// truncate shortens a string with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
