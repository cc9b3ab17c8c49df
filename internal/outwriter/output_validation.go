package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/commitmood/schema"
)

// writeValidationReport writes the outcome of the consistency checks.
func writeValidationReport(w io.Writer, report schema.ValidationReport, fmtFloat func(float64) string) error {
	var b strings.Builder
	b.WriteString("\nVALIDATION REPORT\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	if report.Valid {
		b.WriteString("✅ All checks passed\n")
	} else {
		fmt.Fprintf(&b, "❌ %d discrepancies found\n", len(report.Discrepancies))
		for _, d := range report.Discrepancies {
			if d.Row >= 0 {
				fmt.Fprintf(&b, "  [%s] row %d: %s\n", d.Check, d.Row, d.Message)
			} else {
				fmt.Fprintf(&b, "  [%s] %s\n", d.Check, d.Message)
			}
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "  ⚠️  %s\n", warning)
	}

	stats := report.Stats
	if !stats.Earliest.IsZero() {
		fmt.Fprintf(&b, "Date range: %s to %s\n", stats.Earliest.Format(time.DateOnly), stats.Latest.Format(time.DateOnly))
	}
	fmt.Fprintf(&b, "Compound: min %s, max %s, mean %s, std %s\n",
		fmtFloat(stats.Min), fmtFloat(stats.Max), fmtFloat(stats.Mean), fmtFloat(stats.StdDev))

	_, err := io.WriteString(w, b.String())
	return err
}
