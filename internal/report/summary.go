// Package report renders the read-only views of a ledger: the summary text,
// the detailed rows, the pie chart model and spreadsheet exports.
package report

import (
	"fmt"
	"os"
	"strings"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

const rule = "=================================================="

// RenderSummary formats the per-category totals with percentages, the grand
// total and, for a non-empty ledger, the date range.
func RenderSummary(s ledger.Summary, symbol string) string {
	var b strings.Builder
	b.WriteString("EXPENSE SUMMARY\n")
	b.WriteString(rule + "\n\n")

	for _, c := range s.ByCategory {
		fmt.Fprintf(&b, "%-15s: %s%-10s (%.1f%%)\n", c.Name, symbol, c.Amount.StringFixed(2), s.Percent(c.Amount))
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "TOTAL EXPENSES: %s\n", s.Total.Format(symbol))

	if s.Range != nil {
		fmt.Fprintf(&b, "\nDate Range: %s to %s", s.Range.Earliest, s.Range.Latest)
	}
	return b.String()
}

// ExportSummaryText writes text to destination, adding a ".txt" extension when
// the name lacks one. It returns the path actually written.
func ExportSummaryText(text, destination string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(destination), ".txt") {
		destination += ".txt"
	}
	if err := os.WriteFile(destination, []byte(text+"\n"), 0o644); err != nil {
		return destination, fmt.Errorf("export summary: %w", err)
	}
	return destination, nil
}

// Row is one line of the detailed table.
type Row struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// Rows converts expenses, already in display order, to table rows.
func Rows(expenses []core.Expense, symbol string) []Row {
	out := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, Row{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount.Format(symbol),
		})
	}
	return out
}
