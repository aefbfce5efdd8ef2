package report

import (
	"fmt"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

// Palette cycles over categories in summary order.
var Palette = []string{
	"#4169E1", // royal blue
	"#2E8B57", // sea green
	"#FF6347", // tomato
	"#FFA500", // orange
	"#8A2BE2", // blue violet
	"#008080", // teal
	"#FF1493", // deep pink
	"#B8860B", // dark goldenrod
}

// Slice is one wedge of the pie chart. Angles are in degrees, clockwise from
// twelve o'clock.
type Slice struct {
	Category string
	Amount   core.Money
	Percent  float64
	Start    float64
	Sweep    float64
	Color    string
	Legend   string
}

type PieChart struct {
	Title  string
	Slices []Slice
}

// Empty reports whether there is nothing to draw.
func (p PieChart) Empty() bool { return len(p.Slices) == 0 }

// NewPieChart lays out the summary categories as consecutive wedges whose
// sweeps add up to a full circle.
func NewPieChart(s ledger.Summary, symbol string) PieChart {
	chart := PieChart{Title: "Expense Distribution"}
	if !s.Total.IsPositive() {
		return chart
	}
	start := 0.0
	for i, c := range s.ByCategory {
		pct := s.Percent(c.Amount)
		sweep := pct / 100 * 360
		if i == len(s.ByCategory)-1 {
			sweep = 360 - start
		}
		chart.Slices = append(chart.Slices, Slice{
			Category: c.Name,
			Amount:   c.Amount,
			Percent:  pct,
			Start:    start,
			Sweep:    sweep,
			Color:    Palette[i%len(Palette)],
			Legend:   fmt.Sprintf("%s: %s (%.1f%%)", c.Name, c.Amount.Format(symbol), pct),
		})
		start += sweep
	}
	return chart
}
