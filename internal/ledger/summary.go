package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

// CategoryTotal is the sum of one category's expenses.
type CategoryTotal struct {
	Name   string
	Amount core.Money
}

// DateRange spans the earliest and latest expense dates, inclusive.
type DateRange struct {
	Earliest core.Date
	Latest   core.Date
}

// Summary aggregates the ledger per category.
type Summary struct {
	// ByCategory is ordered by descending total; equal totals keep category insertion order.
	ByCategory []CategoryTotal
	Total      core.Money
	// Range is nil for an empty ledger.
	Range *DateRange
}

// Summary sums every category, the grand total and the date range in one pass.
func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Summary{ByCategory: make([]CategoryTotal, 0, len(l.order))}
	for _, cat := range l.order {
		var sum core.Money
		for _, e := range l.byCategory[cat] {
			sum = sum.Add(e.Amount)
			switch {
			case s.Range == nil:
				s.Range = &DateRange{Earliest: e.Date, Latest: e.Date}
			case e.Date.Before(s.Range.Earliest.Time):
				s.Range.Earliest = e.Date
			case e.Date.After(s.Range.Latest.Time):
				s.Range.Latest = e.Date
			}
		}
		s.ByCategory = append(s.ByCategory, CategoryTotal{Name: cat, Amount: sum})
		s.Total = s.Total.Add(sum)
	}
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Amount.GreaterThan(s.ByCategory[j].Amount.Decimal)
	})
	return s
}

// Percent returns amount as a percentage of the grand total, or 0 when the
// total is zero.
func (s Summary) Percent(amount core.Money) float64 {
	if s.Total.IsZero() {
		return 0
	}
	return amount.Div(s.Total.Decimal).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
