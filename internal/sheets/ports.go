package sheets

import (
	"context"

	"expenses/internal/core"
)

// Mirror is an external copy of the detailed expense table, keyed by the
// expense identifier.
type Mirror interface {
	// AppendExpense adds a row for e.
	AppendExpense(ctx context.Context, e core.Expense) error
	// RemoveExpense drops the row for id and reports whether one existed.
	RemoveExpense(ctx context.Context, id string) (bool, error)
}

// Row is the column layout shared by every mirror: id, date, category,
// description, amount.
func Row(e core.Expense) []string {
	return []string{e.ID, e.Date.String(), e.Category, e.Description, e.Amount.StringFixed(2)}
}
