package memory

import (
	"context"
	"sync"

	"expenses/internal/core"
	ports "expenses/internal/sheets"
)

// Mirror keeps mirrored rows in memory. It is used when no spreadsheet is
// configured and in tests.
type Mirror struct {
	mu   sync.Mutex
	rows [][]string
}

var _ ports.Mirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// AppendExpense stores the row for e.
func (m *Mirror) AppendExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, ports.Row(e))
	return nil
}

// RemoveExpense deletes the first row whose id matches.
func (m *Mirror) RemoveExpense(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if row[0] == id {
			m.rows = append(m.rows[:i:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Rows returns a copy of the mirrored rows in append order.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
