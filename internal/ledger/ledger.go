// Package ledger owns the in-memory expense records, grouped by category.
//
// Categories are kept in insertion order so that persistence and display are
// deterministic across runs. A category exists only while it owns at least one
// expense.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"expenses/internal/core"
)

var ErrCategoryNotFound = errors.New("category not found")

type Ledger struct {
	mu         sync.RWMutex
	order      []string
	byCategory map[string][]core.Expense
	revision   uint64
}

func New() *Ledger {
	return &Ledger{byCategory: make(map[string][]core.Expense)}
}

// Add validates the input and appends a new expense to its category.
// Invalid input leaves the ledger unchanged.
func (l *Ledger) Add(amount core.Money, category, description string, date core.Date) (core.Expense, error) {
	e, err := core.NewExpense(amount, category, description, date)
	if err != nil {
		return core.Expense{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appendLocked(e)
	return e, nil
}

// Insert appends an already constructed expense, as read back from storage.
// Values were checked when the expense was entered and are kept as stored.
// A missing identifier is filled in.
func (l *Ledger) Insert(e core.Expense) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appendLocked(e)
}

func (l *Ledger) appendLocked(e core.Expense) {
	if _, ok := l.byCategory[e.Category]; !ok {
		l.order = append(l.order, e.Category)
	}
	l.byCategory[e.Category] = append(l.byCategory[e.Category], e)
	l.revision++
}

// DeleteMatching removes the first expense of category whose description and
// date match. displayedDate uses the YYYY-MM-DD display layout. Duplicates are
// not distinguished: only the first one in insertion order goes.
func (l *Ledger) DeleteMatching(category, description, displayedDate string) (bool, error) {
	_, ok, err := l.RemoveMatching(category, description, displayedDate)
	return ok, err
}

// RemoveMatching is DeleteMatching that also returns the removed expense.
func (l *Ledger) RemoveMatching(category, description, displayedDate string) (core.Expense, bool, error) {
	date, err := core.ParseDate(displayedDate)
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("parse displayed date %q: %w", displayedDate, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.byCategory[category] {
		if e.Description == description && e.Date.Equal(date) {
			l.removeLocked(category, i)
			return e, true, nil
		}
	}
	return core.Expense{}, false, nil
}

// Delete removes the expense with the given identifier.
func (l *Ledger) Delete(id string) (core.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, cat := range l.order {
		for i, e := range l.byCategory[cat] {
			if e.ID == id {
				l.removeLocked(cat, i)
				return e, true
			}
		}
	}
	return core.Expense{}, false
}

func (l *Ledger) removeLocked(category string, idx int) {
	list := l.byCategory[category]
	list = append(list[:idx:idx], list[idx+1:]...)
	if len(list) == 0 {
		delete(l.byCategory, category)
		for i, c := range l.order {
			if c == category {
				l.order = append(l.order[:i:i], l.order[i+1:]...)
				break
			}
		}
	} else {
		l.byCategory[category] = list
	}
	l.revision++
}

// Expenses returns every expense in persistence order: categories in insertion
// order, then expenses in insertion order within each category.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.Expense, 0, l.lenLocked())
	for _, cat := range l.order {
		out = append(out, l.byCategory[cat]...)
	}
	return out
}

// AllSortedByDateDescending returns all expenses newest first. Expenses sharing
// a date keep their persistence order.
func (l *Ledger) AllSortedByDateDescending() []core.Expense {
	out := l.Expenses()
	sortNewestFirst(out)
	return out
}

// ByCategorySortedByDateDescending is AllSortedByDateDescending restricted to category.
func (l *Ledger) ByCategorySortedByDateDescending(category string) ([]core.Expense, error) {
	l.mu.RLock()
	list, ok := l.byCategory[category]
	out := append([]core.Expense(nil), list...)
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(list []core.Expense) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date.Time)
	})
}

// Categories lists the categories currently owning expenses, in insertion order.
func (l *Ledger) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.order...)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lenLocked()
}

func (l *Ledger) lenLocked() int {
	n := 0
	for _, list := range l.byCategory {
		n += len(list)
	}
	return n
}

// Revision increases on every mutation.
func (l *Ledger) Revision() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revision
}
