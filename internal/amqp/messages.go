package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expenses/internal/core"
)

// EventType names a ledger mutation.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent is published after every successful ledger mutation. It
// carries the full record so consumers never need to read the ledger.
type ExpenseEvent struct {
	Type        EventType `json:"type"`
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event for e stamped with the current time.
func NewExpenseEvent(t EventType, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        t,
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.String(),
		Date:        e.Date.String(),
		Timestamp:   time.Now().UTC(),
	}
}

// Expense rebuilds the expense carried by the event.
func (m *ExpenseEvent) Expense() (core.Expense, error) {
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          m.ID,
		Amount:      amount,
		Category:    m.Category,
		Description: m.Description,
		Date:        date,
	}, nil
}

// ToJSON converts the event to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types or a
// missing ID.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseCreated, EventExpenseDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event %s has no expense id", msg.Type)
	}
	return &msg, nil
}
