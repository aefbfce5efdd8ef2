package services

import (
	"context"
	"fmt"
	"strings"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
	"expenses/internal/storage"
)

// Publisher receives an event after each successful ledger mutation.
type Publisher interface {
	Publish(ctx context.Context, event *amqp.ExpenseEvent) error
}

// ExpenseService owns the in-memory ledger for a process and coordinates it
// with the persistence store and the optional event publisher.
type ExpenseService struct {
	ledger    *ledger.Ledger
	store     storage.Store
	publisher Publisher
	logger    *applog.Logger

	savedRevision uint64
}

// NewExpenseService wraps an already loaded ledger. store and publisher may
// be nil.
func NewExpenseService(l *ledger.Ledger, store storage.Store, publisher Publisher, logger *applog.Logger) *ExpenseService {
	if l == nil {
		l = ledger.New()
	}
	if logger == nil {
		logger = applog.FromSlog(nil)
	}
	return &ExpenseService{
		ledger:        l,
		store:         store,
		publisher:     publisher,
		logger:        logger.WithComponent(applog.ComponentLedger),
		savedRevision: l.Revision(),
	}
}

// Open loads the ledger from store and wraps it in a service.
func Open(ctx context.Context, store storage.Store, publisher Publisher, logger *applog.Logger) (*ExpenseService, error) {
	l, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return NewExpenseService(l, store, publisher, logger), nil
}

// Ledger exposes the underlying ledger for read-only views.
func (s *ExpenseService) Ledger() *ledger.Ledger {
	return s.ledger
}

// Add records an expense and publishes expense.created.
func (s *ExpenseService) Add(ctx context.Context, amount core.Money, category, description string, date core.Date) (core.Expense, error) {
	e, err := s.ledger.Add(amount, category, description, date)
	if err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense added", applog.NewFields().WithExpense(e).WithOperation(applog.OpCreate).ToSlice()...)
	s.publish(ctx, amqp.EventExpenseCreated, e)
	return e, nil
}

// AddFromInput parses user-entered text and records the expense. An empty
// date means today.
func (s *ExpenseService) AddFromInput(ctx context.Context, amountText, category, description, dateText string) (core.Expense, error) {
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return core.Expense{}, err
	}

	date := core.Today()
	if strings.TrimSpace(dateText) != "" {
		if date, err = core.ParseDate(strings.TrimSpace(dateText)); err != nil {
			return core.Expense{}, err
		}
	}
	return s.Add(ctx, amount, category, description, date)
}

// DeleteMatching removes the first expense matching the displayed triple and
// publishes expense.deleted.
func (s *ExpenseService) DeleteMatching(ctx context.Context, category, description, displayedDate string) (bool, error) {
	e, ok, err := s.ledger.RemoveMatching(category, description, displayedDate)
	if err != nil || !ok {
		return ok, err
	}

	s.logger.InfoContext(ctx, "Expense deleted", applog.NewFields().WithExpense(e).WithOperation(applog.OpDelete).ToSlice()...)
	s.publish(ctx, amqp.EventExpenseDeleted, e)
	return true, nil
}

// DeleteByID removes the expense with the given identifier.
func (s *ExpenseService) DeleteByID(ctx context.Context, id string) (core.Expense, bool) {
	e, ok := s.ledger.Delete(id)
	if !ok {
		return core.Expense{}, false
	}

	s.logger.InfoContext(ctx, "Expense deleted", applog.NewFields().WithExpense(e).WithOperation(applog.OpDelete).ToSlice()...)
	s.publish(ctx, amqp.EventExpenseDeleted, e)
	return e, true
}

// Summary aggregates the current ledger.
func (s *ExpenseService) Summary() ledger.Summary {
	return s.ledger.Summary()
}

// Dirty reports whether the ledger changed since it was loaded or last saved.
func (s *ExpenseService) Dirty() bool {
	return s.ledger.Revision() != s.savedRevision
}

// Save writes the full ledger to the store.
func (s *ExpenseService) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	rev := s.ledger.Revision()
	if err := s.store.Save(ctx, s.ledger); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger", applog.FieldOperation, applog.OpSave, applog.FieldError, err)
		return fmt.Errorf("save ledger: %w", err)
	}
	s.savedRevision = rev
	s.logger.InfoContext(ctx, "Ledger saved", applog.FieldOperation, applog.OpSave, applog.FieldCount, s.ledger.Len())
	return nil
}

// publish never fails the mutation: the ledger is the source of truth and the
// mirror catches up on the next event.
func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, e core.Expense) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, amqp.NewExpenseEvent(t, e)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			"type", t, applog.FieldExpenseID, e.ID, applog.FieldError, err)
	}
}

// Close closes the store and, when it supports it, the publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
