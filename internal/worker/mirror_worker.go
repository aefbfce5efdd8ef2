package worker

import (
	"context"
	"fmt"

	"expenses/internal/amqp"
	applog "expenses/internal/log"
	"expenses/internal/sheets"
)

// MirrorWorker applies ledger events to an external mirror.
type MirrorWorker struct {
	mirror sheets.Mirror
	logger *applog.Logger
}

func NewMirrorWorker(mirror sheets.Mirror, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.FromSlog(nil)
	}
	return &MirrorWorker{mirror: mirror, logger: logger.WithComponent(applog.ComponentWorker)}
}

// HandleEvent implements amqp.Handler. Returning an error requeues the event.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	switch ev.Type {
	case amqp.EventExpenseCreated:
		e, err := ev.Expense()
		if err != nil {
			// A payload that cannot be rebuilt will never succeed; drop it.
			w.logger.ErrorContext(ctx, "Dropping undecodable expense event",
				applog.FieldExpenseID, ev.ID, applog.FieldError, err)
			return nil
		}
		if err := w.mirror.AppendExpense(ctx, e); err != nil {
			return fmt.Errorf("mirror expense %s: %w", ev.ID, err)
		}
		w.logger.InfoContext(ctx, "Mirrored expense",
			applog.NewFields().WithExpense(e).WithOperation(applog.OpMirror).ToSlice()...)
		return nil

	case amqp.EventExpenseDeleted:
		found, err := w.mirror.RemoveExpense(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("remove mirrored expense %s: %w", ev.ID, err)
		}
		if !found {
			w.logger.WarnContext(ctx, "Deleted expense not present in mirror", applog.FieldExpenseID, ev.ID)
			return nil
		}
		w.logger.InfoContext(ctx, "Removed mirrored expense",
			applog.FieldExpenseID, ev.ID, applog.FieldOperation, applog.OpDelete)
		return nil

	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event type", "type", ev.Type)
		return nil
	}
}
