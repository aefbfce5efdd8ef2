package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/storage"
)

type recordingPublisher struct {
	events []*amqp.ExpenseEvent
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(ctx context.Context, ev *amqp.ExpenseEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func newTestService(t *testing.T, pub Publisher) (*ExpenseService, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "expenses.txt"))
	svc, err := Open(context.Background(), store, pub, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return svc, store
}

func TestNewExpenseService_NilArguments(t *testing.T) {
	service := NewExpenseService(nil, nil, nil, nil)
	if service == nil || service.Ledger() == nil {
		t.Fatal("NewExpenseService should always provide a ledger")
	}
	if err := service.Save(context.Background()); err != nil {
		t.Fatalf("Save without a store should be a no-op: %v", err)
	}
	if err := service.Close(); err != nil {
		t.Fatalf("Close should not return error with nil components: %v", err)
	}
}

func TestExpenseService_AddPublishesCreated(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, pub)

	e, err := svc.AddFromInput(context.Background(), "12,50", "Food", "", "2024-03-02")
	if err != nil {
		t.Fatalf("AddFromInput: %v", err)
	}
	if e.Description != core.DefaultDescription {
		t.Errorf("Description = %q, want %q", e.Description, core.DefaultDescription)
	}
	if len(pub.events) != 1 || pub.events[0].Type != amqp.EventExpenseCreated || pub.events[0].ID != e.ID {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
	if !svc.Dirty() {
		t.Error("service should be dirty after add")
	}
}

func TestExpenseService_AddFromInputDefaultsToToday(t *testing.T) {
	svc, _ := newTestService(t, nil)

	e, err := svc.AddFromInput(context.Background(), "3", "Travel", "Bus", "")
	if err != nil {
		t.Fatalf("AddFromInput: %v", err)
	}
	if !e.Date.Equal(core.Today()) {
		t.Errorf("Date = %s, want today", e.Date)
	}
}

func TestExpenseService_AddValidation(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, pub)

	tests := []struct {
		name    string
		amount  string
		cat     string
		date    string
		wantErr error
	}{
		{"empty amount", "", "Food", "", core.ErrInvalidAmount},
		{"negative amount", "-4", "Food", "", core.ErrInvalidAmount},
		{"text amount", "abc", "Food", "", core.ErrInvalidAmount},
		{"blank category", "4", "  ", "", core.ErrEmptyCategory},
		{"bad date", "4", "Food", "02/03/2024", core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddFromInput(context.Background(), tt.amount, tt.cat, "x", tt.date)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if svc.Ledger().Len() != 0 || len(pub.events) != 0 {
		t.Fatal("rejected input must not change the ledger or publish")
	}
}

func TestExpenseService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, _ := newTestService(t, pub)

	if _, err := svc.AddFromInput(context.Background(), "1", "Food", "Tea", "2024-01-01"); err != nil {
		t.Fatalf("add should succeed despite publish failure: %v", err)
	}
	if svc.Ledger().Len() != 1 {
		t.Fatal("expense should be recorded")
	}
}

func TestExpenseService_Delete(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	a, _ := svc.AddFromInput(ctx, "5", "Food", "Lunch", "2024-01-01")
	b, _ := svc.AddFromInput(ctx, "6", "Bills", "Power", "2024-01-02")

	ok, err := svc.DeleteMatching(ctx, "Food", "Lunch", "2024-01-01")
	if err != nil || !ok {
		t.Fatalf("DeleteMatching ok=%v err=%v", ok, err)
	}
	if ok, _ := svc.DeleteMatching(ctx, "Food", "Lunch", "2024-01-01"); ok {
		t.Fatal("second DeleteMatching should miss")
	}
	if _, err := svc.DeleteMatching(ctx, "Food", "Lunch", "yesterday"); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	if _, ok := svc.DeleteByID(ctx, b.ID); !ok {
		t.Fatal("DeleteByID should find the expense")
	}
	if _, ok := svc.DeleteByID(ctx, b.ID); ok {
		t.Fatal("DeleteByID should miss the second time")
	}

	var deleted []string
	for _, ev := range pub.events {
		if ev.Type == amqp.EventExpenseDeleted {
			deleted = append(deleted, ev.ID)
		}
	}
	if len(deleted) != 2 || deleted[0] != a.ID || deleted[1] != b.ID {
		t.Fatalf("deleted events = %v, want [%s %s]", deleted, a.ID, b.ID)
	}
}

func TestExpenseService_SaveAndReload(t *testing.T) {
	pub := &recordingPublisher{}
	svc, store := newTestService(t, pub)
	ctx := context.Background()

	if _, err := svc.AddFromInput(ctx, "7.25", "Health", "Pharmacy", "2024-05-05"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if svc.Dirty() {
		t.Error("service should be clean after save")
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Error("Close should close the publisher")
	}

	reloaded, err := Open(ctx, store, nil, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	list := reloaded.Ledger().Expenses()
	if len(list) != 1 || list[0].Category != "Health" || list[0].Amount.StringFixed(2) != "7.25" {
		t.Fatalf("unexpected reloaded ledger: %+v", list)
	}
}
