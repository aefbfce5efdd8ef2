package storage

import (
	"context"
	"path/filepath"
	"testing"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "expenses.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	empty, err := repo.Load(ctx)
	if err != nil || empty.Len() != 0 {
		t.Fatalf("expected empty ledger, got len=%d err=%v", empty.Len(), err)
	}

	l := ledger.New()
	first, _ := l.Add(core.MoneyFromFloat(4.2), "Travel", "Train, 2nd class", core.NewDate(2024, 6, 1))
	l.Add(core.MoneyFromFloat(10), "Food", "Pizza", core.NewDate(2024, 6, 2))
	l.Add(core.MoneyFromFloat(1.5), "Travel", "Bus", core.NewDate(2024, 6, 3))

	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := loaded.Expenses()
	want := l.Expenses()
	if len(got) != len(want) {
		t.Fatalf("got %d expenses, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Category != want[i].Category ||
			got[i].Description != want[i].Description || !got[i].Amount.Equal(want[i].Amount.Decimal) ||
			!got[i].Date.Equal(want[i].Date) {
			t.Fatalf("position %d: got %+v want %+v", i, got[i], want[i])
		}
	}
	if got[0].Description != "Train, 2nd class" {
		t.Fatalf("sqlite keeps commas, got %q", got[0].Description)
	}

	l.Delete(first.ID)
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("second save: %v", err)
	}
	reloaded, _ := repo.Load(ctx)
	if reloaded.Len() != 2 {
		t.Fatalf("snapshot not replaced, len=%d", reloaded.Len())
	}
}
