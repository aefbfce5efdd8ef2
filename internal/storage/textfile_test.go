package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

type tuple struct {
	category, amount, description, date string
}

func tuples(l *ledger.Ledger) map[tuple]int {
	out := map[tuple]int{}
	for _, e := range l.Expenses() {
		out[tuple{e.Category, e.Amount.StringFixed(6), e.Description, e.Date.String()}]++
	}
	return out
}

func TestFileStoreMissingFileYieldsEmptyLedger(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.txt"))
	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d", l.Len())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "expenses.txt")
	s := NewFileStore(path)

	l := ledger.New()
	add := func(amount float64, cat, desc string, d core.Date) {
		t.Helper()
		if _, err := l.Add(core.MoneyFromFloat(amount), cat, desc, d); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	add(12.5, "Food", "Lunch", core.NewDate(2024, 1, 1))
	add(3.25, "Travel", "Bus, then metro", core.NewDate(2024, 2, 1))
	add(99, "Food", "", core.NewDate(2024, 3, 1))
	add(12.5, "Food", "Lunch", core.NewDate(2024, 1, 1))

	if err := s.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[tuple]int{
		{"Food", "12.500000", "Lunch", "2024-01-01"}:          2,
		{"Travel", "3.250000", "Bus; then metro", "2024-02-01"}: 1,
		{"Food", "99.000000", "No description", "2024-03-01"}: 1,
	}
	got := tuples(loaded)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for k, n := range want {
		if got[k] != n {
			t.Fatalf("tuple %+v: got %d want %d (all=%v)", k, got[k], n, got)
		}
	}
	if c := loaded.Categories(); len(c) != 2 || c[0] != "Food" || c[1] != "Travel" {
		t.Fatalf("category order not preserved: %v", c)
	}
}

func TestFileStoreFormat(t *testing.T) {
	e := core.Expense{
		Amount:      core.MoneyFromFloat(7.5),
		Category:    "Bills",
		Description: "Gas, water",
		Date:        core.NewDate(2024, 4, 30),
	}
	if got, want := FormatLine(e), "Bills,7.500000,Gas; water,2024-04-30"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFileStoreSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	content := strings.Join([]string{
		"Food,12.500000,Lunch,2024-01-01",
		"Food,abc,Dinner,2024-01-02",
		"Travel,3,Bus,01/02/2024",
		"Bills,5",
		"",
		"Health,-4,Refund,2024-01-03",
		"Other,1e1,Scientific,2024-01-04\r",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load must not fail on bad lines: %v", err)
	}
	got := tuples(l)
	if len(got) != 3 ||
		got[tuple{"Food", "12.500000", "Lunch", "2024-01-01"}] != 1 ||
		got[tuple{"Health", "-4.000000", "Refund", "2024-01-03"}] != 1 ||
		got[tuple{"Other", "10.000000", "Scientific", "2024-01-04"}] != 1 {
		t.Fatalf("unexpected ledger contents: %v", got)
	}
}

func TestReadLedgerCountsSkipped(t *testing.T) {
	r := strings.NewReader("Food,12,Lunch,2024-01-01\nFood,x,Lunch,2024-01-01\n")
	l, skipped, err := ReadLedger(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 1 || skipped != 1 {
		t.Fatalf("len=%d skipped=%d", l.Len(), skipped)
	}
}

func TestParseLineKeepsSemicolons(t *testing.T) {
	e, err := parseLine("Food,1.000000,a; b,2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Description != "a; b" {
		t.Fatalf("description must not be unescaped: %q", e.Description)
	}
}

func TestFileStoreRoundTripLineBreaks(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "expenses.txt"))

	l := ledger.New()
	if _, err := l.Add(core.MoneyFromFloat(8), "Food", "Lunch\nwith Bob", core.NewDate(2024, 1, 2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Stored records may predate entry normalisation.
	l.Insert(core.Expense{
		Amount:      core.MoneyFromFloat(4),
		Category:    "Travel\r\nLocal",
		Description: "Bus\rticket",
		Date:        core.NewDate(2024, 1, 3),
	})

	if err := s.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := tuples(loaded)
	if len(got) != 2 ||
		got[tuple{"Food", "8.000000", "Lunch with Bob", "2024-01-02"}] != 1 ||
		got[tuple{"Travel Local", "4.000000", "Bus ticket", "2024-01-03"}] != 1 {
		t.Fatalf("unexpected ledger contents: %v", got)
	}
}

func TestReadLedgerLongLine(t *testing.T) {
	long := strings.Repeat("x", 70000)
	content := "Food,1,Lunch,2024-01-01\n" +
		"Food,2," + long + ",2024-01-02\n" +
		"Food,3,Dinner,2024-01-03"
	l, skipped, err := ReadLedger(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("load must not fail on a long line: %v", err)
	}
	if l.Len() != 3 || skipped != 0 {
		t.Fatalf("len=%d skipped=%d", l.Len(), skipped)
	}
	list, _ := l.ByCategorySortedByDateDescending("Food")
	if list[0].Description != "Dinner" || list[1].Description != long {
		t.Fatalf("unexpected order: %q, %d chars", list[0].Description, len(list[1].Description))
	}
}

func TestReadLedgerKeepsStoredValues(t *testing.T) {
	l, skipped, err := ReadLedger(context.Background(), strings.NewReader("Bills,0.000000,tiny,2024-01-02\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 1 || skipped != 0 {
		t.Fatalf("len=%d skipped=%d", l.Len(), skipped)
	}
	if e := l.Expenses()[0]; !e.Amount.Equal(decimal.Zero) {
		t.Fatalf("amount = %s", e.Amount)
	}
}
