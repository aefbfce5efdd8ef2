package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expenses/internal/config"
	"expenses/internal/ledger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataBackend:    "file",
		DataFile:       filepath.Join(t.TempDir(), "expenses.txt"),
		CurrencySymbol: "₹",
	}
}

func runOK(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(context.Background(), cfg, nil, args, &out); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestRun_AddListSummary(t *testing.T) {
	cfg := testConfig(t)

	runOK(t, cfg, "add", "-amount", "12.5", "-category", "Food", "-description", "Lunch, with team", "-date", "2024-03-01")
	runOK(t, cfg, "add", "-amount", "40", "-category", "Travel", "-date", "2024-03-05")

	data, err := os.ReadFile(cfg.DataFile)
	if err != nil {
		t.Fatalf("data file not written: %v", err)
	}
	if !strings.Contains(string(data), "Food,12.500000,Lunch; with team,2024-03-01") {
		t.Errorf("unexpected data file:\n%s", data)
	}

	list := runOK(t, cfg, "list")
	if strings.Index(list, "2024-03-05") > strings.Index(list, "2024-03-01") {
		t.Errorf("list not newest first:\n%s", list)
	}
	if !strings.Contains(list, "No description") {
		t.Errorf("list should show the placeholder description:\n%s", list)
	}

	summary := runOK(t, cfg, "summary")
	if !strings.Contains(summary, "TOTAL EXPENSES: ₹52.50") {
		t.Errorf("unexpected summary:\n%s", summary)
	}
}

func TestRun_Delete(t *testing.T) {
	cfg := testConfig(t)
	runOK(t, cfg, "add", "-amount", "5", "-category", "Food", "-description", "Tea", "-date", "2024-01-01")

	runOK(t, cfg, "delete", "-category", "Food", "-description", "Tea", "-date", "2024-01-01")

	var out bytes.Buffer
	err := run(context.Background(), cfg, nil, []string{"delete", "-category", "Food", "-description", "Tea", "-date", "2024-01-01"}, &out)
	if err == nil {
		t.Fatal("second delete should report no match")
	}

	if _, err := os.Stat(cfg.DataFile); err != nil {
		t.Fatalf("data file should exist: %v", err)
	}
	data, _ := os.ReadFile(cfg.DataFile)
	if len(bytes.TrimSpace(data)) != 0 {
		t.Errorf("ledger should be empty, got %q", data)
	}
}

func TestRun_ListUnknownCategory(t *testing.T) {
	cfg := testConfig(t)
	err := run(context.Background(), cfg, nil, []string{"list", "-category", "Nope"}, &bytes.Buffer{})
	if !errors.Is(err, ledger.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRun_ExportSummary(t *testing.T) {
	cfg := testConfig(t)
	runOK(t, cfg, "add", "-amount", "3", "-category", "Bills", "-date", "2024-01-01")

	dest := filepath.Join(t.TempDir(), "report")
	out := runOK(t, cfg, "export-summary", dest)
	if !strings.Contains(out, dest+".txt") {
		t.Errorf("expected .txt to be appended, got %q", out)
	}
	data, err := os.ReadFile(dest + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "EXPENSE SUMMARY\n") {
		t.Errorf("unexpected export:\n%s", data)
	}
}

func TestRun_ExportXLSX(t *testing.T) {
	cfg := testConfig(t)
	runOK(t, cfg, "add", "-amount", "3", "-category", "Bills", "-date", "2024-01-01")

	dest := filepath.Join(t.TempDir(), "book")
	runOK(t, cfg, "export-xlsx", dest)
	if _, err := os.Stat(dest + ".xlsx"); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
}

func TestRun_UsageAndUnknown(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	if err := run(context.Background(), cfg, nil, nil, &out); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("no args should print usage, got %v", err)
	}
	if !strings.Contains(out.String(), "usage: expenses") {
		t.Errorf("usage not printed: %q", out.String())
	}
	if err := run(context.Background(), cfg, nil, []string{"frobnicate"}, &bytes.Buffer{}); err == nil {
		t.Fatal("unknown command should fail")
	}
}

func TestRun_InvalidAddDoesNotWrite(t *testing.T) {
	cfg := testConfig(t)
	if err := run(context.Background(), cfg, nil, []string{"add", "-amount", "-3", "-category", "Food"}, &bytes.Buffer{}); err == nil {
		t.Fatal("negative amount should fail")
	}
	if _, err := os.Stat(cfg.DataFile); !os.IsNotExist(err) {
		t.Fatalf("no data file should be created, stat err=%v", err)
	}
}
