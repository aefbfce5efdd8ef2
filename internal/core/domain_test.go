package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, 3, 1)) || d.String() != "2024-03-01" {
		t.Fatalf("unexpected date: %v", d)
	}
	for _, bad := range []string{"", "01/03/2024", "2024-13-01", "2024-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestNewExpense(t *testing.T) {
	e, err := NewExpense(MoneyFromFloat(10), "  Food ", "", NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected an identifier")
	}
	if e.Category != "Food" || e.Description != DefaultDescription {
		t.Fatalf("unexpected normalisation: %+v", e)
	}

	other, _ := NewExpense(MoneyFromFloat(10), "Food", "", NewDate(2024, 1, 1))
	if other.ID == e.ID {
		t.Fatalf("identifiers must be unique")
	}

	bads := []struct {
		amount   Money
		category string
		date     Date
		want     error
	}{
		{MoneyFromFloat(0), "Food", NewDate(2024, 1, 1), ErrInvalidAmount},
		{MoneyFromFloat(-3), "Food", NewDate(2024, 1, 1), ErrInvalidAmount},
		{MoneyFromFloat(3), "   ", NewDate(2024, 1, 1), ErrEmptyCategory},
		{MoneyFromFloat(3), "Food", Date{}, ErrInvalidDate},
	}
	for i, b := range bads {
		if _, err := NewExpense(b.amount, b.category, "x", b.date); !errors.Is(err, b.want) {
			t.Fatalf("case %d expected %v, got %v", i, b.want, err)
		}
	}
}

func TestNewExpenseSingleLineText(t *testing.T) {
	e, err := NewExpense(MoneyFromFloat(5), "Food\n", "Lunch\r\nwith Bob\n", NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Category != "Food" || e.Description != "Lunch with Bob" {
		t.Fatalf("unexpected normalisation: %+v", e)
	}
}

func TestNewExpenseTextLimits(t *testing.T) {
	cases := []struct {
		name        string
		category    string
		description string
		ok          bool
	}{
		{"at limits", strings.Repeat("c", MaxCategoryLength), strings.Repeat("é", MaxDescriptionLength), true},
		{"long category", strings.Repeat("c", MaxCategoryLength+1), "x", false},
		{"long description", "Food", strings.Repeat("d", MaxDescriptionLength+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewExpense(MoneyFromFloat(1), tc.category, tc.description, NewDate(2024, 1, 1))
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrTextTooLong) {
				t.Fatalf("expected ErrTextTooLong, got %v", err)
			}
		})
	}
}
