package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout is the day-granularity layout used for display, persistence and lookups.
const DateLayout = "2006-01-02"

// DefaultDescription replaces an empty description at entry time.
const DefaultDescription = "No description"

// Entry limits, counted in runes. Every record is a single line of the data
// file, so text fields stay short and never contain line breaks.
const (
	MaxCategoryLength    = 64
	MaxDescriptionLength = 256
)

type (
	Date struct {
		time.Time
	}

	Expense struct {
		ID          string
		Amount      Money
		Category    string
		Description string
		Date        Date
	}
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrTextTooLong   = errors.New("text too long")
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// SuggestedCategories is the fixed suggestion set offered by entry surfaces.
// Categories stay free-form.
var SuggestedCategories = []string{
	"Food", "Travel", "Shopping", "Bills", "Entertainment", "Health", "Education", "Other",
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Equal reports whether both dates denote the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewExpense builds a validated expense with a fresh identifier. Line breaks in
// the text become spaces, the category is trimmed and an empty description
// becomes DefaultDescription.
func NewExpense(amount Money, category, description string, date Date) (Expense, error) {
	e := Expense{
		ID:          uuid.NewString(),
		Amount:      amount,
		Category:    SingleLine(category),
		Description: SingleLine(description),
		Date:        date,
	}
	if e.Description == "" {
		e.Description = DefaultDescription
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// SingleLine replaces line breaks with spaces and trims the result.
func SingleLine(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(e.Category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrTextTooLong, MaxCategoryLength)
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrTextTooLong, MaxDescriptionLength)
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}
