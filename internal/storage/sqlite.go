package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
	"expenses/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements Store
func (r *SQLiteRepository) Load(ctx context.Context) (*ledger.Ledger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, description, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	l, err := scanLedger(ctx, rows)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Ledger loaded from SQLite", "expenses", l.Len())
	return l, nil
}

// Save implements Store
func (r *SQLiteRepository) Save(ctx context.Context, l *ledger.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (id, position, category, amount, description, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	expenses := l.Expenses()
	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, e.ID, i, e.Category, e.Amount.String(), e.Description, e.Date.String()); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite", "expenses", len(expenses))
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanLedger rebuilds a ledger from (id, category, amount, description, date)
// rows. Rows whose columns cannot be parsed are logged and skipped.
func scanLedger(ctx context.Context, rows rowScanner) (*ledger.Ledger, error) {
	l := ledger.New()
	for rows.Next() {
		var id, category, amount, description, date string
		if err := rows.Scan(&id, &category, &amount, &description, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := expenseFromColumns(id, category, amount, description, date)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable stored expense", "id", id, "error", err)
			continue
		}
		l.Insert(e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return l, nil
}

func expenseFromColumns(id, category, amount, description, date string) (core.Expense, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, amount)
	}
	day, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		Amount:      core.NewMoney(d),
		Category:    category,
		Description: description,
		Date:        day,
	}, nil
}
