package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS expenses (
    id          TEXT PRIMARY KEY,
    position    INTEGER NOT NULL,
    category    TEXT NOT NULL,
    amount      NUMERIC NOT NULL CHECK (amount > 0),
    description TEXT NOT NULL,
    date        DATE NOT NULL
)`

// PostgresRepository stores the ledger snapshot in a Postgres table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresRepository)(nil)

func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (*ledger.Ledger, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, amount, description, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	l := ledger.New()
	for rows.Next() {
		var (
			id, category, description string
			amount                    decimal.Decimal
			date                      time.Time
		)
		if err := rows.Scan(&id, &category, &amount, &description, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e := core.Expense{
			ID:          id,
			Amount:      core.NewMoney(amount),
			Category:    category,
			Description: description,
			Date:        core.DateOf(date),
		}
		l.Insert(e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	slog.InfoContext(ctx, "Ledger loaded from Postgres", "expenses", l.Len())
	return l, nil
}

func (r *PostgresRepository) Save(ctx context.Context, l *ledger.Ledger) error {
	expenses := l.Expenses()
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM expenses`); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		batch := &pgx.Batch{}
		for i, e := range expenses {
			batch.Queue(
				`INSERT INTO expenses (id, position, category, amount, description, date) VALUES ($1, $2, $3, $4, $5, $6)`,
				e.ID, i, e.Category, e.Amount.Decimal, e.Description, e.Date.Time,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert expenses: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Ledger saved to Postgres", "expenses", len(expenses))
	return nil
}
