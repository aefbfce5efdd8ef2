package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

// DefaultDataFile is the flat file used when no path is configured.
const DefaultDataFile = "expenses.txt"

// FileStore keeps one expense per line as "category,amount,description,date".
//
// Commas inside the description (and the category) are written as semicolons
// and never turned back into commas, so the format is lossy for that character.
// Line breaks are written as spaces.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the data file. A missing file yields an empty ledger; lines that
// fail to parse are logged and skipped.
func (s *FileStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.InfoContext(ctx, "Data file not found, starting with an empty ledger", "path", s.path)
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	l, skipped, err := ReadLedger(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", s.path, err)
	}
	slog.InfoContext(ctx, "Ledger loaded", "path", s.path, "expenses", l.Len(), "skipped_lines", skipped)
	return l, nil
}

// ReadLedger parses every line of r. Lines with fewer than four fields or an
// unparseable amount or date are logged and counted as skipped; only I/O
// failures are reported as errors.
func ReadLedger(ctx context.Context, r io.Reader) (*ledger.Ledger, int, error) {
	l := ledger.New()
	skipped := 0
	// bufio.Reader has no line length limit, unlike bufio.Scanner.
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, skipped, readErr
		}
		if raw != "" {
			lineNo++
			line := strings.TrimRight(raw, "\r\n")
			if strings.TrimSpace(line) != "" {
				e, err := parseLine(line)
				if err != nil {
					skipped++
					slog.WarnContext(ctx, "Skipping malformed line", "line", lineNo, "content", truncate(line, 120), "error", err)
				} else {
					l.Insert(e)
				}
			}
		}
		if readErr != nil {
			return l, skipped, nil
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func parseLine(line string) (core.Expense, error) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) < 4 {
		return core.Expense{}, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, parts[1])
	}
	date, err := core.ParseDate(parts[3])
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %q", err, parts[3])
	}
	return core.Expense{
		Amount:      core.NewMoney(amount),
		Category:    parts[0],
		Description: parts[2],
		Date:        date,
	}, nil
}

// FormatLine renders one expense in the data file format.
func FormatLine(e core.Expense) string {
	return fmt.Sprintf("%s,%s,%s,%s",
		escapeField(e.Category),
		e.Amount.StringFixed(core.StoredFractionDigits),
		escapeField(e.Description),
		e.Date.String(),
	)
}

var fieldEscaper = strings.NewReplacer(",", ";", "\r\n", " ", "\r", " ", "\n", " ")

// escapeField keeps a value inside one field of one line.
func escapeField(s string) string {
	return fieldEscaper.Replace(s)
}

// WriteLedger writes the ledger in persistence order.
func WriteLedger(w io.Writer, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)
	for _, e := range l.Expenses() {
		if _, err := bw.WriteString(FormatLine(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes to a temporary file next to the target and renames it over the
// previous contents.
func (s *FileStore) Save(ctx context.Context, l *ledger.Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteLedger(tmp, l); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved", "path", s.path, "expenses", l.Len())
	return nil
}

func (s *FileStore) Close() error { return nil }
