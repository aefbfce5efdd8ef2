// Command expenses manages the expense ledger from the shell. Every command
// loads the configured store, acts, and saves when the ledger changed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"expenses/internal/backend"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/report"
	"expenses/internal/services"
)

const usage = `usage: expenses <command> [flags]

commands:
  add             -amount N -category C [-description D] [-date YYYY-MM-DD]
  delete          -category C -description D -date YYYY-MM-DD
  delete-id       <id>
  list            [-category C]
  summary
  export-summary  <file>
  export-xlsx     <file>
  categories
`

func main() {
	cfg, logger := cli.MustBootstrap(applog.ComponentCLI)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	err := run(ctx, cfg, logger, os.Args[1:], os.Stdout)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "expenses:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return flag.ErrHelp
	}

	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	svc, err := services.Open(ctx, store, nil, logger)
	if err != nil {
		store.Close()
		return err
	}
	defer svc.Close()

	if err := dispatch(ctx, svc, cfg.CurrencySymbol, args, stdout); err != nil {
		return err
	}

	if svc.Dirty() {
		return svc.Save(ctx)
	}
	return nil
}

func dispatch(ctx context.Context, svc *services.ExpenseService, symbol string, args []string, stdout io.Writer) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		amount := fs.String("amount", "", "amount, '.' or ',' as decimal separator")
		category := fs.String("category", "", "category name")
		description := fs.String("description", "", "optional description")
		date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		e, err := svc.AddFromInput(ctx, *amount, *category, *description, *date)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added %s %s %s %s (%s)\n", e.Date, e.Category, e.Description, e.Amount.Format(symbol), e.ID)

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ContinueOnError)
		category := fs.String("category", "", "category name")
		description := fs.String("description", "", "description as displayed")
		date := fs.String("date", "", "date as YYYY-MM-DD")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		removed, err := svc.DeleteMatching(ctx, *category, *description, *date)
		if err != nil {
			return err
		}
		if !removed {
			return errors.New("no matching expense")
		}
		fmt.Fprintln(stdout, "deleted")

	case "delete-id":
		if len(rest) != 1 {
			return errors.New("delete-id needs exactly one id")
		}
		if _, ok := svc.DeleteByID(ctx, rest[0]); !ok {
			return fmt.Errorf("expense %s not found", rest[0])
		}
		fmt.Fprintln(stdout, "deleted")

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		category := fs.String("category", "", "only this category")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		list := svc.Ledger().AllSortedByDateDescending()
		if *category != "" {
			var err error
			if list, err = svc.Ledger().ByCategorySortedByDateDescending(*category); err != nil {
				return err
			}
		}
		return printRows(stdout, report.Rows(list, symbol))

	case "summary":
		fmt.Fprintln(stdout, report.RenderSummary(svc.Summary(), symbol))

	case "export-summary":
		if len(rest) != 1 {
			return errors.New("export-summary needs a destination file")
		}
		path, err := report.ExportSummaryText(report.RenderSummary(svc.Summary(), symbol), rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Summary exported to %s\n", path)

	case "export-xlsx":
		if len(rest) != 1 {
			return errors.New("export-xlsx needs a destination file")
		}
		path := rest[0]
		if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			path += ".xlsx"
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		l := svc.Ledger()
		if err := report.WriteXLSX(f, l.AllSortedByDateDescending(), l.Summary()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Workbook exported to %s\n", path)

	case "categories":
		for _, c := range svc.Ledger().Categories() {
			fmt.Fprintln(stdout, c)
		}
		fmt.Fprintf(stdout, "\nsuggested: %s\n", strings.Join(core.SuggestedCategories, ", "))

	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printRows(w io.Writer, rows []report.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tDESCRIPTION\tAMOUNT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Date, r.Category, r.Description, r.Amount)
	}
	return tw.Flush()
}
