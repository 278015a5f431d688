// Command parse uploads one statement PDF to the parse service and prints the
// normalized result.
// Usage: go run ./cmd/parse -file statement.pdf [-format table|json|csv|xlsx] [-out path]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"stmtview/internal/config"
	"stmtview/internal/domain"
	"stmtview/internal/export"
	"stmtview/internal/parser/remote"
	"stmtview/internal/service"
)

var errParseFailed = errors.New("statement was not parsed")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errParseFailed) {
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filePath := fs.String("file", "", "path to the statement PDF")
	format := fs.String("format", "table", "output format: table, json, csv or xlsx")
	outPath := fs.String("out", "", "write output to this path instead of stdout")
	baseURL := fs.String("base-url", "", "parse service base URL (overrides STMTVIEW_API_BASE_URL)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *filePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	controller := service.NewUploadController(remote.NewParser(&cfg.API))
	controller.SelectFile(service.NewSelectedFile(*filePath, data))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Parsing %s via %s", *filePath, cfg.API.ParseURL())
	if err := controller.Submit(ctx); err != nil {
		return fmt.Errorf("submitting statement: %w", err)
	}

	view := controller.Snapshot()
	if view.State != domain.UploadStateSucceeded {
		fmt.Fprintf(stderr, "error: %s\n", view.Error)
		return errParseFailed
	}

	if *outPath == "" {
		return render(stdout, *format, view.Statement)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	return render(f, *format, view.Statement)
}

// validateFormat runs before any request is made or output file is touched.
func validateFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	}
	if _, err := export.ParseFormat(format); err != nil {
		return fmt.Errorf("format %q: %w", format, err)
	}
	return nil
}

func render(out io.Writer, format string, s *domain.NormalizedStatement) error {
	switch format {
	case "table":
		return renderTable(out, s)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	default:
		f, err := export.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("format %q: %w", format, err)
		}
		return export.Write(out, f, s)
	}
}

func renderTable(out io.Writer, s *domain.NormalizedStatement) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Bank:\t%s\n", s.Bank)
	fmt.Fprintf(tw, "Last 4 Digits:\t%s\n", s.Last4)
	fmt.Fprintf(tw, "Statement Date:\t%s\n", s.StatementDate)
	fmt.Fprintf(tw, "Billing Cycle:\t%s to %s\n", s.BillingCycleStart, s.BillingCycleEnd)
	fmt.Fprintf(tw, "Payment Due Date:\t%s\n", s.PaymentDueDate)
	fmt.Fprintf(tw, "Total Balance:\t%s\n", s.TotalBalance)
	fmt.Fprintf(tw, "Minimum Due:\t%s\n", s.MinimumDue)
	fmt.Fprintln(tw)

	if len(s.Transactions) == 0 {
		fmt.Fprintln(tw, "No transactions found.")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tAMOUNT")
	for _, tx := range s.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tx.Date, tx.Description, tx.Amount)
	}
	return tw.Flush()
}
