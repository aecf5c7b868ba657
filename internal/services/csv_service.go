package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	// defaultImportBatchSize bounds how many parsed rows are committed per
	// SQL transaction, so a crash mid-import loses at most one batch.
	defaultImportBatchSize = 100

	// defaultExportRowLimit is the safety ceiling on exported rows.
	defaultExportRowLimit = 10000
)

// columnAliases maps recognized CSV header spellings to canonical field
// names. The lookup is case-sensitive; unrecognized headers are ignored.
var columnAliases = map[string]string{
	"Date":             "date",
	"date":             "date",
	"Amount":           "amount",
	"amount":           "amount",
	"Description":      "description",
	"description":      "description",
	"Category":         "category",
	"category":         "category",
	"Type":             "transaction_type",
	"type":             "transaction_type",
	"Transaction Type": "transaction_type",
	"transaction_type": "transaction_type",
}

// requiredColumns doubles as the canonical export header, in order.
var requiredColumns = []string{"date", "amount", "description", "category", "transaction_type"}

// MissingColumnError fails an import before any row is written.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// ImportResult counts the outcome of a bulk import.
type ImportResult struct {
	Imported int
	Errors   int
}

// CSVService converts between the CSV wire format and stored transactions.
type CSVService struct {
	store          store.TransactionStore
	batchSize      int
	exportRowLimit int
}

func NewCSVService(store store.TransactionStore) *CSVService {
	return &CSVService{
		store:          store,
		batchSize:      defaultImportBatchSize,
		exportRowLimit: defaultExportRowLimit,
	}
}

// WithBatchSize overrides the import commit interval. Values < 1 keep the
// default.
func (s *CSVService) WithBatchSize(n int) *CSVService {
	if n >= 1 {
		s.batchSize = n
	}
	return s
}

// Import reads CSV content and persists one transaction per valid row.
//
// A missing required column aborts the whole import before any write. A
// malformed row (bad date, non-numeric amount, unknown type token) is
// counted and skipped; it never aborts the batch. Parsed rows are committed
// in batches, each batch atomically.
func (s *CSVService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		canonical, ok := columnAliases[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		if _, dup := cols[canonical]; !dup {
			cols[canonical] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return ImportResult{}, &MissingColumnError{Column: required}
		}
	}

	var result ImportResult
	batch := make([]core.TransactionFields, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := s.store.CreateTransactions(ctx, batch); err != nil {
			return fmt.Errorf("write import batch: %w", err)
		}
		result.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.DebugContext(ctx, "Skipping unreadable csv row", "row", rowNum, "error", err)
			result.Errors++
			continue
		}

		fields, err := convertRow(record, cols)
		if err != nil {
			slog.DebugContext(ctx, "Skipping invalid csv row", "row", rowNum, "error", err)
			result.Errors++
			continue
		}

		batch = append(batch, fields)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	slog.InfoContext(ctx, "CSV import completed",
		"imported", result.Imported,
		"errors", result.Errors)

	return result, nil
}

func convertRow(record []string, cols map[string]int) (core.TransactionFields, error) {
	date, err := core.ParseDate(field(record, cols["date"]))
	if err != nil {
		return core.TransactionFields{}, fmt.Errorf("parse date: %w", err)
	}
	cents, err := core.ParseAmountToCents(field(record, cols["amount"]))
	if err != nil {
		return core.TransactionFields{}, fmt.Errorf("parse amount: %w", err)
	}
	kind, err := core.ParseKind(field(record, cols["transaction_type"]))
	if err != nil {
		return core.TransactionFields{}, fmt.Errorf("parse transaction type: %w", err)
	}

	return core.TransactionFields{
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Description: field(record, cols["description"]),
		Category:    field(record, cols["category"]),
		Kind:        kind,
	}, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// Export renders records in the optional date range as CSV, newest first,
// with the canonical header. Output round-trips through Import. At most
// exportRowLimit rows are emitted.
func (s *CSVService) Export(ctx context.Context, start, end core.Date) ([]byte, error) {
	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{
		StartDate: start,
		EndDate:   end,
		Limit:     s.exportRowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(requiredColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.Date.String(),
			tx.Amount.Decimal(),
			tx.Description,
			tx.Category,
			string(tx.Kind),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	slog.InfoContext(ctx, "CSV export completed", "rows", len(txs), "bytes", buf.Len())
	return buf.Bytes(), nil
}
