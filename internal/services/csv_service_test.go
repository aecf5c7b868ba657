package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func TestImport(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)

	input := strings.Join([]string{
		"date,amount,description,category,transaction_type",
		"2024-01-15,50.00,groceries,Food,expense",
		"2024-01-20,200.00,salary,Salary,income",
		"2024-02-01,12.50,bus pass,Transport,EXPENSE",
	}, "\n")

	res, err := svc.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 3 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}

	all, _ := mem.ListTransactions(context.Background(), core.TransactionFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 persisted, got %d", len(all))
	}
	// Type tokens are lower-cased on import.
	for _, tx := range all {
		if err := tx.Kind.Validate(); err != nil {
			t.Fatalf("bad kind persisted: %q", tx.Kind)
		}
	}
}

func TestImportHeaderAliases(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)

	input := strings.Join([]string{
		"Date,Amount,Description,Category,Transaction Type",
		"2024-01-15,50.00,groceries,Food,expense",
	}, "\n")

	res, err := svc.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import with alias headers: %v", err)
	}
	if res.Imported != 1 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestImportIgnoresUnknownColumns(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)

	input := strings.Join([]string{
		"id,date,amount,description,category,type,notes",
		"7,2024-01-15,50.00,groceries,Food,expense,ignored",
	}, "\n")

	res, err := svc.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestImportMissingColumnFailsFast(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)

	// No amount column at all.
	input := strings.Join([]string{
		"date,description,category,transaction_type",
		"2024-01-15,groceries,Food,expense",
	}, "\n")

	_, err := svc.Import(context.Background(), strings.NewReader(input))
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "amount" {
		t.Fatalf("wrong column reported: %q", missing.Column)
	}

	all, _ := mem.ListTransactions(context.Background(), core.TransactionFilter{})
	if len(all) != 0 {
		t.Fatalf("no record may be created on fail-fast, got %d", len(all))
	}
}

func TestImportSkipsBadRows(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)

	input := strings.Join([]string{
		"date,amount,description,category,transaction_type",
		"2024-01-15,50.00,ok one,Food,expense",
		"2024-01-16,not-a-number,bad amount,Food,expense",
		"2024-01-17,10.00,ok two,Food,expense",
		"not-a-date,10.00,bad date,Food,expense",
		"2024-01-18,10.00,bad kind,Food,transfer",
		"2024-01-19,25.00,ok three,Food,income",
	}, "\n")

	res, err := svc.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 3 || res.Errors != 3 {
		t.Fatalf("result = %+v", res)
	}

	all, _ := mem.ListTransactions(context.Background(), core.TransactionFilter{})
	if len(all) != 3 {
		t.Fatalf("expected exactly 3 persisted, got %d", len(all))
	}
}

func TestImportBatchCommits(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem).WithBatchSize(2)

	lines := []string{"date,amount,description,category,transaction_type"}
	for i := 0; i < 5; i++ {
		lines = append(lines, "2024-01-15,10.00,row,Food,expense")
	}

	res, err := svc.Import(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 5 {
		t.Fatalf("result = %+v", res)
	}
}

func TestExport(t *testing.T) {
	mem := memory.New()
	svc := NewCSVService(mem)
	ctx := context.Background()

	addTx(t, mem, "2024-01-15", 5000, "Food", core.Expense)
	addTx(t, mem, "2024-02-20", 123456, "Salary", core.Income)

	out, err := svc.Export(ctx, core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "date,amount,description,category,transaction_type" {
		t.Fatalf("header = %q", lines[0])
	}
	// Newest first.
	if !strings.HasPrefix(lines[1], "2024-02-20,1234.56,") {
		t.Fatalf("first row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2024-01-15,50.00,") {
		t.Fatalf("second row = %q", lines[2])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := memory.New()
	ctx := context.Background()

	addTx(t, source, "2024-01-15", 5000, "Food", core.Expense)
	addTx(t, source, "2024-02-20", 123456, "Salary", core.Income)
	// Embedded comma and quote must survive standard CSV escaping.
	d, _ := core.ParseDate("2024-03-01")
	if _, err := source.CreateTransaction(ctx, core.TransactionFields{
		Date:        d,
		Amount:      core.Money{Cents: 999},
		Description: `dinner, with "friends"`,
		Category:    "Eating Out",
		Kind:        core.Expense,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := NewCSVService(source).Export(ctx, core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dest := memory.New()
	res, err := NewCSVService(dest).Import(ctx, strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if res.Imported != 3 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}

	want, _ := source.ListTransactions(ctx, core.TransactionFilter{})
	got, _ := dest.ListTransactions(ctx, core.TransactionFilter{})
	if len(got) != len(want) {
		t.Fatalf("row count differs: %d vs %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Date.String() != w.Date.String() ||
			g.Amount.Cents != w.Amount.Cents ||
			g.Description != w.Description ||
			g.Category != w.Category ||
			g.Kind != w.Kind {
			t.Fatalf("row %d differs after round trip:\n got %+v\nwant %+v", i, g, w)
		}
	}
}
