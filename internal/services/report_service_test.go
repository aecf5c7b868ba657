package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func addTx(t *testing.T, s *memory.Store, date string, cents int64, category string, kind core.Kind) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	_, err = s.CreateTransaction(context.Background(), core.TransactionFields{
		Date:        d,
		Amount:      core.Money{Cents: cents},
		Description: "test",
		Category:    category,
		Kind:        kind,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestSummary(t *testing.T) {
	mem := memory.New()
	svc := NewReportService(mem)
	ctx := context.Background()

	addTx(t, mem, "2024-01-15", 5000, "Food", core.Expense)
	addTx(t, mem, "2024-01-20", 20000, "Salary", core.Income)
	addTx(t, mem, "2024-02-05", 3000, "Transport", core.Expense)

	summary, err := svc.Summary(ctx, core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalIncome.Cents != 20000 {
		t.Fatalf("total income = %d", summary.TotalIncome.Cents)
	}
	if summary.TotalExpense.Cents != 8000 {
		t.Fatalf("total expense = %d", summary.TotalExpense.Cents)
	}
	if summary.NetBalance.Cents != summary.TotalIncome.Cents-summary.TotalExpense.Cents {
		t.Fatalf("net balance %d != income - expense", summary.NetBalance.Cents)
	}
	if summary.Count != 3 {
		t.Fatalf("count = %d", summary.Count)
	}
}

func TestSummaryDateBounds(t *testing.T) {
	mem := memory.New()
	svc := NewReportService(mem)
	ctx := context.Background()

	addTx(t, mem, "2024-01-15", 5000, "Food", core.Expense)
	addTx(t, mem, "2024-02-15", 7000, "Food", core.Expense)

	start, _ := core.ParseDate("2024-02-01")
	summary, err := svc.Summary(ctx, start, core.Date{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 1 || summary.TotalExpense.Cents != 7000 {
		t.Fatalf("date bound not applied: %+v", summary)
	}
}

func TestSummaryEmpty(t *testing.T) {
	svc := NewReportService(memory.New())

	summary, err := svc.Summary(context.Background(), core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalIncome.Cents != 0 || summary.TotalExpense.Cents != 0 ||
		summary.NetBalance.Cents != 0 || summary.Count != 0 {
		t.Fatalf("empty set must report zeros, got %+v", summary)
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	mem := memory.New()
	svc := NewReportService(mem)

	addTx(t, mem, "2024-01-15", 5000, "Food", core.Expense)
	addTx(t, mem, "2024-01-20", 20000, "Salary", core.Income)
	addTx(t, mem, "2024-03-01", 1000, "Food", core.Expense)
	addTx(t, mem, "2023-12-31", 9900, "Gifts", core.Expense)

	rows, err := svc.MonthlyBreakdown(context.Background())
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 months, got %d", len(rows))
	}
	// Ascending month order.
	if rows[0].Month != "2023-12" || rows[1].Month != "2024-01" || rows[2].Month != "2024-03" {
		t.Fatalf("month order wrong: %+v", rows)
	}

	jan := rows[1]
	if jan.Income.Cents != 20000 || jan.Expense.Cents != 5000 || jan.Net.Cents != 15000 {
		t.Fatalf("january sums wrong: %+v", jan)
	}

	// A month with only one kind reports zero for the other.
	dec := rows[0]
	if dec.Income.Cents != 0 || dec.Expense.Cents != 9900 || dec.Net.Cents != -9900 {
		t.Fatalf("december sums wrong: %+v", dec)
	}
}

func TestMonthlyBreakdownEmpty(t *testing.T) {
	svc := NewReportService(memory.New())
	rows, err := svc.MonthlyBreakdown(context.Background())
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	mem := memory.New()
	svc := NewReportService(mem)
	ctx := context.Background()

	addTx(t, mem, "2024-01-10", 1000, "Food", core.Expense)
	addTx(t, mem, "2024-01-11", 2000, "Food", core.Expense)
	addTx(t, mem, "2024-01-12", 1500, "food", core.Expense) // distinct: case-sensitive
	addTx(t, mem, "2024-01-13", 50000, "Food", core.Income)

	rows, err := svc.CategoryBreakdown(ctx, core.Expense)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	byName := map[string]core.CategoryReportRow{}
	for _, r := range rows {
		byName[r.Category] = r
	}
	if got := byName["Food"]; got.Total.Cents != 3000 || got.Count != 2 {
		t.Fatalf(`"Food" expense group wrong: %+v`, got)
	}
	if got := byName["food"]; got.Total.Cents != 1500 || got.Count != 1 {
		t.Fatalf(`"food" must group separately: %+v`, got)
	}

	all, err := svc.CategoryBreakdown(ctx, "")
	if err != nil {
		t.Fatalf("category all kinds: %v", err)
	}
	for _, r := range all {
		if r.Category == "Food" && (r.Total.Cents != 53000 || r.Count != 3) {
			t.Fatalf("unfiltered group wrong: %+v", r)
		}
	}

	if _, err := svc.CategoryBreakdown(ctx, "transfer"); err == nil {
		t.Fatal("invalid kind should error")
	}
}
