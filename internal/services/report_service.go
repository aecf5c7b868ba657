package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ReportService computes aggregate views over the full matching record set.
// It only reads; figures are recomputed on every call.
type ReportService struct {
	store store.TransactionStore
}

func NewReportService(store store.TransactionStore) *ReportService {
	return &ReportService{store: store}
}

// Summary sums income and expense amounts in an optional date range.
// Zero-value dates mean no bound on that side.
func (s *ReportService) Summary(ctx context.Context, start, end core.Date) (core.Summary, error) {
	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return core.Summary{}, fmt.Errorf("fetch transactions for summary: %w", err)
	}

	var summary core.Summary
	for _, tx := range txs {
		switch tx.Kind {
		case core.Income:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case core.Expense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.Count = len(txs)

	slog.DebugContext(ctx, "Summary computed",
		"count", summary.Count,
		"total_income_cents", summary.TotalIncome.Cents,
		"total_expense_cents", summary.TotalExpense.Cents)

	return summary, nil
}

// MonthlyBreakdown groups all records by calendar month and kind. Months
// are returned in ascending order; a kind with no records in a month sums
// to zero.
func (s *ReportService) MonthlyBreakdown(ctx context.Context) ([]core.MonthlyReportRow, error) {
	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for monthly report: %w", err)
	}

	type monthSums struct {
		income  core.Money
		expense core.Money
	}
	byMonth := map[string]*monthSums{}
	for _, tx := range txs {
		key := tx.Date.MonthKey()
		sums := byMonth[key]
		if sums == nil {
			sums = &monthSums{}
			byMonth[key] = sums
		}
		switch tx.Kind {
		case core.Income:
			sums.income = sums.income.Add(tx.Amount)
		case core.Expense:
			sums.expense = sums.expense.Add(tx.Amount)
		}
	}

	months := make([]string, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	// YYYY-MM keys sort chronologically.
	sort.Strings(months)

	rows := make([]core.MonthlyReportRow, 0, len(months))
	for _, key := range months {
		sums := byMonth[key]
		rows = append(rows, core.MonthlyReportRow{
			Month:   key,
			Income:  sums.income,
			Expense: sums.expense,
			Net:     sums.income.Sub(sums.expense),
		})
	}

	slog.DebugContext(ctx, "Monthly report computed", "months", len(rows))
	return rows, nil
}

// CategoryBreakdown groups records by their exact category string, optionally
// restricted to one kind. Rows are sorted by category name so output is
// deterministic.
func (s *ReportService) CategoryBreakdown(ctx context.Context, kind core.Kind) ([]core.CategoryReportRow, error) {
	if kind != "" {
		if err := kind.Validate(); err != nil {
			return nil, err
		}
	}

	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for category report: %w", err)
	}

	totals := map[string]*core.CategoryReportRow{}
	for _, tx := range txs {
		row := totals[tx.Category]
		if row == nil {
			row = &core.CategoryReportRow{Category: tx.Category}
			totals[tx.Category] = row
		}
		row.Total = row.Total.Add(tx.Amount)
		row.Count++
	}

	rows := make([]core.CategoryReportRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })

	slog.DebugContext(ctx, "Category report computed", "categories", len(rows), "transaction_type", kind)
	return rows, nil
}
