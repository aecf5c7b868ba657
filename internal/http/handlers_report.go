package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.reports.Summary(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		TotalIncome  float64 `json:"total_income"`
		TotalExpense float64 `json:"total_expense"`
		NetBalance   float64 `json:"net_balance"`
		Count        int     `json:"transaction_count"`
	}{
		TotalIncome:  summary.TotalIncome.Float64(),
		TotalExpense: summary.TotalExpense.Float64(),
		NetBalance:   summary.NetBalance.Float64(),
		Count:        summary.Count,
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.MonthlyBreakdown(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute monthly report")
		return
	}

	type monthlyRow struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
	}
	out := make([]monthlyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthlyRow{
			Month:   row.Month,
			Income:  row.Income.Float64(),
			Expense: row.Expense.Float64(),
			Net:     row.Net.Float64(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	var kind core.Kind
	if v := strings.TrimSpace(r.URL.Query().Get("transaction_type")); v != "" {
		parsed, err := core.ParseKind(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid transaction_type, expected income or expense")
			return
		}
		kind = parsed
	}

	rows, err := s.reports.CategoryBreakdown(r.Context(), kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute category report")
		return
	}

	type categoryRow struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
		Count    int     `json:"transaction_count"`
	}
	out := make([]categoryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryRow{
			Category: row.Category,
			Total:    row.Total.Float64(),
			Count:    row.Count,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
