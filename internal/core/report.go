package core

// Summary aggregates all transactions in an optional date range. Figures
// are recomputed on every call, never cached.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	NetBalance   Money
	Count        int
}

// MonthlyReportRow is one calendar month of activity. Net = Income - Expense.
type MonthlyReportRow struct {
	Month   string // YYYY-MM
	Income  Money
	Expense Money
	Net     Money
}

// CategoryReportRow aggregates one exact-match category string.
type CategoryReportRow struct {
	Category string
	Total    Money
	Count    int
}
