package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind discriminates the direction of a transaction. Amounts carry no
	// sign convention; the kind alone tells income from expense.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single bookkeeping record as stored.
	Transaction struct {
		ID          int64
		Date        Date
		Amount      Money
		Description string
		Category    string
		Kind        Kind
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// TransactionFields holds the caller-supplied fields of a transaction,
	// without the store-assigned id and timestamps.
	TransactionFields struct {
		Date        Date
		Amount      Money
		Description string
		Category    string
		Kind        Kind
	}

	// TransactionPatch is a partial update. A nil field is left unchanged,
	// which keeps "absent" distinguishable from an explicit zero value.
	TransactionPatch struct {
		Date        *Date
		Amount      *Money
		Description *string
		Category    *string
		Kind        *Kind
	}

	// TransactionFilter narrows and pages a listing. Zero dates and empty
	// strings mean "no constraint". Limit <= 0 disables the window.
	TransactionFilter struct {
		Skip      int
		Limit     int
		StartDate Date
		EndDate   Date
		Category  string
		Kind      Kind
	}

	// CategoryDefinition is a static reference entry. It does not gate the
	// free-text category strings transactions may carry.
	CategoryDefinition struct {
		ID   int64
		Name string
		Kind Kind
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction type")
)

// ParseKind normalizes and validates a transaction type token.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	}
	return "", ErrInvalidKind
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day (UTC, no time-of-day).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey renders the calendar month as YYYY-MM. Lexicographic order of
// month keys equals chronological order.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (f TransactionFields) Validate() error {
	if f.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := f.Kind.Validate(); err != nil {
		return err
	}
	// Description and category are required fields but may be empty strings;
	// categories are free text and are not checked against the reference list.
	return nil
}
