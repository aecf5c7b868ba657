package store

import (
	"context"

	"fintrack/internal/core"
)

// Ports implemented by the persistence adapters (sqlite, memory).
type (
	// TransactionStore is the full CRUD and query surface over the
	// transaction collection. All mutations persist before returning.
	TransactionStore interface {
		// CreateTransaction assigns id and timestamps and persists the record.
		CreateTransaction(ctx context.Context, fields core.TransactionFields) (core.Transaction, error)

		// CreateTransactions persists a batch atomically: either every record
		// in the slice is stored or none is. Used for import batch commits.
		CreateTransactions(ctx context.Context, fields []core.TransactionFields) ([]core.Transaction, error)

		// GetTransaction returns (nil, nil) when the id is unknown.
		GetTransaction(ctx context.Context, id int64) (*core.Transaction, error)

		// UpdateTransaction applies the non-nil patch fields and refreshes
		// UpdatedAt. Returns (nil, nil) when the id is unknown.
		UpdateTransaction(ctx context.Context, id int64, patch core.TransactionPatch) (*core.Transaction, error)

		// DeleteTransaction reports whether a record existed and was removed.
		DeleteTransaction(ctx context.Context, id int64) (bool, error)

		// ListTransactions returns matching records ordered by date
		// descending, id descending as tie-break.
		ListTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error)
	}

	// CategoryReader exposes the static category reference list.
	CategoryReader interface {
		ListCategories(ctx context.Context) ([]core.CategoryDefinition, error)
	}
)
