package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.TransactionStore and store.CategoryReader
// over a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = "id, date, amount_cents, description, category, transaction_type, created_at, updated_at"

// timestampLayout is the stored form of created_at/updated_at.
const timestampLayout = time.RFC3339Nano

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, fields core.TransactionFields) (core.Transaction, error) {
	tx, err := insertTransaction(ctx, r.db, fields)
	if err != nil {
		return core.Transaction{}, err
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", tx.ID,
		"date", tx.Date.String(),
		"amount_cents", tx.Amount.Cents,
		"transaction_type", tx.Kind)

	return tx, nil
}

// CreateTransactions writes the whole batch inside one SQL transaction so a
// mid-batch failure rolls back every record of the batch.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, fields []core.TransactionFields) ([]core.Transaction, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer sqlTx.Rollback()

	created := make([]core.Transaction, 0, len(fields))
	for _, f := range fields {
		tx, err := insertTransaction(ctx, sqlTx, f)
		if err != nil {
			return nil, fmt.Errorf("insert batch record: %w", err)
		}
		created = append(created, tx)
	}

	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	slog.DebugContext(ctx, "Transaction batch committed", "count", len(created))
	return created, nil
}

// execer covers *sql.DB and *sql.Tx for the shared insert path.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, fields core.TransactionFields) (core.Transaction, error) {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount_cents, description, category, transaction_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fields.Date.String(),
		fields.Amount.Cents,
		fields.Description,
		fields.Category,
		string(fields.Kind),
		now.Format(timestampLayout),
		now.Format(timestampLayout),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read inserted id: %w", err)
	}

	return core.Transaction{
		ID:          id,
		Date:        fields.Date,
		Amount:      fields.Amount,
		Description: fields.Description,
		Category:    fields.Category,
		Kind:        fields.Kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, patch core.TransactionPatch) (*core.Transaction, error) {
	current, err := r.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	if patch.Date != nil {
		current.Date = *patch.Date
	}
	if patch.Amount != nil {
		current.Amount = *patch.Amount
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Category != nil {
		current.Category = *patch.Category
	}
	if patch.Kind != nil {
		current.Kind = *patch.Kind
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET date = ?, amount_cents = ?, description = ?, category = ?, transaction_type = ?, updated_at = ?
		 WHERE id = ?`,
		current.Date.String(),
		current.Amount.Cents,
		current.Description,
		current.Category,
		string(current.Kind),
		current.UpdatedAt.Format(timestampLayout),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction updated", "id", id)
	return current, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}
	if affected > 0 {
		slog.DebugContext(ctx, "Transaction deleted", "id", id)
	}
	return affected > 0, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if !filter.StartDate.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, filter.StartDate.String())
	}
	if !filter.EndDate.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, filter.EndDate.String())
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Kind != "" {
		conds = append(conds, "transaction_type = ?")
		args = append(args, string(filter.Kind))
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// ISO date strings compare lexicographically in chronological order.
	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Skip)
	} else if filter.Skip > 0 {
		// SQLite needs a LIMIT clause for OFFSET; -1 means unbounded.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.CategoryDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, category_type FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.CategoryDefinition{}
	for rows.Next() {
		var (
			cat  core.CategoryDefinition
			kind string
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Kind = core.Kind(kind)
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                   core.Transaction
		dateStr, kind        string
		createdAt, updatedAt string
	)
	err := row.Scan(&tx.ID, &dateStr, &tx.Amount.Cents, &tx.Description, &tx.Category, &kind, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	tx.Date = date
	tx.Kind = core.Kind(kind)

	if tx.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if tx.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return tx, nil
}
