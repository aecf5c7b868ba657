package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Store is an in-memory TransactionStore used by the memory backend and by
// tests. Ids are never reused, matching the sqlite adapter.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
	cats   []core.CategoryDefinition
}

func New() *Store {
	return &Store{nextID: 1, cats: defaultCategories()}
}

func defaultCategories() []core.CategoryDefinition {
	names := []struct {
		name string
		kind core.Kind
	}{
		{"Salary", core.Income},
		{"Other Income", core.Income},
		{"Food", core.Expense},
		{"Housing", core.Expense},
		{"Transport", core.Expense},
		{"Entertainment", core.Expense},
		{"Health", core.Expense},
		{"Other", core.Expense},
	}
	cats := make([]core.CategoryDefinition, len(names))
	for i, n := range names {
		cats[i] = core.CategoryDefinition{ID: int64(i + 1), Name: n.name, Kind: n.kind}
	}
	return cats
}

func (s *Store) CreateTransaction(_ context.Context, fields core.TransactionFields) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(fields), nil
}

func (s *Store) CreateTransactions(_ context.Context, fields []core.TransactionFields) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]core.Transaction, len(fields))
	for i, f := range fields {
		created[i] = s.create(f)
	}
	return created, nil
}

// create assumes the lock is held.
func (s *Store) create(fields core.TransactionFields) core.Transaction {
	now := time.Now().UTC()
	tx := core.Transaction{
		ID:          s.nextID,
		Date:        fields.Date,
		Amount:      fields.Amount,
		Description: fields.Description,
		Category:    fields.Category,
		Kind:        fields.Kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.items = append(s.items, tx)
	return tx
}

func (s *Store) GetTransaction(_ context.Context, id int64) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		tx := s.items[i]
		return &tx, nil
	}
	return nil, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id int64, patch core.TransactionPatch) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	tx := &s.items[i]
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Kind != nil {
		tx.Kind = *patch.Kind
	}
	tx.UpdatedAt = time.Now().UTC()
	out := *tx
	return &out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true, nil
}

func (s *Store) ListTransactions(_ context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if !filter.StartDate.IsZero() && tx.Date.Before(filter.StartDate.Time) {
			continue
		}
		if !filter.EndDate.IsZero() && tx.Date.After(filter.EndDate.Time) {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		matched = append(matched, tx)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date.Time) {
			return matched[i].Date.After(matched[j].Date.Time)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(matched) {
			return []core.Transaction{}, nil
		}
		matched = matched[filter.Skip:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.CategoryDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CategoryDefinition, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

// indexOf assumes the lock is held.
func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
