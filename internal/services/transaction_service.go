package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// TransactionService wraps the store's CRUD surface and publishes change
// events. The event client is optional; without one the service is plain
// CRUD.
type TransactionService struct {
	store  store.TransactionStore
	events *amqp.Client
}

func NewTransactionService(store store.TransactionStore, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
	}
}

func (s *TransactionService) Create(ctx context.Context, fields core.TransactionFields) (core.Transaction, error) {
	if err := fields.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.CreateTransaction(ctx, fields)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", tx.ID,
		"date", tx.Date.String(),
		"amount_cents", tx.Amount.Cents,
		"transaction_type", tx.Kind)

	s.publishEvent(ctx, tx.ID, amqp.ActionCreated)
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) Update(ctx context.Context, id int64, patch core.TransactionPatch) (*core.Transaction, error) {
	if patch.Kind != nil {
		if err := patch.Kind.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if tx == nil {
		return nil, nil
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id)
	s.publishEvent(ctx, id, amqp.ActionUpdated)
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	if !deleted {
		return false, nil
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return true, nil
}

func (s *TransactionService) List(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, filter)
}

// publishEvent is best effort: the record is already persisted, so a failed
// or absent event client never fails the operation.
func (s *TransactionService) publishEvent(ctx context.Context, id int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id,
			"action", action,
			"error", err)
	}
}

func (s *TransactionService) Close() error {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			return fmt.Errorf("close event client: %w", err)
		}
	}
	return nil
}
