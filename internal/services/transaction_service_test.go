package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func TestTransactionServiceCreate(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-01-15")
	tx, err := svc.Create(ctx, core.TransactionFields{
		Date:        d,
		Amount:      core.Money{Cents: 5000},
		Description: "groceries",
		Category:    "Food",
		Kind:        core.Expense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := svc.Get(ctx, tx.ID)
	if err != nil || got == nil {
		t.Fatalf("get after create: %v, %v", got, err)
	}
	if got.Description != "groceries" {
		t.Fatalf("stored record differs: %+v", got)
	}
}

func TestTransactionServiceCreateRejectsInvalid(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)

	_, err := svc.Create(context.Background(), core.TransactionFields{
		Date: core.NewDate(2024, 1, 1),
		Kind: "transfer",
	})
	if !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestTransactionServiceUpdateRejectsInvalidKind(t *testing.T) {
	mem := memory.New()
	svc := NewTransactionService(mem, nil)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-01-15")
	tx, err := svc.Create(ctx, core.TransactionFields{
		Date: d, Amount: core.Money{Cents: 100}, Kind: core.Expense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := core.Kind("transfer")
	if _, err := svc.Update(ctx, tx.ID, core.TransactionPatch{Kind: &bad}); err == nil {
		t.Fatal("expected error for invalid kind patch")
	}
}

func TestTransactionServiceDelete(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-01-15")
	tx, _ := svc.Create(ctx, core.TransactionFields{
		Date: d, Amount: core.Money{Cents: 100}, Kind: core.Expense,
	})

	ok, err := svc.Delete(ctx, tx.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = svc.Delete(ctx, tx.ID)
	if err != nil || ok {
		t.Fatalf("second delete should be false, got %v, %v", ok, err)
	}
}

func TestTransactionServiceCloseWithoutEvents(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nil event client: %v", err)
	}
}
