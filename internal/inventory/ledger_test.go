package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTryReserve_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(2, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ledger := NewLedger()
	ok, err := ledger.TryReserve(context.Background(), db, 7, 2)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !ok {
		t.Fatalf("expected reservation to succeed")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTryReserve_InsufficientStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	// guarded update touches no row when stock < qty
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ledger := NewLedger()
	ok, err := ledger.TryReserve(context.Background(), db, 7, 5)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if ok {
		t.Fatalf("expected reservation to fail on short stock")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTryReserve_BadQuantity(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	ledger := NewLedger()
	if _, err := ledger.TryReserve(context.Background(), db, 7, 0); !errors.Is(err, ErrBadQuantity) {
		t.Fatalf("expected ErrBadQuantity, got %v", err)
	}
	if _, err := ledger.TryReserve(context.Background(), db, 7, -3); !errors.Is(err, ErrBadQuantity) {
		t.Fatalf("expected ErrBadQuantity, got %v", err)
	}
}

func TestStock_Read(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"stock"}).AddRow(12)
	mock.ExpectQuery("SELECT stock FROM products").WithArgs(7).WillReturnRows(rows)

	ledger := NewLedger()
	stock, err := ledger.Stock(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if stock != 12 {
		t.Fatalf("expected stock 12, got %d", stock)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
