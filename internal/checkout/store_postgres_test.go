package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/wichananm65/shop-backend/internal/cart"
	"github.com/wichananm65/shop-backend/internal/inventory"
)

type fixedSnapshot []cart.Line

func (s fixedSnapshot) LoadSnapshot(userID int) ([]cart.Line, error) {
	return s, nil
}

func TestPostgresStore_CODCommitSequence(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	snapshot := fixedSnapshot{
		{CartID: 1, ProductID: 1, ProductName: "Dog food", Quantity: 2, UnitPrice: 10.00},
	}
	svc := NewService(snapshot, NewPostgresStore(db, inventory.NewLedger()))

	// live stock read at validation time, before the transaction
	mock.ExpectQuery("SELECT stock FROM products").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(3))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(42, 20.00, "pending", "12 Main St", "555-0100", "COD", "pending", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(11))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(11, 1, 2, 10.00).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("confirmed", "paid", 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := svc.PlaceOrder(context.Background(), 42, "12 Main St", "555-0100", "COD")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if receipt.OrderID != 11 || receipt.TotalAmount != 20.00 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_RollbackWhenReservationRaces(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	snapshot := fixedSnapshot{
		{CartID: 1, ProductID: 1, ProductName: "Dog food", Quantity: 2, UnitPrice: 10.00},
	}
	svc := NewService(snapshot, NewPostgresStore(db, inventory.NewLedger()))

	// validation passes against live stock...
	mock.ExpectQuery("SELECT stock FROM products").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(2))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(42, 20.00, "pending", "12 Main St", "555-0100", "COD", "pending", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(11))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(11, 1, 2, 10.00).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// ...but another checkout commits first and the guarded update misses
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock FROM products").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(1))
	mock.ExpectRollback()

	_, err = svc.PlaceOrder(context.Background(), 42, "12 Main St", "555-0100", "COD")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Product != "Dog food" || stockErr.Available != 1 {
		t.Fatalf("unexpected detail %+v", stockErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_OnlineCommitSkipsStockAndCart(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	snapshot := fixedSnapshot{
		{CartID: 1, ProductID: 1, ProductName: "Dog food", Quantity: 2, UnitPrice: 10.00},
	}
	svc := NewService(snapshot, NewPostgresStore(db, inventory.NewLedger()))

	mock.ExpectQuery("SELECT stock FROM products").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(3))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(42, 20.00, "pending", "12 Main St", "555-0100", "GPay", "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(12))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(12, 1, 2, 10.00).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// no stock update, no cart delete, no status change
	mock.ExpectCommit()

	receipt, err := svc.PlaceOrder(context.Background(), 42, "12 Main St", "555-0100", "GPay")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if receipt.OrderID != 12 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
