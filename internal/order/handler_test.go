package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithOrderHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func seededHandler() *Handler {
	repo := NewInMemoryRepository([]Order{
		{OrderID: 1, UserID: 42, TotalAmount: 20.00, Status: StatusConfirmed, PaymentMethod: "COD", PaymentStatus: PaymentPaid},
		{OrderID: 2, UserID: 42, TotalAmount: 36.50, Status: StatusPending, PaymentMethod: "GPay", PaymentStatus: PaymentPending},
		{OrderID: 3, UserID: 7, TotalAmount: 5.00, Status: StatusConfirmed, PaymentMethod: "COD", PaymentStatus: PaymentPaid},
	})
	return NewHandler(NewService(repo))
}

func TestGetOrders_OwnOrdersNewestFirst(t *testing.T) {
	app := makeAppWithOrderHandler(seededHandler())

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var orders []Order
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &orders); err != nil {
		t.Fatalf("bad body %s: %v", string(b), err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].OrderID != 2 || orders[1].OrderID != 1 {
		t.Fatalf("expected newest first, got %v", orders)
	}
}

func TestGetOrders_Unauthorized(t *testing.T) {
	app := makeAppWithOrderHandler(seededHandler())

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestGetOrder_HidesOtherUsers(t *testing.T) {
	app := makeAppWithOrderHandler(seededHandler())

	req := httptest.NewRequest("GET", "/api/v1/orders/3", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for another user's order, got %d", res.StatusCode)
	}

	own := httptest.NewRequest("GET", "/api/v1/orders/1", nil)
	own.Header.Set("X-User-ID", "42")
	oRes, _ := app.Test(own)
	if oRes.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for own order, got %d", oRes.StatusCode)
	}

	var ord Order
	b, _ := io.ReadAll(oRes.Body)
	if err := json.Unmarshal(b, &ord); err != nil {
		t.Fatalf("bad body %s: %v", string(b), err)
	}
	if ord.OrderID != 1 || ord.PaymentStatus != PaymentPaid {
		t.Fatalf("unexpected order %+v", ord)
	}
}
