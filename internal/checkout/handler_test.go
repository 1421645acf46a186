package checkout

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/shop-backend/internal/product"
)

func makeAppWithCheckoutHandler(h *Handler) *fiber.App {
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

func TestCheckoutRoute_CODSuccess(t *testing.T) {
	svc, store := newTestService([]product.Product{
		{ID: 1, Name: "Dog food", Price: 10.00, Stock: 3},
	})
	store.AddCartLine(42, 1, 2, "2026-01-01T10:00:00Z")
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	body := `{"shippingAddress":"12 Main St","phone":"555-0100","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var resp struct {
		OrderID     int     `json:"orderId"`
		TotalAmount float64 `json:"totalAmount"`
	}
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("bad response body %s: %v", string(b), err)
	}
	if resp.OrderID == 0 || resp.TotalAmount != 20.00 {
		t.Fatalf("unexpected response %s", string(b))
	}
}

func TestCheckoutRoute_Unauthorized(t *testing.T) {
	svc, _ := newTestService(nil)
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestCheckoutRoute_EmptyCart(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog food", Price: 10.00, Stock: 3},
	})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	body := `{"shippingAddress":"12 Main St","phone":"555-0100","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "redirect") {
		t.Fatalf("expected redirect hint in body: %s", string(b))
	}
}

func TestCheckoutRoute_InsufficientStock(t *testing.T) {
	svc, store := newTestService([]product.Product{
		{ID: 1, Name: "Cat litter", Price: 5.00, Stock: 1},
	})
	store.AddCartLine(42, 1, 2, "2026-01-01T10:00:00Z")
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	body := `{"shippingAddress":"12 Main St","phone":"555-0100","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Cat litter") || !strings.Contains(string(b), `"available":1`) {
		t.Fatalf("expected structured stock detail, got %s", string(b))
	}
}

func TestCheckoutRoute_MissingFields(t *testing.T) {
	svc, store := newTestService([]product.Product{
		{ID: 1, Name: "Dog food", Price: 10.00, Stock: 3},
	})
	store.AddCartLine(42, 1, 1, "2026-01-01T10:00:00Z")
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	body := `{"phone":"555-0100","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "required") {
		t.Fatalf("expected required-fields message, got %s", string(b))
	}
}

func TestPaymentResolutionRoutes(t *testing.T) {
	svc, store := newTestService([]product.Product{
		{ID: 1, Name: "Dog food", Price: 10.00, Stock: 3},
	})
	store.AddCartLine(42, 1, 2, "2026-01-01T10:00:00Z")
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	body := `{"shippingAddress":"12 Main St","phone":"555-0100","paymentMethod":"GPay"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var resp struct {
		OrderID int `json:"orderId"`
	}
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("bad body %s: %v", string(b), err)
	}

	confirm := httptest.NewRequest("POST", "/api/v1/payments/"+strconv.Itoa(resp.OrderID)+"/confirm", nil)
	confirm.Header.Set("X-User-ID", "42")
	cRes, _ := app.Test(confirm)
	if cRes.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 on confirm, got %d", cRes.StatusCode)
	}
	if store.StockOf(1) != 1 || store.CartSize(42) != 0 {
		t.Fatalf("confirm must reserve stock and clear cart, stock=%d cart=%d", store.StockOf(1), store.CartSize(42))
	}

	// second resolution hits a terminal order
	confirm2 := httptest.NewRequest("POST", "/api/v1/payments/"+strconv.Itoa(resp.OrderID)+"/confirm", nil)
	confirm2.Header.Set("X-User-ID", "42")
	again, _ := app.Test(confirm2)
	if again.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on double confirm, got %d", again.StatusCode)
	}

	missing := httptest.NewRequest("POST", "/api/v1/payments/9999/fail", nil)
	missing.Header.Set("X-User-ID", "42")
	mRes, _ := app.Test(missing)
	if mRes.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", mRes.StatusCode)
	}
}
