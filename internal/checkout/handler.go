package checkout

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/shop-backend/internal/order"
	"github.com/wichananm65/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.placeOrder)
	// payment resolution endpoints used by the payment collaborator
	app.Post("/api/v1/payments/:orderID<int>/confirm", h.confirmPayment)
	app.Post("/api/v1/payments/:orderID<int>/fail", h.failPayment)
}

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(placeOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	receipt, err := h.service.PlaceOrder(c.Context(), userID, payload.ShippingAddress, payload.Phone, payload.PaymentMethod)
	if err != nil {
		return writeCheckoutError(c, err)
	}

	resp := fiber.Map{
		"orderId":       receipt.OrderID,
		"totalAmount":   receipt.TotalAmount,
		"paymentMethod": receipt.PaymentMethod,
	}
	if receipt.PaymentMethod.Online() {
		resp["paymentRef"] = receipt.PaymentRef
		resp["next"] = "/api/v1/payments/" + strconv.Itoa(receipt.OrderID)
	}
	return c.JSON(resp)
}

func (h *Handler) confirmPayment(c *fiber.Ctx) error {
	return h.resolve(c, true)
}

func (h *Handler) failPayment(c *fiber.Ctx) error {
	return h.resolve(c, false)
}

func (h *Handler) resolve(c *fiber.Ctx, paid bool) error {
	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orderID, err := strconv.Atoi(c.Params("orderID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	if err := h.service.ResolvePayment(c.Context(), orderID, paid); err != nil {
		return writeCheckoutError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// writeCheckoutError maps the error taxonomy onto HTTP responses with
// enough structure for the caller to render an actionable message.
func writeCheckoutError(c *fiber.Ctx, err error) error {
	var vErr *ValidationError
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Please fill in all required fields.",
			"field":   vErr.Field,
		})
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Your cart is empty.",
			"redirect": "/api/v1/cart",
		})
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   stockErr.Error(),
			"product":   stockErr.Product,
			"available": stockErr.Available,
		})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, order.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Order placement failed. Please try again.",
		})
	}
}
