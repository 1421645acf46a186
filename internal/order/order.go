package order

import "errors"

var (
	ErrNotFound = errors.New("order not found")
)

// Status is the fulfilment state of an order. Orders are never deleted;
// cancellation is a status transition.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks payment settlement separately from fulfilment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order represents a purchase made by a user.
type Order struct {
	OrderID         int           `json:"orderId"`
	UserID          int           `json:"userId"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          Status        `json:"status"`
	ShippingAddress string        `json:"shippingAddress"`
	Phone           string        `json:"phone"`
	PaymentMethod   string        `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentRef      string        `json:"paymentRef,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	Lines           []Line        `json:"items,omitempty"`
}

// Line is one ordered product. Price is captured at order time and never
// recomputed from later catalog changes.
type Line struct {
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
