package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem represents a single position within an order.
type LineItem struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Record represents a persisted order. It is created once from an
// order-created event and never mutated afterwards.
type Record struct {
	ID         int64           `json:"id"`
	OrderID    string          `json:"orderId"`
	CustomerID int64           `json:"customerId"`
	Items      []LineItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
}
