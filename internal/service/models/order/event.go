package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedEvent is returned when an inbound payload cannot be
	// decoded into an order-created event.
	ErrMalformedEvent = errors.New("malformed order-created event")

	// ErrNegativeQuantity is returned when an event item carries a
	// negative quantity.
	ErrNegativeQuantity = errors.New("negative item quantity")
)

// CreatedEvent represents an order-created message received from RabbitMQ.
type CreatedEvent struct {
	OrderID    string     `json:"orderId"`
	CustomerID int64      `json:"customerId"`
	Items      []LineItem `json:"items"`
}

// DecodeCreatedEvent decodes the raw message body into a CreatedEvent.
// Payloads that are not valid JSON or lack the order or customer
// identifier fail with ErrMalformedEvent.
func DecodeCreatedEvent(payload []byte) (CreatedEvent, error) {
	var raw struct {
		OrderID    *string    `json:"orderId"`
		CustomerID *int64     `json:"customerId"`
		Items      []LineItem `json:"items"`
	}

	if err := json.Unmarshal(payload, &raw); err != nil {
		return CreatedEvent{}, fmt.Errorf("%w: %s", ErrMalformedEvent, err)
	}

	if raw.OrderID == nil || *raw.OrderID == "" {
		return CreatedEvent{}, fmt.Errorf("%w: missing orderId", ErrMalformedEvent)
	}
	if raw.CustomerID == nil {
		return CreatedEvent{}, fmt.Errorf("%w: missing customerId", ErrMalformedEvent)
	}

	return CreatedEvent{
		OrderID:    *raw.OrderID,
		CustomerID: *raw.CustomerID,
		Items:      raw.Items,
	}, nil
}

// ToRecord builds the Record persisted for this event. The total is the
// exact decimal sum of price*quantity over all items; an empty item list
// yields a zero total. Items with a negative quantity fail with
// ErrNegativeQuantity.
func (e CreatedEvent) ToRecord() (Record, error) {
	items := make([]LineItem, len(e.Items))
	total := decimal.Zero

	for i, item := range e.Items {
		if item.Quantity < 0 {
			return Record{}, fmt.Errorf(
				"%w: item %q has quantity %d",
				ErrNegativeQuantity, item.Product, item.Quantity,
			)
		}

		items[i] = item
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return Record{
		OrderID:    e.OrderID,
		CustomerID: e.CustomerID,
		Items:      items,
		Total:      total,
		CreatedAt:  time.Now(),
	}, nil
}
