package iorderrepo

import (
	"context"
	"errors"

	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/shopspring/decimal"
)

// ErrStore marks store-level failures (connectivity, constraint
// violations). Such failures are retryable by broker redelivery.
var ErrStore = errors.New("order store failure")

// IOrderRepository is the interface for the order store.
type IOrderRepository interface {
	// Save inserts a new order record. It does not upsert or
	// deduplicate by order identifier.
	Save(ctx context.Context, record order.Record) error

	// FindByCustomer returns one zero-based page of the customer's
	// orders together with total counts. Row order is unspecified.
	FindByCustomer(
		ctx context.Context,
		customerID int64,
		pageNumber int,
		pageSize int,
	) (page.Page[order.Record], error)

	// SumTotalByCustomer aggregates the total field across all records
	// of the customer. A customer with no records yields zero.
	SumTotalByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error)
}
