package querysvc

import (
	"context"

	"github.com/backend-labs/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

// OrderResponse is the read projection of a persisted order record.
type OrderResponse struct {
	OrderID    string           `json:"orderId"`
	CustomerID int64            `json:"customerId"`
	Items      []order.LineItem `json:"items"`
	Total      decimal.Decimal  `json:"total"`
}

// QueryService serves the read paths over the order store.
type QueryService struct {
	orderRepo iorderrepo.IOrderRepository
}

// option is a function that configures the QueryService.
type option func(*QueryService)

// MustNewQueryService creates a new QueryService.
func MustNewQueryService(opts ...option) *QueryService {
	s := &QueryService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("querysvc: order repository is not set")
	}

	return s
}

// WithOrderRepository sets the order repository for the QueryService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *QueryService) {
		s.orderRepo = orderRepo
	}
}

// ListOrders returns one page of the customer's orders projected to
// OrderResponse. Store failures propagate unchanged.
func (s *QueryService) ListOrders(
	ctx context.Context,
	customerID int64,
	pageNumber int,
	pageSize int,
) (page.Page[OrderResponse], error) {
	ctx, span := otel.Tracer("service").Start(ctx, "QueryService.ListOrders")
	defer span.End()

	records, err := s.orderRepo.FindByCustomer(ctx, customerID, pageNumber, pageSize)
	if err != nil {
		return page.Page[OrderResponse]{}, err
	}

	return page.Map(records, func(r order.Record) OrderResponse {
		return OrderResponse{
			OrderID:    r.OrderID,
			CustomerID: r.CustomerID,
			Items:      r.Items,
			Total:      r.Total,
		}
	}), nil
}

// TotalSpend returns the aggregated total of all the customer's orders.
// A customer without orders yields zero, not an error.
func (s *QueryService) TotalSpend(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "QueryService.TotalSpend")
	defer span.End()

	return s.orderRepo.SumTotalByCustomer(ctx, customerID)
}
