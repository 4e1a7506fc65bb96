package ingestsvc

import (
	"context"
	"log/slog"

	"github.com/backend-labs/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"go.opentelemetry.io/otel"
)

// IngestService persists order-created events as order records.
type IngestService struct {
	orderRepo iorderrepo.IOrderRepository
}

// option is a function that configures the IngestService.
type option func(*IngestService)

// MustNewIngestService creates a new IngestService.
func MustNewIngestService(opts ...option) *IngestService {
	s := &IngestService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ingestsvc: order repository is not set")
	}

	return s
}

// WithOrderRepository sets the order repository for the IngestService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *IngestService) {
		s.orderRepo = orderRepo
	}
}

// ProcessOrderCreated converts the event into a record and hands it to
// the order store. Errors are never swallowed here: validation and store
// failures propagate to the transport, which signals the broker.
func (s *IngestService) ProcessOrderCreated(ctx context.Context, event order.CreatedEvent) error {
	ctx, span := otel.Tracer("service").Start(ctx, "IngestService.ProcessOrderCreated")
	defer span.End()

	record, err := event.ToRecord()
	if err != nil {
		slog.Error("Invalid order-created event", "error", err, "order_id", event.OrderID)

		return err
	}

	if err := s.orderRepo.Save(ctx, record); err != nil {
		slog.Error("Failed to save order", "error", err, "order_id", record.OrderID)

		return err
	}

	slog.Info("Order persisted",
		"order_id", record.OrderID,
		"customer_id", record.CustomerID,
		"total", record.Total.String())

	return nil
}
