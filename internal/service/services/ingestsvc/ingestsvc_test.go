package ingestsvc_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/backend-labs/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/backend-labs/orderms/internal/service/services/ingestsvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingRepository struct {
	saved   []order.Record
	saveErr error
}

func (c *capturingRepository) Save(_ context.Context, record order.Record) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saved = append(c.saved, record)

	return nil
}

func (c *capturingRepository) FindByCustomer(
	_ context.Context, _ int64, _, _ int,
) (page.Page[order.Record], error) {
	panic("not used")
}

func (c *capturingRepository) SumTotalByCustomer(
	_ context.Context, _ int64,
) (decimal.Decimal, error) {
	panic("not used")
}

func TestProcessOrderCreated_PersistsRecordWithComputedTotal(t *testing.T) {
	repo := &capturingRepository{}
	svc := ingestsvc.MustNewIngestService(ingestsvc.WithOrderRepository(repo))

	event := order.CreatedEvent{
		OrderID:    "A1",
		CustomerID: 42,
		Items: []order.LineItem{
			{Product: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{Product: "p2", Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
	}

	err := svc.ProcessOrderCreated(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	record := repo.saved[0]
	assert.Equal(t, "A1", record.OrderID)
	assert.Equal(t, int64(42), record.CustomerID)
	assert.True(t, record.Total.Equal(decimal.RequireFromString("25.50")),
		"total = %s", record.Total)
}

func TestProcessOrderCreated_InvalidEventNotPersisted(t *testing.T) {
	repo := &capturingRepository{}
	svc := ingestsvc.MustNewIngestService(ingestsvc.WithOrderRepository(repo))

	event := order.CreatedEvent{
		OrderID:    "A2",
		CustomerID: 42,
		Items: []order.LineItem{
			{Product: "p1", Quantity: -2, Price: decimal.RequireFromString("10.00")},
		},
	}

	err := svc.ProcessOrderCreated(context.Background(), event)
	assert.ErrorIs(t, err, order.ErrNegativeQuantity)
	assert.Empty(t, repo.saved)
}

func TestProcessOrderCreated_StoreFailurePropagates(t *testing.T) {
	storeErr := fmt.Errorf("%w: connection refused", iorderrepo.ErrStore)
	repo := &capturingRepository{saveErr: storeErr}
	svc := ingestsvc.MustNewIngestService(ingestsvc.WithOrderRepository(repo))

	event := order.CreatedEvent{OrderID: "A3", CustomerID: 42}

	err := svc.ProcessOrderCreated(context.Background(), event)
	assert.ErrorIs(t, err, iorderrepo.ErrStore)
	assert.Empty(t, repo.saved)
}
