package querysvc_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/backend-labs/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/backend-labs/orderms/internal/service/services/querysvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOrderRepository is an in-memory stand-in for the Postgres order
// repository, honoring the same contract.
type memOrderRepository struct {
	records []order.Record
	findErr error
	sumErr  error
}

func (m *memOrderRepository) Save(_ context.Context, record order.Record) error {
	m.records = append(m.records, record)

	return nil
}

func (m *memOrderRepository) FindByCustomer(
	_ context.Context,
	customerID int64,
	pageNumber int,
	pageSize int,
) (page.Page[order.Record], error) {
	if m.findErr != nil {
		return page.Page[order.Record]{}, m.findErr
	}

	if err := page.Validate(pageNumber, pageSize); err != nil {
		return page.Page[order.Record]{}, err
	}

	var matched []order.Record
	for _, r := range m.records {
		if r.CustomerID == customerID {
			matched = append(matched, r)
		}
	}

	start := pageNumber * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return page.New(matched[start:end], pageNumber, pageSize, int64(len(matched))), nil
}

func (m *memOrderRepository) SumTotalByCustomer(
	_ context.Context,
	customerID int64,
) (decimal.Decimal, error) {
	if m.sumErr != nil {
		return decimal.Zero, m.sumErr
	}

	sum := decimal.Zero
	for _, r := range m.records {
		if r.CustomerID == customerID {
			sum = sum.Add(r.Total)
		}
	}

	return sum, nil
}

func newService(repo iorderrepo.IOrderRepository) *querysvc.QueryService {
	return querysvc.MustNewQueryService(querysvc.WithOrderRepository(repo))
}

func seedOrders(repo *memOrderRepository, customerID int64, n int, total string) {
	for i := 0; i < n; i++ {
		repo.records = append(repo.records, order.Record{
			OrderID:    fmt.Sprintf("ORD-%d", i),
			CustomerID: customerID,
			Items: []order.LineItem{
				{Product: "p1", Quantity: 1, Price: decimal.RequireFromString(total)},
			},
			Total: decimal.RequireFromString(total),
		})
	}
}

func TestListOrders_Pagination(t *testing.T) {
	repo := &memOrderRepository{}
	seedOrders(repo, 42, 25, "1.00")
	svc := newService(repo)

	first, err := svc.ListOrders(context.Background(), 42, 0, 10)
	require.NoError(t, err)
	assert.Len(t, first.Content, 10)
	assert.Equal(t, int64(25), first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)

	last, err := svc.ListOrders(context.Background(), 42, 2, 10)
	require.NoError(t, err)
	assert.Len(t, last.Content, 5)
	assert.Equal(t, 2, last.Number)
}

func TestListOrders_Projection(t *testing.T) {
	repo := &memOrderRepository{}
	repo.records = append(repo.records, order.Record{
		ID:         1,
		OrderID:    "A1",
		CustomerID: 42,
		Items: []order.LineItem{
			{Product: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{Product: "p2", Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
		Total: decimal.RequireFromString("25.50"),
	})
	svc := newService(repo)

	result, err := svc.ListOrders(context.Background(), 42, 0, 10)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	resp := result.Content[0]
	assert.Equal(t, "A1", resp.OrderID)
	assert.Equal(t, int64(42), resp.CustomerID)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("25.50")))
}

func TestListOrders_InvalidPageParams(t *testing.T) {
	svc := newService(&memOrderRepository{})

	_, err := svc.ListOrders(context.Background(), 42, -1, 10)
	assert.ErrorIs(t, err, page.ErrInvalidPage)

	_, err = svc.ListOrders(context.Background(), 42, 0, 0)
	assert.ErrorIs(t, err, page.ErrInvalidPage)
}

func TestListOrders_StoreErrorPropagates(t *testing.T) {
	storeErr := fmt.Errorf("%w: connection refused", iorderrepo.ErrStore)
	svc := newService(&memOrderRepository{findErr: storeErr})

	_, err := svc.ListOrders(context.Background(), 42, 0, 10)
	assert.ErrorIs(t, err, iorderrepo.ErrStore)
}

func TestTotalSpend_EmptyCustomerYieldsZero(t *testing.T) {
	repo := &memOrderRepository{}
	seedOrders(repo, 42, 3, "9.99")
	svc := newService(repo)

	total, err := svc.TotalSpend(context.Background(), 999)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTotalSpend_MatchesSumOfSavedTotals(t *testing.T) {
	repo := &memOrderRepository{}
	seedOrders(repo, 42, 7, "3.33")
	seedOrders(repo, 43, 2, "100.00")
	svc := newService(repo)

	total, err := svc.TotalSpend(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("23.31")),
		"total = %s", total)
}

func TestTotalSpend_StoreErrorPropagates(t *testing.T) {
	storeErr := fmt.Errorf("%w: timeout", iorderrepo.ErrStore)
	svc := newService(&memOrderRepository{sumErr: storeErr})

	_, err := svc.TotalSpend(context.Background(), 42)
	assert.ErrorIs(t, err, iorderrepo.ErrStore)
}
