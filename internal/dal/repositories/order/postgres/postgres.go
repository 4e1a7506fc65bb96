package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/backend-labs/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/backend-labs/orderms/internal/dal/postgres"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/shopspring/decimal"
)

// OrderRepository implements the order store for PostgreSQL. Line items
// are held as a JSONB document column, totals as NUMERIC.
type OrderRepository struct {
	pgClient *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(pgClient *postgres.Client) *OrderRepository {
	return &OrderRepository{
		pgClient: pgClient,
	}
}

// Save inserts a new order record. No upsert and no deduplication by
// order identifier: a redelivered event produces a second row.
func (r *OrderRepository) Save(ctx context.Context, record order.Record) error {
	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query, args, err := sq.Insert("orders").
		Columns(
			"order_id",
			"customer_id",
			"items",
			"total",
			"created_at",
		).
		Values(
			record.OrderID,
			record.CustomerID,
			items,
			sq.Expr("?::numeric", record.Total.String()),
			record.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order insert query: %w", err)
	}

	if _, err := r.pgClient.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: failed to insert order: %v", iorderrepo.ErrStore, err)
	}

	return nil
}

// FindByCustomer returns one zero-based page of the customer's orders
// with total counts. Row order within a page is unspecified.
func (r *OrderRepository) FindByCustomer(
	ctx context.Context,
	customerID int64,
	pageNumber int,
	pageSize int,
) (page.Page[order.Record], error) {
	if err := page.Validate(pageNumber, pageSize); err != nil {
		return page.Page[order.Record]{}, err
	}

	total, err := r.countByCustomer(ctx, customerID)
	if err != nil {
		return page.Page[order.Record]{}, err
	}

	query, args, err := sq.Select(
		"id",
		"order_id",
		"customer_id",
		"items",
		"total::text",
		"created_at",
	).
		From("orders").
		Where(sq.Eq{"customer_id": customerID}).
		Limit(uint64(pageSize)).
		Offset(uint64(pageNumber) * uint64(pageSize)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return page.Page[order.Record]{}, fmt.Errorf("failed to build orders select query: %w", err)
	}

	rows, err := r.pgClient.Pool().Query(ctx, query, args...)
	if err != nil {
		return page.Page[order.Record]{}, fmt.Errorf("%w: failed to query orders: %v", iorderrepo.ErrStore, err)
	}
	defer rows.Close()

	records := make([]order.Record, 0, pageSize)
	for rows.Next() {
		var (
			record    order.Record
			itemsJSON []byte
			totalText string
		)

		if err := rows.Scan(
			&record.ID,
			&record.OrderID,
			&record.CustomerID,
			&itemsJSON,
			&totalText,
			&record.CreatedAt,
		); err != nil {
			return page.Page[order.Record]{}, fmt.Errorf("%w: failed to scan order: %v", iorderrepo.ErrStore, err)
		}

		if err := json.Unmarshal(itemsJSON, &record.Items); err != nil {
			return page.Page[order.Record]{}, fmt.Errorf("failed to unmarshal order items: %w", err)
		}

		record.Total, err = decimal.NewFromString(totalText)
		if err != nil {
			return page.Page[order.Record]{}, fmt.Errorf("failed to parse order total: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return page.Page[order.Record]{}, fmt.Errorf("%w: error iterating orders: %v", iorderrepo.ErrStore, err)
	}

	return page.New(records, pageNumber, pageSize, total), nil
}

// SumTotalByCustomer aggregates the total column across all records of
// the customer (match by customer_id, then sum). COALESCE keeps a
// customer with no records at zero instead of a NULL result.
func (r *OrderRepository) SumTotalByCustomer(
	ctx context.Context,
	customerID int64,
) (decimal.Decimal, error) {
	query, args, err := sq.Select("COALESCE(SUM(total), 0)::text").
		From("orders").
		Where(sq.Eq{"customer_id": customerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build sum query: %w", err)
	}

	var sumText string
	if err := r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&sumText); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to sum order totals: %v", iorderrepo.ErrStore, err)
	}

	sum, err := decimal.NewFromString(sumText)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse order totals sum: %w", err)
	}

	return sum, nil
}

func (r *OrderRepository) countByCustomer(ctx context.Context, customerID int64) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("orders").
		Where(sq.Eq{"customer_id": customerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count orders: %v", iorderrepo.ErrStore, err)
	}

	return count, nil
}
