package listorders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/backend-labs/orderms/internal/service/models/page"
	"github.com/backend-labs/orderms/internal/service/services/querysvc"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultPage     = 0
	defaultPageSize = 10
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, customerID int64, pageNumber, pageSize int) (page.Page[querysvc.OrderResponse], error)
	TotalSpend(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

type summary struct {
	TotalOnOrders decimal.Decimal `json:"totalOnOrders"`
}

type pagination struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

type response struct {
	Summary    summary                  `json:"summary"`
	Pagination pagination               `json:"pagination"`
	Data       []querysvc.OrderResponse `json:"data"`
}

// ListOrders handles the paginated list-orders request for a customer.
// The response carries the page data together with the aggregated total
// spend of the customer.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)

		return
	}

	pageNumber := defaultPage
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if pageNumber, err = strconv.Atoi(pageStr); err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)

			return
		}
	}

	pageSize := defaultPageSize
	if sizeStr := r.URL.Query().Get("pageSize"); sizeStr != "" {
		if pageSize, err = strconv.Atoi(sizeStr); err != nil {
			http.Error(w, "invalid pageSize", http.StatusBadRequest)

			return
		}
	}

	orders, err := service.ListOrders(r.Context(), customerID, pageNumber, pageSize)
	if err != nil {
		if errors.Is(err, page.ErrInvalidPage) {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing orders", "error", err, "customer_id", customerID)

		return
	}

	total, err := service.TotalSpend(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error aggregating total spend", "error", err, "customer_id", customerID)

		return
	}

	resp := response{
		Summary: summary{TotalOnOrders: total},
		Pagination: pagination{
			Page:          orders.Number,
			PageSize:      orders.Size,
			TotalElements: orders.TotalElements,
			TotalPages:    orders.TotalPages,
		},
		Data: orders.Content,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error writing response for list orders", "error", err)
	}
}
