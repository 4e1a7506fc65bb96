package totalspend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	TotalSpend(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

type response struct {
	CustomerID int64           `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
}

// TotalSpend handles the aggregated total-spend request for a customer.
func TotalSpend(w http.ResponseWriter, r *http.Request, service service) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)

		return
	}

	total, err := service.TotalSpend(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error aggregating total spend", "error", err, "customer_id", customerID)

		return
	}

	resp := response{
		CustomerID: customerID,
		Total:      total,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error writing response for total spend", "error", err)
	}
}
