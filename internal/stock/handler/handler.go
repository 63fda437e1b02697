package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/auth"
	"github.com/fluxpos/warehouse-service/internal/httpx"
	"github.com/fluxpos/warehouse-service/internal/stock"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type StockHandler struct {
	uc     stock.UseCase
	logger *zap.Logger
}

func NewStockHandler(uc stock.UseCase, log *zap.Logger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stock", h.UpsertStock).Methods(http.MethodPut)
	r.HandleFunc("/stock", h.GetStock).Methods(http.MethodGet)
	r.HandleFunc("/stock/movements", h.ListMovements).Methods(http.MethodGet)
}

func (h *StockHandler) UpsertStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID      string          `json:"product_id"`
		LocationID     string          `json:"location_id"`
		LotID          *string         `json:"lot_id"`
		QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
		Notes          string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	entry, err := h.uc.CreateOrUpdateStock(r.Context(), &dto.UpsertStockInput{
		TenantID:       auth.GetTenantID(r.Context()),
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		LotID:          req.LotID,
		QuantityOnHand: req.QuantityOnHand,
		Notes:          req.Notes,
		UserID:         auth.GetUserID(r.Context()),
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entry)
}

func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)
	q := r.URL.Query()

	filters := &dto.StockFilters{
		TenantID:   auth.GetTenantID(r.Context()),
		ProductID:  q.Get("product_id"),
		LocationID: q.Get("location_id"),
		LowStock:   q.Get("low_stock") == "true",
		Page:       page,
		PageSize:   pageSize,
	}
	if q.Has("lot_id") {
		lotID := q.Get("lot_id")
		filters.LotID = &lotID
	}

	items, total, err := h.uc.GetStock(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}

func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)
	q := r.URL.Query()

	items, total, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		TenantID:     auth.GetTenantID(r.Context()),
		ProductID:    q.Get("product_id"),
		LocationID:   q.Get("location_id"),
		MovementType: q.Get("movement_type"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}
