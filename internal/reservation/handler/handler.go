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
	"github.com/fluxpos/warehouse-service/internal/reservation"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type ReservationHandler struct {
	uc     reservation.UseCase
	logger *zap.Logger
}

func NewReservationHandler(uc reservation.UseCase, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReservationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stock/reserve", h.Reserve).Methods(http.MethodPost)
	r.HandleFunc("/stock/release", h.Release).Methods(http.MethodPost)
}

type reservationRequest struct {
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	LotID         *string         `json:"lot_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	entry, err := h.uc.ReserveStock(r.Context(), &dto.ReserveStockInput{
		TenantID:      auth.GetTenantID(r.Context()),
		ProductID:     req.ProductID,
		LocationID:    req.LocationID,
		LotID:         req.LotID,
		Quantity:      req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		UserID:        auth.GetUserID(r.Context()),
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entry)
}

func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	entry, err := h.uc.ReleaseStock(r.Context(), &dto.ReleaseStockInput{
		TenantID:      auth.GetTenantID(r.Context()),
		ProductID:     req.ProductID,
		LocationID:    req.LocationID,
		LotID:         req.LotID,
		Quantity:      req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		UserID:        auth.GetUserID(r.Context()),
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entry)
}
