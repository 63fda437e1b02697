package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/auth"
	"github.com/fluxpos/warehouse-service/internal/httpx"
	"github.com/fluxpos/warehouse-service/internal/serial"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

type SerialHandler struct {
	uc     serial.UseCase
	logger *zap.Logger
}

func NewSerialHandler(uc serial.UseCase, log *zap.Logger) *SerialHandler {
	return &SerialHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SerialHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/serials", h.CreateSerial).Methods(http.MethodPost)
	r.HandleFunc("/serials", h.ListSerials).Methods(http.MethodGet)
	r.HandleFunc("/serials/{id}", h.GetSerial).Methods(http.MethodGet)
	r.HandleFunc("/serials/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
}

func (h *SerialHandler) CreateSerial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID  string  `json:"product_id"`
		LotID      *string `json:"lot_id"`
		LocationID *string `json:"location_id"`
		SerialCode string  `json:"serial_code"`
		Notes      *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	s, err := h.uc.CreateSerial(r.Context(), &dto.CreateSerialInput{
		TenantID:   auth.GetTenantID(r.Context()),
		ProductID:  req.ProductID,
		LotID:      req.LotID,
		LocationID: req.LocationID,
		SerialCode: req.SerialCode,
		Notes:      req.Notes,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, s)
}

func (h *SerialHandler) ListSerials(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)
	q := r.URL.Query()

	items, total, err := h.uc.ListSerials(r.Context(), &dto.SerialFilters{
		TenantID:   auth.GetTenantID(r.Context()),
		ProductID:  q.Get("product_id"),
		LotID:      q.Get("lot_id"),
		LocationID: q.Get("location_id"),
		Status:     q.Get("status"),
		SearchTerm: q.Get("search"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}

func (h *SerialHandler) GetSerial(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSerial(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

func (h *SerialHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	s, err := h.uc.UpdateSerialStatus(r.Context(), &dto.UpdateSerialStatusInput{
		TenantID: auth.GetTenantID(r.Context()),
		ID:       mux.Vars(r)["id"],
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
