package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/auth"
	"github.com/fluxpos/warehouse-service/internal/httpx"
	"github.com/fluxpos/warehouse-service/internal/lot"
	"github.com/fluxpos/warehouse-service/internal/lot/dto"
)

type LotHandler struct {
	uc     lot.UseCase
	logger *zap.Logger
}

func NewLotHandler(uc lot.UseCase, log *zap.Logger) *LotHandler {
	return &LotHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LotHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/lots", h.CreateLot).Methods(http.MethodPost)
	r.HandleFunc("/lots", h.ListLots).Methods(http.MethodGet)
	r.HandleFunc("/lots/expiring", h.ExpiringLots).Methods(http.MethodGet)
	r.HandleFunc("/lots/by-code", h.GetLotByCode).Methods(http.MethodGet)
	r.HandleFunc("/lots/{id}", h.GetLot).Methods(http.MethodGet)
	r.HandleFunc("/lots/{id}", h.UpdateLot).Methods(http.MethodPut)
	r.HandleFunc("/lots/{id}", h.DeleteLot).Methods(http.MethodDelete)
	r.HandleFunc("/lots/{id}/quality", h.UpdateQuality).Methods(http.MethodPut)
	r.HandleFunc("/lots/{id}/block", h.BlockLot).Methods(http.MethodPost)
	r.HandleFunc("/lots/{id}/unblock", h.UnblockLot).Methods(http.MethodPost)
}

type lotRequest struct {
	ProductID       string     `json:"product_id"`
	Code            string     `json:"code"`
	ManufactureDate time.Time  `json:"manufacture_date"`
	ExpiryDate      *time.Time `json:"expiry_date"`
}

func (h *LotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req lotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.CreateLot(r.Context(), &dto.CreateLotInput{
		TenantID:        auth.GetTenantID(r.Context()),
		ProductID:       req.ProductID,
		Code:            req.Code,
		ManufactureDate: req.ManufactureDate,
		ExpiryDate:      req.ExpiryDate,
		CreatedBy:       auth.GetUserID(r.Context()),
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, l)
}

func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)

	filters := &dto.LotFilters{
		TenantID:  auth.GetTenantID(r.Context()),
		ProductID: r.URL.Query().Get("product_id"),
		Page:      page,
		PageSize:  pageSize,
	}
	if v := r.URL.Query().Get("blocked"); v != "" {
		blocked := v == "true"
		filters.Blocked = &blocked
	}

	items, total, err := h.uc.ListLots(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}

func (h *LotHandler) ExpiringLots(w http.ResponseWriter, r *http.Request) {
	daysAhead := 30
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			httpx.WriteError(w, h.logger, apperr.InvalidArgument("days_ahead must be an integer"))
			return
		}
		daysAhead = parsed
	}

	lots, err := h.uc.GetExpiringLots(r.Context(), auth.GetTenantID(r.Context()), daysAhead)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, lots)
}

func (h *LotHandler) GetLotByCode(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	code := r.URL.Query().Get("code")
	if productID == "" || code == "" {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("product_id and code are required"))
		return
	}

	l, err := h.uc.GetLotByCode(r.Context(), auth.GetTenantID(r.Context()), productID, code)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LotHandler) GetLot(w http.ResponseWriter, r *http.Request) {
	l, err := h.uc.GetLot(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	var req lotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.UpdateLot(r.Context(), &dto.UpdateLotInput{
		TenantID:        auth.GetTenantID(r.Context()),
		ID:              mux.Vars(r)["id"],
		Code:            req.Code,
		ManufactureDate: req.ManufactureDate,
		ExpiryDate:      req.ExpiryDate,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LotHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteLot(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"]); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LotHandler) UpdateQuality(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.UpdateQualityStatus(r.Context(), &dto.UpdateQualityInput{
		TenantID: auth.GetTenantID(r.Context()),
		ID:       mux.Vars(r)["id"],
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LotHandler) BlockLot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.BlockLot(r.Context(), &dto.BlockLotInput{
		TenantID:  auth.GetTenantID(r.Context()),
		ID:        mux.Vars(r)["id"],
		Reason:    req.Reason,
		BlockedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LotHandler) UnblockLot(w http.ResponseWriter, r *http.Request) {
	l, err := h.uc.UnblockLot(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}
