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
	"github.com/fluxpos/warehouse-service/internal/location"
	"github.com/fluxpos/warehouse-service/internal/location/dto"
)

type LocationHandler struct {
	uc     location.UseCase
	logger *zap.Logger
}

func NewLocationHandler(uc location.UseCase, log *zap.Logger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LocationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/facilities", h.CreateFacility).Methods(http.MethodPost)
	r.HandleFunc("/facilities", h.ListFacilities).Methods(http.MethodGet)
	r.HandleFunc("/facilities/{id}", h.GetFacility).Methods(http.MethodGet)
	r.HandleFunc("/facilities/{id}", h.UpdateFacility).Methods(http.MethodPut)
	r.HandleFunc("/facilities/{id}", h.ArchiveFacility).Methods(http.MethodDelete)

	r.HandleFunc("/locations", h.CreateLocation).Methods(http.MethodPost)
	r.HandleFunc("/locations", h.ListLocations).Methods(http.MethodGet)
	r.HandleFunc("/locations/{id}", h.GetLocation).Methods(http.MethodGet)
	r.HandleFunc("/locations/{id}", h.UpdateLocation).Methods(http.MethodPut)
	r.HandleFunc("/locations/{id}", h.ArchiveLocation).Methods(http.MethodDelete)
}

type facilityRequest struct {
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

type locationRequest struct {
	FacilityID string           `json:"facility_id"`
	Code       string           `json:"code"`
	Capacity   *decimal.Decimal `json:"capacity"`
}

func (h *LocationHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	var req facilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	f, err := h.uc.CreateFacility(r.Context(), &dto.CreateFacilityInput{
		TenantID: auth.GetTenantID(r.Context()),
		Name:     req.Name,
		Address:  req.Address,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, f)
}

func (h *LocationHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)

	filters := &dto.FacilityFilters{
		TenantID: auth.GetTenantID(r.Context()),
		Page:     page,
		PageSize: pageSize,
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	items, total, err := h.uc.ListFacilities(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}

func (h *LocationHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	f, err := h.uc.GetFacility(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}

func (h *LocationHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	var req facilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	f, err := h.uc.UpdateFacility(r.Context(), &dto.UpdateFacilityInput{
		TenantID: auth.GetTenantID(r.Context()),
		ID:       mux.Vars(r)["id"],
		Name:     req.Name,
		Address:  req.Address,
		IsActive: isActive,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}

func (h *LocationHandler) ArchiveFacility(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.ArchiveFacility(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"]); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.CreateLocation(r.Context(), &dto.CreateLocationInput{
		TenantID:   auth.GetTenantID(r.Context()),
		FacilityID: req.FacilityID,
		Code:       req.Code,
		Capacity:   req.Capacity,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, l)
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r)

	items, total, err := h.uc.ListLocations(r.Context(), &dto.LocationFilters{
		TenantID:   auth.GetTenantID(r.Context()),
		FacilityID: r.URL.Query().Get("facility_id"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Page{Items: items, Total: total})
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	l, err := h.uc.GetLocation(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, apperr.InvalidArgument("invalid request body"))
		return
	}

	l, err := h.uc.UpdateLocation(r.Context(), &dto.UpdateLocationInput{
		TenantID: auth.GetTenantID(r.Context()),
		ID:       mux.Vars(r)["id"],
		Code:     req.Code,
		Capacity: req.Capacity,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LocationHandler) ArchiveLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.ArchiveLocation(r.Context(), auth.GetTenantID(r.Context()), mux.Vars(r)["id"]); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
