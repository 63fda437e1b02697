// Package httpx holds the response helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps the core error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is logged and surfaced as an opaque 500.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidStateTransition, apperr.KindLotBlocked:
		status = http.StatusConflict
	case apperr.KindInvalidArgument:
		status = http.StatusBadRequest
	default:
		logger.Error("unhandled error", zap.Error(err))
		WriteJSON(w, http.StatusInternalServerError, errorBody{Code: "Internal", Message: "internal error"})
		return
	}

	WriteJSON(w, status, errorBody{Code: apperr.CodeOf(err), Message: err.Error()})
}

// Pagination reads page/page_size query parameters with sane bounds.
func Pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return page, pageSize
}

type Page struct {
	Items any `json:"items"`
	Total int `json:"total"`
}
