package lot

import (
	"context"
	"time"

	"github.com/fluxpos/warehouse-service/internal/lot/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, l *model.Lot) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Lot, error)
	FindByCode(ctx context.Context, tenantID, productID, code string) (*model.Lot, error)
	FindAll(ctx context.Context, filters *dto.LotFilters) ([]model.Lot, int, error)

	// FindExpiring returns lots whose expiry date falls on or before the cutoff,
	// recomputed from storage on every call.
	FindExpiring(ctx context.Context, tenantID string, before time.Time) ([]model.Lot, error)

	Update(ctx context.Context, l *model.Lot) error

	// DeleteGuarded soft-deletes the lot inside one transaction, failing with
	// LotInUse while stock or non-scrapped serials still reference it.
	DeleteGuarded(ctx context.Context, tenantID, id string) error
}
