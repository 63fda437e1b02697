package lot

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/lot/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

type UseCase interface {
	CreateLot(ctx context.Context, input *dto.CreateLotInput) (*model.Lot, error)
	GetLot(ctx context.Context, tenantID, id string) (*model.Lot, error)
	GetLotByCode(ctx context.Context, tenantID, productID, code string) (*model.Lot, error)
	ListLots(ctx context.Context, filters *dto.LotFilters) ([]model.Lot, int, error)
	GetExpiringLots(ctx context.Context, tenantID string, daysAhead int) ([]model.Lot, error)
	UpdateLot(ctx context.Context, input *dto.UpdateLotInput) (*model.Lot, error)
	DeleteLot(ctx context.Context, tenantID, id string) error
	UpdateQualityStatus(ctx context.Context, input *dto.UpdateQualityInput) (*model.Lot, error)
	BlockLot(ctx context.Context, input *dto.BlockLotInput) (*model.Lot, error)
	UnblockLot(ctx context.Context, tenantID, id string) (*model.Lot, error)
}
