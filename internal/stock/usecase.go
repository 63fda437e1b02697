package stock

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type UseCase interface {
	CreateOrUpdateStock(ctx context.Context, input *dto.UpsertStockInput) (*model.StockEntry, error)
	GetStock(ctx context.Context, filters *dto.StockFilters) ([]model.StockEntry, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
