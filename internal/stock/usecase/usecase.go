package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type stockUseCase struct {
	repo stock.Repository
	// reorderThreshold backs the low-stock filter; it is owned by external
	// configuration, not by the ledger.
	reorderThreshold decimal.Decimal
	logger           *zap.Logger
}

func NewStockUseCase(repo stock.Repository, reorderThreshold decimal.Decimal, log *zap.Logger) stock.UseCase {
	return &stockUseCase{
		repo:             repo,
		reorderThreshold: reorderThreshold,
		logger:           log,
	}
}

func (uc *stockUseCase) CreateOrUpdateStock(ctx context.Context, input *dto.UpsertStockInput) (*model.StockEntry, error) {
	if input.ProductID == "" || input.LocationID == "" {
		return nil, apperr.InvalidArgument("product id and location id are required")
	}
	if input.QuantityOnHand.IsNegative() {
		return nil, apperr.InvalidArgument("quantity on hand must not be negative")
	}
	if input.LotID != nil && *input.LotID == "" {
		return nil, apperr.InvalidArgument("lot id must not be empty when given")
	}

	entry, err := uc.repo.Upsert(ctx, input)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}

	uc.logger.Debug("stock upserted",
		zap.String("tenant_id", input.TenantID),
		zap.String("product_id", input.ProductID),
		zap.String("location_id", input.LocationID),
		zap.String("quantity_on_hand", entry.QuantityOnHand.String()),
	)
	return entry, nil
}

func (uc *stockUseCase) GetStock(ctx context.Context, filters *dto.StockFilters) ([]model.StockEntry, int, error) {
	if filters.LowStock {
		filters.Threshold = uc.reorderThreshold
	}

	entries, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return entries, count, nil
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	movements, count, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return movements, count, nil
}
