package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/reservation"
	"github.com/fluxpos/warehouse-service/internal/stock"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type reservationUseCase struct {
	stockRepo stock.Repository
	logger    *zap.Logger
}

func NewReservationUseCase(stockRepo stock.Repository, log *zap.Logger) reservation.UseCase {
	return &reservationUseCase{
		stockRepo: stockRepo,
		logger:    log,
	}
}

func (uc *reservationUseCase) ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.StockEntry, error) {
	if err := validate(input.ProductID, input.LocationID, input.LotID); err != nil {
		return nil, err
	}
	if !input.Quantity.IsPositive() {
		return nil, apperr.InvalidArgument("reservation quantity must be positive")
	}

	entry, err := uc.stockRepo.Reserve(ctx, input)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound, apperr.KindConflict, apperr.KindLotBlocked:
			return nil, err
		}
		return nil, apperr.Internal(err)
	}

	uc.logger.Info("stock reserved",
		zap.String("tenant_id", input.TenantID),
		zap.String("product_id", input.ProductID),
		zap.String("location_id", input.LocationID),
		zap.String("quantity", input.Quantity.String()),
		zap.String("reference_id", input.ReferenceID),
	)
	return entry, nil
}

func (uc *reservationUseCase) ReleaseStock(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockEntry, error) {
	if err := validate(input.ProductID, input.LocationID, input.LotID); err != nil {
		return nil, err
	}
	if !input.Quantity.IsPositive() {
		return nil, apperr.InvalidArgument("release quantity must be positive")
	}

	entry, err := uc.stockRepo.Release(ctx, input)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound, apperr.KindConflict:
			return nil, err
		}
		return nil, apperr.Internal(err)
	}

	uc.logger.Info("stock released",
		zap.String("tenant_id", input.TenantID),
		zap.String("product_id", input.ProductID),
		zap.String("location_id", input.LocationID),
		zap.String("quantity", input.Quantity.String()),
		zap.String("reference_id", input.ReferenceID),
	)
	return entry, nil
}

func validate(productID, locationID string, lotID *string) error {
	if productID == "" || locationID == "" {
		return apperr.InvalidArgument("product id and location id are required")
	}
	if lotID != nil && *lotID == "" {
		return apperr.InvalidArgument("lot id must not be empty when given")
	}
	return nil
}
