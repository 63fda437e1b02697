package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/serial"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

type serialUseCase struct {
	repo   serial.Repository
	logger *zap.Logger
}

func NewSerialUseCase(repo serial.Repository, log *zap.Logger) serial.UseCase {
	return &serialUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *serialUseCase) CreateSerial(ctx context.Context, input *dto.CreateSerialInput) (*model.Serial, error) {
	if input.ProductID == "" {
		return nil, apperr.InvalidArgument("product id is required")
	}
	if strings.TrimSpace(input.SerialCode) == "" {
		return nil, apperr.InvalidArgument("serial code is required")
	}

	existing, err := uc.repo.FindByCode(ctx, input.TenantID, input.ProductID, input.SerialCode)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicateSerialCode, "serial code %q already exists for this product", input.SerialCode)
	}

	now := time.Now().UTC()
	s := &model.Serial{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:   input.TenantID,
		ProductID:  input.ProductID,
		LotID:      input.LotID,
		LocationID: input.LocationID,
		SerialCode: input.SerialCode,
		Status:     model.SerialInStock,
		Notes:      input.Notes,
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return s, nil
}

func (uc *serialUseCase) GetSerial(ctx context.Context, tenantID, id string) (*model.Serial, error) {
	s, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if s == nil {
		return nil, apperr.NotFound("serial", id)
	}
	return s, nil
}

func (uc *serialUseCase) ListSerials(ctx context.Context, filters *dto.SerialFilters) ([]model.Serial, int, error) {
	if filters.Status != "" {
		if _, err := model.ParseSerialStatus(filters.Status); err != nil {
			return nil, 0, err
		}
	}

	serials, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return serials, count, nil
}

func (uc *serialUseCase) UpdateSerialStatus(ctx context.Context, input *dto.UpdateSerialStatusInput) (*model.Serial, error) {
	next, err := model.ParseSerialStatus(input.Status)
	if err != nil {
		return nil, err
	}

	s, err := uc.repo.UpdateStatus(ctx, input.TenantID, input.ID, next, input.Notes)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound, apperr.KindInvalidStateTransition, apperr.KindLotBlocked:
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return s, nil
}
