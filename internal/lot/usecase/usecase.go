package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/cache"
	"github.com/fluxpos/warehouse-service/internal/lot"
	"github.com/fluxpos/warehouse-service/internal/lot/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

const lotCacheTTL = 5 * time.Minute

type lotUseCase struct {
	repo   lot.Repository
	cache  *cache.RedisClient
	logger *zap.Logger
}

func NewLotUseCase(repo lot.Repository, cache *cache.RedisClient, log *zap.Logger) lot.UseCase {
	return &lotUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func lotCacheKey(tenantID, id string) string {
	return fmt.Sprintf("lot:%s:%s", tenantID, id)
}

func (uc *lotUseCase) CreateLot(ctx context.Context, input *dto.CreateLotInput) (*model.Lot, error) {
	if strings.TrimSpace(input.Code) == "" {
		return nil, apperr.InvalidArgument("lot code is required")
	}
	if input.ProductID == "" {
		return nil, apperr.InvalidArgument("product id is required")
	}

	existing, err := uc.repo.FindByCode(ctx, input.TenantID, input.ProductID, input.Code)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicateLotCode, "lot code %q already exists for this product", input.Code)
	}

	now := time.Now().UTC()
	var createdBy *string
	if input.CreatedBy != "" {
		createdBy = &input.CreatedBy
	}

	l := &model.Lot{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:        input.TenantID,
		ProductID:       input.ProductID,
		Code:            input.Code,
		ManufactureDate: input.ManufactureDate,
		ExpiryDate:      input.ExpiryDate,
		QualityStatus:   model.QualityPending,
		CreatedBy:       createdBy,
	}

	if err := uc.repo.Create(ctx, l); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return l, nil
}

func (uc *lotUseCase) GetLot(ctx context.Context, tenantID, id string) (*model.Lot, error) {
	key := lotCacheKey(tenantID, id)
	if uc.cache != nil {
		var cached model.Lot
		hit, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("lot cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	l, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if l == nil {
		return nil, apperr.NotFound("lot", id)
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, l, lotCacheTTL); err != nil {
			uc.logger.Warn("lot cache write failed", zap.Error(err))
		}
	}
	return l, nil
}

func (uc *lotUseCase) GetLotByCode(ctx context.Context, tenantID, productID, code string) (*model.Lot, error) {
	l, err := uc.repo.FindByCode(ctx, tenantID, productID, code)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if l == nil {
		return nil, apperr.NotFound("lot", code)
	}
	return l, nil
}

func (uc *lotUseCase) ListLots(ctx context.Context, filters *dto.LotFilters) ([]model.Lot, int, error) {
	lots, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return lots, count, nil
}

func (uc *lotUseCase) GetExpiringLots(ctx context.Context, tenantID string, daysAhead int) ([]model.Lot, error) {
	if daysAhead < 0 {
		return nil, apperr.InvalidArgument("days ahead must not be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, daysAhead)
	lots, err := uc.repo.FindExpiring(ctx, tenantID, cutoff)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return lots, nil
}

func (uc *lotUseCase) UpdateLot(ctx context.Context, input *dto.UpdateLotInput) (*model.Lot, error) {
	l, err := uc.findForUpdate(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, apperr.InvalidArgument("lot code is required")
	}

	if input.Code != l.Code {
		existing, err := uc.repo.FindByCode(ctx, input.TenantID, l.ProductID, input.Code)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if existing != nil {
			return nil, apperr.Conflict(apperr.CodeDuplicateLotCode, "lot code %q already exists for this product", input.Code)
		}
	}

	l.Code = input.Code
	l.ManufactureDate = input.ManufactureDate
	l.ExpiryDate = input.ExpiryDate
	l.UpdatedAt = time.Now().UTC()

	return uc.persist(ctx, l)
}

func (uc *lotUseCase) DeleteLot(ctx context.Context, tenantID, id string) error {
	err := uc.repo.DeleteGuarded(ctx, tenantID, id)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound, apperr.KindConflict:
			return err
		}
		return apperr.Internal(err)
	}
	uc.invalidate(ctx, tenantID, id)
	return nil
}

func (uc *lotUseCase) UpdateQualityStatus(ctx context.Context, input *dto.UpdateQualityInput) (*model.Lot, error) {
	status, err := model.ParseQualityStatus(input.Status)
	if err != nil {
		return nil, err
	}

	l, err := uc.findForUpdate(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	// Quality and block state stay orthogonal: a Rejected lot is not blocked
	// unless a block is requested explicitly.
	l.QualityStatus = status
	l.QualityNotes = input.Notes
	l.UpdatedAt = time.Now().UTC()

	return uc.persist(ctx, l)
}

func (uc *lotUseCase) BlockLot(ctx context.Context, input *dto.BlockLotInput) (*model.Lot, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperr.InvalidArgument("block reason is required")
	}

	l, err := uc.findForUpdate(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	// Idempotent: re-blocking overwrites the reason and timestamp.
	now := time.Now().UTC()
	var blockedBy *string
	if input.BlockedBy != "" {
		blockedBy = &input.BlockedBy
	}
	l.Blocked = true
	l.BlockReason = &input.Reason
	l.BlockedAt = &now
	l.BlockedBy = blockedBy
	l.UpdatedAt = now

	return uc.persist(ctx, l)
}

func (uc *lotUseCase) UnblockLot(ctx context.Context, tenantID, id string) (*model.Lot, error) {
	l, err := uc.findForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !l.Blocked {
		// Already unblocked is a success, not an error.
		return l, nil
	}

	l.Blocked = false
	l.BlockReason = nil
	l.BlockedAt = nil
	l.BlockedBy = nil
	l.UpdatedAt = time.Now().UTC()

	return uc.persist(ctx, l)
}

// findForUpdate always reads through to storage so mutations never start from
// a stale cached copy.
func (uc *lotUseCase) findForUpdate(ctx context.Context, tenantID, id string) (*model.Lot, error) {
	l, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if l == nil {
		return nil, apperr.NotFound("lot", id)
	}
	return l, nil
}

func (uc *lotUseCase) persist(ctx context.Context, l *model.Lot) (*model.Lot, error) {
	if err := uc.repo.Update(ctx, l); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	uc.invalidate(ctx, l.TenantID, l.ID)
	return l, nil
}

func (uc *lotUseCase) invalidate(ctx context.Context, tenantID, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, lotCacheKey(tenantID, id)); err != nil {
		uc.logger.Warn("lot cache invalidation failed", zap.Error(err))
	}
}
