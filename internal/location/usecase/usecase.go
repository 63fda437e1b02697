package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/location"
	"github.com/fluxpos/warehouse-service/internal/location/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

type locationUseCase struct {
	repo   location.Repository
	logger *zap.Logger
}

func NewLocationUseCase(repo location.Repository, log *zap.Logger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *locationUseCase) CreateFacility(ctx context.Context, input *dto.CreateFacilityInput) (*model.StorageFacility, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.InvalidArgument("facility name is required")
	}

	now := time.Now().UTC()
	f := &model.StorageFacility{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID: input.TenantID,
		Name:     input.Name,
		Address:  input.Address,
		IsActive: true,
	}

	if err := uc.repo.CreateFacility(ctx, f); err != nil {
		return nil, apperr.Internal(err)
	}
	return f, nil
}

func (uc *locationUseCase) GetFacility(ctx context.Context, tenantID, id string) (*model.StorageFacility, error) {
	f, err := uc.repo.FindFacilityByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if f == nil {
		return nil, apperr.NotFound("facility", id)
	}
	return f, nil
}

func (uc *locationUseCase) ListFacilities(ctx context.Context, filters *dto.FacilityFilters) ([]model.StorageFacility, int, error) {
	facilities, count, err := uc.repo.FindFacilities(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return facilities, count, nil
}

func (uc *locationUseCase) UpdateFacility(ctx context.Context, input *dto.UpdateFacilityInput) (*model.StorageFacility, error) {
	f, err := uc.GetFacility(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.InvalidArgument("facility name is required")
	}

	f.Name = input.Name
	f.Address = input.Address
	f.IsActive = input.IsActive
	f.UpdatedAt = time.Now().UTC()

	if err := uc.repo.UpdateFacility(ctx, f); err != nil {
		return nil, apperr.Internal(err)
	}
	return f, nil
}

func (uc *locationUseCase) ArchiveFacility(ctx context.Context, tenantID, id string) error {
	if _, err := uc.GetFacility(ctx, tenantID, id); err != nil {
		return err
	}
	if err := uc.repo.ArchiveFacility(ctx, tenantID, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.StorageLocation, error) {
	if strings.TrimSpace(input.Code) == "" {
		return nil, apperr.InvalidArgument("location code is required")
	}
	if _, err := uc.GetFacility(ctx, input.TenantID, input.FacilityID); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindLocationByCode(ctx, input.TenantID, input.FacilityID, input.Code)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicateCode, "location code %q already exists in this facility", input.Code)
	}

	now := time.Now().UTC()
	l := &model.StorageLocation{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:   input.TenantID,
		FacilityID: input.FacilityID,
		Code:       input.Code,
		Capacity:   input.Capacity,
	}

	if err := uc.repo.CreateLocation(ctx, l); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return l, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, tenantID, id string) (*model.StorageLocation, error) {
	l, err := uc.repo.FindLocationByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if l == nil {
		return nil, apperr.NotFound("storage location", id)
	}
	return l, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.StorageLocation, int, error) {
	locations, count, err := uc.repo.FindLocations(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return locations, count, nil
}

func (uc *locationUseCase) UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.StorageLocation, error) {
	l, err := uc.GetLocation(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, apperr.InvalidArgument("location code is required")
	}

	if input.Code != l.Code {
		existing, err := uc.repo.FindLocationByCode(ctx, input.TenantID, l.FacilityID, input.Code)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if existing != nil {
			return nil, apperr.Conflict(apperr.CodeDuplicateCode, "location code %q already exists in this facility", input.Code)
		}
	}

	l.Code = input.Code
	l.Capacity = input.Capacity
	l.UpdatedAt = time.Now().UTC()

	if err := uc.repo.UpdateLocation(ctx, l); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return l, nil
}

func (uc *locationUseCase) ArchiveLocation(ctx context.Context, tenantID, id string) error {
	if _, err := uc.GetLocation(ctx, tenantID, id); err != nil {
		return err
	}
	if err := uc.repo.ArchiveLocation(ctx, tenantID, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
