package location

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/location/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

type UseCase interface {
	CreateFacility(ctx context.Context, input *dto.CreateFacilityInput) (*model.StorageFacility, error)
	GetFacility(ctx context.Context, tenantID, id string) (*model.StorageFacility, error)
	ListFacilities(ctx context.Context, filters *dto.FacilityFilters) ([]model.StorageFacility, int, error)
	UpdateFacility(ctx context.Context, input *dto.UpdateFacilityInput) (*model.StorageFacility, error)
	ArchiveFacility(ctx context.Context, tenantID, id string) error

	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.StorageLocation, error)
	GetLocation(ctx context.Context, tenantID, id string) (*model.StorageLocation, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.StorageLocation, int, error)
	UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.StorageLocation, error)
	ArchiveLocation(ctx context.Context, tenantID, id string) error
}
