package location

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/location/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

type Repository interface {
	// Facilities
	CreateFacility(ctx context.Context, f *model.StorageFacility) error
	FindFacilityByID(ctx context.Context, tenantID, id string) (*model.StorageFacility, error)
	FindFacilities(ctx context.Context, filters *dto.FacilityFilters) ([]model.StorageFacility, int, error)
	UpdateFacility(ctx context.Context, f *model.StorageFacility) error
	ArchiveFacility(ctx context.Context, tenantID, id string) error

	// Storage locations
	CreateLocation(ctx context.Context, l *model.StorageLocation) error
	FindLocationByID(ctx context.Context, tenantID, id string) (*model.StorageLocation, error)
	FindLocationByCode(ctx context.Context, tenantID, facilityID, code string) (*model.StorageLocation, error)
	FindLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.StorageLocation, int, error)
	UpdateLocation(ctx context.Context, l *model.StorageLocation) error
	ArchiveLocation(ctx context.Context, tenantID, id string) error
}
