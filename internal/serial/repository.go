package serial

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Serial) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Serial, error)
	FindByCode(ctx context.Context, tenantID, productID, serialCode string) (*model.Serial, error)
	FindAll(ctx context.Context, filters *dto.SerialFilters) ([]model.Serial, int, error)

	// UpdateStatus applies a status transition in one transaction: the serial
	// row is locked, the referenced lot's block flag is read under the same
	// transaction, and the transition graph is enforced before the write.
	UpdateStatus(ctx context.Context, tenantID, id string, next model.SerialStatus, notes *string) (*model.Serial, error)
}
