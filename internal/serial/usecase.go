package serial

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

type UseCase interface {
	CreateSerial(ctx context.Context, input *dto.CreateSerialInput) (*model.Serial, error)
	GetSerial(ctx context.Context, tenantID, id string) (*model.Serial, error)
	ListSerials(ctx context.Context, filters *dto.SerialFilters) ([]model.Serial, int, error)
	UpdateSerialStatus(ctx context.Context, input *dto.UpdateSerialStatusInput) (*model.Serial, error)
}
