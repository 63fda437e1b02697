package reservation

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

// UseCase coordinates quantity commitments against the stock ledger. It never
// persists anything itself; both operations are single-row ledger
// transactions executed by the stock repository.
type UseCase interface {
	ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.StockEntry, error)
	ReleaseStock(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockEntry, error)
}
