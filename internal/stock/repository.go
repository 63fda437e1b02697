package stock

import (
	"context"

	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

// Repository owns the stock_entries rows. Every mutating method runs as one
// transaction over a single row: the row is locked before any check and no
// partially applied state is ever committed.
type Repository interface {
	// Upsert replaces quantity_on_hand for the key (set semantics, never an
	// increment). Fails with ReservationExceedsStock when the new on-hand would
	// drop below the row's current reservation; the row is left unchanged.
	Upsert(ctx context.Context, input *dto.UpsertStockInput) (*model.StockEntry, error)

	FindByKey(ctx context.Context, tenantID, productID, locationID string, lotID *string) (*model.StockEntry, error)
	FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.StockEntry, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Reserve picks the target row (exact key when a lot is given, otherwise
	// the unblocked row with the greatest available quantity, lowest lot code
	// on ties) and increments its reservation, all inside one transaction.
	Reserve(ctx context.Context, input *dto.ReserveStockInput) (*model.StockEntry, error)

	// Release decrements the row's reservation, failing with OverRelease when
	// the decrement exceeds what is currently reserved.
	Release(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockEntry, error)
}
