package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

// fakeRepo keys entries by tenant/product/location/lot and enforces the
// set-semantics rule: on-hand can never be set below the reserved quantity.
type fakeRepo struct {
	entries map[string]*model.StockEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[string]*model.StockEntry{}}
}

func entryKey(tenantID, productID, locationID string, lotID *string) string {
	lot := ""
	if lotID != nil {
		lot = *lotID
	}
	return tenantID + "/" + productID + "/" + locationID + "/" + lot
}

func (r *fakeRepo) Upsert(_ context.Context, input *dto.UpsertStockInput) (*model.StockEntry, error) {
	key := entryKey(input.TenantID, input.ProductID, input.LocationID, input.LotID)
	entry, ok := r.entries[key]
	if !ok {
		entry = &model.StockEntry{
			ID:         uuid.New().String(),
			TenantID:   input.TenantID,
			ProductID:  input.ProductID,
			LocationID: input.LocationID,
			LotID:      input.LotID,
		}
		r.entries[key] = entry
	} else if input.QuantityOnHand.LessThan(entry.QuantityReserved) {
		return nil, apperr.Conflict(apperr.CodeReservationExceedsStock, "on-hand below reserved")
	}
	entry.QuantityOnHand = input.QuantityOnHand
	copied := *entry
	return &copied, nil
}

func (r *fakeRepo) FindByKey(_ context.Context, tenantID, productID, locationID string, lotID *string) (*model.StockEntry, error) {
	if entry, ok := r.entries[entryKey(tenantID, productID, locationID, lotID)]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(_ context.Context, f *dto.StockFilters) ([]model.StockEntry, int, error) {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.TenantID != f.TenantID {
			continue
		}
		if f.LowStock && e.QuantityOnHand.GreaterThan(f.Threshold) {
			continue
		}
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListMovements(_ context.Context, _ *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Reserve(_ context.Context, input *dto.ReserveStockInput) (*model.StockEntry, error) {
	entry, ok := r.entries[entryKey(input.TenantID, input.ProductID, input.LocationID, input.LotID)]
	if !ok {
		return nil, apperr.NotFound("stock entry", input.ProductID)
	}
	if entry.Available().LessThan(input.Quantity) {
		return nil, apperr.Conflict(apperr.CodeInsufficientStock, "insufficient stock")
	}
	entry.QuantityReserved = entry.QuantityReserved.Add(input.Quantity)
	copied := *entry
	return &copied, nil
}

func (r *fakeRepo) Release(_ context.Context, input *dto.ReleaseStockInput) (*model.StockEntry, error) {
	entry, ok := r.entries[entryKey(input.TenantID, input.ProductID, input.LocationID, input.LotID)]
	if !ok {
		return nil, apperr.NotFound("stock entry", input.ProductID)
	}
	if input.Quantity.GreaterThan(entry.QuantityReserved) {
		return nil, apperr.Conflict(apperr.CodeOverRelease, "release exceeds reserved")
	}
	entry.QuantityReserved = entry.QuantityReserved.Sub(input.Quantity)
	copied := *entry
	return &copied, nil
}

func upsertInput(onHand int64, lotID *string) *dto.UpsertStockInput {
	return &dto.UpsertStockInput{
		TenantID:       "t1",
		ProductID:      "p1",
		LocationID:     "l1",
		LotID:          lotID,
		QuantityOnHand: decimal.NewFromInt(onHand),
	}
}

func TestCreateOrUpdateStockSetsNotAdds(t *testing.T) {
	repo := newFakeRepo()
	uc := NewStockUseCase(repo, decimal.NewFromInt(5), zap.NewNop())

	entry, err := uc.CreateOrUpdateStock(context.Background(), upsertInput(50, nil))
	require.NoError(t, err)
	assert.True(t, entry.QuantityOnHand.Equal(decimal.NewFromInt(50)))

	// A second write with 20 is authoritative, not additive.
	entry, err = uc.CreateOrUpdateStock(context.Background(), upsertInput(20, nil))
	require.NoError(t, err)
	assert.True(t, entry.QuantityOnHand.Equal(decimal.NewFromInt(20)))
}

func TestCreateOrUpdateStockRejectsOnHandBelowReserved(t *testing.T) {
	repo := newFakeRepo()
	uc := NewStockUseCase(repo, decimal.NewFromInt(5), zap.NewNop())

	_, err := uc.CreateOrUpdateStock(context.Background(), upsertInput(20, nil))
	require.NoError(t, err)

	key := entryKey("t1", "p1", "l1", nil)
	repo.entries[key].QuantityReserved = decimal.NewFromInt(15)

	_, err = uc.CreateOrUpdateStock(context.Background(), upsertInput(10, nil))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeReservationExceedsStock, apperr.CodeOf(err))

	// The failed write leaves the row untouched.
	assert.True(t, repo.entries[key].QuantityOnHand.Equal(decimal.NewFromInt(20)))
	assert.True(t, repo.entries[key].QuantityReserved.Equal(decimal.NewFromInt(15)))
}

func TestCreateOrUpdateStockValidation(t *testing.T) {
	uc := NewStockUseCase(newFakeRepo(), decimal.NewFromInt(5), zap.NewNop())

	_, err := uc.CreateOrUpdateStock(context.Background(), upsertInput(-1, nil))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = uc.CreateOrUpdateStock(context.Background(), &dto.UpsertStockInput{
		TenantID: "t1", ProductID: "", LocationID: "l1",
		QuantityOnHand: decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	empty := ""
	_, err = uc.CreateOrUpdateStock(context.Background(), upsertInput(1, &empty))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestGetStockInjectsLowStockThreshold(t *testing.T) {
	repo := newFakeRepo()
	uc := NewStockUseCase(repo, decimal.NewFromInt(5), zap.NewNop())

	_, err := uc.CreateOrUpdateStock(context.Background(), upsertInput(3, nil))
	require.NoError(t, err)

	lotID := uuid.New().String()
	_, err = uc.CreateOrUpdateStock(context.Background(), upsertInput(40, &lotID))
	require.NoError(t, err)

	entries, count, err := uc.GetStock(context.Background(), &dto.StockFilters{
		TenantID: "t1",
		LowStock: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	assert.True(t, entries[0].QuantityOnHand.Equal(decimal.NewFromInt(3)))
}
