package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/lot/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

// fakeRepo keeps lots in memory and honors the repository contract, including
// the delete guard driven by the inUse set.
type fakeRepo struct {
	lots  map[string]*model.Lot
	inUse map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		lots:  map[string]*model.Lot{},
		inUse: map[string]bool{},
	}
}

func (r *fakeRepo) Create(_ context.Context, l *model.Lot) error {
	copied := *l
	r.lots[l.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, tenantID, id string) (*model.Lot, error) {
	l, ok := r.lots[id]
	if !ok || l.TenantID != tenantID {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *fakeRepo) FindByCode(_ context.Context, tenantID, productID, code string) (*model.Lot, error) {
	for _, l := range r.lots {
		if l.TenantID == tenantID && l.ProductID == productID && l.Code == code {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(_ context.Context, f *dto.LotFilters) ([]model.Lot, int, error) {
	var out []model.Lot
	for _, l := range r.lots {
		if l.TenantID == f.TenantID {
			out = append(out, *l)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) FindExpiring(_ context.Context, tenantID string, before time.Time) ([]model.Lot, error) {
	var out []model.Lot
	for _, l := range r.lots {
		if l.TenantID == tenantID && l.ExpiryDate != nil && !l.ExpiryDate.After(before) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, l *model.Lot) error {
	copied := *l
	r.lots[l.ID] = &copied
	return nil
}

func (r *fakeRepo) DeleteGuarded(_ context.Context, tenantID, id string) error {
	l, ok := r.lots[id]
	if !ok || l.TenantID != tenantID {
		return apperr.NotFound("lot", id)
	}
	if r.inUse[id] {
		return apperr.Conflict(apperr.CodeLotInUse, "lot %q still has stock on hand", id)
	}
	delete(r.lots, id)
	return nil
}

func newTestUseCase(repo *fakeRepo) *lotUseCase {
	return NewLotUseCase(repo, nil, zap.NewNop()).(*lotUseCase)
}

func seedLot(repo *fakeRepo, tenantID, productID, code string, expiry *time.Time) *model.Lot {
	l := &model.Lot{
		BaseModel:       model.BaseModel{ID: uuid.New().String()},
		TenantID:        tenantID,
		ProductID:       productID,
		Code:            code,
		ManufactureDate: time.Now().UTC().AddDate(0, -1, 0),
		ExpiryDate:      expiry,
		QualityStatus:   model.QualityPending,
	}
	repo.lots[l.ID] = l
	return l
}

func TestCreateLotDuplicateCode(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seedLot(repo, "t1", "p1", "LOT-001", nil)

	_, err := uc.CreateLot(context.Background(), &dto.CreateLotInput{
		TenantID:        "t1",
		ProductID:       "p1",
		Code:            "LOT-001",
		ManufactureDate: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDuplicateLotCode, apperr.CodeOf(err))
}

func TestCreateLotDefaultsToPendingUnblocked(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	l, err := uc.CreateLot(context.Background(), &dto.CreateLotInput{
		TenantID:        "t1",
		ProductID:       "p1",
		Code:            "LOT-001",
		ManufactureDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.QualityPending, l.QualityStatus)
	assert.False(t, l.Blocked)
}

func TestBlockLotIsIdempotentAndOverwritesReason(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seeded := seedLot(repo, "t1", "p1", "LOT-001", nil)

	_, err := uc.BlockLot(context.Background(), &dto.BlockLotInput{
		TenantID: "t1", ID: seeded.ID, Reason: "reason A",
	})
	require.NoError(t, err)

	l, err := uc.BlockLot(context.Background(), &dto.BlockLotInput{
		TenantID: "t1", ID: seeded.ID, Reason: "reason B",
	})
	require.NoError(t, err)
	assert.True(t, l.Blocked)
	require.NotNil(t, l.BlockReason)
	assert.Equal(t, "reason B", *l.BlockReason)
}

func TestUnblockLotNoOpWhenAlreadyUnblocked(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seeded := seedLot(repo, "t1", "p1", "LOT-001", nil)

	l, err := uc.UnblockLot(context.Background(), "t1", seeded.ID)
	require.NoError(t, err)
	assert.False(t, l.Blocked)

	_, err = uc.UnblockLot(context.Background(), "t1", "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUnblockLotClearsBlockFields(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seeded := seedLot(repo, "t1", "p1", "LOT-001", nil)

	_, err := uc.BlockLot(context.Background(), &dto.BlockLotInput{
		TenantID: "t1", ID: seeded.ID, Reason: "damaged pallet",
	})
	require.NoError(t, err)

	l, err := uc.UnblockLot(context.Background(), "t1", seeded.ID)
	require.NoError(t, err)
	assert.False(t, l.Blocked)
	assert.Nil(t, l.BlockReason)
	assert.Nil(t, l.BlockedAt)
}

func TestQualityStatusDoesNotTouchBlockFlag(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seeded := seedLot(repo, "t1", "p1", "LOT-001", nil)

	l, err := uc.UpdateQualityStatus(context.Background(), &dto.UpdateQualityInput{
		TenantID: "t1", ID: seeded.ID, Status: "rejected",
	})
	require.NoError(t, err)
	assert.Equal(t, model.QualityRejected, l.QualityStatus)
	assert.False(t, l.Blocked)

	_, err = uc.UpdateQualityStatus(context.Background(), &dto.UpdateQualityInput{
		TenantID: "t1", ID: seeded.ID, Status: "broken",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestGetExpiringLotsWindow(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)

	in5 := time.Now().UTC().AddDate(0, 0, 5)
	seedLot(repo, "t1", "p1", "LOT-5D", &in5)
	seedLot(repo, "t1", "p1", "LOT-NEVER", nil)

	lots, err := uc.GetExpiringLots(context.Background(), "t1", 7)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "LOT-5D", lots[0].Code)

	lots, err = uc.GetExpiringLots(context.Background(), "t1", 3)
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestDeleteLotGuard(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seeded := seedLot(repo, "t1", "p1", "LOT-001", nil)
	repo.inUse[seeded.ID] = true

	err := uc.DeleteLot(context.Background(), "t1", seeded.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeLotInUse, apperr.CodeOf(err))

	repo.inUse[seeded.ID] = false
	require.NoError(t, uc.DeleteLot(context.Background(), "t1", seeded.ID))

	err = uc.DeleteLot(context.Background(), "t1", seeded.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateLotRenameCollision(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	seedLot(repo, "t1", "p1", "LOT-001", nil)
	target := seedLot(repo, "t1", "p1", "LOT-002", nil)

	_, err := uc.UpdateLot(context.Background(), &dto.UpdateLotInput{
		TenantID:        "t1",
		ID:              target.ID,
		Code:            "LOT-001",
		ManufactureDate: target.ManufactureDate,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDuplicateLotCode, apperr.CodeOf(err))
}
