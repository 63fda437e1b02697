package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

// fakeRepo mirrors the transactional contract of the Postgres repository: the
// lot block flag is consulted before the transition graph on every status
// update.
type fakeRepo struct {
	serials     map[string]*model.Serial
	blockedLots map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		serials:     map[string]*model.Serial{},
		blockedLots: map[string]bool{},
	}
}

func (r *fakeRepo) Create(_ context.Context, s *model.Serial) error {
	copied := *s
	r.serials[s.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, tenantID, id string) (*model.Serial, error) {
	s, ok := r.serials[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) FindByCode(_ context.Context, tenantID, productID, serialCode string) (*model.Serial, error) {
	for _, s := range r.serials {
		if s.TenantID == tenantID && s.ProductID == productID && s.SerialCode == serialCode {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(_ context.Context, f *dto.SerialFilters) ([]model.Serial, int, error) {
	var out []model.Serial
	for _, s := range r.serials {
		if s.TenantID == f.TenantID {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, tenantID, id string, next model.SerialStatus, notes *string) (*model.Serial, error) {
	s, ok := r.serials[id]
	if !ok || s.TenantID != tenantID {
		return nil, apperr.NotFound("serial", id)
	}
	if s.LotID != nil && r.blockedLots[*s.LotID] && !next.AllowedWhenLotBlocked() {
		return nil, apperr.LotBlocked(*s.LotID)
	}
	if !s.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidStateTransition(string(s.Status), string(next))
	}
	s.Status = next
	if notes != nil {
		s.Notes = notes
	}
	copied := *s
	return &copied, nil
}

func seedSerial(repo *fakeRepo, status model.SerialStatus, lotID *string) *model.Serial {
	s := &model.Serial{
		BaseModel:  model.BaseModel{ID: uuid.New().String()},
		TenantID:   "t1",
		ProductID:  "p1",
		LotID:      lotID,
		SerialCode: "SN-" + uuid.New().String()[:8],
		Status:     status,
	}
	repo.serials[s.ID] = s
	return s
}

func TestCreateSerialStartsInStock(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSerialUseCase(repo, zap.NewNop())

	s, err := uc.CreateSerial(context.Background(), &dto.CreateSerialInput{
		TenantID:   "t1",
		ProductID:  "p1",
		SerialCode: "SN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SerialInStock, s.Status)
}

func TestCreateSerialDuplicateCode(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSerialUseCase(repo, zap.NewNop())

	_, err := uc.CreateSerial(context.Background(), &dto.CreateSerialInput{
		TenantID: "t1", ProductID: "p1", SerialCode: "SN-1",
	})
	require.NoError(t, err)

	_, err = uc.CreateSerial(context.Background(), &dto.CreateSerialInput{
		TenantID: "t1", ProductID: "p1", SerialCode: "SN-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDuplicateSerialCode, apperr.CodeOf(err))
}

func TestUpdateSerialStatusFollowsGraph(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSerialUseCase(repo, zap.NewNop())

	s := seedSerial(repo, model.SerialInStock, nil)
	updated, err := uc.UpdateSerialStatus(context.Background(), &dto.UpdateSerialStatusInput{
		TenantID: "t1", ID: s.ID, Status: "reserved",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SerialReserved, updated.Status)

	sold := seedSerial(repo, model.SerialSold, nil)
	_, err = uc.UpdateSerialStatus(context.Background(), &dto.UpdateSerialStatusInput{
		TenantID: "t1", ID: sold.ID, Status: "in_stock",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidStateTransition, apperr.KindOf(err))
}

func TestUpdateSerialStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSerialUseCase(repo, zap.NewNop())
	s := seedSerial(repo, model.SerialInStock, nil)

	_, err := uc.UpdateSerialStatus(context.Background(), &dto.UpdateSerialStatusInput{
		TenantID: "t1", ID: s.ID, Status: "teleported",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestBlockedLotRestrictsTransitions(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSerialUseCase(repo, zap.NewNop())

	lotID := uuid.New().String()
	repo.blockedLots[lotID] = true

	s := seedSerial(repo, model.SerialInStock, &lotID)
	_, err := uc.UpdateSerialStatus(context.Background(), &dto.UpdateSerialStatusInput{
		TenantID: "t1", ID: s.ID, Status: "sold",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindLotBlocked, apperr.KindOf(err))

	updated, err := uc.UpdateSerialStatus(context.Background(), &dto.UpdateSerialStatusInput{
		TenantID: "t1", ID: s.ID, Status: "scrapped",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SerialScrapped, updated.Status)
}
