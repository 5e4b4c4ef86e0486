package vehicles

import (
	"context"
	"testing"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

type MockVehicleCache struct {
	mock.Mock
}

func (m *MockVehicleCache) GetVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleCache) SetVehicles(ctx context.Context, vehicles []domain.Vehicle) error {
	args := m.Called(ctx, vehicles)
	return args.Error(0)
}

func TestList_CacheHit(t *testing.T) {
	repo := &MockVehicleRepository{}
	cache := &MockVehicleCache{}
	service := NewVehicleService(repo, cache)

	ctx := context.Background()
	cached := []domain.Vehicle{{ID: 1, Name: "Swift Dzire"}}
	cache.On("GetVehicles", ctx).Return(cached, nil).Once()

	vehicles, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, cached, vehicles)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestList_CacheMissFillsCache(t *testing.T) {
	repo := &MockVehicleRepository{}
	cache := &MockVehicleCache{}
	service := NewVehicleService(repo, cache)

	ctx := context.Background()
	stored := []domain.Vehicle{{ID: 1, Name: "Swift Dzire"}, {ID: 2, Name: "Innova"}}
	cache.On("GetVehicles", ctx).Return(nil, nil).Once()
	repo.On("List", ctx).Return(stored, nil).Once()
	cache.On("SetVehicles", ctx, stored).Return(nil).Once()

	vehicles, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, vehicles)
	cache.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &MockVehicleRepository{}
	service := NewVehicleService(repo, nil)

	ctx := context.Background()
	repo.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.GetByID(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
