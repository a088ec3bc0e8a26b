package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "carfleet/internal/errors"
	"carfleet/internal/extapi"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

func TestPriceService_CreateSnapshot_ComputesPrices(t *testing.T) {
	carID := uuid.New()
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	cars.On("FindByID", mock.Anything, carID).Return(&model.Car{
		ID:        carID,
		Brand:     "Toyota",
		Model:     "Camry",
		DailyRate: 50,
	}, nil)
	rates.On("Latest", mock.Anything, "USD").Return(&extapi.RateQuote{
		Base:  "USD",
		Rates: map[string]float64{"USD": 1, "EUR": 0.9},
		Raw:   []byte(`{"base":"USD","rates":{"USD":1,"EUR":0.9}}`),
	}, nil)

	var persisted *model.PriceSnapshot
	snapshots.On("Create", mock.Anything, mock.AnythingOfType("*model.PriceSnapshot")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*model.PriceSnapshot)
		}).Return(nil)

	svc := NewPriceService(cars, snapshots, rates)
	snapshot, err := svc.CreateSnapshot(context.Background(), carID)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, carID, snapshot.CarID)
	assert.Equal(t, "USD", snapshot.BaseCurrency)
	assert.Equal(t, map[string]float64{"USD": 50, "EUR": 45}, snapshot.CalculatedPrices)
	assert.NotEmpty(t, snapshot.RawResponse)
	assert.False(t, snapshot.RequestTimestamp.IsZero())
	assert.Same(t, persisted, snapshot)
}

func TestPriceService_CreateSnapshot_UnknownCar(t *testing.T) {
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	carID := uuid.New()
	cars.On("FindByID", mock.Anything, carID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPriceService(cars, snapshots, rates)
	snapshot, err := svc.CreateSnapshot(context.Background(), carID)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, snapshot)
	// Nothing reaches the rate source and nothing is persisted.
	rates.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
	snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPriceService_CreateSnapshot_UpstreamFailure(t *testing.T) {
	carID := uuid.New()
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	cars.On("FindByID", mock.Anything, carID).Return(&model.Car{ID: carID, DailyRate: 50}, nil)
	rates.On("Latest", mock.Anything, "USD").Return(nil, apperrors.ErrUpstreamUnavailable)

	svc := NewPriceService(cars, snapshots, rates)
	snapshot, err := svc.CreateSnapshot(context.Background(), carID)

	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.Nil(t, snapshot)
	// All-or-nothing: no partial row.
	snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPriceService_CreateSnapshot_EachCallWritesOwnRow(t *testing.T) {
	carID := uuid.New()
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	cars.On("FindByID", mock.Anything, carID).Return(&model.Car{ID: carID, DailyRate: 50}, nil)
	rates.On("Latest", mock.Anything, "USD").Return(&extapi.RateQuote{
		Base:  "USD",
		Rates: map[string]float64{"USD": 1},
	}, nil)

	var rows []*model.PriceSnapshot
	snapshots.On("Create", mock.Anything, mock.AnythingOfType("*model.PriceSnapshot")).
		Run(func(args mock.Arguments) {
			rows = append(rows, args.Get(1).(*model.PriceSnapshot))
		}).Return(nil)

	svc := NewPriceService(cars, snapshots, rates)
	first, err := svc.CreateSnapshot(context.Background(), carID)
	require.NoError(t, err)
	second, err := svc.CreateSnapshot(context.Background(), carID)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.NotSame(t, first, second)
	// Ordering at read time relies solely on timestamps.
	assert.False(t, second.RequestTimestamp.Before(first.RequestTimestamp))
}

func TestPriceService_GetLatest_NoSnapshot(t *testing.T) {
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	carID := uuid.New()
	snapshots.On("LatestByCar", mock.Anything, carID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPriceService(cars, snapshots, rates)
	snapshot, err := svc.GetLatest(context.Background(), carID)

	require.NoError(t, err)
	assert.Nil(t, snapshot)
	// Reading the latest snapshot never fabricates one.
	snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPriceService_GetHistory_ClampsLimit(t *testing.T) {
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	carID := uuid.New()
	snapshots.On("HistoryByCar", mock.Anything, carID, 10).Return([]model.PriceSnapshot{}, nil)

	svc := NewPriceService(cars, snapshots, rates)

	for _, limit := range []int{0, -3} {
		_, err := svc.GetHistory(context.Background(), carID, limit)
		require.NoError(t, err)
	}
	snapshots.AssertNumberOfCalls(t, "HistoryByCar", 2)
}

func TestPriceService_Overview(t *testing.T) {
	cars := new(MockCarRepository)
	snapshots := new(MockPriceSnapshotRepository)
	rates := new(MockExchangeRatesClient)

	priced := model.Car{ID: uuid.New(), Brand: "BMW", DailyRate: 120}
	unpriced := model.Car{ID: uuid.New(), Brand: "Kia", DailyRate: 30}
	latest := &model.PriceSnapshot{ID: uuid.New(), CarID: priced.ID, RequestTimestamp: time.Now()}

	cars.On("List", mock.Anything, repository.CarFilter{}).Return([]model.Car{priced, unpriced}, nil)
	snapshots.On("LatestByCar", mock.Anything, priced.ID).Return(latest, nil)
	snapshots.On("LatestByCar", mock.Anything, unpriced.ID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPriceService(cars, snapshots, rates)
	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, latest, overview[0].Latest)
	assert.Nil(t, overview[1].Latest)
}
