package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "carfleet/internal/errors"
	"carfleet/internal/extapi"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

const (
	// baseCurrency is fixed system-wide; daily rates are quoted in USD.
	baseCurrency = "USD"
	// defaultHistoryLimit bounds history queries and substitutes for
	// non-positive limits.
	defaultHistoryLimit = 10
)

// CarPriceOverview pairs a catalog vehicle with its most recent snapshot,
// which may be nil when the car was never priced.
type CarPriceOverview struct {
	Car    model.Car
	Latest *model.PriceSnapshot
}

// PriceService computes and stores multi-currency price snapshots.
type PriceService interface {
	// CreateSnapshot fetches current exchange rates, computes converted daily
	// prices for the car and persists exactly one immutable snapshot row.
	// Nothing is persisted when the car is unknown or the rate source fails.
	CreateSnapshot(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error)
	// GetLatest returns the newest snapshot for the car, or nil when the car
	// has never been priced. It never creates a snapshot as a side effect.
	GetLatest(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error)
	// GetHistory returns up to limit snapshots, newest first. Non-positive
	// limits are clamped to the default of 10.
	GetHistory(ctx context.Context, carID uuid.UUID, limit int) ([]model.PriceSnapshot, error)
	// Overview lists every car together with its latest snapshot.
	Overview(ctx context.Context) ([]CarPriceOverview, error)
}

type priceService struct {
	cars      repository.CarRepository
	snapshots repository.PriceSnapshotRepository
	rates     extapi.ExchangeRatesClient
}

// NewPriceService creates a new price snapshot service.
func NewPriceService(cars repository.CarRepository, snapshots repository.PriceSnapshotRepository, rates extapi.ExchangeRatesClient) PriceService {
	return &priceService{cars: cars, snapshots: snapshots, rates: rates}
}

func (s *priceService) CreateSnapshot(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error) {
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("lookup car: %w", err)
	}

	quote, err := s.rates.Latest(ctx, baseCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	// Converted prices are derived once, here, and frozen in the row. Later
	// changes to the car's daily rate never touch existing snapshots.
	prices := make(map[string]float64, len(quote.Rates))
	for currency, rate := range quote.Rates {
		prices[currency] = car.DailyRate * rate
	}

	snapshot := &model.PriceSnapshot{
		CarID:            car.ID,
		BaseCurrency:     baseCurrency,
		ExchangeRates:    quote.Rates,
		CalculatedPrices: prices,
		RawResponse:      quote.Raw,
		RequestTimestamp: time.Now(),
	}
	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *priceService) GetLatest(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error) {
	snapshot, err := s.snapshots.LatestByCar(ctx, carID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *priceService) GetHistory(ctx context.Context, carID uuid.UUID, limit int) ([]model.PriceSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.snapshots.HistoryByCar(ctx, carID, limit)
}

func (s *priceService) Overview(ctx context.Context) ([]CarPriceOverview, error) {
	cars, err := s.cars.List(ctx, repository.CarFilter{})
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}

	overview := make([]CarPriceOverview, 0, len(cars))
	for _, car := range cars {
		latest, err := s.GetLatest(ctx, car.ID)
		if err != nil {
			return nil, err
		}
		overview = append(overview, CarPriceOverview{Car: car, Latest: latest})
	}
	return overview, nil
}
