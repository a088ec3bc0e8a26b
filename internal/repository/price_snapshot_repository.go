package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carfleet/internal/model"
)

// historyRetention caps how many snapshots a single car accumulates. Rows
// beyond the newest historyRetention are pruned after each insert, so growth
// is bounded without a background job.
const historyRetention = 500

// PriceSnapshotRepository defines append-only persistence for price snapshots.
// There is deliberately no update method: snapshots are immutable once written.
type PriceSnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.PriceSnapshot) error
	// LatestByCar returns the snapshot with the greatest request timestamp for
	// the car, or gorm.ErrRecordNotFound if none exists.
	LatestByCar(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error)
	// HistoryByCar returns up to limit snapshots for the car, newest first.
	HistoryByCar(ctx context.Context, carID uuid.UUID, limit int) ([]model.PriceSnapshot, error)
}

type priceSnapshotRepository struct {
	db *gorm.DB
}

// NewPriceSnapshotRepository creates a new snapshot repository.
func NewPriceSnapshotRepository(db *gorm.DB) PriceSnapshotRepository {
	return &priceSnapshotRepository{db: db}
}

func (r *priceSnapshotRepository) Create(ctx context.Context, snapshot *model.PriceSnapshot) error {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return err
	}
	r.prune(ctx, snapshot.CarID)
	return nil
}

// prune removes rows beyond the retention window for one car. Best effort:
// a failed prune never fails the insert that triggered it.
func (r *priceSnapshotRepository) prune(ctx context.Context, carID uuid.UUID) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.PriceSnapshot{}).
		Where("car_id = ?", carID).
		Order("request_timestamp DESC").
		Offset(historyRetention).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return
	}
	r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.PriceSnapshot{})
}

func (r *priceSnapshotRepository) LatestByCar(ctx context.Context, carID uuid.UUID) (*model.PriceSnapshot, error) {
	var snapshot model.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("request_timestamp DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *priceSnapshotRepository) HistoryByCar(ctx context.Context, carID uuid.UUID, limit int) ([]model.PriceSnapshot, error) {
	var snapshots []model.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("request_timestamp DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
