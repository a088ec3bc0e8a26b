package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carfleet/internal/model"
)

// CarFilter narrows and orders catalog listings. Zero values mean "no filter".
type CarFilter struct {
	Brand    string
	Category string
	Year     int
	MinRate  float64
	MaxRate  float64
	Sort     string // price_asc, price_desc, year_asc, year_desc
}

// CarRepository defines catalog persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	List(ctx context.Context, filter CarFilter) ([]model.Car, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new catalog repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *carRepository) Update(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) List(ctx context.Context, filter CarFilter) ([]model.Car, error) {
	q := r.db.WithContext(ctx).Model(&model.Car{})

	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.MinRate > 0 {
		q = q.Where("daily_rate >= ?", filter.MinRate)
	}
	if filter.MaxRate > 0 {
		q = q.Where("daily_rate <= ?", filter.MaxRate)
	}

	switch filter.Sort {
	case "price_asc":
		q = q.Order("daily_rate ASC")
	case "price_desc":
		q = q.Order("daily_rate DESC")
	case "year_asc":
		q = q.Order("year ASC")
	case "year_desc":
		q = q.Order("year DESC")
	}

	var cars []model.Car
	if err := q.Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *carRepository) DistinctBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).Model(&model.Car{}).
		Distinct("brand").Order("brand").Pluck("brand", &brands).Error
	return brands, err
}

func (r *carRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Car{}).
		Distinct("category").Order("category").Pluck("category", &categories).Error
	return categories, err
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Car{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
