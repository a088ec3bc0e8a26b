package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"carfleet/internal/cache"
	apperrors "carfleet/internal/errors"
	"carfleet/internal/extapi"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

const (
	defaultCarImage = "/default_car.jpg"
	// specRefreshAge triggers a fresh spec lookup when the stored payload is
	// older than a day.
	specRefreshAge = 24 * time.Hour
	specCacheTTL   = 24 * time.Hour
)

// CarInput carries the form fields for creating or updating a vehicle.
type CarInput struct {
	Brand          string
	Model          string
	Year           int
	Category       string
	DailyRate      float64
	Specifications map[string]string
	IsAvailable    bool
}

// ImageUpload is an uploaded vehicle photo.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CatalogListing is a filtered car list plus the facet values the filter UI
// offers.
type CatalogListing struct {
	Cars       []model.Car
	Brands     []string
	Categories []string
}

// CarService manages the vehicle catalog. It is a collaborator of the pricing
// core: PriceService reads daily rates from here and nothing else.
type CarService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	List(ctx context.Context, filter repository.CarFilter) (*CatalogListing, error)
	Create(ctx context.Context, input CarInput, image *ImageUpload) (*model.Car, error)
	Update(ctx context.Context, id uuid.UUID, input CarInput, image *ImageUpload) (*model.Car, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carService struct {
	cars     repository.CarRepository
	specs    extapi.CarSpecsClient
	cache    *cache.Client
	imageDir string
}

// NewCarService creates a new catalog service.
func NewCarService(cars repository.CarRepository, specs extapi.CarSpecsClient, cacheClient *cache.Client, imageDir string) CarService {
	return &carService{cars: cars, specs: specs, cache: cacheClient, imageDir: imageDir}
}

// GetByID returns the car, refreshing its stored spec payload when stale.
// Spec refresh is best effort; the car is returned either way.
func (s *carService) GetByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("lookup car: %w", err)
	}

	if len(car.ApiData) == 0 || time.Since(car.LastUpdated) > specRefreshAge {
		if specs := s.lookupSpecs(ctx, car.Brand, car.Model, car.Year); specs != nil {
			car.ApiData = specs.Raw
			car.LastUpdated = time.Now()
			if err := s.cars.Update(ctx, car); err != nil {
				log.Printf("refresh car specs: %v", err)
			}
		}
	}
	return car, nil
}

func (s *carService) List(ctx context.Context, filter repository.CarFilter) (*CatalogListing, error) {
	cars, err := s.cars.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	brands, err := s.cars.DistinctBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	categories, err := s.cars.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &CatalogListing{Cars: cars, Brands: brands, Categories: categories}, nil
}

func (s *carService) Create(ctx context.Context, input CarInput, image *ImageUpload) (*model.Car, error) {
	car := &model.Car{
		Brand:          input.Brand,
		Model:          input.Model,
		Year:           input.Year,
		Category:       input.Category,
		DailyRate:      input.DailyRate,
		Specifications: input.Specifications,
		ImageURL:       defaultCarImage,
		IsAvailable:    true,
		LastUpdated:    time.Now(),
	}

	if image != nil {
		url, path, err := s.storeImage(image)
		if err != nil {
			return nil, err
		}
		car.ImageURL = url
		car.ImagePath = path
	}

	if specs := s.lookupSpecs(ctx, input.Brand, input.Model, input.Year); specs != nil {
		mergeSpecs(car, specs)
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return car, nil
}

func (s *carService) Update(ctx context.Context, id uuid.UUID, input CarInput, image *ImageUpload) (*model.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("lookup car: %w", err)
	}

	car.Brand = input.Brand
	car.Model = input.Model
	car.Year = input.Year
	car.Category = input.Category
	car.DailyRate = input.DailyRate
	car.IsAvailable = input.IsAvailable
	car.LastUpdated = time.Now()
	if input.Specifications != nil {
		car.Specifications = input.Specifications
	}

	if specs := s.lookupSpecs(ctx, input.Brand, input.Model, input.Year); specs != nil {
		mergeSpecs(car, specs)
	}

	if image != nil {
		s.removeImage(car)
		url, path, err := s.storeImage(image)
		if err != nil {
			return nil, err
		}
		car.ImageURL = url
		car.ImagePath = path
	}

	if err := s.cars.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	return car, nil
}

func (s *carService) Delete(ctx context.Context, id uuid.UUID) error {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("lookup car: %w", err)
	}

	s.removeImage(car)

	if err := s.cars.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return nil
}

// lookupSpecs fetches car specifications, consulting the cache first. Any
// failure returns nil; spec enrichment never blocks catalog writes.
func (s *carService) lookupSpecs(ctx context.Context, brand, carModel string, year int) *extapi.CarSpecs {
	if s.specs == nil {
		return nil
	}

	key := fmt.Sprintf("carspecs:%s:%s:%d", strings.ToLower(brand), strings.ToLower(carModel), year)
	if cached, _ := s.cache.Get(ctx, key); cached != nil {
		var specs extapi.CarSpecs
		if err := json.Unmarshal(cached, &specs); err == nil {
			specs.Raw = cached
			return &specs
		}
	}

	specs, err := s.specs.Lookup(ctx, brand, carModel, year)
	if err != nil {
		log.Printf("car specs lookup: %v", err)
		return nil
	}
	_ = s.cache.Set(ctx, key, specs.Raw, specCacheTTL)
	return specs
}

func mergeSpecs(car *model.Car, specs *extapi.CarSpecs) {
	if car.Specifications == nil {
		car.Specifications = map[string]string{}
	}
	car.Specifications["fuelType"] = specs.FuelType
	car.Specifications["bodyType"] = specs.BodyType
	car.Specifications["driveType"] = specs.DriveType
	car.Specifications["cylinders"] = specs.Cylinders
	car.ApiData = specs.Raw
}

func (s *carService) storeImage(image *ImageUpload) (url, path string, err error) {
	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create image dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(image.Filename))
	full := filepath.Join(s.imageDir, filename)
	if err := os.WriteFile(full, image.Data, 0o644); err != nil {
		return "", "", fmt.Errorf("store image: %w", err)
	}
	return "/uploads/" + filename, full, nil
}

// removeImage deletes the stored file unless the car carries the default
// image. Best effort.
func (s *carService) removeImage(car *model.Car) {
	if car.ImagePath == "" || strings.Contains(car.ImageURL, "default_car.jpg") {
		return
	}
	if err := os.Remove(car.ImagePath); err != nil && !os.IsNotExist(err) {
		log.Printf("remove car image: %v", err)
	}
}
