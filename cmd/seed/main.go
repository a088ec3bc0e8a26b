// Command seed inserts a sample vehicle catalog for local development.
package main

import (
	"context"
	"log"
	"time"

	"carfleet/internal/config"
	"carfleet/internal/db"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.Car{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	carRepo := repository.NewCarRepository(gormDB)
	ctx := context.Background()

	cars := []model.Car{
		{
			Brand:     "Toyota",
			Model:     "Camry",
			Year:      2023,
			Category:  "Sedan",
			DailyRate: 55,
			Specifications: map[string]string{
				"engineSize":   "2.5L",
				"transmission": "Automatic",
			},
			ImageURL:    "/default_car.jpg",
			IsAvailable: true,
			LastUpdated: time.Now(),
		},
		{
			Brand:     "BMW",
			Model:     "X5",
			Year:      2024,
			Category:  "SUV",
			DailyRate: 120,
			Specifications: map[string]string{
				"engineSize":   "3.0L",
				"transmission": "Automatic",
			},
			ImageURL:    "/default_car.jpg",
			IsAvailable: true,
			LastUpdated: time.Now(),
		},
		{
			Brand:     "Kia",
			Model:     "Rio",
			Year:      2022,
			Category:  "Economy",
			DailyRate: 30,
			Specifications: map[string]string{
				"engineSize":   "1.6L",
				"transmission": "Manual",
			},
			ImageURL:    "/default_car.jpg",
			IsAvailable: true,
			LastUpdated: time.Now(),
		},
	}

	for i := range cars {
		if err := carRepo.Create(ctx, &cars[i]); err != nil {
			log.Fatalf("seed car %s %s: %v", cars[i].Brand, cars[i].Model, err)
		}
		log.Printf("seeded %s %s (%s)", cars[i].Brand, cars[i].Model, cars[i].ID)
	}
	log.Printf("seeded %d cars", len(cars))
}
