package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"carfleet/internal/auth"
	"carfleet/internal/cache"
	"carfleet/internal/config"
	"carfleet/internal/db"
	"carfleet/internal/extapi"
	"carfleet/internal/handler"
	"carfleet/internal/middleware"
	"carfleet/internal/model"
	"carfleet/internal/repository"
	"carfleet/internal/router"
	"carfleet/internal/service"
)

func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Car{},
		&model.PriceSnapshot{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)
	snapshotRepo := repository.NewPriceSnapshotRepository(gormDB)

	// External API clients
	ratesClient := extapi.NewExchangeRatesClient(cfg.ExchangeAPIURL)
	newsClient := extapi.NewNewsClient(cfg.NewsAPIKey)
	weatherClient := extapi.NewWeatherClient(cfg.WeatherAPIKey)
	specsClient := extapi.NewCarSpecsClient(cfg.CarSpecsAPIKey)

	// Services
	sessionManager := auth.NewSessionManager(sessionRepo, time.Duration(cfg.SessionTTLHours)*time.Hour)
	authService := service.NewAuthService(userRepo, sessionManager, sessionRepo)
	userService := service.NewUserService(userRepo)
	carService := service.NewCarService(carRepo, specsClient, cacheClient, cfg.ImageDir)
	priceService := service.NewPriceService(carRepo, snapshotRepo, ratesClient)
	newsService := service.NewNewsService(newsClient, cacheClient)
	weatherService := service.NewWeatherService(weatherClient, cacheClient, cfg.WeatherCity)

	// Provision the bootstrap admin so a fresh database is never locked out.
	if err := userService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("ensure admin: %v", err)
	}

	// Handlers
	dev := cfg.IsDevelopment()
	gate := middleware.NewAuthGate(sessionManager, userRepo)
	authHandler := handler.NewAuthHandler(authService, userService, sessionManager, dev)
	carHandler := handler.NewCarHandler(carService, dev)
	priceHandler := handler.NewPriceHandler(priceService, carService, dev)
	newsHandler := handler.NewNewsHandler(newsService)
	weatherHandler := handler.NewWeatherHandler(weatherService)

	router.Register(
		e,
		cfg,
		gate,
		authHandler,
		carHandler,
		priceHandler,
		newsHandler,
		weatherHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
