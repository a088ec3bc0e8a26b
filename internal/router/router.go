package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"carfleet/internal/config"
	"carfleet/internal/handler"
	"carfleet/internal/middleware"
	"carfleet/internal/render"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gate *middleware.AuthGate,
	authHandler *handler.AuthHandler,
	carHandler *handler.CarHandler,
	priceHandler *handler.PriceHandler,
	newsHandler *handler.NewsHandler,
	weatherHandler *handler.WeatherHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(securityHeaders)

	e.Renderer = render.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Static("/uploads", cfg.ImageDir)

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":      "ok",
			"environment": cfg.AppEnv,
			"timestamp":   time.Now().Format(time.RFC3339),
		})
	})

	// Home: authenticated users land on the catalog.
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/cars")
	}, gate.RequireUser())

	// Auth and admin panel
	authGroup := e.Group("/auth")
	authGroup.GET("/login", authHandler.LoginPage, gate.RedirectIfAuthenticated())
	authGroup.POST("/login", authHandler.Login, gate.RedirectIfAuthenticated())
	authGroup.GET("/logout", authHandler.Logout)
	authGroup.GET("/admin", authHandler.AdminPanel, gate.RequireAdmin())
	authGroup.POST("/admin/users", authHandler.CreateUser, gate.RequireAdmin())
	authGroup.PUT("/admin/users/:id", authHandler.UpdateUser, gate.RequireAdminAPI())
	authGroup.DELETE("/admin/users/:id", authHandler.DeleteUser, gate.RequireAdminAPI())

	// Catalog
	cars := e.Group("/cars")
	cars.GET("", carHandler.List, gate.RequireUser())
	cars.GET("/add", carHandler.AddForm, gate.RequireUser())
	cars.POST("/add", carHandler.Create, gate.RequireUser())
	cars.GET("/:id", carHandler.Details, gate.RequireUser())
	cars.PUT("/:id", carHandler.Update, gate.RequireUserAPI())
	cars.DELETE("/:id", carHandler.Delete, gate.RequireUserAPI())

	// Pricing pages
	prices := e.Group("/prices", gate.RequireUser())
	prices.GET("", priceHandler.Overview)
	prices.GET("/:carId", priceHandler.Snapshot)
	prices.GET("/:carId/history", priceHandler.History)

	// Pricing JSON API
	api := e.Group("/api", gate.RequireUserAPI())
	api.GET("/prices/:carId/latest", priceHandler.LatestJSON)
	api.GET("/prices/:carId/history", priceHandler.HistoryJSON)

	// Ancillary pages
	e.GET("/news", newsHandler.List, gate.RequireUser())
	e.GET("/weather", weatherHandler.Current, gate.RequireUser())
}

func securityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
