package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"carfleet/internal/extapi"
	"carfleet/internal/service"
)

// WeatherHandler serves the driver weather advisory page.
type WeatherHandler struct {
	weatherService service.WeatherService
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// Current renders current conditions and the driving advisory. Failures keep
// the page up with an error banner.
func (h *WeatherHandler) Current(c echo.Context) error {
	report, err := h.weatherService.CurrentReport(c.Request().Context())
	if err != nil {
		log.Printf("fetch weather: %v", err)
		msg := "Failed to fetch weather data"
		if errors.Is(err, extapi.ErrBadAPIKey) {
			msg = "Invalid API key"
		}
		return c.Render(http.StatusOK, "weather.html", echo.Map{
			"Report": nil,
			"Error":  msg,
		})
	}
	return c.Render(http.StatusOK, "weather.html", echo.Map{
		"Report": report,
		"Error":  nil,
	})
}
