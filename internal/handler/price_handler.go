package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "carfleet/internal/errors"
	"carfleet/internal/service"
)

// PriceHandler serves the pricing pages and JSON endpoints.
type PriceHandler struct {
	priceService service.PriceService
	carService   service.CarService
	dev          bool
}

// NewPriceHandler creates a new pricing handler.
func NewPriceHandler(priceService service.PriceService, carService service.CarService, dev bool) *PriceHandler {
	return &PriceHandler{priceService: priceService, carService: carService, dev: dev}
}

// Overview renders every car with its latest snapshot.
func (h *PriceHandler) Overview(c echo.Context) error {
	overview, err := h.priceService.Overview(c.Request().Context())
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Render(http.StatusOK, "prices.html", echo.Map{
		"Overview": overview,
		"Snapshot": nil,
	})
}

// Snapshot fetches fresh rates for one car, persists a snapshot and renders it.
func (h *PriceHandler) Snapshot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("carId"))
	if err != nil {
		return renderErrorPage(c, apperrors.ErrNotFound, h.dev)
	}

	ctx := c.Request().Context()
	snapshot, err := h.priceService.CreateSnapshot(ctx, id)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}

	car, err := h.carService.GetByID(ctx, id)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}

	return c.Render(http.StatusOK, "prices.html", echo.Map{
		"Car":      car,
		"Snapshot": snapshot,
	})
}

// History renders the bounded snapshot history for a car.
func (h *PriceHandler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("carId"))
	if err != nil {
		return renderErrorPage(c, apperrors.ErrNotFound, h.dev)
	}

	history, err := h.priceService.GetHistory(c.Request().Context(), id, 10)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Render(http.StatusOK, "priceHistory.html", echo.Map{"History": history})
}

// LatestJSON returns the newest snapshot for a car as JSON.
func (h *PriceHandler) LatestJSON(c echo.Context) error {
	id, err := uuid.Parse(c.Param("carId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid car id"})
	}

	snapshot, err := h.priceService.GetLatest(c.Request().Context(), id)
	if err != nil {
		return respondJSONError(c, err, h.dev)
	}
	if snapshot == nil {
		return respondJSONError(c, apperrors.ErrNotFound, h.dev)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// HistoryJSON returns the snapshot history for a car as JSON.
func (h *PriceHandler) HistoryJSON(c echo.Context) error {
	id, err := uuid.Parse(c.Param("carId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid car id"})
	}

	limit := 10
	if parsed, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = parsed
	}

	history, err := h.priceService.GetHistory(c.Request().Context(), id, limit)
	if err != nil {
		return respondJSONError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, history)
}
