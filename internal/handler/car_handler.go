package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "carfleet/internal/errors"
	"carfleet/internal/repository"
	"carfleet/internal/service"
)

// CarHandler serves the vehicle catalog pages and JSON endpoints.
type CarHandler struct {
	carService service.CarService
	dev        bool
}

// NewCarHandler creates a new catalog handler.
func NewCarHandler(carService service.CarService, dev bool) *CarHandler {
	return &CarHandler{carService: carService, dev: dev}
}

// List renders the filtered catalog.
func (h *CarHandler) List(c echo.Context) error {
	filter := repository.CarFilter{
		Brand:    c.QueryParam("brand"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}
	if year, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		filter.Year = year
	}
	if min, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		filter.MinRate = min
	}
	if max, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		filter.MaxRate = max
	}

	listing, err := h.carService.List(c.Request().Context(), filter)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Render(http.StatusOK, "cars.html", echo.Map{
		"Cars":       listing.Cars,
		"Brands":     listing.Brands,
		"Categories": listing.Categories,
	})
}

// AddForm renders the add-car form.
func (h *CarHandler) AddForm(c echo.Context) error {
	return c.Render(http.StatusOK, "addCar.html", nil)
}

// Create handles the add-car form submission.
func (h *CarHandler) Create(c echo.Context) error {
	input, err := carInputFromForm(c)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}

	image, err := imageFromForm(c)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}

	if _, err := h.carService.Create(c.Request().Context(), input, image); err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Redirect(http.StatusFound, "/cars")
}

// Details renders one vehicle.
func (h *CarHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return renderErrorPage(c, apperrors.ErrNotFound, h.dev)
	}

	car, err := h.carService.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Render(http.StatusOK, "carDetails.html", echo.Map{"Car": car})
}

// UpdateCarRequest is the JSON body for updating a vehicle.
type UpdateCarRequest struct {
	Brand          string            `json:"brand" validate:"required"`
	Model          string            `json:"model" validate:"required"`
	Year           int               `json:"year" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	DailyRate      float64           `json:"daily_rate" validate:"required,gt=0"`
	Specifications map[string]string `json:"specifications"`
	IsAvailable    bool              `json:"is_available"`
}

// Update handles the JSON update endpoint.
func (h *CarHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid car id"})
	}

	var req UpdateCarRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error()})
	}

	car, err := h.carService.Update(c.Request().Context(), id, service.CarInput{
		Brand:          req.Brand,
		Model:          req.Model,
		Year:           req.Year,
		Category:       req.Category,
		DailyRate:      req.DailyRate,
		Specifications: req.Specifications,
		IsAvailable:    req.IsAvailable,
	}, nil)
	if err != nil {
		return respondJSONError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "car": car})
}

// Delete removes a vehicle and its stored image.
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid car id"})
	}

	if err := h.carService.Delete(c.Request().Context(), id); err != nil {
		return respondJSONError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func carInputFromForm(c echo.Context) (service.CarInput, error) {
	year, _ := strconv.Atoi(c.FormValue("year"))
	rate, _ := strconv.ParseFloat(c.FormValue("dailyRate"), 64)

	return service.CarInput{
		Brand:     c.FormValue("brand"),
		Model:     c.FormValue("model"),
		Year:      year,
		Category:  c.FormValue("category"),
		DailyRate: rate,
		Specifications: map[string]string{
			"engineSize":   c.FormValue("engineSize"),
			"transmission": c.FormValue("transmission"),
			"acceleration": c.FormValue("acceleration"),
			"power":        c.FormValue("power"),
		},
		IsAvailable: true,
	}, nil
}

func imageFromForm(c echo.Context) (*service.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No upload is fine; the default image is used.
		return nil, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Filename: fileHeader.Filename, Data: data}, nil
}
