package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	apperrors "carfleet/internal/errors"
)

// respondJSONError maps a domain error to a JSON error body. Internal detail
// is logged server-side and exposed only in development.
func respondJSONError(c echo.Context, err error, dev bool) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= 500 {
		log.Printf("internal error: %v", err)
		if dev {
			httpErr.Message = err.Error()
		}
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// renderErrorPage maps a domain error to the error view with the same
// detail-suppression rules as respondJSONError.
func renderErrorPage(c echo.Context, err error, dev bool) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	data := echo.Map{"Message": httpErr.Message}
	if httpErr.StatusCode >= 500 {
		log.Printf("internal error: %v", err)
		if dev {
			data["Detail"] = err.Error()
		}
	}
	return c.Render(httpErr.StatusCode, "error.html", data)
}
