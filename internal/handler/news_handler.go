package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"carfleet/internal/service"
)

// NewsHandler serves the automotive news page.
type NewsHandler struct {
	newsService service.NewsService
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(newsService service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// List renders recent car news. An upstream failure degrades to an empty
// list with an error banner instead of an error page.
func (h *NewsHandler) List(c echo.Context) error {
	articles, err := h.newsService.RecentCarNews(c.Request().Context())
	if err != nil {
		log.Printf("fetch news: %v", err)
		return c.Render(http.StatusOK, "news.html", echo.Map{
			"Articles": nil,
			"Error":    "Failed to fetch car news",
		})
	}
	return c.Render(http.StatusOK, "news.html", echo.Map{
		"Articles": articles,
		"Error":    nil,
	})
}
