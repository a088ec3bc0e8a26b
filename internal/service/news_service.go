package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"carfleet/internal/cache"
	"carfleet/internal/extapi"
)

const (
	newsCacheKey = "news:car"
	newsCacheTTL = 15 * time.Minute
)

// carKeywords mark an article as genuinely automotive; the upstream query is
// broad enough to let unrelated pieces through.
var carKeywords = []string{
	"car", "vehicle", "automobile", "suv", "sedan", "ev", "electric vehicle", "hybrid",
}

// NewsService supplies automotive news for the dashboard.
type NewsService interface {
	// RecentCarNews returns recent car-related articles, filtered by keyword.
	RecentCarNews(ctx context.Context) ([]extapi.Article, error)
}

type newsService struct {
	client extapi.NewsClient
	cache  *cache.Client
}

// NewNewsService creates a new news service.
func NewNewsService(client extapi.NewsClient, cacheClient *cache.Client) NewsService {
	return &newsService{client: client, cache: cacheClient}
}

func (s *newsService) RecentCarNews(ctx context.Context) ([]extapi.Article, error) {
	if cached, _ := s.cache.Get(ctx, newsCacheKey); cached != nil {
		var articles []extapi.Article
		if err := json.Unmarshal(cached, &articles); err == nil {
			return articles, nil
		}
	}

	articles, err := s.client.RecentCarNews(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]extapi.Article, 0, len(articles))
	for _, a := range articles {
		if isCarRelated(a) {
			filtered = append(filtered, a)
		}
	}

	if payload, err := json.Marshal(filtered); err == nil {
		_ = s.cache.Set(ctx, newsCacheKey, payload, newsCacheTTL)
	} else {
		log.Printf("cache news: %v", err)
	}
	return filtered, nil
}

func isCarRelated(a extapi.Article) bool {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)
	for _, keyword := range carKeywords {
		if strings.Contains(title, keyword) || strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}
