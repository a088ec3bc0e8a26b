package extapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "carfleet/internal/errors"
)

const (
	newsEndpoint = "https://newsapi.org/v2/everything"
	newsWindow   = 30 * 24 * time.Hour
	newsDomains  = "caranddriver.com,autocar.co.uk,motortrend.com,autoblog.com,cnet.com/roadshow"
	newsQuery    = "(car OR automobile OR vehicle) AND (new OR launch OR review OR technology)"
)

// Article is one news item from the upstream feed.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsClient fetches recent automotive news articles.
type NewsClient interface {
	RecentCarNews(ctx context.Context) ([]Article, error)
}

type newsClient struct {
	apiKey string
	client *http.Client
}

// NewNewsClient creates a newsapi.org client.
func NewNewsClient(apiKey string) NewsClient {
	return &newsClient{apiKey: apiKey, client: newHTTPClient()}
}

func (c *newsClient) RecentCarNews(ctx context.Context) ([]Article, error) {
	params := url.Values{}
	params.Set("q", newsQuery)
	params.Set("language", "en")
	params.Set("from", time.Now().Add(-newsWindow).Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("domains", newsDomains)
	params.Set("apiKey", c.apiKey)

	body, err := get(ctx, c.client, newsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode news: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			ImageURL:    a.URLToImage,
			PublishedAt: published,
		})
	}
	return articles, nil
}
