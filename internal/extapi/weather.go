package extapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	apperrors "carfleet/internal/errors"
)

const weatherEndpoint = "http://api.weatherapi.com/v1/current.json"

// ErrBadAPIKey indicates the weather upstream rejected the configured key.
var ErrBadAPIKey = errors.New("weather api key rejected")

// Observation is a current-conditions report for one location.
type Observation struct {
	City          string  `json:"city"`
	Country       string  `json:"country"`
	TempC         float64 `json:"temp_c"`
	FeelsLikeC    float64 `json:"feels_like_c"`
	Condition     string  `json:"condition"`
	Humidity      int     `json:"humidity"`
	WindKph       float64 `json:"wind_kph"`
	WindDir       string  `json:"wind_dir"`
	VisibilityKm  float64 `json:"visibility_km"`
	PressureMb    float64 `json:"pressure_mb"`
	LastUpdated   string  `json:"last_updated"`
}

// WeatherClient fetches current weather for a city.
type WeatherClient interface {
	Current(ctx context.Context, city string) (*Observation, error)
}

type weatherClient struct {
	apiKey string
	client *http.Client
}

// NewWeatherClient creates a weatherapi.com client.
func NewWeatherClient(apiKey string) WeatherClient {
	return &weatherClient{apiKey: apiKey, client: newHTTPClient()}
}

func (c *weatherClient) Current(ctx context.Context, city string) (*Observation, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", city)
	params.Set("aqi", "yes")

	body, err := get(ctx, c.client, weatherEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrBadAPIKey
		}
		return nil, err
	}

	var parsed struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelsLikeC float64 `json:"feelslike_c"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
			Humidity    int     `json:"humidity"`
			WindKph     float64 `json:"wind_kph"`
			WindDir     string  `json:"wind_dir"`
			VisKm       float64 `json:"vis_km"`
			PressureMb  float64 `json:"pressure_mb"`
			LastUpdated string  `json:"last_updated"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode weather: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	return &Observation{
		City:         parsed.Location.Name,
		Country:      parsed.Location.Country,
		TempC:        parsed.Current.TempC,
		FeelsLikeC:   parsed.Current.FeelsLikeC,
		Condition:    parsed.Current.Condition.Text,
		Humidity:     parsed.Current.Humidity,
		WindKph:      parsed.Current.WindKph,
		WindDir:      parsed.Current.WindDir,
		VisibilityKm: parsed.Current.VisKm,
		PressureMb:   parsed.Current.PressureMb,
		LastUpdated:  parsed.Current.LastUpdated,
	}, nil
}
