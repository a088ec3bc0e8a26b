package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"carfleet/internal/cache"
	"carfleet/internal/extapi"
)

const (
	weatherCacheTTL = 10 * time.Minute

	// RiskLow through RiskHigh are the qualitative driving-risk labels.
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// DrivingConditions is the qualitative driving advisory derived from current
// weather.
type DrivingConditions struct {
	RiskLevel       string   `json:"risk_level"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// WeatherReport pairs an observation with the derived advisory.
type WeatherReport struct {
	Observation extapi.Observation `json:"observation"`
	Driving     DrivingConditions  `json:"driving"`
}

// WeatherService supplies weather advisories for drivers.
type WeatherService interface {
	CurrentReport(ctx context.Context) (*WeatherReport, error)
}

type weatherService struct {
	client extapi.WeatherClient
	cache  *cache.Client
	city   string
}

// NewWeatherService creates a weather service for the configured city.
func NewWeatherService(client extapi.WeatherClient, cacheClient *cache.Client, city string) WeatherService {
	return &weatherService{client: client, cache: cacheClient, city: city}
}

func (s *weatherService) CurrentReport(ctx context.Context) (*WeatherReport, error) {
	key := "weather:" + strings.ToLower(s.city)
	if cached, _ := s.cache.Get(ctx, key); cached != nil {
		var report WeatherReport
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	}

	obs, err := s.client.Current(ctx, s.city)
	if err != nil {
		return nil, err
	}

	report := &WeatherReport{
		Observation: *obs,
		Driving:     AssessDrivingConditions(obs),
	}
	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, key, payload, weatherCacheTTL)
	}
	return report, nil
}

// AssessDrivingConditions maps weather fields to a qualitative risk label
// with warnings and recommendations. The heuristic is deliberately simple:
// each adverse factor raises the risk level and contributes one warning.
func AssessDrivingConditions(obs *extapi.Observation) DrivingConditions {
	conditions := DrivingConditions{
		RiskLevel:       RiskLow,
		Warnings:        []string{},
		Recommendations: []string{},
	}
	condition := strings.ToLower(obs.Condition)

	if obs.VisibilityKm < 2 {
		conditions.Warnings = append(conditions.Warnings, "Low visibility - hazardous driving conditions")
		conditions.Recommendations = append(conditions.Recommendations, "Use fog lights and drive slowly")
		conditions.RiskLevel = RiskHigh
	}

	if obs.TempC <= 0 {
		conditions.Warnings = append(conditions.Warnings, "Freezing temperatures - possible ice on roads")
		conditions.Recommendations = append(conditions.Recommendations, "Watch for black ice, brake gently")
		conditions.RiskLevel = raiseRisk(conditions.RiskLevel, RiskModerate)
	}

	if obs.WindKph > 50 {
		conditions.Warnings = append(conditions.Warnings, "Strong winds - vehicle stability affected")
		conditions.Recommendations = append(conditions.Recommendations, "Reduce speed and maintain firm grip")
		conditions.RiskLevel = raiseRisk(conditions.RiskLevel, RiskModerate)
	}

	if strings.Contains(condition, "rain") {
		conditions.Warnings = append(conditions.Warnings, "Wet roads - increased braking distance")
		conditions.Recommendations = append(conditions.Recommendations, "Maintain safe distance")
		conditions.RiskLevel = raiseRisk(conditions.RiskLevel, RiskModerate)
	}

	if strings.Contains(condition, "snow") {
		conditions.Warnings = append(conditions.Warnings, "Snowy conditions - reduced traction")
		conditions.Recommendations = append(conditions.Recommendations, "Drive slowly and avoid sudden movements")
		conditions.RiskLevel = RiskHigh
	}

	return conditions
}

func raiseRisk(current, proposed string) string {
	rank := map[string]int{RiskLow: 0, RiskModerate: 1, RiskHigh: 2}
	if rank[proposed] > rank[current] {
		return proposed
	}
	return current
}
