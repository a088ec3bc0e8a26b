package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carfleet/internal/extapi"
)

func TestAssessDrivingConditions(t *testing.T) {
	tests := []struct {
		name         string
		obs          extapi.Observation
		expectedRisk string
		warnings     int
	}{
		{
			name:         "clear mild day",
			obs:          extapi.Observation{Condition: "Sunny", TempC: 18, WindKph: 10, VisibilityKm: 10},
			expectedRisk: RiskLow,
			warnings:     0,
		},
		{
			name:         "rain raises to moderate",
			obs:          extapi.Observation{Condition: "Light rain", TempC: 12, WindKph: 15, VisibilityKm: 8},
			expectedRisk: RiskModerate,
			warnings:     1,
		},
		{
			name:         "strong wind raises to moderate",
			obs:          extapi.Observation{Condition: "Cloudy", TempC: 10, WindKph: 60, VisibilityKm: 9},
			expectedRisk: RiskModerate,
			warnings:     1,
		},
		{
			name:         "snow is high regardless of other factors",
			obs:          extapi.Observation{Condition: "Moderate snow", TempC: 5, WindKph: 5, VisibilityKm: 9},
			expectedRisk: RiskHigh,
			warnings:     1,
		},
		{
			name:         "low visibility is high",
			obs:          extapi.Observation{Condition: "Fog", TempC: 6, WindKph: 5, VisibilityKm: 1},
			expectedRisk: RiskHigh,
			warnings:     1,
		},
		{
			name:         "freezing rain stacks warnings",
			obs:          extapi.Observation{Condition: "Freezing rain", TempC: -2, WindKph: 55, VisibilityKm: 3},
			expectedRisk: RiskModerate,
			warnings:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conditions := AssessDrivingConditions(&tt.obs)
			assert.Equal(t, tt.expectedRisk, conditions.RiskLevel)
			assert.Len(t, conditions.Warnings, tt.warnings)
			assert.Len(t, conditions.Recommendations, tt.warnings)
		})
	}
}
