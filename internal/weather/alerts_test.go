package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertTypes(alerts []Alert) []string {
	types := make([]string, 0, len(alerts))
	for _, a := range alerts {
		types = append(types, a.Type)
	}
	return types
}

func TestEvaluateAlerts(t *testing.T) {
	cases := []struct {
		name      string
		current   CurrentConditions
		wantTypes []string
	}{
		{
			name:      "calm conditions",
			current:   CurrentConditions{Temperature: 20, Humidity: 50, WindSpeed: 5, Description: "clear sky"},
			wantTypes: []string{"success"},
		},
		{
			name:      "high temperature",
			current:   CurrentConditions{Temperature: 31, Humidity: 50, WindSpeed: 5},
			wantTypes: []string{"warning"},
		},
		{
			name:      "low temperature",
			current:   CurrentConditions{Temperature: 9, Humidity: 50, WindSpeed: 5},
			wantTypes: []string{"info"},
		},
		{
			name:      "threshold values do not trigger",
			current:   CurrentConditions{Temperature: 30, Humidity: 80, WindSpeed: 20},
			wantTypes: []string{"success"},
		},
		{
			name:      "high humidity",
			current:   CurrentConditions{Temperature: 20, Humidity: 85, WindSpeed: 5},
			wantTypes: []string{"warning"},
		},
		{
			name:      "strong wind",
			current:   CurrentConditions{Temperature: 20, Humidity: 50, WindSpeed: 25},
			wantTypes: []string{"warning"},
		},
		{
			name:      "severe description",
			current:   CurrentConditions{Temperature: 20, Humidity: 50, WindSpeed: 5, Description: "Thunderstorm with rain"},
			wantTypes: []string{"warning"},
		},
		{
			name:      "stacked alerts",
			current:   CurrentConditions{Temperature: 35, Humidity: 90, WindSpeed: 40, Description: "squall"},
			wantTypes: []string{"warning", "warning", "warning", "warning"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateAlerts(tc.current)
			assert.Equal(t, tc.wantTypes, alertTypes(got))
		})
	}
}

func TestEvaluateAlertsSevereMessageNamesCondition(t *testing.T) {
	got := EvaluateAlerts(CurrentConditions{Temperature: 20, Humidity: 50, Description: "tornado warning"})
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "tornado warning")
}
