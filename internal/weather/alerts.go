package weather

import "github.com/telemetree/weathersense/internal/common"

// Alert thresholds for current conditions. Wind speed is km/h.
const (
	highTempThreshold = 30.0
	lowTempThreshold  = 10.0
	highHumidityPct   = 80.0
	strongWindKmh     = 20.0
)

// EvaluateAlerts derives advisories from a current reading. It always returns
// at least one entry; a single "success" entry means nothing is flagged.
func EvaluateAlerts(c CurrentConditions) []Alert {
	var alerts []Alert

	switch {
	case c.Temperature > highTempThreshold:
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: "High temperature alert: Stay hydrated and avoid prolonged sun exposure.",
		})
	case c.Temperature < lowTempThreshold:
		alerts = append(alerts, Alert{
			Type:    "info",
			Message: "Low temperature alert: Dress warmly and be cautious of frost.",
		})
	}

	if c.Humidity > highHumidityPct {
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: "High humidity alert: Increased risk of heat-related illnesses.",
		})
	}

	if c.WindSpeed > strongWindKmh {
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: "Strong wind alert: Secure outdoor objects and be cautious.",
		})
	}

	if common.HasAny(c.Description, "storm", "thunder", "tornado", "squall") {
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: "Severe weather alert: " + c.Description + ". Stay indoors if possible.",
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Type:    "success",
			Message: "No weather alerts at this time.",
		})
	}
	return alerts
}
