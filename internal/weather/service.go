package weather

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// Service orchestrates the upstream provider and the history store: every
// successful fetch of current conditions is appended to both the
// current-conditions log and the daily history.
type Service struct {
	provider    ForecastProvider
	store       Store
	defaultCity string
}

// NewService creates a new Service. defaultCity is used when a request does
// not name a city.
func NewService(provider ForecastProvider, store Store, defaultCity string) *Service {
	return &Service{
		provider:    provider,
		store:       store,
		defaultCity: defaultCity,
	}
}

// DefaultCity returns the configured fallback city.
func (s *Service) DefaultCity() string { return s.defaultCity }

func (s *Service) resolveCity(city string) string {
	if city == "" {
		return s.defaultCity
	}
	return city
}

// Current fetches the current conditions for a city and records the reading.
// A storage failure does not fail the request; the fetched reading is still
// returned to the caller.
func (s *Service) Current(ctx context.Context, city string) (CurrentConditions, error) {
	city = s.resolveCity(city)

	current, err := s.provider.Fetch(ctx, city)
	if err != nil {
		return CurrentConditions{}, fmt.Errorf("fetch current weather for %q: %w", city, err)
	}

	if err := s.store.AppendCurrent(current); err != nil {
		log.Printf("ERROR: store current reading for %s: %v", city, err)
	}
	if err := s.store.AppendObservation(current.Observation()); err != nil {
		log.Printf("ERROR: store daily observation for %s: %v", city, err)
	}

	return current, nil
}

// Forecast fetches the upstream forecast and collapses the 3-hourly entries
// into at most days per-day summaries. Within a day, later entries overwrite
// earlier ones, so each day reflects its last reported point.
func (s *Service) Forecast(ctx context.Context, city string, days int) ([]ForecastDay, error) {
	city = s.resolveCity(city)

	entries, err := s.provider.FetchForecast(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %q: %w", city, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no forecast data available for %q", city)
	}

	return GroupForecastByDay(entries, days), nil
}

// GroupForecastByDay reduces timestamped forecast entries to one summary per
// calendar day (UTC), keeping at most days entries in date order.
func GroupForecastByDay(entries []ForecastEntry, days int) []ForecastDay {
	byDay := make(map[string]ForecastDay)
	for _, e := range entries {
		date := e.Timestamp.UTC().Format(DateLayout)
		byDay[date] = ForecastDay{
			Date:        date,
			Temperature: e.Temperature,
			Humidity:    e.Humidity,
			Pressure:    e.Pressure,
			WindSpeed:   e.WindSpeed,
			Description: e.Description,
			Icon:        e.Icon,
		}
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	if days > 0 && len(dates) > days {
		dates = dates[:days]
	}

	result := make([]ForecastDay, 0, len(dates))
	for _, d := range dates {
		result = append(result, byDay[d])
	}
	return result
}

// Alerts fetches current conditions and derives threshold advisories from
// them. The reading is recorded the same way Current records it.
func (s *Service) Alerts(ctx context.Context, city string) ([]Alert, error) {
	current, err := s.Current(ctx, city)
	if err != nil {
		return nil, err
	}
	return EvaluateAlerts(current), nil
}
