package weather

import "context"

// Provider abstracts the upstream weather data source (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (CurrentConditions, error)
}

// ForecastProvider is implemented by providers that can also return a
// multi-day forecast as a series of timestamped entries.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, city string) ([]ForecastEntry, error)
}

// Store is the contract the CSV-backed history store must satisfy for the
// orchestration service.
type Store interface {
	AppendCurrent(c CurrentConditions) error
	AppendObservation(o Observation) error
}
