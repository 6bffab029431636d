package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	current  CurrentConditions
	forecast []ForecastEntry
	err      error
	lastCity string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(ctx context.Context, city string) (CurrentConditions, error) {
	p.lastCity = city
	return p.current, p.err
}

func (p *fakeProvider) FetchForecast(ctx context.Context, city string) ([]ForecastEntry, error) {
	p.lastCity = city
	return p.forecast, p.err
}

type fakeStore struct {
	currents     []CurrentConditions
	observations []Observation
	err          error
}

func (s *fakeStore) AppendCurrent(c CurrentConditions) error {
	s.currents = append(s.currents, c)
	return s.err
}

func (s *fakeStore) AppendObservation(o Observation) error {
	s.observations = append(s.observations, o)
	return s.err
}

func TestServiceCurrentRecordsReading(t *testing.T) {
	provider := &fakeProvider{current: CurrentConditions{
		Timestamp:   time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC),
		City:        "Paris",
		Temperature: 18.5,
	}}
	store := &fakeStore{}
	svc := NewService(provider, store, "London")

	got, err := svc.Current(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, provider.current, got)

	require.Len(t, store.currents, 1)
	require.Len(t, store.observations, 1)
	assert.Equal(t, "2024-05-01", store.observations[0].Date.Format(DateLayout))
}

func TestServiceCurrentDefaultsCity(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeStore{}, "London")

	_, err := svc.Current(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "London", provider.lastCity)
}

func TestServiceCurrentStorageFailureIsNotFatal(t *testing.T) {
	provider := &fakeProvider{current: CurrentConditions{City: "Paris", Temperature: 18.5}}
	svc := NewService(provider, &fakeStore{err: errors.New("disk full")}, "London")

	got, err := svc.Current(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 18.5, got.Temperature)
}

func TestServiceCurrentProviderFailure(t *testing.T) {
	boom := errors.New("upstream down")
	svc := NewService(&fakeProvider{err: boom}, &fakeStore{}, "London")

	_, err := svc.Current(context.Background(), "Paris")
	require.ErrorIs(t, err, boom)
}

func TestServiceForecastEmptyUpstream(t *testing.T) {
	svc := NewService(&fakeProvider{}, &fakeStore{}, "London")

	_, err := svc.Forecast(context.Background(), "Paris", 5)
	require.Error(t, err)
}

func TestGroupForecastByDay(t *testing.T) {
	at := func(day, hour int) time.Time {
		return time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC)
	}
	entries := []ForecastEntry{
		{Timestamp: at(1, 9), Temperature: 12, Description: "overcast"},
		{Timestamp: at(1, 15), Temperature: 16, Description: "clear sky"},
		{Timestamp: at(2, 12), Temperature: 14, Description: "light rain"},
		{Timestamp: at(3, 12), Temperature: 13, Description: "mist"},
	}

	days := GroupForecastByDay(entries, 2)
	require.Len(t, days, 2)

	// Within a day the last entry wins.
	assert.Equal(t, "2024-05-01", days[0].Date)
	assert.Equal(t, 16.0, days[0].Temperature)
	assert.Equal(t, "clear sky", days[0].Description)
	assert.Equal(t, "2024-05-02", days[1].Date)

	all := GroupForecastByDay(entries, 7)
	assert.Len(t, all, 3)
}

func TestServiceAlerts(t *testing.T) {
	provider := &fakeProvider{current: CurrentConditions{City: "Paris", Temperature: 35, Humidity: 50}}
	store := &fakeStore{}
	svc := NewService(provider, store, "London")

	alerts, err := svc.Alerts(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Type)

	// The underlying reading is recorded the same way Current records it.
	assert.Len(t, store.currents, 1)
}
