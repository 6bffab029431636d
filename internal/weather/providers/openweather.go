package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/telemetree/weathersense/internal/weather"
)

// OpenWeatherProvider fetches current conditions and the 5-day/3-hour forecast
// from OpenWeatherMap. It implements weather.ForecastProvider.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: cb,
	}
}

// SetBaseURLs overrides the upstream endpoints. Used by tests.
func (p *OpenWeatherProvider) SetBaseURLs(current, forecast string) {
	p.currentURL = current
	p.forecastURL = forecast
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) buildRequest(baseURL, city string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", baseURL, values.Encode()), nil)
	}
}

// openWeatherPoint is the subset of an OpenWeather reading shared by the
// current-conditions and forecast payloads.
type openWeatherPoint struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Rain struct {
		OneH   float64 `json:"1h"`
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (pt openWeatherPoint) precip() float64 {
	if pt.Rain.OneH != 0 {
		return pt.Rain.OneH
	}
	return pt.Rain.ThreeH
}

func (pt openWeatherPoint) description() (desc, icon string) {
	if len(pt.Weather) == 0 {
		return "", ""
	}
	return pt.Weather[0].Description, pt.Weather[0].Icon
}

// Fetch returns the current conditions for a city. Wind speed is converted
// from m/s to km/h to match the stored history.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, city string) (weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.buildRequest(p.currentURL, city))
	if err != nil {
		return weather.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		openWeatherPoint
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("decode current weather: %w", err)
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}
	desc, icon := payload.description()

	return weather.CurrentConditions{
		Timestamp:   ts,
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: round1(payload.Main.Temp),
		FeelsLike:   round1(payload.Main.FeelsLike),
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   round1(payload.Wind.Speed * 3.6),
		Precip:      payload.precip(),
		Description: desc,
		Icon:        icon,
	}, nil
}

// FetchForecast returns the 3-hourly forecast entries for the next ~5 days,
// in upstream order.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, city string) ([]weather.ForecastEntry, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.buildRequest(p.forecastURL, city))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []openWeatherPoint `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, pt := range payload.List {
		desc, icon := pt.description()
		entries = append(entries, weather.ForecastEntry{
			Timestamp:   time.Unix(pt.Dt, 0).UTC(),
			Temperature: round1(pt.Main.Temp),
			Humidity:    pt.Main.Humidity,
			Pressure:    pt.Main.Pressure,
			WindSpeed:   round1(pt.Wind.Speed * 3.6),
			Description: desc,
			Icon:        icon,
		})
	}
	return entries, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
