package weather

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used in the daily history and dataset files.
const DateLayout = "2006-01-02"

// Observation is one daily weather record, the unit the analyzer and the
// prediction model work on.
type Observation struct {
	Date          time.Time `json:"date"`
	City          string    `json:"city,omitempty"`
	Temperature   float64   `json:"temperature"`   // °C
	Humidity      float64   `json:"humidity"`      // %
	WindSpeed     float64   `json:"wind_speed"`    // km/h
	Precipitation float64   `json:"precipitation"` // mm
	Pressure      float64   `json:"pressure"`      // hPa
	Description   string    `json:"description,omitempty"`
}

// CurrentConditions is a normalized point-in-time reading from the upstream
// weather source, as served to clients and appended to the current-conditions log.
type CurrentConditions struct {
	Timestamp   time.Time `json:"timestamp"`
	City        string    `json:"city"`
	Country     string    `json:"country,omitempty"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"` // km/h
	Precip      float64   `json:"precipitation"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Observation converts a current reading into a daily observation row.
func (c CurrentConditions) Observation() Observation {
	ts := c.Timestamp.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return Observation{
		Date:          day,
		City:          c.City,
		Temperature:   c.Temperature,
		Humidity:      c.Humidity,
		WindSpeed:     c.WindSpeed,
		Precipitation: c.Precip,
		Pressure:      c.Pressure,
		Description:   c.Description,
	}
}

// ForecastEntry is one upstream forecast point (OpenWeather returns them in
// 3-hour steps).
type ForecastEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"` // km/h
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// ForecastDay is the per-day view of the upstream forecast served to clients.
type ForecastDay struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Attribute is one numeric weather attribute tracked by both the analyzer and
// the prediction model.
type Attribute struct {
	Name  string
	Value func(Observation) float64
}

// TrackedAttributes is the single declaration of which attributes the system
// models. The feature builder, the regressor bank and the dataset reader all
// derive their column sets from this table, so the three cannot drift apart.
var TrackedAttributes = []Attribute{
	{Name: "temperature", Value: func(o Observation) float64 { return o.Temperature }},
	{Name: "humidity", Value: func(o Observation) float64 { return o.Humidity }},
	{Name: "wind_speed", Value: func(o Observation) float64 { return o.WindSpeed }},
	{Name: "precipitation", Value: func(o Observation) float64 { return o.Precipitation }},
	{Name: "pressure", Value: func(o Observation) float64 { return o.Pressure }},
}

// AttributeNames returns the tracked attribute names in declaration order.
func AttributeNames() []string {
	names := make([]string, len(TrackedAttributes))
	for i, a := range TrackedAttributes {
		names[i] = a.Name
	}
	return names
}

// Alert is a human-readable advisory derived from current conditions.
type Alert struct {
	Type    string `json:"type"` // "warning", "info" or "success"
	Message string `json:"message"`
}

func (o Observation) String() string {
	return fmt.Sprintf("%s %s t=%.1f h=%.1f w=%.1f p=%.1f pr=%.1f",
		o.Date.Format(DateLayout), o.City, o.Temperature, o.Humidity, o.WindSpeed, o.Precipitation, o.Pressure)
}
