package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/telemetree/weathersense/internal/weather"
)

// AttributeStats holds descriptive statistics for one numeric attribute,
// rounded to one decimal place.
type AttributeStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
}

// DateRange is the inclusive span of dates covered by an analysis.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Analysis is the summary computed over a trailing window of the daily
// history. It is recomputed on demand and also written to
// weather_analysis.json, overwriting the previous artifact.
type Analysis struct {
	Attributes map[string]AttributeStats `json:"attributes"`
	Conditions map[string]int            `json:"weather_conditions"`
	DataPoints int                       `json:"data_points"`
	DateRange  DateRange                 `json:"date_range"`
}

// Summarize computes descriptive statistics per tracked attribute plus
// condition-description counts over the trailing window of days, optionally
// filtered by city. An empty window yields ErrNoData so callers never see
// statistics over an empty set.
func (s *CSVStore) Summarize(city string, days int) (Analysis, error) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -days)

	obs, err := s.History(city, &start, nil)
	if err != nil {
		return Analysis{}, err
	}
	if len(obs) == 0 {
		return Analysis{}, fmt.Errorf("%w: city=%q days=%d", ErrNoData, city, days)
	}

	analysis := Analysis{
		Attributes: make(map[string]AttributeStats, len(weather.TrackedAttributes)),
		Conditions: make(map[string]int),
		DataPoints: len(obs),
	}

	values := make([]float64, len(obs))
	for _, attr := range weather.TrackedAttributes {
		for i, o := range obs {
			values[i] = attr.Value(o)
		}
		analysis.Attributes[attr.Name] = summarizeValues(values)
	}

	minDate, maxDate := obs[0].Date, obs[0].Date
	for _, o := range obs {
		if o.Description != "" {
			analysis.Conditions[o.Description]++
		}
		if o.Date.Before(minDate) {
			minDate = o.Date
		}
		if o.Date.After(maxDate) {
			maxDate = o.Date
		}
	}
	analysis.DateRange = DateRange{
		Start: minDate.Format(weather.DateLayout),
		End:   maxDate.Format(weather.DateLayout),
	}

	if err := s.writeAnalysis(analysis); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

func summarizeValues(values []float64) AttributeStats {
	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return AttributeStats{
		Mean: round1(stat.Mean(values, nil)),
		Min:  round1(floats.Min(values)),
		Max:  round1(floats.Max(values)),
		Std:  round1(std),
	}
}

func (s *CSVStore) writeAnalysis(a Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, analysisFileName), data, 0o644); err != nil {
		return fmt.Errorf("write analysis artifact: %w", err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
