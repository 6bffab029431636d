package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/telemetree/weathersense/internal/weather"
)

// ErrMissingColumns is returned when a dataset file lacks one of the tracked
// attribute columns. Training fails fast on it instead of silently modelling
// incomplete data.
var ErrMissingColumns = errors.New("dataset is missing required columns")

// ReadDataset loads the daily observation dataset used for model training.
// The file must have a header row with a "date" column and one column per
// tracked attribute; "city" and "description" columns are optional. Rows are
// returned sorted by date ascending, which is the order the feature builder
// requires.
func ReadDataset(path string) ([]weather.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	if _, ok := colIdx["date"]; !ok {
		missing = append(missing, "date")
	}
	for _, name := range weather.AttributeNames() {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var obs []weather.Observation
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}

		o, err := parseDatasetRow(rec, colIdx)
		if err != nil {
			log.Printf("dataset: skipping line %d: %v", line, err)
			continue
		}
		obs = append(obs, o)
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func parseDatasetRow(rec []string, colIdx map[string]int) (weather.Observation, error) {
	field := func(name string) (string, bool) {
		i, ok := colIdx[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}

	dateStr, _ := field("date")
	date, err := time.Parse(weather.DateLayout, dateStr)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("bad date %q: %w", dateStr, err)
	}

	o := weather.Observation{Date: date}
	if city, ok := field("city"); ok {
		o.City = city
	}
	if desc, ok := field("description"); ok {
		o.Description = desc
	}

	for _, name := range weather.AttributeNames() {
		raw, _ := field(name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return weather.Observation{}, fmt.Errorf("bad %s value %q: %w", name, raw, err)
		}
		switch name {
		case "temperature":
			o.Temperature = v
		case "humidity":
			o.Humidity = v
		case "wind_speed":
			o.WindSpeed = v
		case "precipitation":
			o.Precipitation = v
		case "pressure":
			o.Pressure = v
		}
	}
	return o, nil
}
