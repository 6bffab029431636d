// Package store persists weather history as append-only CSV files and
// computes trailing-window summaries over it.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/telemetree/weathersense/internal/weather"
)

var (
	// ErrNoData is returned when a summary window contains no records.
	ErrNoData = errors.New("no weather data for the requested range")
)

const (
	currentFileName    = "current_weather.csv"
	historicalFileName = "historical_weather.csv"
	analysisFileName   = "weather_analysis.json"

	timestampLayout = "2006-01-02 15:04:05"
)

var (
	currentHeader    = []string{"timestamp", "city", "temperature", "feels_like", "humidity", "pressure", "wind_speed", "description", "icon"}
	historicalHeader = []string{"date", "city", "temperature", "humidity", "wind_speed", "precipitation", "pressure", "description"}
)

// CSVStore keeps two append-only logs under a data directory: one for raw
// current-conditions readings and one for daily observations. Appends are
// serialized with a mutex; the store assumes it is the only writer in the
// process and defines no cross-process locking.
//
// Duplicate appends are kept as duplicate rows on purpose: the store records
// what it was given.
type CSVStore struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewCSVStore creates the data directory and the log files (with headers) if
// they do not exist yet.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &CSVStore{dir: dir, now: time.Now}
	if err := s.ensureFile(currentFileName, currentHeader); err != nil {
		return nil, err
	}
	if err := s.ensureFile(historicalFileName, historicalHeader); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ensureFile(name string, header []string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) appendRecord(name string, record []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("append to %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

// AppendCurrent adds one reading to the current-conditions log.
func (s *CSVStore) AppendCurrent(c weather.CurrentConditions) error {
	ts := c.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	return s.appendRecord(currentFileName, []string{
		ts.UTC().Format(timestampLayout),
		c.City,
		formatFloat(c.Temperature),
		formatFloat(c.FeelsLike),
		formatFloat(c.Humidity),
		formatFloat(c.Pressure),
		formatFloat(c.WindSpeed),
		c.Description,
		c.Icon,
	})
}

// AppendObservation adds one daily record to the historical log.
func (s *CSVStore) AppendObservation(o weather.Observation) error {
	date := o.Date
	if date.IsZero() {
		date = s.now()
	}
	return s.appendRecord(historicalFileName, []string{
		date.UTC().Format(weather.DateLayout),
		o.City,
		formatFloat(o.Temperature),
		formatFloat(o.Humidity),
		formatFloat(o.WindSpeed),
		formatFloat(o.Precipitation),
		formatFloat(o.Pressure),
		o.Description,
	})
}

// History returns historical observations in file (append) order, filtered by
// city and an inclusive date range. Nil bounds are open. An empty result is
// not an error.
func (s *CSVStore) History(city string, start, end *time.Time) ([]weather.Observation, error) {
	all, err := s.readHistorical()
	if err != nil {
		return nil, err
	}

	result := make([]weather.Observation, 0, len(all))
	for _, o := range all {
		if city != "" && o.City != city {
			continue
		}
		if start != nil && o.Date.Before(*start) {
			continue
		}
		if end != nil && o.Date.After(*end) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// Recent returns up to limit of the most recent current-conditions readings
// for a city (all cities when empty), oldest first.
func (s *CSVStore) Recent(city string, limit int) ([]weather.CurrentConditions, error) {
	all, err := s.readCurrent()
	if err != nil {
		return nil, err
	}

	filtered := all
	if city != "" {
		filtered = make([]weather.CurrentConditions, 0, len(all))
		for _, c := range all {
			if c.City == city {
				filtered = append(filtered, c)
			}
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}

func (s *CSVStore) readHistorical() ([]weather.Observation, error) {
	rows, err := s.readFile(historicalFileName, len(historicalHeader))
	if err != nil {
		return nil, err
	}

	obs := make([]weather.Observation, 0, len(rows))
	for _, rec := range rows {
		date, err := time.Parse(weather.DateLayout, rec[0])
		if err != nil {
			log.Printf("store: skipping historical row with bad date %q: %v", rec[0], err)
			continue
		}
		vals, err := parseFloats(rec[2:7])
		if err != nil {
			log.Printf("store: skipping historical row for %s: %v", rec[0], err)
			continue
		}
		obs = append(obs, weather.Observation{
			Date:          date,
			City:          rec[1],
			Temperature:   vals[0],
			Humidity:      vals[1],
			WindSpeed:     vals[2],
			Precipitation: vals[3],
			Pressure:      vals[4],
			Description:   rec[7],
		})
	}
	return obs, nil
}

func (s *CSVStore) readCurrent() ([]weather.CurrentConditions, error) {
	rows, err := s.readFile(currentFileName, len(currentHeader))
	if err != nil {
		return nil, err
	}

	readings := make([]weather.CurrentConditions, 0, len(rows))
	for _, rec := range rows {
		ts, err := time.Parse(timestampLayout, rec[0])
		if err != nil {
			log.Printf("store: skipping current row with bad timestamp %q: %v", rec[0], err)
			continue
		}
		vals, err := parseFloats(rec[2:7])
		if err != nil {
			log.Printf("store: skipping current row at %s: %v", rec[0], err)
			continue
		}
		readings = append(readings, weather.CurrentConditions{
			Timestamp:   ts.UTC(),
			City:        rec[1],
			Temperature: vals[0],
			FeelsLike:   vals[1],
			Humidity:    vals[2],
			Pressure:    vals[3],
			WindSpeed:   vals[4],
			Description: rec[7],
			Icon:        rec[8],
		})
	}
	return readings, nil
}

// readFile reads all data rows of a log, skipping the header. Rows with the
// wrong column count are dropped with a log line rather than failing the read.
func (s *CSVStore) readFile(name string, wantCols int) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if len(rec) != wantCols {
			log.Printf("store: skipping %s row with %d columns (want %d)", name, len(rec), wantCols)
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric field %q: %w", field, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
