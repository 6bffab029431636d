package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNoData(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Summarize("", 30)
	require.ErrorIs(t, err, ErrNoData)

	// Data exists but outside the trailing window.
	require.NoError(t, s.AppendObservation(obsOn(day(2020, 1, 1), "Paris", 10)))
	_, err = s.Summarize("", 30)
	require.ErrorIs(t, err, ErrNoData)

	// Data exists but for another city.
	require.NoError(t, s.AppendObservation(obsOn(time.Now().UTC(), "Paris", 10)))
	_, err = s.Summarize("Oslo", 30)
	require.ErrorIs(t, err, ErrNoData)
}

func TestSummarizeStatistics(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return day(2024, 5, 10) }

	temps := []float64{10, 12, 14}
	for i, temp := range temps {
		o := obsOn(day(2024, 5, 1+i), "Paris", temp)
		if i == 2 {
			o.Description = "clear sky"
		}
		require.NoError(t, s.AppendObservation(o))
	}

	a, err := s.Summarize("Paris", 30)
	require.NoError(t, err)

	assert.Equal(t, 3, a.DataPoints)
	assert.Equal(t, DateRange{Start: "2024-05-01", End: "2024-05-03"}, a.DateRange)
	assert.Equal(t, map[string]int{"light rain": 2, "clear sky": 1}, a.Conditions)

	temp := a.Attributes["temperature"]
	assert.Equal(t, AttributeStats{Mean: 12, Min: 10, Max: 14, Std: 2}, temp)

	// Constant attribute: zero spread, never NaN.
	pressure := a.Attributes["pressure"]
	assert.Equal(t, AttributeStats{Mean: 1013, Min: 1013, Max: 1013, Std: 0}, pressure)
}

func TestSummarizeSingleRowHasZeroStd(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return day(2024, 5, 10) }
	require.NoError(t, s.AppendObservation(obsOn(day(2024, 5, 9), "Paris", 21)))

	a, err := s.Summarize("", 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Attributes["temperature"].Std)
}

func TestSummarizeWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVStore(dir)
	require.NoError(t, err)
	s.now = func() time.Time { return day(2024, 5, 10) }

	require.NoError(t, s.AppendObservation(obsOn(day(2024, 5, 9), "Paris", 21)))

	first, err := s.Summarize("", 30)
	require.NoError(t, err)

	var onDisk Analysis
	data, err := os.ReadFile(filepath.Join(dir, analysisFileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, first, onDisk)

	// A later run overwrites the artifact.
	require.NoError(t, s.AppendObservation(obsOn(day(2024, 5, 10), "Paris", 25)))
	second, err := s.Summarize("", 30)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	data, err = os.ReadFile(filepath.Join(dir, analysisFileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, second, onDisk)
}
