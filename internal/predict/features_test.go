package predict

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemetree/weathersense/internal/weather"
)

// seriesOf builds a date-ascending observation series where every attribute
// value encodes its day index, so lag positions are easy to verify.
func seriesOf(n int) []weather.Observation {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]weather.Observation, n)
	for i := range obs {
		d := float64(i)
		obs[i] = weather.Observation{
			Date:          start.AddDate(0, 0, i),
			Temperature:   d,
			Humidity:      100 + d,
			WindSpeed:     200 + d,
			Precipitation: 300 + d,
			Pressure:      400 + d,
		}
	}
	return obs
}

func constantSeries(n int, temp float64) []weather.Observation {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]weather.Observation, n)
	for i := range obs {
		obs[i] = weather.Observation{
			Date:          start.AddDate(0, 0, i),
			Temperature:   temp,
			Humidity:      60,
			WindSpeed:     12,
			Precipitation: 0,
			Pressure:      1013,
		}
	}
	return obs
}

func TestBuildFeaturesTooShort(t *testing.T) {
	for n := 0; n <= DefaultLagSteps; n++ {
		fs := BuildFeatures(seriesOf(n), DefaultLagSteps)
		assert.Zero(t, fs.Len(), "series of length %d must yield no examples", n)

		_, ok := fs.Latest()
		assert.False(t, ok)

		for _, name := range weather.AttributeNames() {
			assert.Empty(t, fs.Targets[name])
		}
	}
}

func TestBuildFeaturesRowCount(t *testing.T) {
	for _, n := range []int{8, 10, 50} {
		fs := BuildFeatures(seriesOf(n), DefaultLagSteps)
		assert.Equal(t, n-DefaultLagSteps, fs.Len(), "series of length %d", n)
	}
}

func TestBuildFeaturesLagLayout(t *testing.T) {
	obs := seriesOf(10)
	fs := BuildFeatures(obs, DefaultLagSteps)
	require.Equal(t, 3, fs.Len())

	attrs := len(weather.TrackedAttributes)
	require.Len(t, fs.Columns, DefaultLagSteps*attrs)
	assert.Equal(t, "temperature_lag_1", fs.Columns[0])
	assert.Equal(t, "temperature_lag_2", fs.Columns[attrs])
	assert.Equal(t, fmt.Sprintf("pressure_lag_%d", DefaultLagSteps), fs.Columns[len(fs.Columns)-1])

	// First example is for day 7: temperature_lag_1 is day 6, lag 7 is day 0.
	first := fs.Rows[0]
	assert.Equal(t, obs[6].Temperature, first[0])
	assert.Equal(t, obs[6].Pressure, first[attrs-1])
	assert.Equal(t, obs[0].Temperature, first[(DefaultLagSteps-1)*attrs])

	require.Len(t, fs.Targets["temperature"], 3)
	assert.Equal(t, obs[7].Temperature, fs.Targets["temperature"][0])
	assert.Equal(t, obs[9].Pressure, fs.Targets["pressure"][2])

	// Latest row belongs to the last observed day.
	latest, ok := fs.Latest()
	require.True(t, ok)
	assert.Equal(t, obs[8].Temperature, latest[0])
}
