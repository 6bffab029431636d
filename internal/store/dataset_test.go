package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDataset(t *testing.T) {
	path := writeDataset(t, `date,temperature,humidity,wind_speed,precipitation,pressure
2023-01-02,16.1,55.0,3.2,0.0,1014.9
2023-01-01,15.2,61.3,4.1,0.0,1012.5
2023-01-03,14.8,58.7,2.9,1.4,1010.2
`)

	obs, err := ReadDataset(path)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	// Rows come back date-ascending regardless of file order.
	assert.Equal(t, "2023-01-01", obs[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2023-01-03", obs[2].Date.Format("2006-01-02"))
	assert.Equal(t, 15.2, obs[0].Temperature)
	assert.Equal(t, 1.4, obs[2].Precipitation)
	assert.Empty(t, obs[0].City)
}

func TestReadDatasetOptionalColumns(t *testing.T) {
	path := writeDataset(t, `date,city,temperature,humidity,wind_speed,precipitation,pressure,description
2023-01-01,Paris,15.2,61.3,4.1,0.0,1012.5,clear sky
`)

	obs, err := ReadDataset(path)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "Paris", obs[0].City)
	assert.Equal(t, "clear sky", obs[0].Description)
}

func TestReadDatasetMissingColumns(t *testing.T) {
	path := writeDataset(t, `date,temperature,humidity
2023-01-01,15.2,61.3
`)

	_, err := ReadDataset(path)
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "wind_speed")
	assert.Contains(t, err.Error(), "precipitation")
	assert.Contains(t, err.Error(), "pressure")
}

func TestReadDatasetSkipsBadRows(t *testing.T) {
	path := writeDataset(t, `date,temperature,humidity,wind_speed,precipitation,pressure
2023-01-01,15.2,61.3,4.1,0.0,1012.5
not-a-date,15.2,61.3,4.1,0.0,1012.5
2023-01-03,oops,61.3,4.1,0.0,1012.5
2023-01-04,14.8,58.7,2.9,1.4,1010.2
`)

	obs, err := ReadDataset(path)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 14.8, obs[1].Temperature)
}

func TestReadDatasetMissingFile(t *testing.T) {
	_, err := ReadDataset(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
