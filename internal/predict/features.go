// Package predict trains and serves the per-attribute next-day weather
// regressors: lag features feeding one scaled regression forest per tracked
// attribute.
package predict

import (
	"fmt"

	"github.com/telemetree/weathersense/internal/weather"
)

// DefaultLagSteps is how many prior days feed each supervised example.
const DefaultLagSteps = 7

// FeatureSet is the supervised view of an observation series: one row per
// example carrying lag values of every tracked attribute, plus the per-target
// value columns. All targets share the same feature matrix.
type FeatureSet struct {
	Columns []string
	Rows    [][]float64
	Targets map[string][]float64
}

// Len returns the number of supervised examples.
func (fs FeatureSet) Len() int { return len(fs.Rows) }

// Latest returns the most recent feature row, or false when the series is too
// short to produce any.
func (fs FeatureSet) Latest() ([]float64, bool) {
	if len(fs.Rows) == 0 {
		return nil, false
	}
	return fs.Rows[len(fs.Rows)-1], true
}

// BuildFeatures turns a date-ascending observation series into supervised
// examples with lagSteps lags of every tracked attribute. The first lagSteps
// rows of the series have incomplete lags and are dropped, so a series of
// length n yields n-lagSteps examples; fewer than lagSteps+1 observations
// yield an empty set.
//
// The input must already be sorted by date ascending; BuildFeatures does not
// sort.
func BuildFeatures(obs []weather.Observation, lagSteps int) FeatureSet {
	attrs := weather.TrackedAttributes

	columns := make([]string, 0, lagSteps*len(attrs))
	for lag := 1; lag <= lagSteps; lag++ {
		for _, a := range attrs {
			columns = append(columns, fmt.Sprintf("%s_lag_%d", a.Name, lag))
		}
	}

	fs := FeatureSet{
		Columns: columns,
		Targets: make(map[string][]float64, len(attrs)),
	}
	for _, a := range attrs {
		fs.Targets[a.Name] = nil
	}

	n := len(obs)
	if lagSteps <= 0 || n <= lagSteps {
		return fs
	}

	fs.Rows = make([][]float64, 0, n-lagSteps)
	for i := lagSteps; i < n; i++ {
		row := make([]float64, 0, len(columns))
		for lag := 1; lag <= lagSteps; lag++ {
			for _, a := range attrs {
				row = append(row, a.Value(obs[i-lag]))
			}
		}
		fs.Rows = append(fs.Rows, row)

		for _, a := range attrs {
			fs.Targets[a.Name] = append(fs.Targets[a.Name], a.Value(obs[i]))
		}
	}
	return fs
}
