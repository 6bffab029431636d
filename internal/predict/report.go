package predict

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVReporter writes each attribute's held-out actual/predicted pairs to
// <dir>/<attribute>_predictions.csv, overwriting the previous file. It stands
// in for plotting: the artifacts are meant for offline inspection of model
// fit and are not needed for correctness.
type CSVReporter struct {
	dir string
}

func NewCSVReporter(dir string) (*CSVReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &CSVReporter{dir: dir}, nil
}

// Report implements EvalReporter.
func (r *CSVReporter) Report(attribute string, actual, predicted []float64) error {
	f, err := os.Create(filepath.Join(r.dir, attribute+"_predictions.csv"))
	if err != nil {
		return fmt.Errorf("create report for %s: %w", attribute, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"actual", "predicted"}); err != nil {
		return err
	}
	for i := range actual {
		rec := []string{
			strconv.FormatFloat(actual[i], 'f', -1, 64),
			strconv.FormatFloat(predicted[i], 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
