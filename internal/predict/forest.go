package predict

import (
	"math/rand"
)

// Forest is a bagged ensemble of regression trees: each tree is fit on a
// bootstrap sample of the training rows and predictions are the mean over
// trees. With a fixed rand source the fitted forest is fully deterministic.
type Forest struct {
	trees []*regressionTree
}

// fitForest trains trees on bootstrap samples drawn from rng. rows must
// already be scaled.
func fitForest(rows [][]float64, y []float64, trees, maxDepth int, rng *rand.Rand) *Forest {
	f := &Forest{trees: make([]*regressionTree, 0, trees)}

	n := len(rows)
	for t := 0; t < trees; t++ {
		sampleRows := make([][]float64, n)
		sampleY := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleRows[i] = rows[j]
			sampleY[i] = y[j]
		}

		tree := &regressionTree{minSamplesSplit: 2, maxDepth: maxDepth}
		tree.fit(sampleRows, sampleY)
		f.trees = append(f.trees, tree)
	}
	return f
}

// Predict returns the ensemble mean for one (scaled) feature row.
func (f *Forest) Predict(row []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.trees))
}
