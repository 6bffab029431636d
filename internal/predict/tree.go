package predict

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// regressionTree is a CART regressor: greedy binary splits minimizing the
// summed squared error of the two sides, leaves predicting the mean of their
// samples.
type regressionTree struct {
	root            *treeNode
	minSamplesSplit int
	maxDepth        int // 0 = unlimited
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (t *regressionTree) fit(rows [][]float64, y []float64) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(rows, y, idx, 0)
}

func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func (t *regressionTree) build(rows [][]float64, y []float64, idx []int, depth int) *treeNode {
	values := make([]float64, len(idx))
	for i, id := range idx {
		values[i] = y[id]
	}
	mean := stat.Mean(values, nil)

	minSplit := t.minSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}
	if len(idx) < minSplit || (t.maxDepth > 0 && depth >= t.maxDepth) || constant(values) {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, ok := bestSplit(rows, y, idx)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, id := range idx {
		if rows[id][feature] <= threshold {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(rows, y, left, depth+1),
		right:     t.build(rows, y, right, depth+1),
	}
}

// bestSplit scans every feature for the threshold minimizing the combined
// squared error of the two partitions, using running sums over the sorted
// column so each feature costs one sort plus one linear pass.
func bestSplit(rows [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	bestSSE := math.Inf(1)

	order := make([]int, n)
	for f := 0; f < len(rows[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return rows[order[a]][f] < rows[order[b]][f]
		})

		var totalSum, totalSq float64
		for _, id := range order {
			totalSum += y[id]
			totalSq += y[id] * y[id]
		}

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			v := y[order[i]]
			leftSum += v
			leftSq += v * v

			cur, next := rows[order[i]][f], rows[order[i+1]][f]
			if cur == next {
				continue
			}

			nl := float64(i + 1)
			nr := float64(n - i - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq

			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
