package ml

import (
	"math"
	"math/rand"
)

// treeNode is one node of a CART regression tree. Leaves carry the mean
// target of their training samples; internal nodes split on feature/threshold.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

type treeParams struct {
	maxDepth       int
	minSamplesLeaf int
	// randomSplit picks a uniform-random threshold per feature instead of
	// scanning all candidate thresholds (extremely-randomized trees).
	randomSplit bool
	rng         *rand.Rand
}

func buildTree(X [][]float64, y []float64, idx []int, depth int, p treeParams) *treeNode {
	if depth >= p.maxDepth || len(idx) < 2*p.minSamplesLeaf || isConstant(y, idx) {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	feature, threshold, ok := bestSplit(X, y, idx, p)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < p.minSamplesLeaf || len(rightIdx) < p.minSamplesLeaf {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(X, y, leftIdx, depth+1, p),
		right:     buildTree(X, y, rightIdx, depth+1, p),
	}
}

// bestSplit minimizes the weighted sum of child variances.
func bestSplit(X [][]float64, y []float64, idx []int, p treeParams) (int, float64, bool) {
	nFeatures := len(X[idx[0]])
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	for f := 0; f < nFeatures; f++ {
		var thresholds []float64
		if p.randomSplit {
			lo, hi := featureRange(X, idx, f)
			if lo == hi {
				continue
			}
			thresholds = []float64{lo + p.rng.Float64()*(hi-lo)}
		} else {
			thresholds = candidateThresholds(X, idx, f)
		}

		for _, th := range thresholds {
			score, ok := splitScore(X, y, idx, f, th)
			if ok && score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = th
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitScore(X [][]float64, y []float64, idx []int, feature int, threshold float64) (float64, bool) {
	var lN, rN float64
	var lSum, lSum2, rSum, rSum2 float64
	for _, i := range idx {
		v := y[i]
		if X[i][feature] <= threshold {
			lN++
			lSum += v
			lSum2 += v * v
		} else {
			rN++
			rSum += v
			rSum2 += v * v
		}
	}
	if lN == 0 || rN == 0 {
		return 0, false
	}
	lVar := lSum2 - lSum*lSum/lN
	rVar := rSum2 - rSum*rSum/rN
	return lVar + rVar, true
}

func candidateThresholds(X [][]float64, idx []int, feature int) []float64 {
	seen := make(map[float64]struct{}, len(idx))
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		v := X[i][feature]
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	return vals
}

func featureRange(X [][]float64, idx []int, feature int) (float64, float64) {
	lo, hi := X[idx[0]][feature], X[idx[0]][feature]
	for _, i := range idx[1:] {
		v := X[i][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func meanAt(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func isConstant(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
