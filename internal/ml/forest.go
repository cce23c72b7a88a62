package ml

import (
	"errors"
	"math/rand"
	"time"
)

// Forest averages an ensemble of CART regression trees. With bootstrap
// sampling it behaves like a random forest; with random split thresholds and
// no bootstrap it behaves like extremely-randomized trees.
//
// Ensemble randomness is intentionally not seeded per request: only the
// train/test split carries a reproducibility contract, matching the service's
// documented partial determinism.
type Forest struct {
	nTrees      int
	maxDepth    int
	bootstrap   bool
	randomSplit bool

	trees []*treeNode
	rng   *rand.Rand
}

// NewRandomForest creates a bootstrap-aggregated forest.
func NewRandomForest(nTrees, maxDepth int) *Forest {
	return &Forest{
		nTrees:    nTrees,
		maxDepth:  maxDepth,
		bootstrap: true,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewExtraTrees creates an extremely-randomized forest: every tree sees the
// full training set but split thresholds are drawn uniformly at random.
func NewExtraTrees(nTrees, maxDepth int) *Forest {
	return &Forest{
		nTrees:      nTrees,
		maxDepth:    maxDepth,
		randomSplit: true,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Forest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return errors.New("forest: empty or mismatched training data")
	}

	params := treeParams{
		maxDepth:       f.maxDepth,
		minSamplesLeaf: 1,
		randomSplit:    f.randomSplit,
		rng:            f.rng,
	}

	f.trees = make([]*treeNode, f.nTrees)
	for t := 0; t < f.nTrees; t++ {
		idx := make([]int, n)
		if f.bootstrap {
			for i := range idx {
				idx[i] = f.rng.Intn(n)
			}
		} else {
			for i := range idx {
				idx[i] = i
			}
		}
		f.trees[t] = buildTree(X, y, idx, 0, params)
	}
	return nil
}

func (f *Forest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}
