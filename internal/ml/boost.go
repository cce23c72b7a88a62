package ml

import (
	"errors"
	"math/rand"
	"time"
)

// BoostedTrees is a gradient boosting regressor with squared-error loss:
// shallow CART trees fit the running residual and contribute with shrinkage.
type BoostedTrees struct {
	nRounds  int
	maxDepth int
	shrink   float64

	base  float64
	trees []*treeNode
}

// NewBoostedTrees creates a gradient boosting ensemble.
func NewBoostedTrees(nRounds, maxDepth int, shrink float64) *BoostedTrees {
	return &BoostedTrees{nRounds: nRounds, maxDepth: maxDepth, shrink: shrink}
}

func (b *BoostedTrees) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return errors.New("boost: empty or mismatched training data")
	}

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	b.base = sum / float64(n)

	params := treeParams{
		maxDepth:       b.maxDepth,
		minSamplesLeaf: 1,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	idx := make([]int, n)
	pred := make([]float64, n)
	resid := make([]float64, n)
	for i := range idx {
		idx[i] = i
		pred[i] = b.base
	}

	b.trees = make([]*treeNode, 0, b.nRounds)
	for r := 0; r < b.nRounds; r++ {
		for i := range resid {
			resid[i] = y[i] - pred[i]
		}
		tree := buildTree(X, resid, idx, 0, params)
		b.trees = append(b.trees, tree)
		for i, row := range X {
			pred[i] += b.shrink * tree.predict(row)
		}
	}
	return nil
}

func (b *BoostedTrees) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		v := b.base
		for _, t := range b.trees {
			v += b.shrink * t.predict(row)
		}
		out[i] = v
	}
	return out
}
