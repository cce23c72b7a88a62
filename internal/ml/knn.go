package ml

import (
	"errors"
	"math"
	"sort"
)

// KNN is a k-nearest-neighbors regressor: the prediction for a query point is
// the mean target of its k closest training points by euclidean distance.
type KNN struct {
	k int
	x [][]float64
	y []float64
}

// NewKNN creates a regressor over the k nearest neighbors.
func NewKNN(k int) *KNN { return &KNN{k: k} }

func (m *KNN) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("knn: empty or mismatched training data")
	}
	m.x = X
	m.y = y
	return nil
}

func (m *KNN) Predict(X [][]float64) []float64 {
	k := m.k
	if k > len(m.x) {
		k = len(m.x)
	}

	out := make([]float64, len(X))
	dists := make([]struct {
		d float64
		y float64
	}, len(m.x))

	for qi, q := range X {
		for i, p := range m.x {
			dists[i].d = euclidean(q, p)
			dists[i].y = m.y[i]
		}
		sort.Slice(dists, func(i, j int) bool { return dists[i].d < dists[j].d })

		sum := 0.0
		for i := 0; i < k; i++ {
			sum += dists[i].y
		}
		out[qi] = sum / float64(k)
	}
	return out
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
