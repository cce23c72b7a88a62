package ml

import (
	"math"
	"math/rand"
)

// SplitSeed fixes the train/test shuffle so evaluation numbers are stable
// across repeated calls with identical inputs. Model-internal randomness is
// deliberately outside this contract.
const SplitSeed = 7

// TrainTestSplit returns shuffled train/test index partitions over n samples.
// The split is fully determined by (n, testFrac, seed) and the input ordering.
func TrainTestSplit(n int, testFrac float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(math.Ceil(float64(n) * testFrac))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 1 {
		nTest = 1
	}

	return perm[nTest:], perm[:nTest]
}

// Take selects the rows and targets at the given indices.
func Take(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
