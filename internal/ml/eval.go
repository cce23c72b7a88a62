package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluation holds held-out accuracy diagnostics. They describe historical
// fit quality on the test partition, not forecast confidence.
type Evaluation struct {
	R2  float64
	MAE float64
}

// Evaluate computes the coefficient of determination and mean absolute error
// of predictions against the observed targets.
func Evaluate(observed, predicted []float64) Evaluation {
	return Evaluation{
		R2:  stat.RSquaredFrom(predicted, observed, nil),
		MAE: meanAbsoluteError(observed, predicted),
	}
}

func meanAbsoluteError(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	sum := 0.0
	for i := range observed {
		sum += math.Abs(observed[i] - predicted[i])
	}
	return sum / float64(len(observed))
}
