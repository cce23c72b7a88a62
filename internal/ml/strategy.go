// Package ml implements the regression strategies behind the forecast
// pipeline. Every strategy is a stateless value object constructed fresh per
// request and exposes the same fit/predict contract, so adding a strategy is
// one new registry entry and no orchestrator change.
package ml

import (
	"fmt"

	"StockCast/internal/domain/models"
)

// Strategy is the uniform fit/predict contract shared by all regressors.
// X rows are feature vectors in sample order; Predict may only be called
// after a successful Fit.
type Strategy interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Constructor builds a fresh strategy instance.
type Constructor func() Strategy

var registry = map[models.ModelID]Constructor{
	models.ModelLinear:       func() Strategy { return NewLinear() },
	models.ModelKNearest:     func() Strategy { return NewKNN(5) },
	models.ModelRandomForest: func() Strategy { return NewRandomForest(100, 10) },
	models.ModelExtraTrees:   func() Strategy { return NewExtraTrees(100, 10) },
	models.ModelBoostedTrees: func() Strategy { return NewBoostedTrees(100, 3, 0.1) },
}

// NewStrategy constructs the strategy registered for id.
func NewStrategy(id models.ModelID) (Strategy, error) {
	ctor, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", id)
	}
	return ctor(), nil
}
