// Package feature converts a price series into the supervised-learning table
// the pipeline trains on: the same-day close as the single feature, the close
// h trading days later as the target.
package feature

import (
	"StockCast/internal/domain/models"
)

// Table is the engineered dataset for one pipeline run. Row order matches the
// underlying price series; the last h rows of the series have no valid target
// and become the forecast input instead of training rows.
type Table struct {
	// X and Y are the scaled trainable rows and their targets.
	X [][]float64
	Y []float64
	// ForecastX holds the scaled last-h rows, used only for final prediction.
	ForecastX [][]float64
	// Scaler carries the standardization fit on the trainable rows.
	Scaler Scaler
}

// Build shifts the close series back by horizon positions to produce targets,
// holds out the last horizon rows as forecast input, and standardizes both
// partitions with parameters fit on the trainable rows only. The forecast
// input never leaks into the scaler fit.
func Build(series *models.PriceSeries, horizon int) (*Table, error) {
	closes := series.Closes()
	n := len(closes)

	// The target shift and the train/test split both need a non-empty
	// trainable set, so anything under horizon+2 usable rows is rejected
	// rather than fit on zero or one example.
	if horizon <= 0 || n < horizon+2 {
		return nil, models.ErrInsufficientHistory
	}

	trainable := closes[:n-horizon]
	forecast := closes[n-horizon:]

	scaler := FitScaler(trainable)

	x := make([][]float64, len(trainable))
	y := make([]float64, len(trainable))
	for i, c := range trainable {
		x[i] = []float64{scaler.Transform(c)}
		y[i] = closes[i+horizon]
	}

	fx := make([][]float64, len(forecast))
	for i, c := range forecast {
		fx[i] = []float64{scaler.Transform(c)}
	}

	return &Table{X: x, Y: y, ForecastX: fx, Scaler: scaler}, nil
}
