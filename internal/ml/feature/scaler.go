package feature

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes values to zero mean and unit variance using the
// population standard deviation of the values it was fit on.
type Scaler struct {
	Mean float64
	Std  float64
}

// FitScaler computes standardization parameters over values.
func FitScaler(values []float64) Scaler {
	mean := stat.Mean(values, nil)
	std := stat.PopStdDev(values, nil)
	if std == 0 {
		// Degenerate constant series: transform to zero rather than divide by zero.
		std = 1
	}
	return Scaler{Mean: mean, Std: std}
}

// Transform applies the fitted standardization to one value.
func (s Scaler) Transform(v float64) float64 {
	return (v - s.Mean) / s.Std
}

// Inverse maps a standardized value back to the original scale.
func (s Scaler) Inverse(v float64) float64 {
	return v*s.Std + s.Mean
}
