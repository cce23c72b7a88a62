package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear is an ordinary least squares regressor with an intercept term,
// solved as a least-squares problem over the design matrix.
type Linear struct {
	coef []float64 // intercept followed by one weight per feature
}

// NewLinear creates an unfitted OLS regressor.
func NewLinear() *Linear { return &Linear{} }

func (l *Linear) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return errors.New("linear: empty or mismatched training data")
	}
	p := len(X[0])
	if p == 0 {
		return errors.New("linear: no features")
	}

	a := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return fmt.Errorf("linear: solve: %w", err)
	}

	l.coef = make([]float64, p+1)
	for i := range l.coef {
		l.coef[i] = sol.AtVec(i)
	}
	return nil
}

func (l *Linear) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		v := l.coef[0]
		for j, x := range row {
			v += l.coef[j+1] * x
		}
		out[i] = v
	}
	return out
}
