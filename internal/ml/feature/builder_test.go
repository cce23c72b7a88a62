package feature

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func series(closes ...float64) *models.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return &models.PriceSeries{Symbol: "ACME", Bars: bars}
}

func TestBuild_PartitionSizes(t *testing.T) {
	s := series(10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	h := 3

	tbl, err := Build(s, h)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tbl.ForecastX) != h {
		t.Errorf("forecast input rows = %d, want %d", len(tbl.ForecastX), h)
	}
	if len(tbl.X) != s.Len()-h {
		t.Errorf("trainable rows = %d, want %d", len(tbl.X), s.Len()-h)
	}
	if len(tbl.Y) != len(tbl.X) {
		t.Errorf("targets = %d, want %d", len(tbl.Y), len(tbl.X))
	}
}

func TestBuild_TargetIsShiftedClose(t *testing.T) {
	s := series(10, 20, 30, 40, 50)
	tbl, err := Build(s, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Row t's target is the close at t+2.
	want := []float64{30, 40, 50}
	for i, y := range tbl.Y {
		if y != want[i] {
			t.Errorf("Y[%d] = %v, want %v", i, y, want[i])
		}
	}
}

func TestBuild_ScalerFitOnTrainableOnly(t *testing.T) {
	closes := []float64{10, 12, 14, 16, 18, 20, 1000, 2000}
	h := 2

	tbl, err := Build(series(closes...), h)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Scaler parameters must come from the trainable rows regardless of how
	// extreme the held-out forecast rows are.
	want := FitScaler(closes[:len(closes)-h])
	if tbl.Scaler.Mean != want.Mean || tbl.Scaler.Std != want.Std {
		t.Fatalf("scaler = %+v, want %+v", tbl.Scaler, want)
	}

	// And the forecast rows are transformed with those same parameters.
	got := tbl.ForecastX[1][0]
	if math.Abs(got-want.Transform(2000)) > 1e-12 {
		t.Errorf("forecast row scaled with wrong parameters: %v", got)
	}
}

func TestBuild_InsufficientHistory(t *testing.T) {
	cases := []struct {
		name    string
		closes  []float64
		horizon int
	}{
		{"horizon equals rows", []float64{1, 2, 3}, 3},
		{"horizon exceeds rows", []float64{1, 2, 3}, 10},
		{"trainable set too small to split", []float64{1, 2, 3}, 2},
		{"zero horizon", []float64{1, 2, 3}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(series(tc.closes...), tc.horizon)
			if !errors.Is(err, models.ErrInsufficientHistory) {
				t.Fatalf("err = %v, want ErrInsufficientHistory", err)
			}
		})
	}
}

func TestScaler_ZeroMeanUnitVariance(t *testing.T) {
	vals := []float64{3, 7, 7, 19}
	s := FitScaler(vals)

	var sum, sum2 float64
	for _, v := range vals {
		z := s.Transform(v)
		sum += z
		sum2 += z * z
	}
	n := float64(len(vals))
	if math.Abs(sum/n) > 1e-12 {
		t.Errorf("mean of transformed = %v, want 0", sum/n)
	}
	if math.Abs(sum2/n-1) > 1e-12 {
		t.Errorf("variance of transformed = %v, want 1", sum2/n)
	}

	if got := s.Inverse(s.Transform(11)); math.Abs(got-11) > 1e-12 {
		t.Errorf("inverse(transform(11)) = %v", got)
	}
}

func TestScaler_ConstantSeries(t *testing.T) {
	s := FitScaler([]float64{5, 5, 5})
	if got := s.Transform(5); got != 0 {
		t.Errorf("constant series should transform to 0, got %v", got)
	}
}
