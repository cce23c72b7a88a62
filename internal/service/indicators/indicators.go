// Package indicators computes technical indicators over daily close prices:
// simple and exponential moving averages, Wilder-smoothed RSI, MACD and
// Bollinger bands.
package indicators

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

const (
	IndicatorSMA       = "sma"
	IndicatorEMA       = "ema"
	IndicatorRSI       = "rsi"
	IndicatorMACD      = "macd"
	IndicatorBollinger = "bb"
)

// Point is one dated indicator observation. Values holds the indicator's
// output components, e.g. {"sma": 101.2} or {"macd": ..., "signal": ...,
// "histogram": ...}.
type Point struct {
	Date   time.Time          `json:"date"`
	Values map[string]float64 `json:"values"`
}

type Service struct {
	source repository.MarketData
}

func NewService(source repository.MarketData) *Service {
	return &Service{source: source}
}

// Compute fetches windowDays of history for the symbol and evaluates the
// named indicator with the given period. MACD ignores period and uses the
// conventional 12/26/9 configuration.
func (s *Service) Compute(ctx context.Context, symbol, indicator string, period, windowDays int) ([]Point, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	series, err := s.source.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()

	switch indicator {
	case IndicatorSMA:
		return singleSeries(series.Bars, SMA(closes, period), "sma"), nil
	case IndicatorEMA:
		return singleSeries(series.Bars, EMA(closes, period), "ema"), nil
	case IndicatorRSI:
		return singleSeries(series.Bars, RSI(closes, period), "rsi"), nil
	case IndicatorMACD:
		return macdSeries(series.Bars, closes), nil
	case IndicatorBollinger:
		return bollingerSeries(series.Bars, closes, period), nil
	default:
		return nil, fmt.Errorf("unknown indicator %q", indicator)
	}
}

// SMA returns the simple moving average. The result is aligned with the
// input; positions before a full window hold NaN.
func SMA(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the
// first period values.
func EMA(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	var seed float64
	for _, c := range closes[:period] {
		seed += c
	}
	seed /= float64(period)
	out[period-1] = seed

	alpha := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(closes); i++ {
		prev = alpha*closes[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// RSI returns the relative strength index with Wilder smoothing.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		up, down := 0.0, 0.0
		if delta > 0 {
			up = delta
		} else {
			down = -delta
		}
		avgGain = (avgGain*float64(period-1) + up) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + down) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line and histogram using the 12/26/9
// configuration.
func MACD(closes []float64) (macd, signal, histogram []float64) {
	fast := EMA(closes, 12)
	slow := EMA(closes, 26)

	macd = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]
		}
	}

	// Signal line is a 9-period EMA over the defined part of the MACD line.
	signal = nanSlice(len(closes))
	first := firstDefined(macd)
	if first >= 0 {
		sub := EMA(macd[first:], 9)
		for i, v := range sub {
			signal[first+i] = v
		}
	}

	histogram = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(macd[i]) && !math.IsNaN(signal[i]) {
			histogram[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, histogram
}

// Bollinger returns the middle band (SMA) and the upper/lower bands at two
// population standard deviations.
func Bollinger(closes []float64, period int) (middle, upper, lower []float64) {
	middle = SMA(closes, period)
	upper = nanSlice(len(closes))
	lower = nanSlice(len(closes))
	if period <= 0 || len(closes) < period {
		return middle, upper, lower
	}
	for i := period - 1; i < len(closes); i++ {
		var sum2 float64
		for _, c := range closes[i-period+1 : i+1] {
			d := c - middle[i]
			sum2 += d * d
		}
		sd := math.Sqrt(sum2 / float64(period))
		upper[i] = middle[i] + 2*sd
		lower[i] = middle[i] - 2*sd
	}
	return middle, upper, lower
}

func singleSeries(bars []models.PriceBar, values []float64, name string) []Point {
	points := make([]Point, 0, len(bars))
	for i, bar := range bars {
		if math.IsNaN(values[i]) {
			continue
		}
		points = append(points, Point{Date: bar.Date, Values: map[string]float64{name: values[i]}})
	}
	return points
}

func macdSeries(bars []models.PriceBar, closes []float64) []Point {
	macd, signal, histogram := MACD(closes)
	points := make([]Point, 0, len(bars))
	for i, bar := range bars {
		if math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			continue
		}
		points = append(points, Point{Date: bar.Date, Values: map[string]float64{
			"macd":      macd[i],
			"signal":    signal[i],
			"histogram": histogram[i],
		}})
	}
	return points
}

func bollingerSeries(bars []models.PriceBar, closes []float64, period int) []Point {
	middle, upper, lower := Bollinger(closes, period)
	points := make([]Point, 0, len(bars))
	for i, bar := range bars {
		if math.IsNaN(middle[i]) {
			continue
		}
		points = append(points, Point{Date: bar.Date, Values: map[string]float64{
			"middle": middle[i],
			"upper":  upper[i],
			"lower":  lower[i],
		}})
	}
	return points
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
