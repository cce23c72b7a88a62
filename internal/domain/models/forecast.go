package models

import "time"

// Tier is a subscription level gating which models and horizons a caller may use.
type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// ModelID identifies a regression strategy in the registry.
type ModelID string

const (
	ModelLinear       ModelID = "linear"
	ModelRandomForest ModelID = "random_forest"
	ModelExtraTrees   ModelID = "extra_trees"
	ModelKNearest     ModelID = "k_nearest"
	ModelBoostedTrees ModelID = "boosted_trees"
)

// AllModels lists every registered model identifier.
func AllModels() []ModelID {
	return []ModelID{ModelLinear, ModelRandomForest, ModelExtraTrees, ModelKNearest, ModelBoostedTrees}
}

// PriceBar is one daily OHLCV record.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a time-ordered sequence of daily bars for one symbol,
// strictly increasing by date. Missing trading days are simply absent.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Closes extracts the close column in series order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// ForecastRequest is a validated request for one pipeline run.
type ForecastRequest struct {
	UserID         string
	Symbol         string
	Model          ModelID
	Horizon        int // future trading days to forecast
	TrainingWindow int // trailing calendar days of history
	Tier           Tier
}

// Prediction is a single dated point forecast.
type Prediction struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ForecastResult is the immutable outcome of one accepted request.
// R2 and MAE are held-out diagnostics describing historical fit quality,
// not forecast confidence.
type ForecastResult struct {
	Symbol      string       `json:"symbol"`
	Model       ModelID      `json:"model"`
	Horizon     int          `json:"horizon_days"`
	Predictions []Prediction `json:"predictions"`
	R2          float64      `json:"r2_score"`
	MAE         float64      `json:"mean_absolute_error"`
	CreatedAt   time.Time    `json:"created_at"`
}
