package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal  *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	stageLatency    *prometheus.HistogramVec
	predictedPrice  *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_forecasts_total",
				Help: "Total number of completed forecasts",
			},
			[]string{"tier", "model"},
		),
		rejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_rejections_total",
				Help: "Total number of rejected or failed forecast requests",
			},
			[]string{"reason"},
		),
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_pipeline_stage_duration_seconds",
				Help:    "Duration of forecast pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		predictedPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_predicted_price",
				Help: "Last forecasted price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordForecast records a completed forecast.
func (r *Recorder) RecordForecast(tier, model string) {
	r.forecastsTotal.WithLabelValues(tier, model).Inc()
}

// RecordRejection records a rejected or failed request by reason.
func (r *Recorder) RecordRejection(reason string) {
	r.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordStageLatency records a pipeline stage duration in seconds.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordPredictedPrice records the latest forecasted price for a symbol.
func (r *Recorder) RecordPredictedPrice(symbol string, price float64) {
	r.predictedPrice.WithLabelValues(symbol).Set(price)
}
