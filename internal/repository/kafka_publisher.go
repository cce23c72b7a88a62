package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// ForecastEvent is the payload emitted to Kafka when a forecast completes.
// Predictions are not carried; consumers that need them read the store.
type ForecastEvent struct {
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Model     string    `json:"model"`
	Horizon   int       `json:"horizon_days"`
	R2        float64   `json:"r2_score"`
	MAE       float64   `json:"mean_absolute_error"`
	CreatedAt time.Time `json:"created_at"`
}

// KafkaPublisher emits forecast-completed events keyed by symbol so all
// events for one symbol land on the same partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishForecast(ctx context.Context, userID string, result *models.ForecastResult) error {
	event := ForecastEvent{
		UserID:    userID,
		Symbol:    result.Symbol,
		Model:     string(result.Model),
		Horizon:   result.Horizon,
		R2:        result.R2,
		MAE:       result.MAE,
		CreatedAt: result.CreatedAt,
	}
	return p.producer.Publish(ctx, p.topic, []byte(result.Symbol), event)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when event publishing is disabled in config.
type NopPublisher struct{}

func (NopPublisher) PublishForecast(context.Context, string, *models.ForecastResult) error { return nil }
func (NopPublisher) Close() error                                                          { return nil }

var (
	_ domrepo.Publisher = (*KafkaPublisher)(nil)
	_ domrepo.Publisher = NopPublisher{}
)
