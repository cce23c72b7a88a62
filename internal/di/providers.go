package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	"StockCast/internal/pipeline"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/indicators"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/quota"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCache creates the cache backend named in config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	case "memory", "":
		return cache.NewMemoryCache(cache.WithMaxSize(cfg.Cache.MaxSize)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMarketData creates the Yahoo Finance source behind its TTL cache.
func ProvideMarketData(cfg *config.Config, c cache.Service, l *applogger.Logger) domrepo.MarketData {
	yahoo := marketdata.NewYahooClient(cfg.MarketData.Timeout)
	return marketdata.NewCachedSource(yahoo, c, cfg.MarketData.CacheTTL, l)
}

// ProvideQuota creates the daily request quota tracker.
func ProvideQuota(c cache.Service) domrepo.Quota {
	return quota.NewTracker(c)
}

// ProvidePublisher creates the forecast event publisher. Kafka is optional;
// when disabled a no-op publisher is wired instead.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideForecastStore creates the ClickHouse forecast store.
func ProvideForecastStore(ch *pkgch.Client, l *applogger.Logger) domrepo.ForecastStore {
	store := internalrepo.NewCHForecastStore(ch)
	store.SetLogger(l)
	return store
}

// ProvidePipeline creates the forecast pipeline.
func ProvidePipeline(
	source domrepo.MarketData,
	store domrepo.ForecastStore,
	publisher domrepo.Publisher,
	q domrepo.Quota,
	m domrepo.Metrics,
	l *applogger.Logger,
) *pipeline.Pipeline {
	return pipeline.New(source, store, publisher, q, m, l)
}

// ProvideIndicators creates the technical indicator service.
func ProvideIndicators(source domrepo.MarketData) *indicators.Service {
	return indicators.NewService(source)
}

// ProvideHandler groups all HTTP handlers into a single registration.
func ProvideHandler(
	l *applogger.Logger,
	p *pipeline.Pipeline,
	store domrepo.ForecastStore,
	source domrepo.MarketData,
	ind *indicators.Service,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewForecastHandler(l, p, store),
		api.NewStocksHandler(l, source, ind),
		api.NewHealthHandler(l, store),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	ch *pkgch.Client,
	publisher domrepo.Publisher,
) *server.App {
	return server.New(cfg, l, handler, ch, publisher)
}
