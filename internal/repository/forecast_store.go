package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgch "StockCast/pkg/clickhouse"
	applogger "StockCast/pkg/logger"
)

// CHForecastStore implements ForecastStore backed by ClickHouse. Predictions
// are stored as a JSON column; history queries only ever read whole results
// back, so there is nothing to gain from exploding them into rows.
type CHForecastStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHForecastStore(ch *pkgch.Client) *CHForecastStore {
	return &CHForecastStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHForecastStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns the idempotent DDL for the forecast history table.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.forecast_history (
            user_id      String,
            symbol       String,
            model        LowCardinality(String),
            horizon_days UInt16,
            predictions  String,
            r2_score     Float64,
            mae          Float64,
            created_at   DateTime64(3, 'UTC')
        )
        ENGINE = MergeTree()
        PARTITION BY toYYYYMM(created_at)
        ORDER BY (user_id, created_at)
    `, database),
	}
}

func (s *CHForecastStore) Save(ctx context.Context, userID string, result *models.ForecastResult) error {
	start := time.Now()

	preds, err := json.Marshal(result.Predictions)
	if err != nil {
		return fmt.Errorf("marshal predictions: %w", err)
	}

	const q = `
        INSERT INTO forecast_history
            (user_id, symbol, model, horizon_days, predictions, r2_score, mae, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		userID,
		result.Symbol,
		string(result.Model),
		uint16(result.Horizon),
		string(preds),
		result.R2,
		result.MAE,
		result.CreatedAt,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse forecast insert error",
				applogger.String("symbol", result.Symbol),
				applogger.String("model", string(result.Model)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert forecast: %w", err)
	}

	if s.l != nil {
		s.l.Debug("clickhouse forecast insert ok",
			applogger.String("symbol", result.Symbol),
			applogger.String("model", string(result.Model)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHForecastStore) List(ctx context.Context, userID string, limit int) ([]*models.ForecastResult, error) {
	const q = `
        SELECT symbol, model, horizon_days, predictions, r2_score, mae, created_at
        FROM forecast_history
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse forecast list error",
				applogger.String("user_id", userID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ForecastResult, 0, limit)
	for rows.Next() {
		var (
			r       models.ForecastResult
			model   string
			horizon uint16
			preds   string
		)
		if err := rows.Scan(&r.Symbol, &model, &horizon, &preds, &r.R2, &r.MAE, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		r.Model = models.ModelID(model)
		r.Horizon = int(horizon)
		if err := json.Unmarshal([]byte(preds), &r.Predictions); err != nil {
			return nil, fmt.Errorf("decode predictions: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHForecastStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ domrepo.ForecastStore = (*CHForecastStore)(nil)
