// Package marketdata adapts the external daily-bar provider to the domain
// MarketData contract.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// YahooClient fetches daily OHLCV bars from Yahoo Finance.
type YahooClient struct {
	timeout time.Duration
}

// NewYahooClient creates a Yahoo Finance market data source.
func NewYahooClient(timeout time.Duration) *YahooClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooClient{timeout: timeout}
}

// Fetch returns the daily bars for symbol over [start, end], ordered by date.
// An empty chart is reported as models.ErrNoData.
func (y *YahooClient) Fetch(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	params.Context = &ctx

	iter := chart.Get(params)

	bars := make([]models.PriceBar, 0, 256)
	for iter.Next() {
		b := iter.Bar()
		// Yahoo emits empty rows for non-trading days on some symbols.
		if b.Close.IsZero() {
			continue
		}
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   price(b.Open),
			High:   price(b.High),
			Low:    price(b.Low),
			Close:  price(b.Close),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	// The provider returns bars in date order, but the pipeline depends on it.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return &models.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// price converts the provider's fixed-point price to the float the models
// consume.
func price(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

var _ repository.MarketData = (*YahooClient)(nil)
