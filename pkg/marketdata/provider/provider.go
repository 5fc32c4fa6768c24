package provider

import (
	"context"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnFetchProgress reports download progress to the caller.
type OnFetchProgress = func(current float64, total float64, message string)

// Provider supplies ordered bar series for a symbol.
type Provider interface {
	// FetchBars downloads the bars for the given symbol and date range.
	// The returned series is sorted ascending by timestamp with unique
	// timestamps. Fetch failures are reported as market-data errors, never
	// as an empty or malformed series. The context can be used to cancel
	// the download.
	FetchBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnFetchProgress) ([]types.MarketData, error)
}

// NewProvider creates a new market data provider based on the provider type.
func NewProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// dedupeAscending drops bars whose timestamps do not strictly increase,
// keeping the first occurrence. Providers paginate upstream APIs and page
// boundaries can repeat the last bar.
func dedupeAscending(bars []types.MarketData) []types.MarketData {
	if len(bars) < 2 {
		return bars
	}

	out := bars[:1]
	for _, bar := range bars[1:] {
		if bar.Time.After(out[len(out)-1].Time) {
			out = append(out, bar)
		}
	}

	return out
}
