package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rxtech-lab/trendline/internal/logger"
	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
	"github.com/rxtech-lab/trendline/pkg/marketdata/provider"
	"github.com/rxtech-lab/trendline/pkg/marketdata/store"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
	// CachePath is an optional DuckDB file; when set, fetched bars are
	// persisted there and can later be replayed without the provider.
	CachePath string
}

// FetchParams holds the parameters for a bar fetch request.
type FetchParams struct {
	Symbol       string   `validate:"required"`
	Interval     Interval `validate:"required"`
	LookbackDays int      `validate:"required,min=1"`
}

// Client fetches ordered bar series from a provider, guaranteeing the
// pipeline's input preconditions: ascending unique timestamps and a distinct
// error (never an empty series) on fetch failure.
type Client struct {
	provider provider.Provider
	config   ClientConfig
	validate *validator.Validate
	logger   *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var providerConfig any
	if config.ProviderType == provider.ProviderPolygon {
		providerConfig = config.PolygonApiKey
	}

	p, err := provider.NewProvider(config.ProviderType, providerConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: p,
		config:   config,
		validate: validate,
		logger:   log,
	}, nil
}

// FetchBars fetches the bars covering the lookback window ending now.
// The series is validated to be non-empty and strictly ascending before it
// is returned; when a cache path is configured the bars are also persisted.
func (c *Client) FetchBars(ctx context.Context, params FetchParams) ([]types.MarketData, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	if _, err := ParseInterval(string(params.Interval)); err != nil {
		return nil, err
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -params.LookbackDays)

	if c.logger != nil {
		c.logger.Info("fetching bars",
			zap.String("symbol", params.Symbol),
			zap.String("interval", string(params.Interval)),
			zap.Int("interval_minutes", params.Interval.Minutes()),
			zap.Int("lookback_days", params.LookbackDays),
		)
	}

	bars, err := c.provider.FetchBars(ctx, params.Symbol, startDate, endDate, params.Interval.Multiplier(), params.Interval.Timespan(), nil)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "provider returned no bars for %s", params.Symbol)
	}

	if c.config.CachePath != "" {
		if err := c.cacheBars(bars); err != nil {
			// Caching is best-effort; the fetched series is still valid.
			if c.logger != nil {
				c.logger.Warn("failed to cache bars", zap.Error(err))
			}
		}
	}

	return bars, nil
}

// LoadCachedBars replays previously fetched bars from the configured cache.
func (c *Client) LoadCachedBars(params FetchParams) ([]types.MarketData, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	if c.config.CachePath == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "no cache path configured")
	}

	s, err := store.Open(c.config.CachePath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -params.LookbackDays)

	return s.LoadBars(params.Symbol, startDate, endDate)
}

func (c *Client) cacheBars(bars []types.MarketData) error {
	s, err := store.Open(c.config.CachePath)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.SaveBars(bars)
}
