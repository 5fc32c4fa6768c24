package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// Engine computes the trend indicators for a bar series in a single
// left-to-right pass. It holds only configuration; Compute allocates fresh
// output on every call, so one Engine is safe to share across concurrent
// runs on independent symbols.
type Engine struct {
	emaPeriod    int
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewEngine creates a new indicator engine with default configuration.
func NewEngine() *Engine {
	return &Engine{
		emaPeriod:    20, // Default trend EMA period
		fastPeriod:   12, // Default MACD fast period
		slowPeriod:   26, // Default MACD slow period
		signalPeriod: 9,  // Default MACD signal period
	}
}

// Config configures the engine periods: emaPeriod, fastPeriod, slowPeriod, signalPeriod.
func (e *Engine) Config(emaPeriod, fastPeriod, slowPeriod, signalPeriod int) error {
	for _, p := range []int{emaPeriod, fastPeriod, slowPeriod, signalPeriod} {
		if p <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", p)
		}
	}

	e.emaPeriod = emaPeriod
	e.fastPeriod = fastPeriod
	e.slowPeriod = slowPeriod
	e.signalPeriod = signalPeriod

	return nil
}

// Compute transforms a bar series into an enriched series carrying EMA and
// MACD values, same length and order as the input. It fails with a
// validation error if the series is empty or any close price is non-finite
// or negative; no partial output is produced on error.
func (e *Engine) Compute(bars []types.MarketData) ([]types.EnrichedBar, error) {
	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "cannot compute indicators on an empty bar series")
	}

	closes := make([]float64, len(bars))

	for i, bar := range bars {
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) {
			return nil, errors.Newf(errors.ErrCodeInvalidPrice, "bar %d (%s) has non-finite close price", i, bar.Time.Format(time.RFC3339))
		}

		if bar.Close < 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidPrice, "bar %d (%s) has negative close price %f", i, bar.Time.Format(time.RFC3339), bar.Close)
		}

		closes[i] = bar.Close
	}

	ema := ewmaSeries(closes, e.emaPeriod)
	fast := ewmaSeries(closes, e.fastPeriod)
	slow := ewmaSeries(closes, e.slowPeriod)

	macd := make([]float64, len(bars))
	for i := range macd {
		macd[i] = fast[i] - slow[i]
	}

	macdSignal := ewmaSeries(macd, e.signalPeriod)

	enriched := make([]types.EnrichedBar, len(bars))
	for i, bar := range bars {
		enriched[i] = types.EnrichedBar{
			MarketData: bar,
			EMA20:      ema[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
		}
	}

	return enriched, nil
}
