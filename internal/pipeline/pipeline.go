// Package pipeline wires the indicator engine, signal generator and backtest
// simulator into a single forward pass over an already-fetched bar series.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/rxtech-lab/trendline/internal/backtest"
	"github.com/rxtech-lab/trendline/internal/indicator"
	"github.com/rxtech-lab/trendline/internal/logger"
	"github.com/rxtech-lab/trendline/internal/strategy"
	"github.com/rxtech-lab/trendline/internal/types"
)

// Result carries the outputs of the three stages. Data flows strictly
// forward: bars -> enriched bars -> signals -> backtest result.
type Result struct {
	Enriched []types.EnrichedBar
	Signals  []types.Signal
	Backtest backtest.Result
}

// Run executes one pipeline pass over bars using cfg. It keeps no state
// across invocations, so concurrent runs on independent symbol/interval
// combinations need no locking.
func Run(bars []types.MarketData, cfg Config, log *logger.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bars = windowBars(bars, cfg)

	engine := indicator.NewEngine()
	if err := engine.Config(cfg.EMAPeriod, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal); err != nil {
		return nil, err
	}

	enriched, err := engine.Compute(bars)
	if err != nil {
		return nil, err
	}

	signals := strategy.Generate(enriched)

	result, err := backtest.Run(bars, signals, cfg.InitialBalance)
	if err != nil {
		return nil, err
	}

	if log != nil {
		log.Info("pipeline run complete",
			zap.Int("bars", len(bars)),
			zap.Int("signals", len(signals)),
			zap.Int("executed_trades", result.ExecutedTrades),
			zap.Float64("final_balance", result.FinalBalance),
		)
	}

	return &Result{
		Enriched: enriched,
		Signals:  signals,
		Backtest: result,
	}, nil
}

// windowBars restricts bars to the configured [start, end] window. The
// series stays in its original order; with no bounds set it is returned
// unchanged.
func windowBars(bars []types.MarketData, cfg Config) []types.MarketData {
	lo := 0
	hi := len(bars)

	if !cfg.StartTime.IsNone() {
		start, err := cfg.StartTime.Take()
		if err == nil {
			for lo < hi && bars[lo].Time.Before(start) {
				lo++
			}
		}
	}

	if !cfg.EndTime.IsNone() {
		end, err := cfg.EndTime.Take()
		if err == nil {
			for hi > lo && bars[hi-1].Time.After(end) {
				hi--
			}
		}
	}

	return bars[lo:hi]
}
