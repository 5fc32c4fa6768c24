// Package backtest replays a signal list against a bar series under an
// all-in/all-out single-position strategy.
package backtest

import (
	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// position is the simulator-internal account state. Modeling it as a
// two-variant sum type makes the "always fully in cash or fully in the
// asset" invariant structural instead of checked.
type position interface {
	isPosition()
}

// inCash holds the uninvested account balance.
type inCash struct {
	amount float64
}

// inAsset holds the quantity of the asset currently held.
type inAsset struct {
	units float64
}

func (inCash) isPosition()  {}
func (inAsset) isPosition() {}

// Result summarizes a single backtest pass.
type Result struct {
	// InitialBalance is the starting cash balance.
	InitialBalance float64
	// FinalBalance is cash plus any open position marked to market at the
	// last bar's close. The position is only valued, not liquidated.
	FinalBalance float64
	// ExecutedTrades counts the signals that actually changed the position;
	// redundant buys and sells are no-ops and are not counted.
	ExecutedTrades int
}

// Run replays signals in the order provided against the bar series and
// returns the final account value. Signal timestamps are trusted as
// chronological and are not re-validated against the bars; only each
// signal's price and the final bar's close are used.
//
// A buy converts the whole cash balance into units at the signal price; a
// buy while already invested is a no-op, so the strategy never doubles a
// position or buys on margin. A sell is symmetric. With no signals the
// result equals the initial balance exactly.
func Run(bars []types.MarketData, signals []types.Signal, initialBalance float64) (Result, error) {
	if len(bars) == 0 {
		return Result{}, errors.New(errors.ErrCodeEmptySeries, "cannot backtest on an empty bar series")
	}

	if initialBalance <= 0 {
		return Result{}, errors.Newf(errors.ErrCodeInvalidBalance, "initial balance must be positive, got %f", initialBalance)
	}

	var state position = inCash{amount: initialBalance}

	executed := 0

	for _, signal := range signals {
		switch signal.Type {
		case types.SignalTypeBuy:
			if cash, ok := state.(inCash); ok {
				state = inAsset{units: cash.amount / signal.Price}
				executed++
			}
		case types.SignalTypeSell:
			if asset, ok := state.(inAsset); ok {
				state = inCash{amount: asset.units * signal.Price}
				executed++
			}
		}
	}

	lastClose := bars[len(bars)-1].Close

	var finalBalance float64

	switch s := state.(type) {
	case inCash:
		finalBalance = s.amount
	case inAsset:
		finalBalance = s.units * lastClose
	}

	return Result{
		InitialBalance: initialBalance,
		FinalBalance:   finalBalance,
		ExecutedTrades: executed,
	}, nil
}
