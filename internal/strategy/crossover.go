// Package strategy derives discrete trade signals from enriched bar series.
package strategy

import (
	"fmt"

	"github.com/rxtech-lab/trendline/internal/types"
)

// Generate scans an enriched series and emits a chronological list of buy and
// sell signals. A buy requires the trend EMA to be strictly rising and MACD
// strictly above its signal line; a sell requires both strictly reversed, so
// at most one signal fires per bar and equality on either comparison emits
// nothing. The first bar never produces a signal since crossover detection
// needs a prior value. Consecutive same-kind signals are not deduplicated.
//
// Generate is a pure stateless scan: identical input always produces
// identical output.
func Generate(enriched []types.EnrichedBar) []types.Signal {
	var signals []types.Signal

	for i := 1; i < len(enriched); i++ {
		prev := enriched[i-1]
		curr := enriched[i]

		switch {
		case curr.EMA20 > prev.EMA20 && curr.MACD > curr.MACDSignal:
			signals = append(signals, types.Signal{
				Time:   curr.Time,
				Type:   types.SignalTypeBuy,
				Price:  curr.Close,
				Reason: fmt.Sprintf("EMA rising and MACD above signal (macd=%.4f, signal=%.4f)", curr.MACD, curr.MACDSignal),
				Symbol: curr.Symbol,
			})
		case curr.EMA20 < prev.EMA20 && curr.MACD < curr.MACDSignal:
			signals = append(signals, types.Signal{
				Time:   curr.Time,
				Type:   types.SignalTypeSell,
				Price:  curr.Close,
				Reason: fmt.Sprintf("EMA falling and MACD below signal (macd=%.4f, signal=%.4f)", curr.MACD, curr.MACDSignal),
				Symbol: curr.Symbol,
			})
		}
	}

	return signals
}
