package types

import "time"

// MarketData represents a single OHLCV bar for a symbol.
// Bars are immutable once produced by a provider; pipelines never reorder or
// deduplicate them, so callers must supply series sorted ascending by time
// with unique timestamps.
type MarketData struct {
	// Symbol is the trading symbol this bar belongs to.
	Symbol string
	// Time is the bar timestamp.
	Time time.Time
	// Open is the opening price.
	Open float64
	// High is the highest price.
	High float64
	// Low is the lowest price.
	Low float64
	// Close is the closing price.
	Close float64
	// Volume is the traded volume.
	Volume float64
}

// EnrichedBar is a MarketData bar plus the derived indicator values.
// There is exactly one EnrichedBar per input bar, at the same index and
// timestamp, and it is never mutated after creation.
type EnrichedBar struct {
	MarketData

	// EMA20 is the 20-period exponentially weighted moving average of close.
	EMA20 float64
	// MACD is the difference between the 12- and 26-period EWMAs of close.
	MACD float64
	// MACDSignal is the 9-period EWMA of the MACD series.
	MACDSignal float64
}
