package types

import "time"

type SignalType string

const (
	// SignalTypeBuy is a signal that tells the simulator to buy
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell is a signal that tells the simulator to sell
	SignalTypeSell SignalType = "sell"
)

// Signal is a derived trade event. Signals are value objects consumed
// sequentially by the backtest simulator; they do not reference the bar
// that triggered them.
type Signal struct {
	// Time is the time of the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Price is the close price of the bar that triggered the signal
	Price float64
	// Reason is the reason for the signal
	Reason string
	// Symbol is the symbol of the signal
	Symbol string
}
