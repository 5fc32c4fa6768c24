// Package render formats pipeline results for terminal display. The core
// pipeline exposes no formatting of its own; everything user-visible lives
// here.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/trendline/internal/backtest"
	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// BuyStyle for buy rows.
	BuyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// SellStyle for sell rows.
	SellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// FaintStyle for secondary text.
	FaintStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Currency formats an amount as a two-decimal USD string.
func Currency(amount float64) string {
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}

// SignalTable renders the signal list as a table, one row per signal.
func SignalTable(signals []types.Signal) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Signals"))
	b.WriteString("\n")

	if len(signals) == 0 {
		b.WriteString(FaintStyle.Render("no signals fired"))
		b.WriteString("\n")

		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-22s %-5s %12s  %s\n", "TIME", "KIND", "PRICE", "REASON"))

	for _, s := range signals {
		row := fmt.Sprintf("%-22s %-5s %12.4f  %s",
			s.Time.Format("2006-01-02 15:04:05"),
			strings.ToUpper(string(s.Type)),
			s.Price,
			s.Reason,
		)

		switch s.Type {
		case types.SignalTypeBuy:
			row = BuyStyle.Render(row)
		case types.SignalTypeSell:
			row = SellStyle.Render(row)
		}

		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

// IndicatorSnapshot renders the last few enriched bars so the trend context
// behind the final signals is visible.
func IndicatorSnapshot(enriched []types.EnrichedBar, rows int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Indicators"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-22s %12s %12s %12s %12s\n", "TIME", "CLOSE", "EMA20", "MACD", "SIGNAL"))

	start := len(enriched) - rows
	if start < 0 {
		start = 0
	}

	for _, e := range enriched[start:] {
		b.WriteString(fmt.Sprintf("%-22s %12.4f %12.4f %12.4f %12.4f\n",
			e.Time.Format("2006-01-02 15:04:05"),
			e.Close,
			e.EMA20,
			e.MACD,
			e.MACDSignal,
		))
	}

	return b.String()
}

// Summary renders the backtest outcome as a single block.
func Summary(result backtest.Result) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Backtest"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("initial balance: %s\n", Currency(result.InitialBalance)))
	b.WriteString(fmt.Sprintf("final balance:   %s\n", Currency(result.FinalBalance)))
	b.WriteString(fmt.Sprintf("executed trades: %d\n", result.ExecutedTrades))

	ret := (result.FinalBalance/result.InitialBalance - 1) * 100
	b.WriteString(fmt.Sprintf("return:          %.2f%%\n", ret))

	return b.String()
}

// Failure renders an error, distinguishing upstream fetch failures from
// rejected pipeline input so the user knows which side to fix.
func Failure(err error) string {
	switch {
	case errors.IsUpstreamFetch(err):
		return ErrorStyle.Render("fetch failed") + ": " + err.Error()
	case errors.IsInvalidInput(err):
		return ErrorStyle.Render("invalid input") + ": " + err.Error()
	default:
		return ErrorStyle.Render("error") + ": " + err.Error()
	}
}
