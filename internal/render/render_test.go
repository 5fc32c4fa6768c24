package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/trendline/internal/backtest"
	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

type RenderTestSuite struct {
	suite.Suite
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (suite *RenderTestSuite) TestCurrency() {
	suite.Equal("$1000.00", Currency(1000))
	suite.Equal("$2000.00", Currency(2000.004))
	suite.Equal("$0.50", Currency(0.5))
}

func (suite *RenderTestSuite) TestSignalTableEmpty() {
	out := SignalTable(nil)
	suite.Contains(out, "Signals")
	suite.Contains(out, "no signals fired")
}

func (suite *RenderTestSuite) TestSignalTableRows() {
	signals := []types.Signal{
		{
			Time:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			Type:   types.SignalTypeBuy,
			Price:  100.5,
			Reason: "EMA rising and MACD above signal",
		},
		{
			Time:   time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
			Type:   types.SignalTypeSell,
			Price:  99.5,
			Reason: "EMA falling and MACD below signal",
		},
	}

	out := SignalTable(signals)
	suite.Contains(out, "BUY")
	suite.Contains(out, "SELL")
	suite.Contains(out, "2024-01-01 12:00:00")
	suite.Contains(out, "EMA rising and MACD above signal")
}

func (suite *RenderTestSuite) TestIndicatorSnapshotLimitsRows() {
	enriched := make([]types.EnrichedBar, 10)
	for i := range enriched {
		enriched[i] = types.EnrichedBar{
			MarketData: types.MarketData{
				Time:  time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
				Close: 100 + float64(i),
			},
			EMA20: 100,
		}
	}

	out := IndicatorSnapshot(enriched, 3)
	suite.NotContains(out, "2024-01-01 06:00:00")
	suite.Contains(out, "2024-01-01 07:00:00")
	suite.Contains(out, "2024-01-01 09:00:00")
}

func (suite *RenderTestSuite) TestIndicatorSnapshotShortSeries() {
	enriched := []types.EnrichedBar{{
		MarketData: types.MarketData{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Close: 100},
	}}

	out := IndicatorSnapshot(enriched, 10)
	suite.Contains(out, "2024-01-01 00:00:00")
}

func (suite *RenderTestSuite) TestSummary() {
	out := Summary(backtest.Result{
		InitialBalance: 1000,
		FinalBalance:   2000,
		ExecutedTrades: 2,
	})

	suite.Contains(out, "$1000.00")
	suite.Contains(out, "$2000.00")
	suite.Contains(out, "executed trades: 2")
	suite.Contains(out, "100.00%")
}

func (suite *RenderTestSuite) TestFailureDistinguishesCategories() {
	fetchErr := errors.New(errors.ErrCodeFetchFailed, "exchange unavailable")
	suite.Contains(Failure(fetchErr), "fetch failed")

	inputErr := errors.New(errors.ErrCodeEmptySeries, "bar series is empty")
	suite.Contains(Failure(inputErr), "invalid input")

	plain := errors.New(errors.ErrCodeUnknown, "boom")
	suite.Contains(Failure(plain), "error")
}
