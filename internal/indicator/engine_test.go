package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func barsFromCloses(closes []float64) []types.MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]types.MarketData, len(closes))
	for i, c := range closes {
		bars[i] = types.MarketData{
			Symbol: "BTCUSDT",
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}

	return bars
}

func (suite *EngineTestSuite) TestNewEngine() {
	engine := NewEngine()
	suite.NotNil(engine)
	suite.Equal(20, engine.emaPeriod)
	suite.Equal(12, engine.fastPeriod)
	suite.Equal(26, engine.slowPeriod)
	suite.Equal(9, engine.signalPeriod)
}

func (suite *EngineTestSuite) TestConfigValid() {
	engine := NewEngine()

	err := engine.Config(10, 5, 15, 4)
	suite.NoError(err)
	suite.Equal(10, engine.emaPeriod)
	suite.Equal(5, engine.fastPeriod)
	suite.Equal(15, engine.slowPeriod)
	suite.Equal(4, engine.signalPeriod)
}

func (suite *EngineTestSuite) TestConfigInvalidPeriod() {
	engine := NewEngine()

	err := engine.Config(0, 12, 26, 9)
	suite.Error(err)
	suite.Contains(err.Error(), "must be a positive integer")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = engine.Config(20, -1, 26, 9)
	suite.Error(err)
}

func (suite *EngineTestSuite) TestComputeEmptySeries() {
	engine := NewEngine()

	enriched, err := engine.Compute(nil)
	suite.Error(err)
	suite.Nil(enriched)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
	suite.True(errors.IsInvalidInput(err))
}

func (suite *EngineTestSuite) TestComputeNonFiniteClose() {
	engine := NewEngine()

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		bars := barsFromCloses([]float64{100, bad, 102})

		enriched, err := engine.Compute(bars)
		suite.Error(err)
		suite.Nil(enriched)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidPrice))
	}
}

func (suite *EngineTestSuite) TestComputeNegativeClose() {
	engine := NewEngine()
	bars := barsFromCloses([]float64{100, -5, 102})

	enriched, err := engine.Compute(bars)
	suite.Error(err)
	suite.Nil(enriched)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPrice))
	suite.Contains(err.Error(), "negative close price")
}

func (suite *EngineTestSuite) TestComputeLengthAndOrder() {
	engine := NewEngine()
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104})

	enriched, err := engine.Compute(bars)
	suite.NoError(err)
	suite.Len(enriched, len(bars))

	for i := range bars {
		suite.Equal(bars[i].Time, enriched[i].Time)
		suite.Equal(bars[i].Close, enriched[i].Close)
	}
}

func (suite *EngineTestSuite) TestComputeSeedsWithFirstClose() {
	engine := NewEngine()
	bars := barsFromCloses([]float64{123.45, 120, 118})

	enriched, err := engine.Compute(bars)
	suite.NoError(err)

	// EWMAs are seeded with the first observation, so at index 0 the EMA
	// equals close, MACD is exactly zero, and the signal line equals MACD.
	suite.Equal(123.45, enriched[0].EMA20)
	suite.Equal(0.0, enriched[0].MACD)
	suite.Equal(enriched[0].MACD, enriched[0].MACDSignal)
}

func (suite *EngineTestSuite) TestComputeEMARecurrence() {
	engine := NewEngine()
	closes := []float64{100, 102, 99, 105, 103, 110, 108, 111}
	bars := barsFromCloses(closes)

	enriched, err := engine.Compute(bars)
	suite.NoError(err)

	alpha := 2.0 / 21.0
	for i := 1; i < len(closes); i++ {
		expected := closes[i]*alpha + enriched[i-1].EMA20*(1-alpha)
		suite.Equal(expected, enriched[i].EMA20, "recurrence must hold exactly at index %d", i)
	}
}

func (suite *EngineTestSuite) TestComputeMACDIsFastMinusSlow() {
	engine := NewEngine()
	closes := []float64{100, 102, 99, 105, 103, 110}
	bars := barsFromCloses(closes)

	enriched, err := engine.Compute(bars)
	suite.NoError(err)

	fast := ewmaSeries(closes, 12)
	slow := ewmaSeries(closes, 26)

	for i := range closes {
		suite.Equal(fast[i]-slow[i], enriched[i].MACD)
	}
}

func (suite *EngineTestSuite) TestComputeConstantPriceConverges() {
	engine := NewEngine()
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}

	enriched, err := engine.Compute(barsFromCloses(closes))
	suite.NoError(err)

	last := enriched[len(enriched)-1]
	suite.InDelta(100.0, last.EMA20, 1e-9)
	suite.InDelta(0.0, last.MACD, 1e-9)
	suite.InDelta(0.0, last.MACDSignal, 1e-9)
}

func (suite *EngineTestSuite) TestComputeDoesNotMutateInput() {
	engine := NewEngine()
	bars := barsFromCloses([]float64{100, 101, 102})
	original := make([]types.MarketData, len(bars))
	copy(original, bars)

	_, err := engine.Compute(bars)
	suite.NoError(err)
	suite.Equal(original, bars)
}

func (suite *EngineTestSuite) TestEwmaSeriesEmpty() {
	suite.Nil(ewmaSeries(nil, 20))
	suite.Nil(ewmaSeries([]float64{}, 20))
}

func (suite *EngineTestSuite) TestEwmaSeriesSingleValue() {
	out := ewmaSeries([]float64{42}, 9)
	suite.Equal([]float64{42}, out)
}
