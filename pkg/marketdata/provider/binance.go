package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// binancePageSize is the maximum number of klines Binance returns per request.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
}

func NewBinanceClient() (Provider, error) {
	client := binance.NewClient("", "")

	return &BinanceClient{
		client: client,
	}, nil
}

// FetchBars downloads the historical klines for the given symbol and date
// range from Binance, converting each kline to the internal bar format.
// Binance pages at 500 klines per request, so the fetch paginates using the
// close time of the last kline plus one millisecond as the next start.
func (c *BinanceClient) FetchBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnFetchProgress) ([]types.MarketData, error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return nil, err
	}

	// Binance API uses milliseconds for timestamps
	startTimeMillis := startDate.UnixMilli()
	endTimeMillis := endDate.UnixMilli()

	currentStartTime := startTimeMillis

	var bars []types.MarketData

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch klines from Binance for %s", symbol)
		}

		if onProgress != nil {
			onProgress(float64(currentStartTime-startTimeMillis), float64(endTimeMillis-startTimeMillis), fmt.Sprintf("Downloading %s klines from Binance", symbol))
		}

		converted, err := convertKlines(symbol, klines)
		if err != nil {
			return nil, err
		}

		bars = append(bars, converted...)

		// Last page: no data or a short page
		if len(klines) < binancePageSize {
			break
		}

		// Use the close time of the last kline + 1ms to avoid duplicates
		lastKline := klines[len(klines)-1]
		currentStartTime = lastKline.CloseTime + 1

		if currentStartTime >= endTimeMillis {
			break
		}
	}

	return dedupeAscending(bars), nil
}

// convertKlines converts Binance kline data to the internal bar format.
func convertKlines(symbol string, klines []*binance.Kline) ([]types.MarketData, error) {
	bars := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchParse, err, "failed to parse open price %q", k.Open)
		}

		high, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchParse, err, "failed to parse high price %q", k.High)
		}

		low, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchParse, err, "failed to parse low price %q", k.Low)
		}

		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchParse, err, "failed to parse close price %q", k.Close)
		}

		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchParse, err, "failed to parse volume %q", k.Volume)
		}

		bars = append(bars, types.MarketData{
			Symbol: symbol,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return bars, nil
}

// convertTimespanToBinanceInterval converts the polygon timespan and multiplier to a Binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported timespan for Binance: %s", timespan)
	}
}
