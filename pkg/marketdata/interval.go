// Package marketdata provides the price-history boundary: fetching ordered
// bar series from external providers and caching them locally.
package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/trendline/pkg/errors"
)

// Interval is a supported bar granularity.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalOneHour        Interval = "1h"
	IntervalFourHours      Interval = "4h"
	IntervalOneDay         Interval = "1d"
)

// AllIntervals lists the supported granularities in ascending order.
var AllIntervals = []Interval{
	IntervalOneMinute,
	IntervalFiveMinutes,
	IntervalFifteenMinutes,
	IntervalThirtyMinutes,
	IntervalOneHour,
	IntervalFourHours,
	IntervalOneDay,
}

// ParseInterval validates s against the supported granularities.
func ParseInterval(s string) (Interval, error) {
	for _, interval := range AllIntervals {
		if string(interval) == s {
			return interval, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", s)
}

// Minutes returns the bar duration in minutes.
func (i Interval) Minutes() int {
	switch i {
	case IntervalOneMinute:
		return 1
	case IntervalFiveMinutes:
		return 5
	case IntervalFifteenMinutes:
		return 15
	case IntervalThirtyMinutes:
		return 30
	case IntervalOneHour:
		return 60
	case IntervalFourHours:
		return 240
	case IntervalOneDay:
		return 1440
	default:
		return 1
	}
}

// Multiplier returns the polygon aggregate multiplier for the interval.
func (i Interval) Multiplier() int {
	switch i {
	case IntervalOneMinute:
		return 1
	case IntervalFiveMinutes:
		return 5
	case IntervalFifteenMinutes:
		return 15
	case IntervalThirtyMinutes:
		return 30
	case IntervalOneHour:
		return 1
	case IntervalFourHours:
		return 4
	case IntervalOneDay:
		return 1
	default:
		return 1
	}
}

// Timespan returns the polygon timespan unit for the interval.
func (i Interval) Timespan() models.Timespan {
	switch i {
	case IntervalOneMinute, IntervalFiveMinutes, IntervalFifteenMinutes, IntervalThirtyMinutes:
		return models.Minute
	case IntervalOneHour, IntervalFourHours:
		return models.Hour
	case IntervalOneDay:
		return models.Day
	default:
		return models.Day
	}
}
