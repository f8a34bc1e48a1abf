package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one OHLCV interval as returned by the exchange.
type PricePoint struct {
	OpenTime time.Time // start of the interval, UTC
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// SnapshotDate returns the UTC calendar day the interval opened on.
func (p PricePoint) SnapshotDate() time.Time {
	return DateOf(p.OpenTime)
}

// DateOf truncates t to midnight of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FromEpochMillis converts an exchange timestamp in milliseconds to a UTC time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
