// Package dto defines data transfer objects for the exchange API responses.
package dto

import "encoding/json"

// ExchangeInfoResponse represents the JSON response from /api/v3/exchangeInfo.
// Only the fields used for symbol resolution are decoded.
type ExchangeInfoResponse struct {
	Timezone string       `json:"timezone"`
	Symbols  []SymbolInfo `json:"symbols"`
}

// SymbolInfo is one entry of the exchange universe.
type SymbolInfo struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}

// Kline is one row of /api/v3/klines. The endpoint returns positional arrays:
// [open time, open, high, low, close, volume, close time, ...] with prices as strings.
type Kline []json.Number

// KlineFields is the minimum number of positions a kline must carry.
const KlineFields = 6

// ErrorResponse is the body the exchange returns alongside a non-2xx status.
type ErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
