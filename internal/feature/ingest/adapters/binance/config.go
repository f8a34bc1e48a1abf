// Package binance はBinance互換の取引所REST APIクライアントを提供します。
package binance

import "time"

// DefaultBaseURL is the public Binance REST endpoint.
const DefaultBaseURL = "https://api.binance.com"

// Config holds configuration for the exchange client.
type Config struct {
	BaseURL string        // Base URL for the API (e.g., "https://api.binance.com")
	Timeout time.Duration // HTTP request timeout
}
