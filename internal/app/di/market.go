// Package di provides dependency injection factories for creating application components.
package di

import (
	"stock_ingest/internal/feature/ingest/adapters/binance"
	"stock_ingest/internal/feature/ingest/adapters/yahoo"
	"stock_ingest/internal/platform/config"
	infrahttp "stock_ingest/internal/platform/http"
)

// NewMarket creates a BinanceMarket with its own Universe.
// Each call performs its own one-time exchangeInfo load on first use.
func NewMarket(cfg *config.Config) *binance.BinanceMarket {
	bc := binance.Config{BaseURL: cfg.Binance.BaseURL, Timeout: cfg.HTTP.Timeout}
	httpClient := infrahttp.NewHTTPClient(bc.Timeout, "")
	return binance.NewBinanceMarket(bc, httpClient)
}

// NewFundamentalsProvider creates the equities quote provider.
func NewFundamentalsProvider(cfg *config.Config) *yahoo.QuoteProvider {
	yc := yahoo.Config{
		BaseURL:   cfg.Yahoo.BaseURL,
		CookieURL: cfg.Yahoo.CookieURL,
		UserAgent: yahoo.DefaultUserAgent,
		Timeout:   cfg.HTTP.Timeout,
	}
	httpClient := infrahttp.NewHTTPClient(yc.Timeout, yc.UserAgent)
	return yahoo.NewQuoteProvider(yc, httpClient)
}
