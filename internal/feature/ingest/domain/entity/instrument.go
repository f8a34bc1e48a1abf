package entity

// Instrument is the exchange metadata of a tradable pair.
type Instrument struct {
	Symbol     string // e.g. "BTCUSDT"
	Status     string // e.g. "TRADING"
	BaseAsset  string // e.g. "BTC"
	QuoteAsset string // e.g. "USDT"
}

// DisplayName returns the human readable pair name stored as the company name, e.g. "BTC/USDT".
func (i Instrument) DisplayName() string {
	return i.BaseAsset + "/" + i.QuoteAsset
}
