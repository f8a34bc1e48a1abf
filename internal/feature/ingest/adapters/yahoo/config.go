// Package yahoo implements the equities fundamentals provider on top of the
// quoteSummary endpoint.
package yahoo

import "time"

// DefaultBaseURL is the public quote endpoint host.
const DefaultBaseURL = "https://query2.finance.yahoo.com"

// DefaultCookieURL hands out the session cookie the crumb is bound to.
const DefaultCookieURL = "https://fc.yahoo.com"

// DefaultUserAgent is set on the HTTP client; the endpoint rejects empty agents.
const DefaultUserAgent = "Mozilla/5.0 (compatible; stock-ingest/1.0)"

// Config holds configuration for the quotes client.
// UserAgent is applied by the HTTP client the provider is given.
type Config struct {
	BaseURL   string
	CookieURL string
	UserAgent string
	Timeout   time.Duration
}
