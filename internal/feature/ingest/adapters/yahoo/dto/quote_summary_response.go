// Package dto defines data transfer objects for the quoteSummary API.
package dto

import (
	"encoding/json"

	"github.com/guregu/null/v6"
)

// QuoteSummaryResponse is the envelope returned by /v10/finance/quoteSummary/{symbol}.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *APIError            `json:"error"`
	} `json:"quoteSummary"`
}

// APIError is the error object embedded in the envelope.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteSummaryResult holds the requested modules. A module the provider has no data for is nil.
type QuoteSummaryResult struct {
	Price                *PriceModule         `json:"price"`
	SummaryDetail        *SummaryDetailModule `json:"summaryDetail"`
	FinancialData        *FinancialDataModule `json:"financialData"`
	DefaultKeyStatistics *KeyStatisticsModule `json:"defaultKeyStatistics"`
}

type PriceModule struct {
	LongName  string    `json:"longName"`
	ShortName string    `json:"shortName"`
	MarketCap *RawValue `json:"marketCap"`
}

type SummaryDetailModule struct {
	MarketCap  *RawValue `json:"marketCap"`
	TrailingPE *RawValue `json:"trailingPE"`
	ForwardPE  *RawValue `json:"forwardPE"`
}

type FinancialDataModule struct {
	TotalDebt    *RawValue `json:"totalDebt"`
	FreeCashflow *RawValue `json:"freeCashflow"`
}

type KeyStatisticsModule struct {
	ForwardPE *RawValue `json:"forwardPE"`
}

// RawValue is the {"raw": 1.23, "fmt": "1.23"} pair used for every numeric field.
// raw may also be a string such as "Infinity", which is treated as missing.
type RawValue struct {
	Raw json.RawMessage `json:"raw"`
	Fmt string          `json:"fmt"`
}

// Float returns the numeric value, or an invalid null.Float when v is nil or not a finite number.
func (v *RawValue) Float() null.Float {
	if v == nil || len(v.Raw) == 0 || string(v.Raw) == "null" {
		return null.Float{}
	}
	var f float64
	if err := json.Unmarshal(v.Raw, &f); err != nil {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// First returns the first valid value in vs.
func First(vs ...null.Float) null.Float {
	for _, v := range vs {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}
