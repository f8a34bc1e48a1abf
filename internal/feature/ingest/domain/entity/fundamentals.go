package entity

import "github.com/guregu/null/v6"

// Fundamentals is the latest valuation data of an equity.
// A field the provider did not report is invalid (NULL) and is stored as such.
type Fundamentals struct {
	Name       string // display name reported by the provider
	DebtToFCF  null.Float
	MarketCap  null.Float
	TrailingPE null.Float
	ForwardPE  null.Float
}

// DebtToFreeCashFlow derives total debt / free cash flow.
// The ratio is NULL when either input is missing or free cash flow is zero.
func DebtToFreeCashFlow(totalDebt, freeCashFlow null.Float) null.Float {
	if !totalDebt.Valid || !freeCashFlow.Valid || freeCashFlow.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(totalDebt.Float64 / freeCashFlow.Float64)
}
