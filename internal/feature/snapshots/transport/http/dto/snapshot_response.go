// Package dto はsnapshotsフィーチャーのレスポンスDTOを定義します。
package dto

import "github.com/guregu/null/v6"

// CompanyResponse は銘柄のレスポンスDTOです。
type CompanyResponse struct {
	ID        uint   `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"` // RFC3339
}

// CompanyListResponse は銘柄一覧のレスポンスDTOです。
type CompanyListResponse struct {
	Items  []CompanyResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// SnapshotResponse は価格スナップショットのレスポンスDTOです。価格は精度を保つため文字列です。
type SnapshotResponse struct {
	Date   string `json:"date"`   // 日付
	Open   string `json:"open"`   // 始値
	High   string `json:"high"`   // 高値
	Low    string `json:"low"`    // 安値
	Close  string `json:"close"`  // 終値
	Volume string `json:"volume"` // 出来高
}

// CompanyDetailResponse は銘柄と最新スナップショットのレスポンスDTOです。
type CompanyDetailResponse struct {
	CompanyResponse
	Latest *SnapshotResponse `json:"latest"`
}

// FundamentalsResponse はファンダメンタルズのレスポンスDTOです。欠損値はnullです。
type FundamentalsResponse struct {
	Symbol     string     `json:"symbol"`
	DebtToFCF  null.Float `json:"debt_to_fcf"`
	MarketCap  null.Float `json:"market_cap"`
	TrailingPE null.Float `json:"trailing_pe"`
	ForwardPE  null.Float `json:"forward_pe"`
	UpdatedAt  string     `json:"updated_at"`
}

// ErrorResponse はエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
