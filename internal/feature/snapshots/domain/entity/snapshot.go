package entity

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Company はインジェスト済みの銘柄です。
type Company struct {
	ID        uint      `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot は1日分の価格スナップショットです。
type Snapshot struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// CompanyDetail は銘柄と最新のスナップショットです。スナップショットが未取得の場合 Latest は nil です。
type CompanyDetail struct {
	Company Company   `json:"company"`
	Latest  *Snapshot `json:"latest"`
}

// Fundamentals は株式銘柄の最新ファンダメンタルズです。
type Fundamentals struct {
	Symbol     string     `json:"symbol"`
	DebtToFCF  null.Float `json:"debt_to_fcf"`
	MarketCap  null.Float `json:"market_cap"`
	TrailingPE null.Float `json:"trailing_pe"`
	ForwardPE  null.Float `json:"forward_pe"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CompanyPage はページングされた銘柄一覧です。
type CompanyPage struct {
	Items  []Company
	Total  int64
	Limit  int
	Offset int
}
