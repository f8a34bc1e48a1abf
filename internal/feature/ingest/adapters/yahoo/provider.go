package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"stock_ingest/internal/feature/ingest/adapters/yahoo/dto"
	"stock_ingest/internal/feature/ingest/domain"
	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
)

const (
	quoteSummaryPath = "/v10/finance/quoteSummary/"
	quoteModules     = "price,summaryDetail,financialData,defaultKeyStatistics"
	notFoundCode     = "Not Found"
)

// QuoteProvider は quoteSummary API から株式のファンダメンタルズを取得します。
//
// エンドポイントはセッションCookieに紐づくcrumbを要求するため、
// 初回呼び出し時に一度だけ取得して保持します。
type QuoteProvider struct {
	cfg    Config
	client *http.Client

	mu         sync.Mutex
	crumbValue string
}

// QuoteProviderがFundamentalsProviderを実装していることをコンパイル時に検証します。
var _ usecase.FundamentalsProvider = (*QuoteProvider)(nil)

// NewQuoteProvider はQuoteProviderを生成します。
// clientにCookieJarが無い場合は、Jarを持つ複製を使用します。
func NewQuoteProvider(cfg Config, client *http.Client) *QuoteProvider {
	if client.Jar == nil {
		c := *client
		// nil options never fail
		c.Jar, _ = cookiejar.New(nil)
		client = &c
	}
	return &QuoteProvider{cfg: cfg, client: client}
}

// FetchFundamentals は銘柄のファンダメンタルズを取得します。
//
// 結果が存在しない場合は domain.ErrNoFundamentals を返します。
// 401の場合はcrumbを一度だけ取り直して再送します。
// それ以外の非2xxレスポンスやデコード失敗は致命的エラーとして返します。
func (p *QuoteProvider) FetchFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error) {
	symbol = entity.NormalizeSymbol(symbol)

	crumb, err := p.crumb(ctx)
	if err != nil {
		return entity.Fundamentals{}, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	f, status, err := p.quoteSummary(ctx, symbol, crumb)
	if status != http.StatusUnauthorized {
		return f, err
	}

	slog.Info("crumb rejected, refreshing", "symbol", symbol)
	p.dropCrumb(crumb)
	if crumb, err = p.crumb(ctx); err != nil {
		return entity.Fundamentals{}, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	f, _, err = p.quoteSummary(ctx, symbol, crumb)
	return f, err
}

// quoteSummary performs one request and also returns the HTTP status (0 on transport errors).
func (p *QuoteProvider) quoteSummary(ctx context.Context, symbol, crumb string) (entity.Fundamentals, int, error) {
	u := strings.TrimRight(p.cfg.BaseURL, "/") + quoteSummaryPath + url.PathEscape(symbol) +
		"?" + url.Values{"modules": {quoteModules}, "crumb": {crumb}}.Encode()

	res, err := p.get(ctx, u, "application/json")
	if err != nil {
		return entity.Fundamentals{}, 0, fmt.Errorf("quote summary %s: %w", symbol, err)
	}

	var env dto.QuoteSummaryResponse
	decodeErr := json.Unmarshal(res.body, &env)

	if res.status < 200 || res.status >= 300 {
		if res.status == http.StatusNotFound && decodeErr == nil &&
			env.QuoteSummary.Error != nil && env.QuoteSummary.Error.Code == notFoundCode {
			return entity.Fundamentals{}, res.status, fmt.Errorf("%s: %w", symbol, domain.ErrNoFundamentals)
		}
		return entity.Fundamentals{}, res.status, fmt.Errorf("quote summary %s: yahoo http %d", symbol, res.status)
	}
	if decodeErr != nil {
		return entity.Fundamentals{}, res.status, fmt.Errorf("quote summary %s: decode response: %w", symbol, decodeErr)
	}
	if env.QuoteSummary.Error != nil {
		return entity.Fundamentals{}, res.status, fmt.Errorf("quote summary %s: %s: %s",
			symbol, env.QuoteSummary.Error.Code, env.QuoteSummary.Error.Description)
	}
	if len(env.QuoteSummary.Result) == 0 {
		return entity.Fundamentals{}, res.status, fmt.Errorf("%s: %w", symbol, domain.ErrNoFundamentals)
	}

	return toFundamentals(symbol, env.QuoteSummary.Result[0]), res.status, nil
}

// toFundamentals はレスポンスの各モジュールからエンティティを組み立てます。欠損値はNULLのままです。
func toFundamentals(symbol string, r dto.QuoteSummaryResult) entity.Fundamentals {
	var (
		f                       entity.Fundamentals
		priceCap, detailCap     *dto.RawValue
		statsForward            *dto.RawValue
		totalDebt, freeCashflow *dto.RawValue
		trailingPE, detailFwdPE *dto.RawValue
	)

	if r.Price != nil {
		f.Name = r.Price.LongName
		if f.Name == "" {
			f.Name = r.Price.ShortName
		}
		priceCap = r.Price.MarketCap
	}
	if f.Name == "" {
		f.Name = symbol
	}
	if r.SummaryDetail != nil {
		detailCap = r.SummaryDetail.MarketCap
		trailingPE = r.SummaryDetail.TrailingPE
		detailFwdPE = r.SummaryDetail.ForwardPE
	}
	if r.DefaultKeyStatistics != nil {
		statsForward = r.DefaultKeyStatistics.ForwardPE
	}
	if r.FinancialData != nil {
		totalDebt = r.FinancialData.TotalDebt
		freeCashflow = r.FinancialData.FreeCashflow
	}

	f.MarketCap = dto.First(detailCap.Float(), priceCap.Float())
	f.TrailingPE = trailingPE.Float()
	f.ForwardPE = dto.First(detailFwdPE.Float(), statsForward.Float())
	f.DebtToFCF = entity.DebtToFreeCashFlow(totalDebt.Float(), freeCashflow.Float())
	return f
}
