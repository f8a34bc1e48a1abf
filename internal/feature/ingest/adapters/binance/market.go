package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"stock_ingest/internal/feature/ingest/adapters/binance/dto"
	"stock_ingest/internal/feature/ingest/domain"
	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
)

const (
	exchangeInfoPath = "/api/v3/exchangeInfo"
	klinesPath       = "/api/v3/klines"

	// latestInterval は取得する足の種類です（日足）。
	latestInterval = "1d"
)

// BinanceMarket は取引所APIから銘柄メタデータと価格を取得するMarketRepository実装です。
type BinanceMarket struct {
	cfg      Config
	client   *http.Client
	universe *Universe
}

// BinanceMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*BinanceMarket)(nil)

// NewBinanceMarket は取引所から銘柄一覧を一度だけ取得するUniverseを持つBinanceMarketを生成します。
func NewBinanceMarket(cfg Config, client *http.Client) *BinanceMarket {
	m := &BinanceMarket{cfg: cfg, client: client}
	m.universe = NewUniverse(m.ExchangeInfo)
	return m
}

// NewBinanceMarketWithUniverse は銘柄解決に外部から渡されたUniverseを使用します。
func NewBinanceMarketWithUniverse(cfg Config, client *http.Client, universe *Universe) *BinanceMarket {
	return &BinanceMarket{cfg: cfg, client: client, universe: universe}
}

// ResolveInstrument はUniverseから銘柄メタデータを検索します。
func (m *BinanceMarket) ResolveInstrument(ctx context.Context, symbol string) (entity.Instrument, error) {
	return m.universe.Lookup(ctx, symbol)
}

// ExchangeInfo は取引所の全銘柄一覧を取得し、銘柄コードをキーとするマップで返します。
func (m *BinanceMarket) ExchangeInfo(ctx context.Context) (map[string]entity.Instrument, error) {
	var body dto.ExchangeInfoResponse
	if err := m.getJSON(ctx, exchangeInfoPath, nil, &body); err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	out := make(map[string]entity.Instrument, len(body.Symbols))
	for _, s := range body.Symbols {
		out[entity.NormalizeSymbol(s.Symbol)] = entity.Instrument{
			Symbol:     s.Symbol,
			Status:     s.Status,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
		}
	}
	slog.Debug("loaded exchange universe", "symbols", len(out))
	return out, nil
}

// FetchLatestRecord は最新の日足を1件取得します。毎回APIを呼び出し、キャッシュしません。
func (m *BinanceMarket) FetchLatestRecord(ctx context.Context, symbol string) (entity.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", entity.NormalizeSymbol(symbol))
	q.Set("interval", latestInterval)
	q.Set("limit", "1")

	var rows []dto.Kline
	if err := m.getJSON(ctx, klinesPath, q, &rows); err != nil {
		return entity.PricePoint{}, fmt.Errorf("klines %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return entity.PricePoint{}, domain.ErrNoPriceData
	}
	p, err := parseKline(rows[0])
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("klines %s: %w", symbol, err)
	}
	return p, nil
}

// getJSON はGETリクエストを送り、2xx以外のステータスをエラーとして返します。
func (m *BinanceMarket) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := strings.TrimRight(m.cfg.BaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Msg != "" {
			return fmt.Errorf("binance http %d: %s (code %d)", res.StatusCode, apiErr.Msg, apiErr.Code)
		}
		return fmt.Errorf("binance http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseKline は配列の位置 [0,1,2,3,4,5] を open time, open, high, low, close, volume として読み取ります。
func parseKline(k dto.Kline) (entity.PricePoint, error) {
	if len(k) < dto.KlineFields {
		return entity.PricePoint{}, fmt.Errorf("kline has %d fields, want at least %d", len(k), dto.KlineFields)
	}

	openMillis, err := k[0].Int64()
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse open time %q: %w", k[0], err)
	}

	names := [...]string{"open", "high", "low", "close", "volume"}
	var vals [len(names)]decimal.Decimal
	for i, name := range names {
		d, err := decimal.NewFromString(k[i+1].String())
		if err != nil {
			return entity.PricePoint{}, fmt.Errorf("parse %s %q: %w", name, k[i+1], err)
		}
		vals[i] = d
	}

	return entity.PricePoint{
		OpenTime: entity.FromEpochMillis(openMillis),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
	}, nil
}
