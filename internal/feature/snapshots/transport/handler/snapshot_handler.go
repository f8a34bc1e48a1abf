// Package handler はsnapshotsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_ingest/internal/feature/snapshots/domain"
	"stock_ingest/internal/feature/snapshots/domain/entity"
	"stock_ingest/internal/feature/snapshots/transport/http/dto"
)

// SnapshotUsecase は読み取りユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SnapshotUsecase interface {
	ListCompanies(ctx context.Context, limit, offset int) (entity.CompanyPage, error)
	GetCompany(ctx context.Context, symbol string) (entity.CompanyDetail, error)
	GetFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error)
}

// SnapshotHandler はインジェスト済みデータの読み取りリクエストを処理します。
type SnapshotHandler struct {
	uc SnapshotUsecase
}

// NewSnapshotHandler はSnapshotHandlerを生成します。
func NewSnapshotHandler(uc SnapshotUsecase) *SnapshotHandler {
	return &SnapshotHandler{uc: uc}
}

// ListCompanies は銘柄一覧を返します。
//
// エンドポイント例:
// GET /companies?limit=50&offset=0
func (h *SnapshotHandler) ListCompanies(c *gin.Context) {
	// 不正な値は0として扱い、usecase側でデフォルト値に補正される
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.uc.ListCompanies(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := dto.CompanyListResponse{
		Items:  make([]dto.CompanyResponse, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, x := range page.Items {
		out.Items = append(out.Items, toCompanyResponse(x))
	}
	c.JSON(http.StatusOK, out)
}

// GetCompany は銘柄と最新スナップショットを返します。
//
// エンドポイント例:
// GET /companies/BTCUSDT
func (h *SnapshotHandler) GetCompany(c *gin.Context) {
	d, err := h.uc.GetCompany(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := dto.CompanyDetailResponse{CompanyResponse: toCompanyResponse(d.Company)}
	if s := d.Latest; s != nil {
		out.Latest = &dto.SnapshotResponse{
			Date:   s.Date.UTC().Format(time.DateOnly),
			Open:   s.Open.String(),
			High:   s.High.String(),
			Low:    s.Low.String(),
			Close:  s.Close.String(),
			Volume: s.Volume.String(),
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetFundamentals はファンダメンタルズを返します。
//
// エンドポイント例:
// GET /fundamentals/INFY.NS
func (h *SnapshotHandler) GetFundamentals(c *gin.Context) {
	f, err := h.uc.GetFundamentals(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FundamentalsResponse{
		Symbol:     f.Symbol,
		DebtToFCF:  f.DebtToFCF,
		MarketCap:  f.MarketCap,
		TrailingPE: f.TrailingPE,
		ForwardPE:  f.ForwardPE,
		UpdatedAt:  f.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *SnapshotHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	slog.Error("read api request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}

func toCompanyResponse(x entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        x.ID,
		Symbol:    x.Symbol,
		Name:      x.Name,
		UpdatedAt: x.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
