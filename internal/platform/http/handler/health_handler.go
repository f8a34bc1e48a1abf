// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health は /healthz を処理します。DBやRedisには触れない生存確認です。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CompanyCounter はDB疎通確認に使う銘柄数の取得を抽象化します。
type CompanyCounter interface {
	CountCompanies(ctx context.Context) (int64, error)
}

// StatusHandler は /status を処理し、DBとRedisの疎通を報告します。
type StatusHandler struct {
	companies CompanyCounter
	rdb       *redis.Client
	timeout   time.Duration
}

// NewStatusHandler はStatusHandlerを生成します。rdbがnilの場合キャッシュは無効として報告します。
func NewStatusHandler(companies CompanyCounter, rdb *redis.Client) *StatusHandler {
	return &StatusHandler{companies: companies, rdb: rdb, timeout: 2 * time.Second}
}

type componentStatus struct {
	OK        bool   `json:"ok"`
	Enabled   *bool  `json:"enabled,omitempty"`
	Companies *int64 `json:"companies,omitempty"`
	Error     string `json:"error,omitempty"`
}

type statusResponse struct {
	Status   string          `json:"status"`
	Database componentStatus `json:"database"`
	Cache    componentStatus `json:"cache"`
}

// Status はDBとRedisが利用可能なら200、いずれかが失敗していれば503を返します。
func (h *StatusHandler) Status(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res := statusResponse{Status: "ok"}

	if n, err := h.companies.CountCompanies(ctx); err != nil {
		res.Database = componentStatus{Error: err.Error()}
		res.Status = "degraded"
	} else {
		res.Database = componentStatus{OK: true, Companies: &n}
	}

	enabled := h.rdb != nil
	res.Cache = componentStatus{OK: true, Enabled: &enabled}
	if enabled {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			res.Cache.OK = false
			res.Cache.Error = err.Error()
			res.Status = "degraded"
		}
	}

	code := http.StatusOK
	if res.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, res)
}
