package router

import (
	"github.com/gin-gonic/gin"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/platform/http/handler"
)

// NewRouter builds the read API.
func NewRouter(api di.ReadAPI) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	// DB・Redis の疎通確認
	r.GET("/status", api.Status.Status)

	r.GET("/companies", api.Snapshots.ListCompanies)
	r.GET("/companies/:symbol", api.Snapshots.GetCompany)
	r.GET("/fundamentals/:symbol", api.Snapshots.GetFundamentals)

	return r
}

// NewSchedulerRouter builds the scheduler's control endpoints.
func NewSchedulerRouter(h *handler.SchedulerHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", handler.Health)
	r.GET("/scheduler/status", h.Status)
	// 手動実行。実行中の場合は409
	r.POST("/scheduler/run", h.Trigger)

	return r
}
