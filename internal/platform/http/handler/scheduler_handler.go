package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_ingest/internal/platform/scheduler"
)

// SchedulerRunner はスケジューラーの状態取得と手動実行を抽象化します。
type SchedulerRunner interface {
	Status() scheduler.Status
	RunNow(ctx context.Context) error
}

// SchedulerHandler はスケジューラーの状態確認と手動トリガーを処理します。
type SchedulerHandler struct {
	s SchedulerRunner
}

func NewSchedulerHandler(s SchedulerRunner) *SchedulerHandler {
	return &SchedulerHandler{s: s}
}

// Status は GET /scheduler/status を処理します。
func (h *SchedulerHandler) Status(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, h.s.Status())
}

// Trigger は POST /scheduler/run を処理します。実行中の場合は409を返します。
func (h *SchedulerHandler) Trigger(c *gin.Context) {
	err := h.s.RunNow(c.Request.Context())
	switch {
	case errors.Is(err, scheduler.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "status": h.s.Status()})
	default:
		c.JSON(http.StatusOK, h.s.Status())
	}
}
