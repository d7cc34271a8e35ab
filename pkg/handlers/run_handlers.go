package handlers

import (
	"errors"
	"net/http"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/monitor"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetProducts returns the per-URL outcome of the last run.
func (h *HandlerService) GetProducts(c *gin.Context) {
	last := h.runner.Last()
	if last == nil {
		HandleError(c, NewAPIError(http.StatusNotFound, "No run has completed yet", ErrResourceNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      last.RunID,
		"finished_at": last.FinishedAt,
		"items":       last.Items,
	})
}

// TriggerRun starts a run in the background and answers 202, 409 while
// another run is active, or 429 when triggered again within
// ManualRunInterval.
func (h *HandlerService) TriggerRun(c *gin.Context) {
	if h.runner.Running() {
		HandleError(c, monitor.ErrRunInProgress)
		return
	}
	if !h.triggers.Allow() {
		HandleError(c, ErrTooManyRequests)
		return
	}

	go func() {
		if _, err := h.runner.RunFile(h.ctx, h.productsFile); err != nil {
			if errors.Is(err, monitor.ErrRunInProgress) {
				logger.Info("Manual run skipped, another run is active")
				return
			}
			logger.Error("Manual run failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"accepted":      true,
		"products_file": h.productsFile,
	})
}
