package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness plus a short scheduler check.
func (h *HandlerService) HealthCheck(c *gin.Context) {
	checks := map[string]interface{}{
		"runner":    h.checkRunnerHealth(),
		"scheduler": h.checkSchedulerHealth(),
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   ServiceName,
		"version":   DefaultVersion,
		"timestamp": getCurrentTimestamp(),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"checks":    checks,
	})
}

// GetStatus returns a summary of the last run and the schedule.
func (h *HandlerService) GetStatus(c *gin.Context) {
	status := gin.H{
		"service":   ServiceName,
		"running":   h.runner.Running(),
		"timestamp": getCurrentTimestamp(),
		"last_run":  nil,
	}

	if last := h.runner.Last(); last != nil {
		counts := gin.H{}
		for sig, n := range last.Counts() {
			counts[sig.String()] = n
		}
		status["last_run"] = gin.H{
			"run_id":        last.RunID,
			"started_at":    last.StartedAt,
			"finished_at":   last.FinishedAt,
			"total":         len(last.Items),
			"notifications": last.Notifications,
			"delivered":     last.Delivered,
			"counts":        counts,
		}
	}

	if h.IsSchedulerAvailable() {
		status["scheduler"] = h.scheduler.GetStatus()
		if next := h.scheduler.NextRun(); !next.IsZero() {
			status["next_run"] = next
		}
	}

	c.JSON(http.StatusOK, status)
}

func (h *HandlerService) checkRunnerHealth() map[string]interface{} {
	if h.runner == nil {
		return map[string]interface{}{"status": "unhealthy", "error": "runner not initialized"}
	}
	return map[string]interface{}{"status": "healthy", "running": h.runner.Running()}
}

func (h *HandlerService) checkSchedulerHealth() map[string]interface{} {
	if !h.IsSchedulerAvailable() {
		return map[string]interface{}{"status": "unavailable"}
	}
	return map[string]interface{}{"status": "healthy", "details": h.scheduler.GetStatus()}
}
