package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetScheduledJobs lists the cron jobs with their last and next run.
func (h *HandlerService) GetScheduledJobs(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, ErrServiceUnavailable)
		return
	}

	jobs := h.scheduler.GetJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// GetScheduledJob returns one cron job by ID.
func (h *HandlerService) GetScheduledJob(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, ErrServiceUnavailable)
		return
	}

	job, err := h.scheduler.GetJob(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
