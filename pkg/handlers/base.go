package handlers

import (
	"context"
	"time"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/monitor"
	"restockwatch/pkg/scheduler"

	"golang.org/x/time/rate"
)

const (
	ServiceName    = "restockwatch"
	DefaultVersion = "1.0.0"

	// ManualRunInterval is the minimum spacing between two runs triggered
	// through the API.
	ManualRunInterval = 30 * time.Second
)

// RunController is the part of monitor.Runner the API needs.
type RunController interface {
	Last() *monitor.RunResult
	Running() bool
	RunFile(ctx context.Context, path string) (*monitor.RunResult, error)
}

// HandlerService provides HTTP handlers for the API
type HandlerService struct {
	ctx          context.Context
	runner       RunController
	productsFile string
	scheduler    *scheduler.TaskScheduler
	triggers     *rate.Limiter
	startedAt    time.Time
}

// NewHandlerService creates a new handler service. ctx bounds runs started
// through the API.
func NewHandlerService(ctx context.Context, runner RunController, productsFile string) *HandlerService {
	logger.Info("Initializing handler service")

	return &HandlerService{
		ctx:          ctx,
		runner:       runner,
		productsFile: productsFile,
		triggers:     rate.NewLimiter(rate.Every(ManualRunInterval), 1),
		startedAt:    time.Now(),
	}
}

// SetScheduler sets the scheduler reference (called after scheduler is created)
func (h *HandlerService) SetScheduler(s *scheduler.TaskScheduler) {
	h.scheduler = s
}

// IsSchedulerAvailable checks if scheduler is available
func (h *HandlerService) IsSchedulerAvailable() bool {
	return h.scheduler != nil
}

func getCurrentTimestamp() time.Time {
	return time.Now().UTC()
}
