package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restockwatch/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job statuses
const (
	JobStatusScheduled = "scheduled"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Error variables
var (
	ErrJobNotFound = errors.New("job not found")
	ErrNoJobFunc   = errors.New("job has no function")
)

// JobFunc is the work executed on each tick.
type JobFunc func(ctx context.Context) error

// TaskScheduler manages scheduled tasks using cron
type TaskScheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	jobs      map[string]*ScheduledJob
	jobsMutex sync.RWMutex
}

// ScheduledJob represents a scheduled job
type ScheduledJob struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Cron      string       `json:"cron"`
	NextRun   time.Time    `json:"next_run"`
	LastRun   time.Time    `json:"last_run"`
	LastError string       `json:"last_error,omitempty"`
	Status    string       `json:"status"`
	Runs      int          `json:"runs"`
	EntryID   cron.EntryID `json:"-"`
	Run       JobFunc      `json:"-"`
}

// NewTaskScheduler creates a scheduler whose jobs run with ctx. Overlapping
// ticks of the same job are skipped rather than queued.
func NewTaskScheduler(ctx context.Context) *TaskScheduler {
	logger.Info("Initializing task scheduler")

	cl := cronLogger{l: logger.Logger.Named("cron")}
	cronScheduler := cron.New(
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)

	return &TaskScheduler{
		cron: cronScheduler,
		ctx:  ctx,
		jobs: make(map[string]*ScheduledJob),
	}
}

// Start starts the task scheduler and blocks until its context is done.
func (ts *TaskScheduler) Start() error {
	logger.Info("Starting task scheduler")

	ts.cron.Start()

	// Update next run times for all jobs after cron starts
	ts.jobsMutex.Lock()
	for _, job := range ts.jobs {
		if err := ts.updateJobNextRunTime(job); err != nil {
			logger.Warn("Failed to update next run time after start",
				zap.String("job_name", job.Name),
				zap.Error(err))
		}
	}
	ts.jobsMutex.Unlock()

	ts.logScheduledJobs()

	<-ts.ctx.Done()
	logger.Info("Task scheduler context cancelled")

	return nil
}

// Shutdown gracefully shuts down the task scheduler
func (ts *TaskScheduler) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down task scheduler")

	cronCtx := ts.cron.Stop()

	select {
	case <-cronCtx.Done():
		logger.Info("All scheduled jobs completed")
	case <-ctx.Done():
		logger.Warn("Scheduler shutdown timeout, some jobs may still be running")
		return ctx.Err()
	}

	return nil
}

// AddJob adds a new scheduled job
func (ts *TaskScheduler) AddJob(job *ScheduledJob) error {
	if job.Run == nil {
		return fmt.Errorf("%w: %s", ErrNoJobFunc, job.Name)
	}

	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	entryID, err := ts.cron.AddFunc(job.Cron, ts.createJobFunction(job))
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	job.EntryID = entryID
	job.Status = JobStatusScheduled

	if err := ts.updateJobNextRunTime(job); err != nil {
		logger.Warn("Failed to update next run time", zap.String("job_name", job.Name), zap.Error(err))
	}

	ts.jobs[job.ID] = job

	logger.Info("Added scheduled job",
		zap.String("job_id", job.ID),
		zap.String("job_name", job.Name),
		zap.String("cron", job.Cron),
		zap.Time("next_run", job.NextRun),
	)

	return nil
}

// GetJobs returns a snapshot of all scheduled jobs
func (ts *TaskScheduler) GetJobs() []ScheduledJob {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	jobs := make([]ScheduledJob, 0, len(ts.jobs))
	for _, job := range ts.jobs {
		_ = ts.updateJobNextRunTime(job)
		jobs = append(jobs, *job)
	}

	return jobs
}

// GetJob returns a copy of a specific scheduled job
func (ts *TaskScheduler) GetJob(jobID string) (ScheduledJob, error) {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	job, exists := ts.jobs[jobID]
	if !exists {
		return ScheduledJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	return *job, nil
}

// NextRun returns the earliest upcoming run across all jobs, or the zero
// time when nothing is scheduled.
func (ts *TaskScheduler) NextRun() time.Time {
	var next time.Time
	for _, job := range ts.GetJobs() {
		if next.IsZero() || (!job.NextRun.IsZero() && job.NextRun.Before(next)) {
			next = job.NextRun
		}
	}
	return next
}

// GetStatus returns scheduler status
func (ts *TaskScheduler) GetStatus() map[string]interface{} {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	return map[string]interface{}{
		"job_count": len(ts.jobs),
		"entries":   len(ts.cron.Entries()),
		"timestamp": time.Now().UTC(),
	}
}

// createJobFunction creates a function to execute for a scheduled job
func (ts *TaskScheduler) createJobFunction(job *ScheduledJob) func() {
	return func() {
		execID := uuid.New().String()
		ctx := logger.WithJobID(ts.ctx, execID)
		log := logger.FromContext(ctx).With(zap.String("job_name", job.Name))

		log.Info("Executing scheduled job")
		started := time.Now()
		ts.markStarted(job, started)

		err := job.Run(ctx)
		ts.markFinished(job, err)

		if err != nil {
			log.Error("Scheduled job failed", zap.Error(err), zap.Duration("duration", time.Since(started)))
			return
		}
		log.Info("Scheduled job completed successfully", zap.Duration("duration", time.Since(started)))
	}
}

// logScheduledJobs logs information about all scheduled jobs
func (ts *TaskScheduler) logScheduledJobs() {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	if len(ts.jobs) == 0 {
		logger.Info("No scheduled jobs configured")
		return
	}

	for _, job := range ts.jobs {
		logger.Info("Scheduled job",
			zap.String("job_name", job.Name),
			zap.String("cron", job.Cron),
			zap.Time("next_run", job.NextRun),
			zap.String("status", job.Status),
		)
	}
}

// updateJobNextRunTime updates the next run time for a job. Callers hold
// jobsMutex.
func (ts *TaskScheduler) updateJobNextRunTime(job *ScheduledJob) error {
	for _, entry := range ts.cron.Entries() {
		if entry.ID == job.EntryID && !entry.Next.IsZero() {
			job.NextRun = entry.Next
			return nil
		}
	}

	// cron has not started yet, compute from the expression
	schedule, err := cron.ParseStandard(job.Cron)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %s: %w", job.Cron, err)
	}
	job.NextRun = schedule.Next(time.Now())
	return nil
}

func (ts *TaskScheduler) markStarted(job *ScheduledJob, at time.Time) {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	job.Status = JobStatusRunning
	job.LastRun = at
	job.Runs++
}

func (ts *TaskScheduler) markFinished(job *ScheduledJob, err error) {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	if err != nil {
		job.Status = JobStatusFailed
		job.LastError = err.Error()
		return
	}
	job.Status = JobStatusCompleted
	job.LastError = ""
}

// cronLogger routes robfig/cron's logging into zap.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
