package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/state"
	"restockwatch/pkg/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MessageFormat is the per-URL notification line.
	MessageFormat = "✅ Back in stock (ADD available):\n%s"

	messageSeparator = "\n\n"
)

// Fetcher retrieves a product page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*stock.Page, error)
	Name() string
}

// Notifier delivers one aggregated message.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// Store loads and replaces the persisted snapshot.
type Store interface {
	Load() (*state.Snapshot, error)
	Save(*state.Snapshot) error
}

// Options tunes a Runner.
type Options struct {
	// Delay is the pause between the end of one check and the start of
	// the next. Zero disables it.
	Delay            time.Duration
	RememberNotified bool
	Verbose          bool
}

// ItemResult is the outcome for one URL in a run.
type ItemResult struct {
	URL      string        `json:"url"`
	Key      string        `json:"key"`
	Previous *stock.Signal `json:"previous,omitempty"`
	Current  stock.Signal  `json:"current"`
	Notified bool          `json:"notified"`
	Err      string        `json:"error,omitempty"`
	Verdict  stock.Verdict `json:"verdict"`
}

// RunResult summarizes one pass over the product list.
type RunResult struct {
	RunID         string       `json:"run_id"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	Items         []ItemResult `json:"items"`
	Notifications []string     `json:"notifications"`
	Delivered     bool         `json:"delivered"`
}

// Counts returns the number of items per signal.
func (r *RunResult) Counts() map[stock.Signal]int {
	counts := map[stock.Signal]int{stock.InStock: 0, stock.OutOfStock: 0, stock.Unknown: 0}
	for _, it := range r.Items {
		counts[it.Current]++
	}
	return counts
}

// Runner performs sequential check runs. At most one run is active at a
// time; the last completed result is kept for status queries.
type Runner struct {
	fetcher    Fetcher
	classifier *stock.Classifier
	store      Store
	notifier   Notifier
	opts       Options

	running sync.Mutex
	active  atomic.Bool

	mu   sync.RWMutex
	last *RunResult
}

// NewRunner wires the run pipeline.
func NewRunner(f Fetcher, c *stock.Classifier, s Store, n Notifier, opts Options) *Runner {
	return &Runner{
		fetcher:    f,
		classifier: c,
		store:      s,
		notifier:   n,
		opts:       opts,
	}
}

// Last returns the most recent run that reached the save step, or nil.
func (r *Runner) Last() *RunResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	return r.active.Load()
}

// RunFile loads the product list from path and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	urls, err := LoadProducts(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, urls)
}

// Run checks every URL in order, saves the new snapshot and then delivers
// the aggregated notification, if any. Fetch failures do not fail the run.
// Cancelling ctx before the save leaves the state file untouched.
func (r *Runner) Run(ctx context.Context, urls []string) (*RunResult, error) {
	if !r.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.running.Unlock()
	r.active.Store(true)
	defer r.active.Store(false)

	result := &RunResult{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now(),
		Items:         []ItemResult{},
		Notifications: []string{},
	}
	ctx = logger.WithRunID(ctx, result.RunID)
	log := logger.FromContext(ctx)

	prev, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	urls = dedupe(urls)
	log.Info("Starting run",
		logger.CountField(len(urls)),
		zap.Int("known", prev.Len()),
		zap.String("fetcher", r.fetcher.Name()))

	next := state.NewSnapshot()
	for i, url := range urls {
		if i > 0 {
			if err := pause(ctx, r.opts.Delay); err != nil {
				return nil, fmt.Errorf("run aborted: %w", err)
			}
		}

		item, rec := r.check(ctx, prev, url)
		next.Set(item.Key, rec)
		result.Items = append(result.Items, item)
		if item.Notified {
			result.Notifications = append(result.Notifications, fmt.Sprintf(MessageFormat, url))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run aborted: %w", err)
	}

	if err := r.store.Save(next); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}
	defer r.setLast(result)

	if len(result.Notifications) == 0 {
		result.FinishedAt = time.Now()
		log.Info("Run finished, nothing to notify",
			logger.DurationField(result.FinishedAt.Sub(result.StartedAt).Milliseconds()))
		return result, nil
	}

	msg := strings.Join(result.Notifications, messageSeparator)
	err = r.notifier.Send(ctx, msg)
	result.FinishedAt = time.Now()
	if err != nil {
		log.Error("Failed to deliver notification",
			zap.String("notifier", r.notifier.Name()),
			logger.CountField(len(result.Notifications)),
			zap.Error(err))
		return result, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	result.Delivered = true
	log.Info("Run finished",
		zap.String("notifier", r.notifier.Name()),
		logger.CountField(len(result.Notifications)),
		logger.DurationField(result.FinishedAt.Sub(result.StartedAt).Milliseconds()))
	return result, nil
}

func (r *Runner) check(ctx context.Context, prev *state.Snapshot, url string) (ItemResult, state.Record) {
	log := logger.FromContext(ctx).With(logger.URLField(url))
	key := state.Key(url)
	item := ItemResult{URL: url, Key: key}

	old, havePrev := prev.Get(key)
	if havePrev {
		sig := old.Signal
		item.Previous = &sig
	}

	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("Fetch failed, recording unknown", zap.Error(err))
		item.Err = err.Error()
		item.Verdict = stock.Verdict{Signal: stock.Unknown}
	} else {
		item.Verdict = r.classifier.Classify(*page)
	}
	item.Current = item.Verdict.Signal

	rec, notify := Decide(old, havePrev, item.Current, r.opts.RememberNotified)
	item.Notified = notify

	fields := []zap.Field{
		zap.Stringer("previous", previousSignal(old, havePrev)),
		zap.Stringer("current", item.Current),
		zap.Bool("notify", notify),
	}
	if r.opts.Verbose {
		fields = append(fields,
			zap.String("scope", item.Verdict.Scope),
			zap.String("marker", item.Verdict.Marker),
			zap.String("evidence", item.Verdict.Evidence))
		log.Info("Checked", fields...)
	} else {
		log.Debug("Checked", fields...)
	}

	return item, rec
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func previousSignal(r state.Record, ok bool) fmt.Stringer {
	if !ok {
		return absent{}
	}
	return r.Signal
}

type absent struct{}

func (absent) String() string { return "none" }

func (r *Runner) setLast(res *RunResult) {
	r.mu.Lock()
	r.last = res
	r.mu.Unlock()
}

// Check fetches and classifies a single URL without touching state.
func Check(ctx context.Context, f Fetcher, c *stock.Classifier, url string) (stock.Verdict, error) {
	page, err := f.Fetch(ctx, url)
	if err != nil {
		return stock.Verdict{Signal: stock.Unknown}, err
	}
	return c.Classify(*page), nil
}
