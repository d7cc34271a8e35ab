package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"restockwatch/pkg/handlers"
	"restockwatch/pkg/monitor"
	"restockwatch/pkg/scheduler"
	"restockwatch/pkg/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	last    *monitor.RunResult
	running bool
	paths   []string
	ran     chan struct{}
}

func (f *fakeRunner) Last() *monitor.RunResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeRunner) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeRunner) RunFile(ctx context.Context, path string) (*monitor.RunResult, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if f.ran != nil {
		f.ran <- struct{}{}
	}
	return &monitor.RunResult{}, nil
}

func newTestServer(r handlers.RunController) *HTTPServer {
	svc := handlers.NewHandlerService(context.Background(), r, "products.txt")
	return NewHTTPServer(&Config{Address: "127.0.0.1", Port: 0}, svc)
}

func do(t *testing.T, s *HTTPServer, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func sampleResult() *monitor.RunResult {
	prev := stock.OutOfStock
	return &monitor.RunResult{
		RunID:      "run-1",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Items: []monitor.ItemResult{
			{URL: "https://a", Key: "k1", Previous: &prev, Current: stock.InStock, Notified: true,
				Verdict: stock.Verdict{Signal: stock.InStock, Scope: stock.ScopeActions, Marker: "add"}},
			{URL: "https://b", Key: "k2", Current: stock.Unknown, Err: "timeout"},
		},
		Notifications: []string{"✅ Back in stock (ADD available):\nhttps://a"},
		Delivered:     true,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeRunner{})
	w, body := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStatusBeforeAnyRun(t *testing.T) {
	s := newTestServer(&fakeRunner{})
	w, body := do(t, s, http.MethodGet, "/api/v1/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["last_run"])
	assert.Equal(t, false, body["running"])
}

func TestStatusWithLastRun(t *testing.T) {
	svc := handlers.NewHandlerService(context.Background(), &fakeRunner{last: sampleResult()}, "products.txt")
	sched := scheduler.NewTaskScheduler(context.Background())
	require.NoError(t, sched.AddJob(&scheduler.ScheduledJob{
		Name: "restock_check", Cron: "@hourly",
		Run: func(context.Context) error { return nil },
	}))
	svc.SetScheduler(sched)
	s := NewHTTPServer(&Config{}, svc)

	w, body := do(t, s, http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, w.Code)

	last := body["last_run"].(map[string]interface{})
	assert.Equal(t, "run-1", last["run_id"])
	assert.Equal(t, float64(2), last["total"])
	counts := last["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["in_stock"])
	assert.Equal(t, float64(1), counts["unknown"])
	assert.Equal(t, float64(0), counts["out_of_stock"])
	assert.NotNil(t, body["next_run"])
}

func TestProducts(t *testing.T) {
	s := newTestServer(&fakeRunner{})
	w, _ := do(t, s, http.MethodGet, "/api/v1/products")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s = newTestServer(&fakeRunner{last: sampleResult()})
	w, body := do(t, s, http.MethodGet, "/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)

	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "in_stock", first["current"])
	assert.Equal(t, "out_of_stock", first["previous"])
	second := items[1].(map[string]interface{})
	assert.Equal(t, "timeout", second["error"])
	_, hasPrev := second["previous"]
	assert.False(t, hasPrev)
}

func TestTriggerRun(t *testing.T) {
	r := &fakeRunner{ran: make(chan struct{}, 1)}
	s := newTestServer(r)

	w, body := do(t, s, http.MethodPost, "/api/v1/run")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, body["accepted"])

	select {
	case <-r.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("run was not started")
	}
	assert.Equal(t, []string{"products.txt"}, r.paths)
}

func TestTriggerRunConflict(t *testing.T) {
	s := newTestServer(&fakeRunner{running: true})
	w, body := do(t, s, http.MethodPost, "/api/v1/run")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, body["error"])
}

func TestCORSPreflight(t *testing.T) {
	svc := handlers.NewHandlerService(context.Background(), &fakeRunner{}, "products.txt")
	s := NewHTTPServer(&Config{CORSOrigins: []string{"https://dash.example"}}, svc)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://dash.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTriggerRunIsRateLimited(t *testing.T) {
	r := &fakeRunner{ran: make(chan struct{}, 2)}
	s := newTestServer(r)

	w, _ := do(t, s, http.MethodPost, "/api/v1/run")
	require.Equal(t, http.StatusAccepted, w.Code)
	<-r.ran

	w, body := do(t, s, http.MethodPost, "/api/v1/run")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, true, body["error"])
}

func TestScheduledJobs(t *testing.T) {
	w, _ := do(t, newTestServer(&fakeRunner{}), http.MethodGet, "/api/v1/jobs")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	svc := handlers.NewHandlerService(context.Background(), &fakeRunner{}, "products.txt")
	sched := scheduler.NewTaskScheduler(context.Background())
	job := &scheduler.ScheduledJob{
		Name: "restock_check", Cron: "*/10 * * * *",
		Run: func(context.Context) error { return nil },
	}
	require.NoError(t, sched.AddJob(job))
	svc.SetScheduler(sched)
	s := NewHTTPServer(&Config{}, svc)

	w, body := do(t, s, http.MethodGet, "/api/v1/jobs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = do(t, s, http.MethodGet, "/api/v1/jobs/"+job.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "restock_check", body["name"])
	assert.Equal(t, scheduler.JobStatusScheduled, body["status"])

	w, _ = do(t, s, http.MethodGet, "/api/v1/jobs/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
