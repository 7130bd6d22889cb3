package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tknemuru/kindergarten-collecting/internal/collector"
	"github.com/tknemuru/kindergarten-collecting/internal/detail"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
	"github.com/tknemuru/kindergarten-collecting/internal/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{ServiceName: "kinder-collector", Version: "dev"}, server.NewTracker(), logger.NewNoOp())

	var body server.HealthResponse
	code := get(t, srv.Handler(), "/health", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, server.HealthStatusHealthy, body.Status)
	assert.Equal(t, "kinder-collector", body.Service)
	assert.Equal(t, "dev", body.Version)
	assert.Empty(t, body.Checks)
}

func TestHealth_FailingCheck(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{
		Checks: map[string]server.HealthChecker{
			"minio":    func(context.Context) error { return errors.New("bucket missing") },
			"postgres": func(context.Context) error { return nil },
		},
	}, server.NewTracker(), logger.NewNoOp())

	var body server.HealthResponse
	code := get(t, srv.Handler(), "/health", &body)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, server.HealthStatusUnhealthy, body.Status)
	assert.Equal(t, server.HealthStatusUnhealthy, body.Checks["minio"].Status)
	assert.Equal(t, "bucket missing", body.Checks["minio"].Message)
	assert.Equal(t, server.HealthStatusHealthy, body.Checks["postgres"].Status)
}

func TestHealth_Head(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{}, server.NewTracker(), logger.NewNoOp())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus_Empty(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{}, server.NewTracker(), logger.NewNoOp())

	var body server.Status
	code := get(t, srv.Handler(), "/status", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, body.Running)
	assert.Zero(t, body.Runs)
	assert.Nil(t, body.LastRun)
	assert.Nil(t, body.NextRun)
}

func TestStatus_AfterRuns(t *testing.T) {
	t.Parallel()

	tracker := server.NewTracker()
	srv := server.New(server.Options{}, tracker, logger.NewNoOp())

	schema := detail.NewSchema(
		detail.FieldSpec{ID: "kinderName", Title: "保育施設名"},
		detail.FieldSpec{ID: "定員", Title: "定員"},
	)
	ok := &collector.Result{
		RunID:        "run-1",
		StartedAt:    time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC),
		Duration:     1500 * time.Millisecond,
		ListingFiles: []string{"a.html"},
		DetailURLs:   []string{"u1", "u2"},
		DetailFiles:  []string{"1.html", "2.html"},
		Schema:       schema,
		Records:      []detail.Record{{}, {}},
		OutputPath:   "out.csv",
	}

	tracker.Start()
	var body server.Status
	get(t, srv.Handler(), "/status", &body)
	assert.True(t, body.Running)

	tracker.Finish(ok, nil)
	tracker.Start()
	tracker.Finish(nil, errors.New("list kinders: no such file or directory"))
	next := time.Date(2026, 4, 2, 3, 0, 0, 0, time.UTC)
	tracker.SetNextRun(next)

	body = server.Status{}
	get(t, srv.Handler(), "/status", &body)

	assert.False(t, body.Running)
	assert.Equal(t, 2, body.Runs)
	assert.Equal(t, 1, body.Failures)
	require.NotNil(t, body.NextRun)
	assert.True(t, next.Equal(*body.NextRun))

	require.NotNil(t, body.LastRun)
	assert.Equal(t, "list kinders: no such file or directory", body.LastRun.Error)
	require.NotNil(t, body.LastFailure)
	assert.Equal(t, body.LastRun.Error, body.LastFailure.Error)

	snap := tracker.Snapshot()
	assert.Equal(t, 2, snap.Runs)
}

func TestTracker_FinishRecordsCounts(t *testing.T) {
	t.Parallel()

	tracker := server.NewTracker()
	tracker.Finish(&collector.Result{
		RunID:        "run-2",
		Duration:     2 * time.Second,
		ListingFiles: []string{"a.html", "b.html"},
		DetailURLs:   []string{"u1"},
		Schema:       detail.NewSchema(detail.FieldSpec{ID: "kinderName", Title: "保育施設名"}),
		Records:      []detail.Record{{}},
	}, nil)

	last := tracker.Snapshot().LastRun
	require.NotNil(t, last)
	assert.Equal(t, "run-2", last.RunID)
	assert.Equal(t, "2s", last.Duration)
	assert.Equal(t, 2, last.ListingFiles)
	assert.Equal(t, 1, last.DetailURLs)
	assert.Equal(t, 1, last.Fields)
	assert.Equal(t, 1, last.Records)
	assert.Empty(t, last.Error)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{Address: "127.0.0.1:0"}, server.NewTracker(), logger.NewNoOp())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
