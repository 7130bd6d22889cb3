package server

import (
	"sync"
	"time"

	"github.com/tknemuru/kindergarten-collecting/internal/collector"
)

// RunStatus summarises one finished pipeline run.
type RunStatus struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Duration     string    `json:"duration"`
	ListingFiles int       `json:"listing_files"`
	DetailURLs   int       `json:"detail_urls"`
	DetailFiles  int       `json:"detail_files"`
	Fields       int       `json:"fields"`
	Records      int       `json:"records"`
	OutputPath   string    `json:"output_path,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Status is the body of GET /status.
type Status struct {
	Running     bool       `json:"running"`
	Runs        int        `json:"runs"`
	Failures    int        `json:"failures"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastRun     *RunStatus `json:"last_run,omitempty"`
	LastFailure *RunStatus `json:"last_failure,omitempty"`
}

// Tracker records pipeline runs for the status endpoint. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	running bool
	runs    int
	fails   int
	next    time.Time
	last    *RunStatus
	lastErr *RunStatus
	now     func() time.Time
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Start marks a run as in progress.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
}

// Finish records the outcome of a run. res may be nil when the run failed
// before producing output.
func (t *Tracker) Finish(res *collector.Result, err error) {
	status := &RunStatus{FinishedAt: t.now()}
	if res != nil {
		status.RunID = res.RunID
		status.StartedAt = res.StartedAt
		status.Duration = res.Duration.Round(time.Millisecond).String()
		status.ListingFiles = len(res.ListingFiles)
		status.DetailURLs = len(res.DetailURLs)
		status.DetailFiles = len(res.DetailFiles)
		status.Records = len(res.Records)
		status.OutputPath = res.OutputPath
		if res.Schema != nil {
			status.Fields = res.Schema.Len()
		}
	}
	if err != nil {
		status.Error = err.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.runs++
	t.last = status
	if err != nil {
		t.fails++
		t.lastErr = status
	}
}

// SetNextRun records when the scheduler will fire next.
func (t *Tracker) SetNextRun(next time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next = next
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Status{
		Running:  t.running,
		Runs:     t.runs,
		Failures: t.fails,
	}
	if !t.next.IsZero() {
		next := t.next
		s.NextRun = &next
	}
	if t.last != nil {
		last := *t.last
		s.LastRun = &last
	}
	if t.lastErr != nil {
		lastErr := *t.lastErr
		s.LastFailure = &lastErr
	}
	return s
}
