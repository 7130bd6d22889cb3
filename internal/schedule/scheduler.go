// Package schedule re-runs the collection pipeline on a cron expression.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/tknemuru/kindergarten-collecting/internal/collector"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
	"github.com/tknemuru/kindergarten-collecting/internal/server"
)

// ErrAlreadyRunning is returned by RunOnce while another run is in progress.
var ErrAlreadyRunning = errors.New("collection already running")

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (*collector.Result, error)
}

// Scheduler triggers Runner on a standard five-field cron expression. At most
// one run is active at a time.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	runner  Runner
	tracker *server.Tracker
	log     logger.Interface

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Scheduler for expr. Runs are reported to tracker.
func New(expr string, runner Runner, tracker *server.Tracker, log logger.Interface) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    c,
		runner:  runner,
		tracker: tracker,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	entry, err := c.AddFunc(expr, s.fire)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("schedule %q: %w", expr, err)
	}
	s.entry = entry
	return s, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.updateNextRun()
	s.log.Info("Scheduler started", "next_run", s.cron.Entry(s.entry).Next)
}

// Stop stops the cron, cancels an active run and waits for it to return.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler")
	stopCtx := s.cron.Stop()
	s.cancel()
	<-stopCtx.Done()
	s.wg.Wait()
	s.log.Info("Scheduler stopped")
}

// RunOnce runs the pipeline immediately on the caller's goroutine.
func (s *Scheduler) RunOnce(ctx context.Context) (*collector.Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	s.tracker.Start()
	res, err := s.runner.Run(ctx)
	s.tracker.Finish(res, err)
	s.updateNextRun()

	if err != nil {
		s.log.Error("Scheduled collection failed", "error", err)
		return res, err
	}
	s.log.Info("Scheduled collection finished",
		"run_id", res.RunID,
		"records", len(res.Records),
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Scheduler) fire() {
	if _, err := s.RunOnce(s.ctx); errors.Is(err, ErrAlreadyRunning) {
		s.log.Warn("Skipping scheduled collection", "reason", err)
	}
}

func (s *Scheduler) updateNextRun() {
	if next := s.cron.Entry(s.entry).Next; !next.IsZero() {
		s.tracker.SetNextRun(next)
	}
}

// cronLogger adapts logger.Interface to cron.Logger.
type cronLogger struct {
	log logger.Interface
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
