package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"critique/internal/api"
	"critique/internal/config"
	"critique/internal/logging"
	"critique/internal/preprocess"
)

// LockFileName is the scheduler lock inside the data directory.
const LockFileName = "critique-daemon.lock"

// Runner executes one batch run.
type Runner interface {
	Run(ctx context.Context) (preprocess.Summary, error)
}

// Daemon schedules batch runs and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  Runner
	handler http.Handler

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	server  *api.Server
	lastRun *RunRecord

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	now     func() time.Time
}

// RunRecord describes the most recent scheduled run.
type RunRecord struct {
	Started time.Time
	Summary preprocess.Summary
	Err     error
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Schedule     string
	NextRun      time.Time
	LastRun      *RunRecord
	LockFilePath string
	APIAddr      string
}

// New constructs a daemon. handler may be nil, in which case no API server
// is started.
func New(cfg *config.Config, runner Runner, handler http.Handler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.DataDir, LockFileName)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		runner:   runner,
		handler:  handler,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		now:      time.Now,
	}, nil
}

// Start acquires the daemon lock, schedules batch runs and starts the API
// server when configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another critique daemon instance is already running")
	}

	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()
	scheduler := cron.New()
	entry, err := scheduler.AddFunc(d.cfg.Batch.Schedule, d.tick)
	if err != nil {
		d.abortStart()
		return fmt.Errorf("schedule %q: %w", d.cfg.Batch.Schedule, err)
	}

	var server *api.Server
	if d.handler != nil && strings.TrimSpace(d.cfg.API.Bind) != "" {
		server = api.NewServer(d.cfg.API.Bind, d.handler, d.logger)
		if err := server.Start(); err != nil {
			d.abortStart()
			return err
		}
	}

	d.mu.Lock()
	d.cron = scheduler
	d.entry = entry
	d.server = server
	d.mu.Unlock()

	d.pruneLogs()
	scheduler.Start()
	d.running.Store(true)
	d.logger.Info("critique daemon started",
		logging.String("lock", d.lockPath),
		logging.String("schedule", d.cfg.Batch.Schedule),
	)
	return nil
}

func (d *Daemon) abortStart() {
	_ = d.lock.Unlock()
	d.mu.Lock()
	d.cancel()
	d.ctx = nil
	d.cancel = nil
	d.mu.Unlock()
}

// Stop waits for an in-flight run, stops the API server and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.mu.Lock()
	scheduler, server := d.cron, d.server
	d.cron, d.server = nil, nil
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if server != nil {
		if err := server.Shutdown(context.Background()); err != nil {
			d.logger.Warn("api shutdown failed", logging.Error(err))
		}
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.mu.Lock()
	d.ctx = nil
	d.mu.Unlock()
	d.running.Store(false)
	d.logger.Info("critique daemon stopped")
}

// RunNow triggers a batch run outside the schedule and blocks until it
// finishes.
func (d *Daemon) RunNow() {
	d.tick()
}

func (d *Daemon) tick() {
	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	started := d.now()
	summary, err := d.runner.Run(ctx)
	d.mu.Lock()
	d.lastRun = &RunRecord{Started: started, Summary: summary, Err: err}
	d.mu.Unlock()

	switch {
	case errors.Is(err, preprocess.ErrRunInProgress):
		d.logger.Info("scheduled run skipped; previous run still active", logging.String(logging.FieldEventType, "run_skipped"))
	case err != nil:
		logging.WarnWithContext(d.logger, "scheduled run failed", "run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the database path and model configuration"),
			logging.String(logging.FieldImpact, "pending reviews stay pending until the next run"),
		)
	default:
		d.logger.Info("scheduled run finished",
			logging.String(logging.FieldRunID, summary.RunID),
			logging.Int("reviews", summary.Reviews),
			logging.Int("processed", summary.Processed),
			logging.Int("failed", summary.Failed),
		)
	}
	d.pruneLogs()
}

func (d *Daemon) pruneLogs() {
	logging.PruneLogs(d.logger, d.cfg.Paths.LogDir, "*.log", d.cfg.Logging.RetentionDays, d.now())
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	status := Status{
		Running:      d.running.Load(),
		Schedule:     d.cfg.Batch.Schedule,
		LockFilePath: d.lockPath,
	}
	if d.cron != nil {
		status.NextRun = d.cron.Entry(d.entry).Next
	}
	if d.server != nil {
		status.APIAddr = d.server.Addr()
	}
	if d.lastRun != nil {
		last := *d.lastRun
		status.LastRun = &last
	}
	return status
}
