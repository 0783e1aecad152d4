package daemon_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"critique/internal/daemon"
	"critique/internal/preprocess"
	"critique/internal/testsupport"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(context.Context) (preprocess.Summary, error) {
	n := r.calls.Add(1)
	if r.err != nil {
		return preprocess.Summary{}, r.err
	}
	return preprocess.Summary{RunID: "run", Reviews: int(n)}, nil
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := &countingRunner{}
	d, err := daemon.New(cfg, runner, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.NextRun.IsZero() {
		t.Fatal("expected a scheduled next run")
	}
	if status.APIAddr != "" {
		t.Fatalf("api addr = %q without a handler", status.APIAddr)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.RunNow()
	if runner.calls.Load() != 1 {
		t.Fatalf("runner calls = %d", runner.calls.Load())
	}
	last := d.Status().LastRun
	if last == nil || last.Err != nil || last.Summary.Reviews != 1 {
		t.Fatalf("last run = %+v", last)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, &countingRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := daemon.New(cfg, &countingRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}
}

func TestDaemonRecordsRunErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tests := []struct {
		name string
		err  error
	}{
		{"in progress", preprocess.ErrRunInProgress},
		{"failure", errors.New("database locked")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := daemon.New(cfg, &countingRunner{err: tt.err}, nil, nil)
			if err != nil {
				t.Fatalf("daemon.New: %v", err)
			}
			if err := d.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			defer d.Stop()
			d.RunNow()
			last := d.Status().LastRun
			if last == nil || !errors.Is(last.Err, tt.err) {
				t.Fatalf("last run = %+v", last)
			}
		})
	}
}

func TestDaemonServesAPI(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	d, err := daemon.New(cfg, &countingRunner{}, handler, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	addr := d.Status().APIAddr
	if addr == "" {
		t.Fatal("expected api address")
	}
	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := daemon.New(testsupport.NewConfig(t), nil, nil, nil); err == nil {
		t.Fatal("expected error without runner")
	}
}
