package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock returns a settable time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestPollerNoChangeBelowBaseline(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(root, "a", "info"), base.Add(-time.Hour))
	touch(t, filepath.Join(root, "b", "info"), base) // equal is not newer

	clock := &fakeClock{now: base}
	var calls atomic.Int32
	p := NewPoller(NewWalker(root, nil), func() { calls.Add(1) }, WithClock(clock.Now))

	if p.Check(context.Background()) {
		t.Error("Check reported a change with no file newer than the baseline")
	}
	if calls.Load() != 0 {
		t.Errorf("callback ran %d times, want 0", calls.Load())
	}
	if !p.Baseline().Equal(base) {
		t.Errorf("baseline moved to %v", p.Baseline())
	}
}

func TestPollerDetectsNewerFileOnce(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(root, "a", "info"), base.Add(-time.Hour))

	clock := &fakeClock{now: base}
	var calls atomic.Int32
	p := NewPoller(NewWalker(root, nil), func() { calls.Add(1) }, WithClock(clock.Now))

	// two files changed in the same tick still produce one callback
	touch(t, filepath.Join(root, "a", "info"), base.Add(time.Second))
	touch(t, filepath.Join(root, "b", "sections", "0"), base.Add(2*time.Second))

	clock.Set(base.Add(5 * time.Second))
	if !p.Check(context.Background()) {
		t.Fatal("Check did not detect a newer file")
	}
	if calls.Load() != 1 {
		t.Errorf("callback ran %d times, want 1", calls.Load())
	}
	if !p.Baseline().Equal(base.Add(5 * time.Second)) {
		t.Errorf("baseline = %v, want reset to the clock", p.Baseline())
	}

	// nothing newer than the new baseline
	if p.Check(context.Background()) {
		t.Error("second Check should not report a change")
	}
	if calls.Load() != 1 {
		t.Errorf("callback ran %d times after second check, want 1", calls.Load())
	}

	// a later edit fires again
	touch(t, filepath.Join(root, "a", "info"), base.Add(10*time.Second))
	clock.Set(base.Add(11 * time.Second))
	if !p.Check(context.Background()) {
		t.Error("Check missed a later change")
	}
	if calls.Load() != 2 {
		t.Errorf("callback ran %d times, want 2", calls.Load())
	}
}

func TestPollerIgnoresHiddenFiles(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(root, "a", ".swp"), base.Add(time.Hour))

	clock := &fakeClock{now: base}
	p := NewPoller(NewWalker(root, nil), nil, WithClock(clock.Now))
	if p.Check(context.Background()) {
		t.Error("hidden files must not trigger a change")
	}
}

func TestPollerOptions(t *testing.T) {
	p := NewPoller(NewWalker(t.TempDir(), nil), nil)
	if p.Interval() != DefaultPollInterval {
		t.Errorf("default interval = %v, want %v", p.Interval(), DefaultPollInterval)
	}

	p = NewPoller(NewWalker(t.TempDir(), nil), nil, WithInterval(-time.Second))
	if p.Interval() != DefaultPollInterval {
		t.Errorf("negative interval should be ignored, got %v", p.Interval())
	}

	p = NewPoller(NewWalker(t.TempDir(), nil), nil, WithInterval(time.Second), WithWalkTimeout(time.Millisecond))
	if p.Interval() != time.Second {
		t.Errorf("interval = %v, want 1s", p.Interval())
	}
	if p.walkTimeout != time.Millisecond {
		t.Errorf("walkTimeout = %v, want 1ms", p.walkTimeout)
	}
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	changed := make(chan struct{}, 1)
	p := NewPoller(NewWalker(root, nil), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// a file written after the poller started is newer than its baseline
	touch(t, filepath.Join(root, "a", "info"), time.Now().Add(time.Minute))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not detect the change")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
