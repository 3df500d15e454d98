package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mdEligible(name string) bool {
	if name == "INDEX.md" || name == "QUICK_REFERENCE.md" {
		return false
	}
	return strings.HasSuffix(name, ".md")
}

// counter counts reruns behind a mutex.
type counter struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (c *counter) rerun() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	return c.err
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_RerunsOnNewFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &counter{}
	go Watch(ctx, dir, mdEligible, testLogger(), c.rerun)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 1
	}, "expected a rerun after a new file")
}

func TestWatch_IgnoresGeneratedOutputs(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &counter{}
	go Watch(ctx, dir, mdEligible, testLogger(), c.rerun)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "INDEX.md"), []byte("# Index"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{}"), 0o644)

	// Give the debounce window plenty of time to fire if it was scheduled.
	time.Sleep(3 * debounceDelay)
	if got := c.count(); got != 0 {
		t.Errorf("runs = %d, want 0 for generated outputs", got)
	}
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &counter{}
	go Watch(ctx, dir, mdEligible, testLogger(), c.rerun)
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(dir, "burst"+string(rune('a'+i))+".md"), []byte("# B"), 0o644)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 1
	}, "expected at least one rerun after a burst")

	time.Sleep(3 * debounceDelay)
	if got := c.count(); got >= 5 {
		t.Errorf("runs = %d, want the burst collapsed into fewer reruns", got)
	}
}

func TestWatch_NewSubdirWatched(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &counter{}
	go Watch(ctx, dir, mdEligible, testLogger(), c.rerun)
	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(dir, "subdir")
	_ = os.MkdirAll(subDir, 0o755)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 1
	}, "expected a rerun after a new directory")
	before := c.count()

	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte("# Deep"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() > before
	}, "file in new subdir did not trigger a rerun")
}

func TestWatch_RerunErrorDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &counter{err: errors.New("boom")}
	go Watch(ctx, dir, mdEligible, testLogger(), c.rerun)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "first.md"), []byte("# First"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 1
	}, "expected first rerun")

	_ = os.WriteFile(filepath.Join(dir, "second.md"), []byte("# Second"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 2
	}, "watcher should survive rerun errors")
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, mdEligible, testLogger(), (&counter{}).rerun)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Watch did not return after cancel")
	}
}

func TestWatch_MissingRoot(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), mdEligible, testLogger(), (&counter{}).rerun)
	if err == nil {
		t.Error("expected error for missing root")
	}
}
