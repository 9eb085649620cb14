package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	w := New(path, func(context.Context) {
		calls.Add(1)
		changed <- struct{}{}
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// a burst of writes collapses into one notification
	for i := range 3 {
		content := []byte(`{"n": ` + string(rune('0'+i)) + `}`)
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected one debounced notification, got %d", n)
	}

	// other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("unrelated file triggered a notification, got %d calls", n)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "flow.json"), func(context.Context) {})
	if err := w.Watch(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWithDebounceIgnoresNonPositive(t *testing.T) {
	w := New("flow.json", nil).WithDebounce(0)
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %s, want %s", w.debounce, DefaultDebounce)
	}
}
