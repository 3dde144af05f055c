package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelevant(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Work.md")
	w, err := New(target, 0, func(context.Context) {}, quietLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: target, Op: fsnotify.Write}, want: true},
		{name: "create", event: fsnotify.Event{Name: target, Op: fsnotify.Create}, want: true},
		{name: "chmod", event: fsnotify.Event{Name: target, Op: fsnotify.Chmod}, want: false},
		{name: "remove", event: fsnotify.Event{Name: target, Op: fsnotify.Remove}, want: false},
		{name: "other file", event: fsnotify.Event{Name: target + ".tmp", Op: fsnotify.Write}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.event); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDebounceCoalescesBursts(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Work.md")
	var calls atomic.Int32
	fired := make(chan struct{}, 4)
	w, err := New(target, 30*time.Millisecond, func(context.Context) {
		calls.Add(1)
		fired <- struct{}{}
	}, quietLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		w.handle(ctx, fsnotify.Event{Name: target, Op: fsnotify.Write})
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not fire")
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one handler call, got %d", got)
	}
}

func TestRunTriggersOnSave(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Work.md")
	if err := os.WriteFile(target, []byte("before"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fired := make(chan struct{}, 4)
	w, err := New(target, 20*time.Millisecond, func(context.Context) {
		fired <- struct{}{}
	}, quietLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-fired:
			return
		case <-tick.C:
			if err := os.WriteFile(target, []byte("after"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-deadline:
			t.Fatal("expected save to trigger the handler")
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("relative.md", 0, func(context.Context) {}, nil); err == nil {
		t.Fatal("expected error for relative path")
	}
	if _, err := New(filepath.Join(t.TempDir(), "a.md"), 0, nil, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
