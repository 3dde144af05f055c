package stamper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"kanstamp/internal/docstore"
	"kanstamp/internal/journal"
	"kanstamp/internal/kanban"
)

const frontMatter = "---\n\nkanban-plugin: basic\n\n---\n"

const footer = "\n\n%%% kanban:settings\n```\n{\"kanban-plugin\":\"basic\",\"hide-tags-in-title\":true,\"show-checkboxes\":false}\n```\n%%%"

func board(body string) string {
	return frontMatter + body + footer
}

type memStore struct {
	mu       sync.Mutex
	docs     map[string]string
	writes   int
	readErr  error
	writeErr error
	block    chan struct{}
	entered  chan struct{}
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]string{}}
}

func (s *memStore) Read(_ context.Context, path string) (string, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return "", s.readErr
	}
	text, ok := s.docs[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, docstore.ErrNotFound)
	}
	return text, nil
}

func (s *memStore) Modify(_ context.Context, path, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.docs[path] = text
	s.writes++
	return nil
}

type notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notices) Notify(message string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, message)
	n.mu.Unlock()
}

type memRecorder struct {
	runs []journal.Run
	err  error
}

func (r *memRecorder) Record(_ context.Context, run journal.Run) (journal.Run, error) {
	if r.err != nil {
		return journal.Run{}, r.err
	}
	r.runs = append(r.runs, run)
	return run, nil
}

func fixedClock() time.Time {
	return time.Date(2020, 1, 5, 15, 4, 0, 0, time.Local)
}

func newTestOrchestrator(store docstore.Store, options ...Option) (*Orchestrator, *notices) {
	n := &notices{}
	base := []Option{
		WithClock(fixedClock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(n),
	}
	return New(store, kanban.DefaultOptions(), append(base, options...)...), n
}

func TestStampWritesChangedBoard(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
	rec := &memRecorder{}
	o, n := newTestOrchestrator(store, WithRecorder(rec))

	result, err := o.Stamp(context.Background(), "Work.md", TriggerCommand)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if result.Outcome != OutcomeWritten {
		t.Fatalf("expected written, got %s (%s)", result.Outcome, result.Reason)
	}
	want := board("## Doing #w\n- [ ] Write report 🛫 05-01-2020 3:04pm #w\n")
	if store.docs["Work.md"] != want {
		t.Fatalf("unexpected document:\n%s", store.docs["Work.md"])
	}
	if len(n.msgs) != 1 || !strings.Contains(n.msgs[0], "1 started") {
		t.Fatalf("expected one stamped notice, got %q", n.msgs)
	}
	if len(rec.runs) != 1 || rec.runs[0].Outcome != "written" || rec.runs[0].StampedStart != 1 {
		t.Fatalf("unexpected journal runs: %+v", rec.runs)
	}
}

func TestStampRerunIsNotApplicable(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
	o, _ := newTestOrchestrator(store)

	if _, err := o.Stamp(context.Background(), "Work.md", TriggerCommand); err != nil {
		t.Fatalf("first stamp: %v", err)
	}
	result, err := o.Stamp(context.Background(), "Work.md", TriggerCommand)
	if err != nil {
		t.Fatalf("second stamp: %v", err)
	}
	if result.Outcome != OutcomeNotApplicable || result.Reason != ReasonUnchanged {
		t.Fatalf("expected unchanged no-op, got %s (%s)", result.Outcome, result.Reason)
	}
	if store.writes != 1 {
		t.Fatalf("expected a single write, got %d", store.writes)
	}
}

func TestStampUnrecognizedDocument(t *testing.T) {
	store := newMemStore()
	store.docs["Notes.md"] = "# Notes\n- [ ] not a board\n"
	o, n := newTestOrchestrator(store)

	result, err := o.Stamp(context.Background(), "Notes.md", TriggerCommand)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if result.Outcome != OutcomeNotApplicable || result.Reason != ReasonUnrecognized {
		t.Fatalf("expected unrecognized no-op, got %s (%s)", result.Outcome, result.Reason)
	}
	if store.writes != 0 || len(n.msgs) != 0 {
		t.Fatalf("expected no writes or notices, got %d writes, %q", store.writes, n.msgs)
	}
}

func TestStampSaveEchoIsSkipped(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
	o, _ := newTestOrchestrator(store)

	if _, err := o.Stamp(context.Background(), "Work.md", TriggerCommand); err != nil {
		t.Fatalf("stamp: %v", err)
	}
	result, err := o.Stamp(context.Background(), "Work.md", TriggerSave)
	if err != nil {
		t.Fatalf("save stamp: %v", err)
	}
	if result.Outcome != OutcomeSkipped || result.Reason != ReasonEcho {
		t.Fatalf("expected echo skip, got %s (%s)", result.Outcome, result.Reason)
	}

	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report 🛫 05-01-2020 3:04pm #w\n- [ ] New card\n")
	result, err = o.Stamp(context.Background(), "Work.md", TriggerSave)
	if err != nil {
		t.Fatalf("save stamp after edit: %v", err)
	}
	if result.Outcome != OutcomeWritten {
		t.Fatalf("expected user edit to be stamped, got %s (%s)", result.Outcome, result.Reason)
	}
}

func TestStampSaveEchoExpires(t *testing.T) {
	tests := []struct {
		name    string
		between func(t *testing.T, o *Orchestrator, store *memStore)
	}{
		{
			name: "next day",
			between: func(_ *testing.T, o *Orchestrator, _ *memStore) {
				o.now = func() time.Time { return fixedClock().AddDate(0, 0, 1) }
			},
		},
		{
			name: "after a user edit",
			between: func(t *testing.T, o *Orchestrator, store *memStore) {
				echo := store.docs["Work.md"]
				store.docs["Work.md"] = board("## Backlog #b\n## Doing #w\n")
				if _, err := o.Stamp(context.Background(), "Work.md", TriggerSave); err != nil {
					t.Fatalf("save stamp after edit: %v", err)
				}
				store.docs["Work.md"] = echo
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.docs["Work.md"] = board("## Backlog #b\n## Doing #w\n- [ ] Write report\n")
			o, _ := newTestOrchestrator(store)

			if _, err := o.Stamp(context.Background(), "Work.md", TriggerCommand); err != nil {
				t.Fatalf("stamp: %v", err)
			}
			tt.between(t, o, store)

			result, err := o.Stamp(context.Background(), "Work.md", TriggerSave)
			if err != nil {
				t.Fatalf("save stamp: %v", err)
			}
			if result.Reason == ReasonEcho {
				t.Fatalf("expected stale echo digest to be ignored, got %s (%s)", result.Outcome, result.Reason)
			}
		})
	}
}

func TestStampSaveEchoRollsOverNextDay(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Backlog #b\n## Doing #w\n- [ ] Write report\n")
	o, _ := newTestOrchestrator(store)

	if _, err := o.Stamp(context.Background(), "Work.md", TriggerCommand); err != nil {
		t.Fatalf("stamp: %v", err)
	}
	o.now = func() time.Time { return fixedClock().AddDate(0, 0, 1) }

	result, err := o.Stamp(context.Background(), "Work.md", TriggerSave)
	if err != nil {
		t.Fatalf("save stamp: %v", err)
	}
	if result.Outcome != OutcomeWritten || result.Report.RolledOver != 1 {
		t.Fatalf("expected next-day save to roll over, got %s (%s) %+v", result.Outcome, result.Reason, result.Report)
	}
	if !strings.Contains(store.docs["Work.md"], "## Backlog #b\n- [ ] Write report #b\n") {
		t.Fatalf("expected card in backlog, got:\n%s", store.docs["Work.md"])
	}
}

func TestStampBoundaryFailures(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(*memStore)
		wantErr    error
		wantNotice string
	}{
		{
			name:       "no active document",
			path:       " ",
			wantErr:    ErrNoActiveDocument,
			wantNotice: "no active document",
		},
		{
			name:       "not found",
			path:       "missing.md",
			wantErr:    docstore.ErrNotFound,
			wantNotice: "missing.md not found",
		},
		{
			name:       "not a file",
			path:       "dir",
			setup:      func(s *memStore) { s.readErr = fmt.Errorf("dir: %w", docstore.ErrNotAFile) },
			wantErr:    docstore.ErrNotAFile,
			wantNotice: "dir is not a file",
		},
		{
			name: "write failure",
			path: "Work.md",
			setup: func(s *memStore) {
				s.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
				s.writeErr = errors.New("disk full")
			},
			wantNotice: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			o, n := newTestOrchestrator(store)

			result, err := o.Stamp(context.Background(), tt.path, TriggerCommand)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if result.Outcome != OutcomeFailed {
				t.Fatalf("expected failed outcome, got %s", result.Outcome)
			}
			if len(n.msgs) != 1 || !strings.Contains(n.msgs[0], tt.wantNotice) {
				t.Fatalf("expected notice containing %q, got %q", tt.wantNotice, n.msgs)
			}
			if store.writes != 0 {
				t.Fatalf("expected no writes, got %d", store.writes)
			}
		})
	}
}

func TestStampInFlightIsSkipped(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 2)
	o, _ := newTestOrchestrator(store)

	done := make(chan Result, 1)
	go func() {
		result, _ := o.Stamp(context.Background(), "Work.md", TriggerCommand)
		done <- result
	}()
	<-store.entered

	second, err := o.Stamp(context.Background(), "Work.md", TriggerSave)
	if err != nil {
		t.Fatalf("second stamp: %v", err)
	}
	if second.Outcome != OutcomeSkipped || second.Reason != ReasonInFlight {
		t.Fatalf("expected in-flight skip, got %s (%s)", second.Outcome, second.Reason)
	}

	close(store.block)
	first := <-done
	if first.Outcome != OutcomeWritten {
		t.Fatalf("expected first run to write, got %s", first.Outcome)
	}
	if o.guard.Busy("Work.md") {
		t.Fatal("expected guard to be released")
	}
}

func TestJournalFailureDoesNotFailRun(t *testing.T) {
	store := newMemStore()
	store.docs["Work.md"] = board("## Doing #w\n- [ ] Write report\n")
	o, _ := newTestOrchestrator(store, WithRecorder(&memRecorder{err: errors.New("locked")}))

	result, err := o.Stamp(context.Background(), "Work.md", TriggerCommand)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if result.Outcome != OutcomeWritten {
		t.Fatalf("expected written, got %s", result.Outcome)
	}
}

func TestResolveActiveDocument(t *testing.T) {
	tests := []struct {
		explicit   string
		configured string
		want       string
		wantErr    bool
	}{
		{explicit: "a.md", configured: "b.md", want: "a.md"},
		{explicit: "", configured: "b.md", want: "b.md"},
		{explicit: " ", configured: " ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ResolveActiveDocument(tt.explicit, tt.configured)
		if tt.wantErr {
			if !errors.Is(err, ErrNoActiveDocument) {
				t.Fatalf("expected ErrNoActiveDocument, got %v", err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestGuard(t *testing.T) {
	g := NewGuard()
	if !g.Enter("a") {
		t.Fatal("expected first enter to succeed")
	}
	if g.Enter("a") {
		t.Fatal("expected second enter to fail")
	}
	if !g.Enter("b") {
		t.Fatal("expected other path to be independent")
	}
	g.Exit("a")
	if !g.Enter("a") {
		t.Fatal("expected enter after exit to succeed")
	}
}
