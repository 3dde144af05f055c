// Package stamper runs the read, transform and write cycle against a board
// document.
package stamper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"kanstamp/internal/docstore"
	"kanstamp/internal/journal"
	"kanstamp/internal/kanban"
	"kanstamp/internal/timestamp"
)

// ErrNoActiveDocument is returned when no board path is given or configured.
var ErrNoActiveDocument = errors.New("no active document")

// Trigger names what started a run.
type Trigger string

const (
	TriggerCommand Trigger = "command"
	TriggerSave    Trigger = "save"
)

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeWritten       Outcome = "written"
	OutcomeNotApplicable Outcome = "not_applicable"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeFailed        Outcome = "failed"
)

const (
	ReasonUnrecognized = "unrecognized document"
	ReasonUnchanged    = "no changes"
	ReasonInFlight     = "run already in flight"
	ReasonEcho         = "content matches last write"
)

// Result describes one run.
type Result struct {
	Path     string         `json:"path"`
	Trigger  Trigger        `json:"trigger"`
	Outcome  Outcome        `json:"outcome"`
	Reason   string         `json:"reason,omitempty"`
	Report   kanban.Report  `json:"report"`
	Issues   []kanban.Issue `json:"issues,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Recorder persists run results.
type Recorder interface {
	Record(ctx context.Context, run journal.Run) (journal.Run, error)
}

// Orchestrator reads a board, applies the daily passes and writes it back
// when the text changed.
type Orchestrator struct {
	store    docstore.Store
	opts     kanban.Options
	now      func() time.Time
	logger   *slog.Logger
	notifier Notifier
	recorder Recorder
	guard    *Guard

	mu      sync.Mutex
	written map[string]lastWrite
}

// lastWrite is the digest of our own most recent write and the day it
// happened. It only matches save events on that same day.
type lastWrite struct {
	sum [blake2b.Size256]byte
	day timestamp.Date
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithNotifier sets where user-visible notices go.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithRecorder enables the run journal.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithGuard shares a guard between orchestrators.
func WithGuard(g *Guard) Option {
	return func(o *Orchestrator) { o.guard = g }
}

// New creates an orchestrator over store.
func New(store docstore.Store, opts kanban.Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		opts:    opts,
		now:     time.Now,
		logger:  slog.Default(),
		guard:   NewGuard(),
		written: map[string]lastWrite{},
	}
	for _, opt := range options {
		opt(o)
	}
	if o.notifier == nil {
		o.notifier = LogNotifier{Logger: o.logger}
	}
	o.logger = o.logger.With("component", "stamper")
	return o
}

// ResolveActiveDocument picks the explicit path if given, else the configured one.
func ResolveActiveDocument(explicit, configured string) (string, error) {
	if path := strings.TrimSpace(explicit); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(configured); path != "" {
		return path, nil
	}
	return "", ErrNoActiveDocument
}

// Stamp runs one cycle against path. Boundary failures are surfaced through
// the notifier and returned; the document is never written on failure.
func (o *Orchestrator) Stamp(ctx context.Context, path string, trigger Trigger) (Result, error) {
	started := o.now()
	result := Result{Path: path, Trigger: trigger}

	if strings.TrimSpace(path) == "" {
		result.Outcome = OutcomeFailed
		o.notifier.Notify("kanstamp: no active document to stamp")
		return result, ErrNoActiveDocument
	}

	if !o.guard.Enter(path) {
		result.Outcome = OutcomeSkipped
		result.Reason = ReasonInFlight
		o.logger.Debug("stamp skipped", "path", path, "trigger", trigger, "reason", result.Reason)
		return result, nil
	}
	defer o.guard.Exit(path)

	result, err := o.run(ctx, path, trigger, started)
	result.Duration = o.now().Sub(started)
	o.record(ctx, result, started, err)
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, path string, trigger Trigger, started time.Time) (Result, error) {
	result := Result{Path: path, Trigger: trigger}

	content, err := o.store.Read(ctx, path)
	if err != nil {
		result.Outcome = OutcomeFailed
		o.notifyFailure(path, err)
		return result, fmt.Errorf("read board: %w", err)
	}

	today := timestamp.FromTime(started).Date
	if trigger == TriggerSave && o.isEcho(path, content, today) {
		result.Outcome = OutcomeSkipped
		result.Reason = ReasonEcho
		o.logger.Debug("stamp skipped", "path", path, "trigger", trigger, "reason", result.Reason)
		return result, nil
	}
	o.forget(path)

	if !kanban.Recognized(content) {
		result.Outcome = OutcomeNotApplicable
		result.Reason = ReasonUnrecognized
		o.logger.Debug("stamp not applicable", "path", path, "reason", result.Reason)
		return result, nil
	}

	transformed := kanban.Transform(content, timestamp.FromTime(started), o.opts)
	result.Report = transformed.Report
	result.Issues = transformed.Board.Issues
	for _, issue := range result.Issues {
		o.logger.Warn("board issue", "path", path, "line", issue.Line, "message", issue.Message)
	}

	if transformed.Output == content {
		result.Outcome = OutcomeNotApplicable
		result.Reason = ReasonUnchanged
		o.logger.Debug("stamp not applicable", "path", path, "reason", result.Reason)
		return result, nil
	}

	if err := o.store.Modify(ctx, path, transformed.Output); err != nil {
		result.Outcome = OutcomeFailed
		o.notifyFailure(path, err)
		return result, fmt.Errorf("write board: %w", err)
	}
	o.remember(path, transformed.Output, today)

	result.Outcome = OutcomeWritten
	report := result.Report
	o.logger.Info("board stamped",
		"path", path,
		"trigger", trigger,
		"rolled_over", report.RolledOver,
		"archived", report.Archived,
		"stamped_done", report.StampedDone,
		"stamped_start", report.StampedStart,
	)
	o.notifier.Notify(fmt.Sprintf("kanstamp: board stamped (%s)", summarize(report)))
	return result, nil
}

func (o *Orchestrator) notifyFailure(path string, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		o.notifier.Notify(fmt.Sprintf("kanstamp: %s not found", path))
	case errors.Is(err, docstore.ErrNotAFile):
		o.notifier.Notify(fmt.Sprintf("kanstamp: %s is not a file", path))
	default:
		o.notifier.Notify(fmt.Sprintf("kanstamp: %s: %v", path, err))
	}
	o.logger.Error("stamp failed", "path", path, "error", err)
}

func (o *Orchestrator) isEcho(path, content string, today timestamp.Date) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	last, ok := o.written[path]
	return ok && last.day == today && last.sum == blake2b.Sum256([]byte(content))
}

func (o *Orchestrator) remember(path, content string, day timestamp.Date) {
	o.mu.Lock()
	o.written[path] = lastWrite{sum: blake2b.Sum256([]byte(content)), day: day}
	o.mu.Unlock()
}

func (o *Orchestrator) forget(path string) {
	o.mu.Lock()
	delete(o.written, path)
	o.mu.Unlock()
}

func (o *Orchestrator) record(ctx context.Context, result Result, started time.Time, runErr error) {
	if o.recorder == nil {
		return
	}
	if result.Outcome == OutcomeSkipped {
		return
	}
	run := journal.Run{
		Path:         result.Path,
		Trigger:      string(result.Trigger),
		Outcome:      string(result.Outcome),
		RolledOver:   result.Report.RolledOver,
		Archived:     result.Report.Archived,
		StampedDone:  result.Report.StampedDone,
		StampedStart: result.Report.StampedStart,
		Issues:       len(result.Issues),
		StartedAt:    started,
		Duration:     result.Duration,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if _, err := o.recorder.Record(ctx, run); err != nil {
		o.logger.Warn("journal record failed", "path", result.Path, "error", err)
	}
}

func summarize(r kanban.Report) string {
	var parts []string
	if r.RolledOver > 0 {
		parts = append(parts, fmt.Sprintf("%d rolled over", r.RolledOver))
	}
	if r.Archived > 0 {
		parts = append(parts, fmt.Sprintf("%d archived", r.Archived))
	}
	if r.StampedDone > 0 {
		parts = append(parts, fmt.Sprintf("%d completed", r.StampedDone))
	}
	if r.StampedStart > 0 {
		parts = append(parts, fmt.Sprintf("%d started", r.StampedStart))
	}
	if len(parts) == 0 {
		return "reformatted"
	}
	return strings.Join(parts, ", ")
}
