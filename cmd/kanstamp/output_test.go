package main

import (
	"strings"
	"testing"
	"time"

	"kanstamp/internal/journal"
	"kanstamp/internal/kanban"
	"kanstamp/internal/timestamp"
)

func TestFormatReport(t *testing.T) {
	got := formatReport(kanban.Report{RolledOver: 1, StampedStart: 2, ArchiveSkipped: true})
	want := "  rolled_over=1 archived=0 stamped_done=0 stamped_start=2 archive_skipped"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatCardLine(t *testing.T) {
	start, err := timestamp.Parse("05-01-2020 9:00am")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	end, err := timestamp.Parse("05-01-2020 3:04pm")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name string
		card kanban.Card
		want string
	}{
		{name: "open", card: kanban.Card{Text: "Draft"}, want: "[ ] Draft"},
		{name: "started", card: kanban.Card{Text: "Draft", Start: &start}, want: "[ ] Draft 🛫 05-01-2020 9:00am"},
		{name: "finished", card: kanban.Card{Text: "Ship", Checked: true, Start: &start, End: &end}, want: "[x] Ship 🛫 05-01-2020 9:00am ✅ 05-01-2020 3:04pm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCardLine(&tt.card); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatRunLine(t *testing.T) {
	run := journal.Run{
		Path:         "Work/Work.md",
		Trigger:      "save",
		Outcome:      "failed",
		StampedStart: 1,
		StartedAt:    time.Now().Add(-2 * time.Hour),
		Duration:     3 * time.Millisecond,
		Error:        "write board: disk full",
	}
	got := formatRunLine(run)
	for _, part := range []string{"2 hours ago", "failed", "save", "Work/Work.md", "+1 start", "3ms", "error: write board: disk full"} {
		if !strings.Contains(got, part) {
			t.Fatalf("expected %q in %q", part, got)
		}
	}
}
