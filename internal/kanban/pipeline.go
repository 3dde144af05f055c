package kanban

import (
	"kanstamp/internal/timestamp"
)

const (
	DefaultBacklogColumn = "Backlog #b"
	DefaultArchiveColumn = "Archive"
	DefaultInProgressTag = "#w"
	DefaultDoneTag       = "#d"
	DefaultBlockedTag    = "#blocker"
)

// Options names the destination columns and the status tags the passes key on.
type Options struct {
	BacklogColumn string
	ArchiveColumn string
	InProgressTag string
	DoneTag       string
	BlockedTag    string
}

// DefaultOptions returns the stock column names and tags.
func DefaultOptions() Options {
	return Options{
		BacklogColumn: DefaultBacklogColumn,
		ArchiveColumn: DefaultArchiveColumn,
		InProgressTag: DefaultInProgressTag,
		DoneTag:       DefaultDoneTag,
		BlockedTag:    DefaultBlockedTag,
	}
}

// Report counts what one pipeline run changed.
type Report struct {
	RolledOver      int  `json:"rolled_over"`
	Archived        int  `json:"archived"`
	StampedDone     int  `json:"stamped_done"`
	StampedStart    int  `json:"stamped_start"`
	RolloverSkipped bool `json:"rollover_skipped,omitempty"`
	ArchiveSkipped  bool `json:"archive_skipped,omitempty"`
}

// Changed reports whether any pass touched the board.
func (r Report) Changed() bool {
	return r.RolledOver+r.Archived+r.StampedDone+r.StampedStart > 0
}

// Apply runs rollover, archive, completion stamping and start stamping in
// that order. Archive runs before stamping so a card completed in this run is
// not archived by it; rollover runs first so freshly started cards stay put.
func Apply(board *Board, now timestamp.Timestamp, opts Options) Report {
	var report Report
	report.RolledOver, report.RolloverSkipped = Rollover(board, now, opts)
	report.Archived, report.ArchiveSkipped = Archive(board, now, opts)
	report.StampedDone = StampCompletion(board, now, opts)
	report.StampedStart = StampStart(board, now, opts)
	return report
}

// Rollover sends unfinished cards started on an earlier day back to the
// backlog with their start cleared. Columns carrying the blocked tag are left
// alone and backlog cards only lose their start. It returns the number of
// rolled cards and whether the pass was skipped for lack of a backlog column.
func Rollover(board *Board, now timestamp.Timestamp, opts Options) (int, bool) {
	backlog := board.Column(opts.BacklogColumn)
	if backlog == nil {
		return 0, true
	}

	moved := 0
	for _, col := range board.Ordered() {
		if opts.BlockedTag != "" && col.Tag == opts.BlockedTag {
			continue
		}
		if col == backlog {
			for _, card := range col.Cards {
				if isStale(card, now) {
					card.Start = nil
					moved++
				}
			}
			continue
		}
		stale := col.extract(func(card *Card) bool { return isStale(card, now) })
		for _, card := range stale {
			card.Start = nil
			backlog.Append(card)
		}
		moved += len(stale)
	}
	return moved, false
}

// Archive moves every card completed on an earlier day into the archive
// column, whatever column it sits in. Cards already archived stay in place.
func Archive(board *Board, now timestamp.Timestamp, opts Options) (int, bool) {
	archive := board.Column(opts.ArchiveColumn)
	if archive == nil {
		return 0, true
	}

	moved := 0
	for _, col := range board.Ordered() {
		if col == archive {
			continue
		}
		done := col.extract(func(card *Card) bool {
			return card.End != nil && !timestamp.SameDay(*card.End, now)
		})
		for _, card := range done {
			archive.Append(card)
		}
		moved += len(done)
	}
	return moved, false
}

func isStale(card *Card, now timestamp.Timestamp) bool {
	return card.End == nil && card.Start != nil && !timestamp.SameDay(*card.Start, now)
}

// StampCompletion gives cards in done-tagged columns a completion time.
func StampCompletion(board *Board, now timestamp.Timestamp, opts Options) int {
	stamped := 0
	for _, col := range board.Ordered() {
		if opts.DoneTag == "" || col.Tag != opts.DoneTag {
			continue
		}
		for _, card := range col.Cards {
			if card.End == nil {
				ts := now
				card.End = &ts
				stamped++
			}
		}
	}
	return stamped
}

// StampStart gives cards in in-progress columns a start time.
func StampStart(board *Board, now timestamp.Timestamp, opts Options) int {
	stamped := 0
	for _, col := range board.Ordered() {
		if opts.InProgressTag == "" || col.Tag != opts.InProgressTag {
			continue
		}
		for _, card := range col.Cards {
			if card.Start == nil {
				ts := now
				card.Start = &ts
				stamped++
			}
		}
	}
	return stamped
}
