// Package kanban reads and writes the markdown kanban dialect: "##" headings
// are columns, "- [ ]" lines are cards, and cards carry optional 🛫 start and
// ✅ completion timestamps followed by their column's tag.
//
// Only the recognized subset round-trips. Lines that are neither headings,
// cards nor the "**Complete**" marker are dropped on parse and the fixed
// front matter and settings footer are re-emitted on serialize.
package kanban

import (
	"kanstamp/internal/timestamp"
)

// Result is the outcome of one parse, transform and serialize cycle.
type Result struct {
	Board  *Board
	Report Report
	Output string
}

// Transform parses content, applies the daily passes at now and renders the
// board again.
func Transform(content string, now timestamp.Timestamp, opts Options) Result {
	board := Parse(content, opts)
	report := Apply(board, now, opts)
	return Result{
		Board:  board,
		Report: report,
		Output: Serialize(board, opts),
	}
}
