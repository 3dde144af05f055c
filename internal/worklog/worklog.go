// Package worklog summarizes the cards touched on one day into time slots.
package worklog

import (
	"strings"

	"kanstamp/internal/kanban"
	"kanstamp/internal/timestamp"
)

const (
	SlotMorning   = "9:00am - 10:30am"
	SlotMidday    = "10:30am - 12:00pm"
	SlotAfternoon = "01:00pm - 5:00pm"

	finishedPrefix = "- [x] Finished "
	startedPrefix  = "- [ ] Started "
)

var slots = []string{SlotMorning, SlotMidday, SlotAfternoon}

// Slots returns the slot headers in output order.
func Slots() []string {
	return append([]string(nil), slots...)
}

// Entry is one worklog line and the slot it belongs to.
type Entry struct {
	Slot string `json:"slot" yaml:"slot"`
	Line string `json:"line" yaml:"line"`
}

// Collect scans every card line in content and returns an entry for each card
// started or completed on today. Open cards that were never started are not
// work done and are left out.
func Collect(content string, today timestamp.Date) []Entry {
	var entries []Entry
	for _, raw := range strings.Split(content, "\n") {
		line := kanban.Classify(raw)
		if line.Kind != kanban.LineCard {
			continue
		}
		card := line.Card
		if !touchedOn(card, today) {
			continue
		}

		var prefix string
		switch {
		case card.Checked:
			prefix = finishedPrefix
		case card.Start != nil:
			prefix = startedPrefix
		default:
			continue
		}
		entries = append(entries, Entry{
			Slot: slotFor(card),
			Line: prefix + card.Text + suffix(card),
		})
	}
	return entries
}

// Generate renders today's worklog: each slot header, its entries, then a
// blank line.
func Generate(content string, today timestamp.Date) string {
	return Render(Collect(content, today))
}

// Render lays entries out under their slot headers.
func Render(entries []Entry) string {
	var sb strings.Builder
	for _, slot := range slots {
		sb.WriteString(slot)
		sb.WriteString("\n")
		for _, e := range entries {
			if e.Slot == slot {
				sb.WriteString(e.Line)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Replace drops any earlier worklog from note, from the first slot header
// line to the end, and appends log after a blank line.
func Replace(note, log string) string {
	lines := strings.Split(note, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == SlotMorning {
			lines = lines[:i]
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n\n" + log
}

func touchedOn(card kanban.Card, today timestamp.Date) bool {
	return (card.Start != nil && card.Start.Date == today) ||
		(card.End != nil && card.End.Date == today)
}

// slotFor buckets by the first timestamp on the card. Evening work lands in
// the morning slot.
func slotFor(card kanban.Card) string {
	first := card.Start
	if first == nil {
		first = card.End
	}
	hour := first.Clock.Hour
	switch {
	case hour < 10 || hour >= 17:
		return SlotMorning
	case hour < 12:
		return SlotMidday
	default:
		return SlotAfternoon
	}
}

func suffix(card kanban.Card) string {
	var out string
	if card.Start != nil {
		out += " " + kanban.StartGlyph + " " + card.Start.String()
	}
	if card.End != nil {
		out += " " + kanban.CompletionGlyph + " " + card.End.String()
	}
	return out
}
