package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"kanstamp/internal/api"
	"kanstamp/internal/format"
	"kanstamp/internal/journal"
	"kanstamp/internal/kanban"
	"kanstamp/internal/stamper"
)

var (
	outputFormatter format.Formatter = format.JSONFormatter{}
	yamlFormatter   format.Formatter = format.YAMLFormatter{}
)

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writeYAML(payload any) error {
	return yamlFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeNotice(message string) error {
	_, err := fmt.Fprintln(os.Stderr, message)
	return err
}

func writeStampResult(result stamper.Result) error {
	line := fmt.Sprintf("%s: %s", result.Path, result.Outcome)
	if result.Reason != "" {
		line += " (" + result.Reason + ")"
	}
	if err := writePlain("%s\n", line); err != nil {
		return err
	}
	if result.Outcome == stamper.OutcomeWritten {
		if err := writePlain("%s\n", formatReport(result.Report)); err != nil {
			return err
		}
	}
	return writeIssues(result.Issues)
}

func formatReport(r kanban.Report) string {
	parts := []string{
		fmt.Sprintf("rolled_over=%d", r.RolledOver),
		fmt.Sprintf("archived=%d", r.Archived),
		fmt.Sprintf("stamped_done=%d", r.StampedDone),
		fmt.Sprintf("stamped_start=%d", r.StampedStart),
	}
	if r.RolloverSkipped {
		parts = append(parts, "rollover_skipped")
	}
	if r.ArchiveSkipped {
		parts = append(parts, "archive_skipped")
	}
	return "  " + strings.Join(parts, " ")
}

func writeIssues(issues []kanban.Issue) error {
	for _, issue := range issues {
		if err := writePlain("  line %d: %s\n", issue.Line, issue.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeBoard(board api.BoardResponse) error {
	if !board.Recognized {
		return writePlain("%s: not a kanban board\n", board.Path)
	}
	lines := []string{fmt.Sprintf("board: %s", board.Path)}
	for _, col := range board.Columns {
		header := fmt.Sprintf("%s (%d)", col.Name, len(col.Cards))
		if col.Name == board.CompletionColumn {
			header += " [complete]"
		}
		lines = append(lines, header)
		for _, card := range col.Cards {
			lines = append(lines, "  "+formatCardLine(card))
		}
	}
	if err := writePlain("%s\n", strings.Join(lines, "\n")); err != nil {
		return err
	}
	return writeIssues(board.Issues)
}

func formatCardLine(card *kanban.Card) string {
	mark := " "
	if card.Checked {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s", mark, card.Text)
	if card.Start != nil {
		line += " " + kanban.StartGlyph + " " + card.Start.String()
	}
	if card.End != nil {
		line += " " + kanban.CompletionGlyph + " " + card.End.String()
	}
	return line
}

func writeRuns(runs []journal.Run) error {
	if len(runs) == 0 {
		return writePlain("no runs recorded\n")
	}
	for _, run := range runs {
		if err := writePlain("%s\n", formatRunLine(run)); err != nil {
			return err
		}
	}
	return nil
}

func formatRunLine(run journal.Run) string {
	line := fmt.Sprintf("%s  %-14s %-7s %s  (+%d start, +%d done, %d rolled, %d archived, %s)",
		humanize.Time(run.StartedAt),
		run.Outcome,
		run.Trigger,
		run.Path,
		run.StampedStart,
		run.StampedDone,
		run.RolledOver,
		run.Archived,
		run.Duration,
	)
	if run.Error != "" {
		line += "  error: " + run.Error
	}
	return line
}
