package main

import (
	"context"
	"errors"
	"net"

	"kanstamp/internal/api"
	"kanstamp/internal/docstore"
	"kanstamp/internal/stamper"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	switch {
	case errors.Is(err, stamper.ErrNoActiveDocument):
		lines = append(lines, "hint: pass a board path or set one with: kanstamp config set board_path <path>")
		return uniqueLines(lines)
	case errors.Is(err, docstore.ErrNotFound):
		lines = append(lines, "hint: board paths are relative to vault_dir (KANSTAMP_VAULT) unless absolute.")
		return uniqueLines(lines)
	case errors.Is(err, docstore.ErrNotAFile):
		lines = append(lines, "hint: the board path must name a markdown file, not a directory.")
		return uniqueLines(lines)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "unauthorized":
			lines = append(lines, "hint: verify KANSTAMP_API_TOKEN matches the server's token.")
		case "resource_exhausted":
			lines = append(lines, "hint: retry shortly; the server limits concurrent stamp requests.")
		case "conflict":
			lines = append(lines, "hint: a stamp run for this board is already in progress.")
		case "not_implemented":
			lines = append(lines, "hint: enable the run journal on the server with journal.path.")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify KANSTAMP_API_URL points to a kanstamp server.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase KANSTAMP_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a kanstamp server is running at KANSTAMP_API_URL.",
			"hint: start one with: kanstamp srv",
		)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
