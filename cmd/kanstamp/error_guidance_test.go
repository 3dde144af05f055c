package main

import (
	"fmt"
	"net"
	"testing"

	"kanstamp/internal/api"
	"kanstamp/internal/docstore"
	"kanstamp/internal/stamper"
)

func TestFormatCLIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{
			name: "no active document",
			err:  stamper.ErrNoActiveDocument,
			hint: "hint: pass a board path or set one with: kanstamp config set board_path <path>",
		},
		{
			name: "missing board",
			err:  fmt.Errorf("read board: %w", fmt.Errorf("Work.md: %w", docstore.ErrNotFound)),
			hint: "hint: board paths are relative to vault_dir (KANSTAMP_VAULT) unless absolute.",
		},
		{
			name: "directory",
			err:  fmt.Errorf("read board: %w", docstore.ErrNotAFile),
			hint: "hint: the board path must name a markdown file, not a directory.",
		},
		{
			name: "network",
			err:  &net.DNSError{Err: "dial tcp: connection refused", Name: "127.0.0.1", IsTemporary: true},
			hint: "hint: ensure a kanstamp server is running at KANSTAMP_API_URL.",
		},
		{
			name: "unknown service",
			err:  &api.APIError{Status: 404, Message: "api error: 404 Not Found"},
			hint: "hint: verify KANSTAMP_API_URL points to a kanstamp server.",
		},
		{
			name: "auth",
			err:  &api.APIError{Status: 401, Code: "unauthorized", Message: "unauthorized"},
			hint: "hint: verify KANSTAMP_API_TOKEN matches the server's token.",
		},
		{
			name: "in flight",
			err:  &api.APIError{Status: 409, Code: "conflict", Message: "run already in flight"},
			hint: "hint: a stamp run for this board is already in progress.",
		},
		{
			name: "internal",
			err:  &api.APIError{Status: 500, Code: "internal", Message: "internal error"},
			hint: "hint: server returned an internal error; check server logs for details.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := formatCLIError(tt.err)
			if lines[0] != tt.err.Error() {
				t.Fatalf("expected error first, got %v", lines)
			}
			if !containsLine(lines, tt.hint) {
				t.Fatalf("expected %q, got %v", tt.hint, lines)
			}
		})
	}
}

func TestUniqueLines(t *testing.T) {
	got := uniqueLines([]string{"a", "", "b", "a"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected lines: %v", got)
	}
}

func containsLine(lines []string, expected string) bool {
	for _, line := range lines {
		if line == expected {
			return true
		}
	}
	return false
}
