package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Cards []string `json:"cards" yaml:"cards"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONFormatter{}).Write(&buf, sample{Name: "Doing #w", Cards: []string{"a"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"name\":\"Doing #w\",\"cards\":[\"a\"]}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAMLFormatter{}).Write(&buf, sample{Name: "Doing #w", Cards: []string{"a", "b"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "name: ") || !strings.Contains(got, "Doing #w") {
		t.Fatalf("expected name field, got:\n%s", got)
	}
	if !strings.Contains(got, "cards:\n  - a\n  - b\n") {
		t.Fatalf("expected two-space indented list, got:\n%s", got)
	}
}
