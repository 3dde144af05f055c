package kanban

import "testing"

func TestFrontMatter(t *testing.T) {
	fm, err := FrontMatter(document(""))
	if err != nil {
		t.Fatalf("front matter: %v", err)
	}
	if fm["kanban-plugin"] != "basic" {
		t.Fatalf("expected kanban-plugin basic, got %v", fm)
	}

	fm, err = FrontMatter("# Notes\n")
	if err != nil || fm != nil {
		t.Fatalf("expected no front matter, got %v (%v)", fm, err)
	}

	if _, err := FrontMatter("---\nkey: value\n"); err == nil {
		t.Fatal("expected error for unterminated front matter")
	}
	if _, err := FrontMatter("---\nkey: [\n---\n"); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
