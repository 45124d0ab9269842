package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMessages(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := map[string]string{
		"errors.game_not_found":      "Game not found",
		"errors.invalid_move_format": "Invalid move format",
		"errors.no_piece_at_source":  "No piece at source position",
		"errors.rate_limited":        "Too many requests, please try again later.",
		"messages.game_deleted":      "Game deleted",
	}
	for key, want := range cases {
		got, err := c.Render(key, nil)
		if err != nil {
			t.Errorf("Render(%s): %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("Render(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestRenderWithData(t *testing.T) {
	c := MustDefault()
	got, err := c.Render("errors.invalid_color", map[string]any{"Color": "purple"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != `Invalid color "purple"` {
		t.Fatalf("got %q", got)
	}

	if _, err := c.Render("cli.winner", map[string]any{}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected not found error")
	}
	if got := c.Text("no.such.key", nil, "fallback"); got != "fallback" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("a.yaml", "errors:\n  game_not_found: \"No game {{.ID}}\"\n")
	write("notes.txt", "ignored")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("errors.game_not_found", map[string]any{"ID": "g-1"})
	if err != nil || got != "No game g-1" {
		t.Fatalf("override = %q, %v", got, err)
	}
	if got, _ := c.Render("errors.illegal_move", nil); got != "Illegal move" {
		t.Fatalf("default lost after override: %q", got)
	}

	write("b.yml", "errors:\n  game_not_found: \"dup\"\n")
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestRejectsNonStringLeaves(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("errors:\n  limit: 3\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for numeric leaf")
	}
}
