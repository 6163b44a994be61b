package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/chazuruo/tokentpl/internal/logger"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

func bracket() Highlighter {
	return Highlighter{Mark: func(s string) string { return "[" + s + "]" }}
}

func quiet() placeholders.Option {
	return placeholders.WithLogger(logger.New(io.Discard, logger.LevelQuiet))
}

// TestHighlight verifies that every literal occurrence is marked.
func TestHighlight(t *testing.T) {
	tokens := []placeholders.Token{
		{Name: "a", Literal: "{a}"},
		{Name: "b", Literal: "{b}"},
	}

	got := bracket().Highlight("{a} and {b} and {a}", tokens)
	want := "[{a}] and [{b}] and [{a}]"
	if got != want {
		t.Errorf("Highlight() = %q, want %q", got, want)
	}
}

// TestHighlight_LongestLiteralWins verifies overlapping literals.
func TestHighlight_LongestLiteralWins(t *testing.T) {
	tokens := []placeholders.Token{
		{Name: "id", Literal: ":id"},
		{Name: "idx", Literal: ":idx"},
	}

	got := bracket().Highlight("/:id/:idx", tokens)
	want := "/[:id]/[:idx]"
	if got != want {
		t.Errorf("Highlight() = %q, want %q", got, want)
	}
}

// TestHighlight_NoTokens verifies text is returned unchanged.
func TestHighlight_NoTokens(t *testing.T) {
	if got := bracket().Highlight("plain", nil); got != "plain" {
		t.Errorf("Highlight() = %q", got)
	}
	if got := (Highlighter{}).Highlight("{a}", []placeholders.Token{{Name: "a", Literal: "{a}"}}); got != "{a}" {
		t.Errorf("Highlight() without Mark = %q", got)
	}
}

// TestHighlight_DefaultKeepsText verifies the styled output still carries the text.
func TestHighlight_DefaultKeepsText(t *testing.T) {
	got := Highlight("hello {name}", []placeholders.Token{{Name: "name", Literal: "{name}"}})
	if !strings.HasPrefix(got, "hello ") || !strings.Contains(got, "{name}") {
		t.Errorf("Highlight() = %q", got)
	}
}

// TestUnboundTokens verifies only unbound tokens are returned.
func TestUnboundTokens(t *testing.T) {
	tpl := placeholders.MustNew("{a} {b} {c}", quiet())
	tpl.SetData("b", placeholders.String("x"))

	tokens := UnboundTokens(tpl)
	if len(tokens) != 2 || tokens[0].Name != "a" || tokens[1].Name != "c" {
		t.Errorf("UnboundTokens() = %v", tokens)
	}
	if got := bracket().Highlight(tpl.Render(), tokens); got != "[{a}] x [{c}]" {
		t.Errorf("highlighted render = %q", got)
	}
}
