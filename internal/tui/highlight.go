package tui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// Highlighter marks placeholder literals inside a text.
type Highlighter struct {
	// Mark renders one literal occurrence.
	Mark func(literal string) string
}

// DefaultHighlighter marks literals with the unbound placeholder style.
func DefaultHighlighter() Highlighter {
	return Highlighter{Mark: func(s string) string { return unboundStyle.Render(s) }}
}

// Highlight marks every occurrence of the tokens' literals in text. Longer
// literals win where two would overlap.
func (h Highlighter) Highlight(text string, tokens []placeholders.Token) string {
	if len(tokens) == 0 || h.Mark == nil {
		return text
	}

	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b placeholders.Token) int {
		return cmp.Compare(len(b.Literal), len(a.Literal))
	})

	pairs := make([]string, 0, 2*len(sorted))
	for _, tok := range sorted {
		pairs = append(pairs, tok.Literal, h.Mark(tok.Literal))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Highlight marks placeholder literals in text with the default style.
func Highlight(text string, tokens []placeholders.Token) string {
	return DefaultHighlighter().Highlight(text, tokens)
}

// UnboundTokens returns the tokens of t that have no bound value.
func UnboundTokens(t *placeholders.Template) []placeholders.Token {
	unbound := t.Unbound()
	var out []placeholders.Token
	for _, tok := range t.Tokens() {
		if slices.Contains(unbound, tok.Name) {
			out = append(out, tok)
		}
	}
	return out
}
