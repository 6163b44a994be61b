// Package placeholders provides placeholder discovery, substitution, and
// matching-regex synthesis for token templates such as "/user/{id}".
//
// A Template holds a source string, the values to substitute for its
// placeholders, and optional per-placeholder constraints. It can render
// itself into plain text, partially resolve itself while deferring unbound
// placeholders, and derive a regular expression that recognizes strings
// shaped like the template while capturing each placeholder's content.
//
// Templates are not safe for concurrent mutation. The process-wide default
// placeholder pattern is configuration: set it once at startup.
package placeholders

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

const (
	// DefaultOpen is the default opening delimiter of a placeholder.
	DefaultOpen = "{"
	// DefaultClose is the default closing delimiter of a placeholder.
	DefaultClose = "}"
	// NameClass is the character class a placeholder name is built from.
	NameClass = `[A-Za-z0-9_.]+`
	// DefaultConstraint matches anything and is used for unconstrained placeholders.
	DefaultConstraint = ".*"
)

var (
	defaultPatternMu sync.RWMutex
	defaultPattern   = Pattern(DefaultOpen, DefaultClose)
)

// Pattern builds a placeholder pattern for the given delimiter pair. The
// placeholder name is the pattern's only capturing group.
func Pattern(open, close string) string {
	return regexp.QuoteMeta(open) + "(" + NameClass + ")" + regexp.QuoteMeta(close)
}

// SetDefaultPattern replaces the process-wide default placeholder pattern.
// It is read by New when no pattern option is given and never consulted
// afterwards, so existing templates keep the pattern they were built with.
func SetDefaultPattern(p string) {
	defaultPatternMu.Lock()
	defer defaultPatternMu.Unlock()
	defaultPattern = p
}

// DefaultPattern returns the process-wide default placeholder pattern.
func DefaultPattern() string {
	defaultPatternMu.RLock()
	defer defaultPatternMu.RUnlock()
	return defaultPattern
}

// CompilePattern compiles a placeholder pattern and checks that it has
// exactly one capturing group.
func CompilePattern(p string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, &tplerrors.PatternError{
			Kind:    "pattern",
			Pattern: p,
			Err:     fmt.Errorf("%w: %v", tplerrors.ErrInvalidPattern, err),
		}
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, &tplerrors.PatternError{
			Kind:    "pattern",
			Pattern: p,
			Err:     fmt.Errorf("%w: want exactly one capturing group, got %d", tplerrors.ErrInvalidPattern, n),
		}
	}
	return re, nil
}

// Token is a discovered placeholder: its name and the exact text that
// matched, delimiters included.
type Token struct {
	Name    string
	Literal string
}

// tokenize scans text for placeholders. Tokens keep first-occurrence order;
// a repeated name keeps its position but takes the last occurrence's literal.
func tokenize(text string, re *regexp.Regexp) []Token {
	matches := re.FindAllStringSubmatch(text, -1)
	index := make(map[string]int, len(matches))
	var tokens []Token

	for _, m := range matches {
		if len(m) < 2 || m[1] == "" || m[0] == "" {
			continue
		}
		name, literal := m[1], m[0]
		if i, seen := index[name]; seen {
			tokens[i].Literal = literal
			continue
		}
		index[name] = len(tokens)
		tokens = append(tokens, Token{Name: name, Literal: literal})
	}

	return tokens
}

// Extract extracts all unique placeholder names from a string using the
// default pattern. It fails when the default pattern does not compile.
func Extract(s string) ([]string, error) {
	re, err := CompilePattern(DefaultPattern())
	if err != nil {
		return nil, err
	}
	tokens := tokenize(s, re)
	result := make([]string, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Name
	}
	return result, nil
}

// MissingError is returned by strict rendering when placeholders are left unbound.
type MissingError struct {
	MissingNames []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing placeholders: %s", strings.Join(e.MissingNames, ", "))
}

// Missing returns the list of missing placeholder names.
func (e *MissingError) Missing() []string {
	return e.MissingNames
}

// Validate checks a whole value against a constraint fragment.
func Validate(value, constraint string) error {
	if constraint == "" {
		return nil // No validation
	}

	re, err := regexp.Compile("^(?:" + constraint + ")$")
	if err != nil {
		return fmt.Errorf("%w: %v", tplerrors.ErrInvalidConstraint, err)
	}

	if !re.MatchString(value) {
		return fmt.Errorf("value %q does not match %s", value, constraint)
	}

	return nil
}
