package placeholders

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// DefaultDelimiter wraps the pattern returned by SourceRegex.
const DefaultDelimiter = "/"

var (
	// sentinelNamespace seeds the name-derived sentinel UUIDs.
	sentinelNamespace = uuid.MustParse("6f1c2a43-8c8e-4d52-9f0e-3b7d5a1e9c20")

	// sentinelRegex finds sentinels in escaped text. Every character of a
	// sentinel is left alone by regexp.QuoteMeta.
	sentinelRegex = regexp.MustCompile(`%%[A-Z0-9_]*_[0-9a-f]{32}%%`)

	unsafeSentinelChars = regexp.MustCompile(`[^A-Z0-9_]`)
)

// Capture is one placeholder's content recovered by Match.
type Capture struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Captures are ordered by placeholder discovery order.
type Captures []Capture

// Get returns the captured value for name.
func (c Captures) Get(name string) (string, bool) {
	for _, capture := range c {
		if capture.Name == name {
			return capture.Value, true
		}
	}
	return "", false
}

// Map returns the captures keyed by name.
func (c Captures) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, capture := range c {
		m[capture.Name] = capture.Value
	}
	return m
}

// Names returns the captured names in order.
func (c Captures) Names() []string {
	names := make([]string, len(c))
	for i, capture := range c {
		names[i] = capture.Name
	}
	return names
}

// matcherCache holds everything derived from the text and constraints.
// A zero value means stale.
type matcherCache struct {
	sources map[string]string
	re      *regexp.Regexp
	groups  []int
}

func (c *matcherCache) invalidate() {
	*c = matcherCache{}
}

// sentinel derives an escape-inert marker for a placeholder name.
func sentinel(name string) string {
	id := uuid.NewSHA1(sentinelNamespace, []byte(name))
	label := unsafeSentinelChars.ReplaceAllString(cases.Upper(language.Und).String(name), "_")
	return "%%" + label + "_" + strings.ReplaceAll(id.String(), "-", "") + "%%"
}

// CheckDelimiter accepts "" or a single ASCII punctuation character that
// cannot appear in a sentinel.
func CheckDelimiter(delim string) error {
	if delim == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(delim)
	if size != len(delim) || r >= utf8.RuneSelf || !isPunct(byte(r)) || strings.ContainsRune(`\%_`, r) {
		return fmt.Errorf("%w: delimiter %q must be a single punctuation character other than \\ %% _", tplerrors.ErrInvalid, delim)
	}
	return nil
}

func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

// escape quotes s for literal use inside a regex wrapped in delim.
func escape(s, delim string) string {
	s = regexp.QuoteMeta(s)
	if delim != "" && regexp.QuoteMeta(delim) == delim {
		s = strings.ReplaceAll(s, delim, `\`+delim)
	}
	return s
}

// synthesize builds the regex body for delim and the capture-group number
// of each token's first occurrence.
func (t *Template) synthesize(delim string) (string, []int) {
	// Phase 1: sentinel per placeholder.
	bySentinel := make(map[string]int, len(t.tokens))
	byLength := make([]int, len(t.tokens))
	for i, tok := range t.tokens {
		bySentinel[sentinel(tok.Name)] = i
		byLength[i] = i
	}
	slices.SortStableFunc(byLength, func(a, b int) int {
		return cmp.Compare(len(t.tokens[b].Literal), len(t.tokens[a].Literal))
	})

	// Phase 2: literals to sentinels, longest literal first so a literal
	// that is a substring of another cannot split it.
	pairs := make([]string, 0, 2*len(t.tokens))
	for _, i := range byLength {
		pairs = append(pairs, t.tokens[i].Literal, sentinel(t.tokens[i].Name))
	}
	work := strings.NewReplacer(pairs...).Replace(t.text)

	// Phase 3: escape literal text; sentinels pass through unchanged.
	escaped := escape(work, delim)

	// Phase 4: sentinels to capturing groups.
	groups := make([]int, len(t.tokens))
	n := 0
	body := sentinelRegex.ReplaceAllStringFunc(escaped, func(s string) string {
		i, ok := bySentinel[s]
		if !ok {
			return s
		}
		n++
		if groups[i] == 0 {
			groups[i] = n
		}
		return "(" + t.Constraint(t.tokens[i].Name) + ")"
	})

	return body, groups
}

// SourceRegex returns the matching regex wrapped in delim. The result is
// cached until the source or the constraints change.
func (t *Template) SourceRegex(delim string) (string, error) {
	if err := CheckDelimiter(delim); err != nil {
		return "", err
	}
	if src, ok := t.cache.sources[delim]; ok {
		return src, nil
	}
	body, _ := t.synthesize(delim)
	src := delim + body + delim
	if t.cache.sources == nil {
		t.cache.sources = make(map[string]string)
	}
	t.cache.sources[delim] = src
	t.opts.log.Debug("synthesized %s from %q", src, t.text)
	return src, nil
}

// Regexp returns the compiled matcher used by Match. The matcher is
// compiled with the s flag so that . also matches a newline in a value.
func (t *Template) Regexp() (*regexp.Regexp, error) {
	if t.cache.re != nil {
		return t.cache.re, nil
	}

	body, groups := t.synthesize("")
	expr := body
	if t.opts.anchored {
		expr = "^(?:" + expr + ")$"
	}
	if t.opts.caseInsensitive {
		expr = "(?is)" + expr
	} else {
		expr = "(?s)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &tplerrors.PatternError{
			Kind:    "matcher",
			Pattern: expr,
			Err:     fmt.Errorf("%w: %v", tplerrors.ErrInvalidConstraint, err),
		}
	}
	t.cache.re = re
	t.cache.groups = groups
	t.opts.log.Debug("compiled matcher %s", expr)
	return re, nil
}

// Match applies the template's matcher to input. It returns the captured
// content of each placeholder in discovery order, or false when input does
// not conform. When a name occurs more than once, its first occurrence's
// capture is returned.
func (t *Template) Match(input string) (Captures, bool) {
	re, err := t.Regexp()
	if err != nil {
		t.opts.log.Warn("matcher unavailable: %v", err)
		return nil, false
	}

	m := re.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}

	captures := make(Captures, 0, len(t.tokens))
	for i, tok := range t.tokens {
		g := t.cache.groups[i]
		if g == 0 || g >= len(m) {
			continue
		}
		captures = append(captures, Capture{Name: tok.Name, Value: m[g]})
	}
	return captures, true
}

// MatchString reports whether input conforms to the template.
func (t *Template) MatchString(input string) bool {
	_, ok := t.Match(input)
	return ok
}
