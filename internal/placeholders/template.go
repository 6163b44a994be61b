package placeholders

import (
	"fmt"
	"maps"
	"regexp"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/logger"
)

// Derived property names accepted by Template.Property.
const (
	PropertyValue   = "value"
	PropertySource  = "source"
	PropertyRegex   = "regex"
	PropertyPattern = "pattern"
)

// Template is a source string with named placeholders, the values bound to
// them, and the constraints used when matching input against the template.
type Template struct {
	text        string
	pattern     *regexp.Regexp
	tokens      []Token
	values      map[string]Value
	constraints map[string]string
	opts        options
	cache       matcherCache
}

type options struct {
	pattern           string
	defaultConstraint string
	anchored          bool
	caseInsensitive   bool
	log               *logger.Logger
}

// Option configures a Template at construction time.
type Option func(*options)

// WithPattern sets the placeholder pattern. It must have exactly one
// capturing group, the placeholder name.
func WithPattern(p string) Option {
	return func(o *options) { o.pattern = p }
}

// WithDelimiters builds the placeholder pattern from a delimiter pair.
func WithDelimiters(open, close string) Option {
	return func(o *options) { o.pattern = Pattern(open, close) }
}

// WithDefaultConstraint sets the fragment used for unconstrained placeholders.
func WithDefaultConstraint(c string) Option {
	return func(o *options) { o.defaultConstraint = c }
}

// WithAnchored controls whether Match requires the whole input to conform
// (default true).
func WithAnchored(anchored bool) Option {
	return func(o *options) { o.anchored = anchored }
}

// WithCaseInsensitive makes Match ignore letter case.
func WithCaseInsensitive(ci bool) Option {
	return func(o *options) { o.caseInsensitive = ci }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New creates a Template from text. Without a pattern option the current
// process-wide default pattern is used.
func New(text string, opts ...Option) (*Template, error) {
	o := options{
		pattern:           DefaultPattern(),
		defaultConstraint: DefaultConstraint,
		anchored:          true,
		log:               logger.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	re, err := CompilePattern(o.pattern)
	if err != nil {
		return nil, err
	}
	if o.defaultConstraint == "" {
		o.defaultConstraint = DefaultConstraint
	}
	if err := CheckConstraint("", o.defaultConstraint); err != nil {
		return nil, err
	}

	t := &Template{
		pattern:     re,
		values:      make(map[string]Value),
		constraints: make(map[string]string),
		opts:        o,
	}
	t.SetSource(text)
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(text string, opts ...Option) *Template {
	t, err := New(text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// SetSource replaces the template text and re-scans its placeholders.
func (t *Template) SetSource(text string) *Template {
	t.text = text
	t.tokens = tokenize(text, t.pattern)
	t.cache.invalidate()
	return t
}

// Source returns the current template text.
func (t *Template) Source() string { return t.text }

// PatternString returns the placeholder pattern in use.
func (t *Template) PatternString() string { return t.pattern.String() }

// Tokens returns the discovered placeholders in first-occurrence order.
func (t *Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Names returns the placeholder names in first-occurrence order.
func (t *Template) Names() []string {
	names := make([]string, len(t.tokens))
	for i, tok := range t.tokens {
		names[i] = tok.Name
	}
	return names
}

// Has reports whether name is a placeholder of the current text.
func (t *Template) Has(name string) bool {
	for _, tok := range t.tokens {
		if tok.Name == name {
			return true
		}
	}
	return false
}

// SetData binds a value to name. A nil or empty value removes the binding.
func (t *Template) SetData(name string, v Value) *Template {
	if isEmpty(v) {
		delete(t.values, name)
		return t
	}
	t.values[name] = v
	return t
}

// UnsetData removes the binding for name.
func (t *Template) UnsetData(name string) *Template {
	delete(t.values, name)
	return t
}

// SetDataMap replaces all bindings with m, or merges m over the existing
// bindings when merge is true. Empty values in m are skipped.
func (t *Template) SetDataMap(m map[string]Value, merge bool) *Template {
	if !merge {
		t.values = make(map[string]Value, len(m))
	}
	for name, v := range m {
		t.SetData(name, v)
	}
	return t
}

// Data returns a copy of the bound values.
func (t *Template) Data() map[string]Value {
	return maps.Clone(t.values)
}

// Value returns the value bound to name.
func (t *Template) Value(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// SetMatch sets the constraint fragment for name. An empty fragment removes
// the constraint. A fragment that does not compile or that contains
// capturing groups is rejected and the template is left unchanged.
func (t *Template) SetMatch(name, fragment string) error {
	if fragment == "" {
		if _, ok := t.constraints[name]; ok {
			delete(t.constraints, name)
			t.cache.invalidate()
		}
		return nil
	}
	if err := CheckConstraint(name, fragment); err != nil {
		return err
	}
	t.constraints[name] = fragment
	t.cache.invalidate()
	return nil
}

// SetMatchMap replaces all constraints with m, or merges m over the existing
// constraints when merge is true. Every entry is checked before any is applied.
func (t *Template) SetMatchMap(m map[string]string, merge bool) error {
	for name, fragment := range m {
		if fragment == "" {
			continue
		}
		if err := CheckConstraint(name, fragment); err != nil {
			return err
		}
	}

	next := make(map[string]string, len(m))
	if merge {
		maps.Copy(next, t.constraints)
	}
	for name, fragment := range m {
		if fragment == "" {
			delete(next, name)
			continue
		}
		next[name] = fragment
	}
	t.constraints = next
	t.cache.invalidate()
	return nil
}

// Constraints returns a copy of the constraint fragments.
func (t *Template) Constraints() map[string]string {
	return maps.Clone(t.constraints)
}

// Constraint returns the fragment used for name when matching, falling back
// to the default constraint.
func (t *Template) Constraint(name string) string {
	if c, ok := t.constraints[name]; ok {
		return c
	}
	return t.opts.defaultConstraint
}

// Chain returns an independent Template positioned at the text rendered
// with override, sharing this template's pattern and options and copies of
// its values and constraints.
func (t *Template) Chain(override map[string]Value) *Template {
	next := &Template{
		pattern:     t.pattern,
		values:      maps.Clone(t.values),
		constraints: maps.Clone(t.constraints),
		opts:        t.opts,
	}
	next.SetSource(t.RenderWith(override))
	return next
}

// Property returns a derived property by name.
func (t *Template) Property(name string) (string, error) {
	switch name {
	case PropertyValue:
		return t.Render(), nil
	case PropertySource:
		return t.text, nil
	case PropertyPattern:
		return t.pattern.String(), nil
	case PropertyRegex:
		return t.SourceRegex(DefaultDelimiter)
	}
	return "", fmt.Errorf("%w: %q", tplerrors.ErrUnknownProperty, name)
}

// String renders the template with its bound values.
func (t *Template) String() string { return t.Render() }

// CheckConstraint reports whether fragment is usable as the capture body
// for name: it must compile inside a group the way the matcher splices it,
// and must not contain capturing groups.
func CheckConstraint(name, fragment string) error {
	re, err := regexp.Compile("(?:" + fragment + ")")
	if err != nil {
		return &tplerrors.PatternError{
			Kind:    "constraint",
			Name:    name,
			Pattern: fragment,
			Err:     fmt.Errorf("%w: %v", tplerrors.ErrInvalidConstraint, err),
		}
	}
	if re.NumSubexp() > 0 {
		return &tplerrors.PatternError{
			Kind:    "constraint",
			Name:    name,
			Pattern: fragment,
			Err:     fmt.Errorf("%w: capturing groups are not allowed, use (?:...)", tplerrors.ErrInvalidConstraint),
		}
	}
	return nil
}
