package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// PromptOptions controls how PromptValues talks to the terminal.
type PromptOptions struct {
	// Accessible uses plain line prompts instead of the full form.
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

// PromptValues asks for a value for every unbound placeholder of t. Each
// answer must satisfy the placeholder's constraint. Empty answers are
// left out of the result.
func PromptValues(t *placeholders.Template, opts PromptOptions) (map[string]placeholders.Value, error) {
	names := t.Unbound()
	if len(names) == 0 {
		return map[string]placeholders.Value{}, nil
	}

	answers := make([]string, len(names))
	fields := make([]huh.Field, len(names))
	for i, name := range names {
		constraint := t.Constraint(name)
		fields[i] = huh.NewInput().
			Title(name).
			Description(fmt.Sprintf("must match %s", constraint)).
			Value(&answers[i]).
			Validate(func(s string) error {
				if s == "" {
					return nil
				}
				return placeholders.Validate(s, constraint)
			})
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithAccessible(opts.Accessible)
	if opts.Input != nil {
		form = form.WithInput(opts.Input)
	}
	if opts.Output != nil {
		form = form.WithOutput(opts.Output)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, tplerrors.ErrCanceled
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	values := make(map[string]placeholders.Value, len(names))
	for i, name := range names {
		if answers[i] != "" {
			values[name] = placeholders.String(answers[i])
		}
	}
	return values, nil
}
