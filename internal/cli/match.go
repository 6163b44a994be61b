package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// ErrNoMatch is returned when the input does not conform to the template.
var ErrNoMatch = errors.New("input does not match the template")

// MatchOptions contains the options for the match command.
type MatchOptions struct {
	Source string
	Format string
}

// MatchResult is the JSON output of the match command.
type MatchResult struct {
	Matched  bool                   `json:"matched"`
	Captures []placeholders.Capture `json:"captures"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	opts := &MatchOptions{}

	cmd := &cobra.Command{
		Use:   "match [definition] <input>",
		Short: "Check input against a template and extract placeholder values",
		Long: `Match input against the regex synthesized from a template.

Each placeholder becomes a capture group using its constraint from the
definition's match section, or the default constraint. Literal text must
appear exactly. The command exits non-zero when the input does not match.

Examples:
  tokentpl match route.yaml /user/42/profile
  tokentpl match --source '/user/{id}' /user/42 --format json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			arg, rest := splitArgs(args, opts.Source)
			if len(rest) != 1 {
				return errors.New("expected exactly one input to match")
			}
			return runMatch(cmd.Context(), env, opts, arg, rest[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (text, json; default from config)")

	return cmd
}

func runMatch(ctx context.Context, env *Env, opts *MatchOptions, arg, input string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}
	t := l.Template

	// Surface constraint errors instead of reporting a plain mismatch.
	if _, err := t.Regexp(); err != nil {
		return err
	}

	captures, ok := t.Match(input)

	switch format := outputFormat(env, opts.Format); format {
	case "json":
		if captures == nil {
			captures = placeholders.Captures{}
		}
		if err := writeJSON(env, MatchResult{Matched: ok, Captures: captures}); err != nil {
			return err
		}
	case "text":
		for _, c := range captures {
			fmt.Fprintf(env.Out, "%s=%s\n", c.Name, c.Value)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}

	if !ok {
		regex, _ := t.SourceRegex(env.Config.Match.Delimiter)
		env.Log.Debug("%q does not match %s", input, regex)
		return ErrNoMatch
	}
	return nil
}
