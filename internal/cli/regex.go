package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// RegexOptions contains the options for the regex command.
type RegexOptions struct {
	Source    string
	Delimiter string
}

// NewRegexCommand creates the regex command.
func NewRegexCommand() *cobra.Command {
	opts := &RegexOptions{}

	cmd := &cobra.Command{
		Use:   "regex [definition]",
		Short: "Print the matching regex synthesized from a template",
		Long: `Print the regular expression that recognizes strings shaped like the
template. Literal text is escaped, each placeholder becomes a capture group
using its constraint, and the result is wrapped in the delimiter.

Use --delimiter '' to print the bare pattern.

Examples:
  tokentpl regex --source '/user/{id}'
  tokentpl regex route.yaml --delimiter '#'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delimiter") {
				opts.Delimiter = env.Config.Match.Delimiter
			}
			arg, _ := splitArgs(args, opts.Source)
			return runRegex(cmd.Context(), env, opts, arg)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "/", "regex delimiter (default from config)")

	return cmd
}

func runRegex(ctx context.Context, env *Env, opts *RegexOptions, arg string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}

	regex, err := l.Template.SourceRegex(opts.Delimiter)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Out, regex)
	return nil
}
