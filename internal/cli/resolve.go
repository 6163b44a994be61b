package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/definitions"
)

// ResolveOptions contains the options for the resolve command.
type ResolveOptions struct {
	Source string
	Set    []string
	Prune  bool
	Write  bool
	Format string
}

// ResolveResult is the JSON output of the resolve command.
type ResolveResult struct {
	Source       string   `json:"source"`
	Placeholders []string `json:"placeholders"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [definition]",
		Short: "Partially resolve a template",
		Long: `Substitute the bound values and make the result the new template.

Placeholders without a value are kept, so a template can be filled in over
several passes. --prune drops values whose placeholder no longer appears.
--write stores the resolved template back into the definition file.

Examples:
  tokentpl resolve --source '{greeting}, {name}' --set greeting=Hello
  tokentpl resolve route.yaml --set org=acme --prune --write`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			arg, _ := splitArgs(args, opts.Source)
			return runResolve(cmd.Context(), env, opts, arg)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "bind a value (name=value, repeatable)")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "drop values for placeholders no longer present")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "write the resolved template back to the definition file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (text, json; default from config)")

	return cmd
}

func runResolve(ctx context.Context, env *Env, opts *ResolveOptions, arg string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}

	values, err := parseSet(opts.Set)
	if err != nil {
		return err
	}
	t := l.Template.SetDataMap(values, true).Resolve(opts.Prune)

	if opts.Write {
		if l.Path == "" {
			return errors.New("--write needs a definition file")
		}
		if err := definitions.WriteYAML(l.Path, l.snapshot(env)); err != nil {
			return err
		}
		env.Log.Info("wrote %s", l.Path)
	}

	switch format := outputFormat(env, opts.Format); format {
	case "json":
		return writeJSON(env, ResolveResult{Source: t.Source(), Placeholders: nonNil(t.Names())})
	case "text":
		fmt.Fprintln(env.Out, t.Source())
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
}
