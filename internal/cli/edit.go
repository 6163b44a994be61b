package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/definitions"
	"github.com/chazuruo/tokentpl/internal/tui"
)

// EditOptions contains the options for the edit command.
type EditOptions struct {
	DryRun bool
}

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <definition>",
		Short: "Edit a definition's values in a terminal UI",
		Long: `Open the value editor for a definition file or stored definition.

Each placeholder is listed with its constraint and current value. Values are
checked against the constraint as they are entered. Saving writes the values
back to the definition's data section; nested templates are kept.

Examples:
  tokentpl edit route.yaml
  tokentpl edit user-route --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return runEdit(cmd.Context(), env, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the edited definition instead of writing it")

	return cmd
}

func runEdit(ctx context.Context, env *Env, opts *EditOptions, arg string) error {
	if IsNoTUI() {
		return errors.New("edit requires the TUI; use 'resolve --set' with --no-tui")
	}

	l, err := loadTemplate(ctx, env, arg, "")
	if err != nil {
		return err
	}
	if l.Path == "" {
		return errors.New("edit needs a definition file or stored name")
	}

	if err := tui.RunValueEditor(l.Template); err != nil {
		return err
	}

	def := l.snapshot(env)

	if opts.DryRun {
		data, err := definitions.MarshalDefinition(def)
		if err != nil {
			return err
		}
		fmt.Fprint(env.Out, string(data))
		return nil
	}

	if err := definitions.WriteYAML(l.Path, def); err != nil {
		return err
	}
	env.Log.Info("wrote %s", l.Path)
	return nil
}
