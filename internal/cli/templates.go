package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/definitions"
	"github.com/chazuruo/tokentpl/internal/definitions/store"
)

// TemplatesOptions contains the options for the templates command.
type TemplatesOptions struct {
	Search string
	Format string
}

// StoredTemplate is the JSON output of the templates command.
type StoredTemplate struct {
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Source    string    `json:"source,omitempty"`
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTemplatesCommand creates the templates command for listing stored definitions.
func NewTemplatesCommand() *cobra.Command {
	opts := &TemplatesOptions{}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List stored definitions",
		Long: `List the definitions saved in the definitions directory
([definitions] dir in the config, or TOKENTPL_DEFINITIONS_DIR).

Stored definitions can be used by name wherever a definition file is accepted.

Examples:
  tokentpl templates
  tokentpl templates --search route --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return runTemplates(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "only names containing this text")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (text, json; default from config)")

	return cmd
}

func runTemplates(ctx context.Context, env *Env, opts *TemplatesOptions) error {
	refs, err := env.Store.List(ctx, store.Filter{Search: opts.Search})
	if err != nil {
		return fmt.Errorf("failed to list definitions: %w", err)
	}

	stored := make([]StoredTemplate, 0, len(refs))
	for _, ref := range refs {
		item := StoredTemplate{Name: ref.Name, Path: ref.Path, UpdatedAt: ref.UpdatedAt}
		// Load definition for title and source
		if def, err := env.Store.Load(ctx, ref); err == nil {
			item.Title, item.Source = def.Title, def.Source
		} else {
			env.Log.Warn("skipping unreadable definition %s: %v", ref.Path, err)
		}
		stored = append(stored, item)
	}

	switch format := outputFormat(env, opts.Format); format {
	case "json":
		return writeJSON(env, stored)
	case "text":
		if len(stored) == 0 {
			fmt.Fprintf(env.Out, "No definitions found in %s.\n", env.Store.Dir())
			return nil
		}
		tbl := table.New("NAME", "TITLE", "SOURCE", "UPDATED").WithWriter(env.Out)
		if env.Config.Output.Color && !IsNoTUI() {
			tbl.WithHeaderFormatter(headerFormatter)
		}
		for _, s := range stored {
			tbl.AddRow(s.Name, orDash(s.Title), s.Source, formatTimeAgo(s.UpdatedAt))
		}
		tbl.Print()
		fmt.Fprintf(env.Out, "\nTotal: %d definition(s)\n", len(stored))
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
}

// SaveOptions contains the options for the save command.
type SaveOptions struct {
	Name  string
	Force bool
}

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	opts := &SaveOptions{}

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Copy a definition file into the definitions directory",
		Long: `Validate a definition file and store it under a name. Without --name the
name is derived from the definition's title.

Examples:
  tokentpl save route.yaml
  tokentpl save route.yaml --name user-route --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return runSave(cmd.Context(), env, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "stored name (default: derived from the title)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing definition")

	return cmd
}

func runSave(ctx context.Context, env *Env, opts *SaveOptions, path string) error {
	var (
		def *definitions.Definition
		err error
	)
	if path == "-" {
		def, err = definitions.LoadYAMLReader(env.In)
	} else {
		def, err = definitions.LoadYAML(path)
	}
	if err != nil {
		return err
	}

	ref, err := env.Store.Save(ctx, def, store.SaveOptions{Name: opts.Name, Force: opts.Force})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Saved %s to %s\n", ref.Name, ref.Path)
	return nil
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a stored definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return runRemove(cmd.Context(), env, args[0])
		},
	}
}

func runRemove(ctx context.Context, env *Env, name string) error {
	if name == "" {
		return errors.New("a stored definition name is required")
	}
	ref, err := env.Store.Find(ctx, name)
	if err != nil {
		return err
	}
	if err := env.Store.Delete(ctx, ref); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Removed %s\n", ref.Name)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatTimeAgo formats a time as a relative "time ago" string.
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
