package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/config"
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	Force bool

	// Scriptable/flag options for --no-tui mode
	Open              string
	Close             string
	DefaultConstraint string
	Anchored          bool
	CaseInsensitive   bool
	Format            string
	DefinitionsDir    string
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a tokentpl configuration file",
		Long: `Write a tokentpl configuration file.

The init command walks through the placeholder delimiters, the default
constraint, matching behaviour and the output format, then writes the
result to $XDG_CONFIG_HOME/tokentpl/config.toml (or the --config path).

Use --no-tui with flags for scripted setup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&opts.Open, "open", defaults.Placeholders.Open, "opening placeholder delimiter")
	cmd.Flags().StringVar(&opts.Close, "close", defaults.Placeholders.Close, "closing placeholder delimiter")
	cmd.Flags().StringVar(&opts.DefaultConstraint, "default-constraint", defaults.Placeholders.DefaultConstraint, "constraint for placeholders without one")
	cmd.Flags().BoolVar(&opts.Anchored, "anchored", defaults.Match.Anchored, "require matches to cover the whole input")
	cmd.Flags().BoolVar(&opts.CaseInsensitive, "case-insensitive", defaults.Match.CaseInsensitive, "ignore letter case when matching")
	cmd.Flags().StringVar(&opts.Format, "format", defaults.Output.Format, "default output format: text or json")
	cmd.Flags().StringVar(&opts.DefinitionsDir, "definitions-dir", defaults.Definitions.Dir, "directory for stored definitions")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	globalsMutex.RLock()
	path := ConfigPath
	globalsMutex.RUnlock()
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// Interactive TUI mode
	if !IsNoTUI() {
		if err := askInit(opts); err != nil {
			return err
		}
	}

	cfg := buildConfig(config.DefaultConfig(), opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	printInitSummary(cmd.OutOrStdout(), path, cfg)
	return nil
}

// askInit runs the init wizard, starting from the flag values.
func askInit(opts *InitOptions) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Opening delimiter").
				Description("Text that starts a placeholder, e.g. { or <%").
				Value(&opts.Open),
			huh.NewInput().
				Title("Closing delimiter").
				Description("Text that ends a placeholder, e.g. } or %>").
				Value(&opts.Close),
			huh.NewInput().
				Title("Default constraint").
				Description("Regex used for placeholders without a constraint").
				Value(&opts.DefaultConstraint),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Anchor matches?").
				Description("Require the whole input to conform to the template").
				Value(&opts.Anchored),
			huh.NewConfirm().
				Title("Ignore case when matching?").
				Value(&opts.CaseInsensitive),
			huh.NewSelect[string]().
				Title("Default output format").
				Options(
					huh.NewOption("Text", "text"),
					huh.NewOption("JSON", "json"),
				).
				Value(&opts.Format),
		),
	).Run()
	if err == huh.ErrUserAborted {
		return tplerrors.ErrCanceled
	}
	if err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

// buildConfig applies the init answers on top of base.
func buildConfig(base *config.Config, opts *InitOptions) *config.Config {
	cfg := *base // copy defaults

	cfg.Placeholders.Open = opts.Open
	cfg.Placeholders.Close = opts.Close
	cfg.Placeholders.DefaultConstraint = opts.DefaultConstraint
	cfg.Match.Anchored = opts.Anchored
	cfg.Match.CaseInsensitive = opts.CaseInsensitive
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.DefinitionsDir != "" {
		cfg.Definitions.Dir = opts.DefinitionsDir
	}

	return &cfg
}

func printInitSummary(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "Configuration written to: %s\n", path)
	fmt.Fprintf(w, "  Placeholders: %sname%s\n", cfg.Placeholders.Open, cfg.Placeholders.Close)
	fmt.Fprintf(w, "  Constraint:   %s\n", cfg.Placeholders.DefaultConstraint)
	fmt.Fprintf(w, "  Anchored:     %t\n", cfg.Match.Anchored)
	fmt.Fprintf(w, "  Definitions:  %s\n", cfg.Definitions.Dir)
}
