package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

// NewRootCommand creates the tokentpl command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokentpl",
		Short: "Render, resolve and match token templates",
		Long: `tokentpl works with templates such as "/user/{id}/{section}".

It substitutes values into placeholders, resolves templates over several
passes, and synthesizes a regular expression that recognizes strings shaped
like the template while capturing each placeholder's content.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", build.Version, build.Commit, build.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewResolveCommand())
	rootCmd.AddCommand(NewMatchCommand())
	rootCmd.AddCommand(NewRegexCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewEditCommand())
	rootCmd.AddCommand(NewTemplatesCommand())
	rootCmd.AddCommand(NewSaveCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewVersionCommand(build))

	return rootCmd
}
