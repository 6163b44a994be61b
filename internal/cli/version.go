// Package cli provides Cobra command definitions for tokentpl.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionInfo contains version information for the binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by,omitempty"`
	Go      string `json:"go_version"`
}

// NewVersionInfo combines ldflags values with the build info embedded by
// the Go toolchain, which fills in whatever the ldflags left as defaults.
func NewVersionInfo(build BuildInfo) VersionInfo {
	info := VersionInfo{
		Version: build.Version,
		Commit:  build.Commit,
		Date:    build.Date,
		BuiltBy: build.BuiltBy,
		Go:      runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}
	return info
}

func (v *VersionInfo) fill(bi *debug.BuildInfo) {
	if (v.Version == "" || v.Version == "dev") && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "" || v.Commit == "unknown" {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.Date == "" || v.Date == "unknown" {
				v.Date = s.Value
			}
		}
	}
	if bi.GoVersion != "" {
		v.Go = bi.GoVersion
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(build BuildInfo) *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long: `Display the tokentpl version, commit, build date and Go version.

Values not stamped at build time are taken from the module build info.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := NewVersionInfo(build)
			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeVersionJSON(w, info)
			case short:
				fmt.Fprintln(w, info.Version)
			default:
				printVersion(w, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")

	return cmd
}

func writeVersionJSON(w io.Writer, info VersionInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(info); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func printVersion(w io.Writer, info VersionInfo) {
	fmt.Fprintf(w, "tokentpl %s\n", info.Version)
	fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
	fmt.Fprintf(w, "  built:    %s\n", info.Date)
	if info.BuiltBy != "" && info.BuiltBy != "unknown" {
		fmt.Fprintf(w, "  built by: %s\n", info.BuiltBy)
	}
	fmt.Fprintf(w, "  go:       %s\n", info.Go)
}
