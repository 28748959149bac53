package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wncli/wn/internal/version"
)

var versionJSONFlag bool

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show wn version information.

Displays:
  - wn version, commit, and build date
  - runtime package version used by new projects
  - CUE SDK version used to validate wn.yaml`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}

	cmd.Flags().BoolVar(&versionJSONFlag, "json", false, "Print version information as JSON")

	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()
	if versionJSONFlag {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(cmd.OutOrStdout(), info.String())
	return nil
}
