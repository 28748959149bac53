package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wncli/wn/internal/config"
	"github.com/wncli/wn/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate wn.yaml against the configuration schema.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML with only known keys
  3. Every value satisfies its constraint

The config path is resolved using precedence:
  --config flag > WN_CONFIG env > ./wn.yaml

Examples:
  # Validate wn.yaml in the current directory
  wn config vet

  # Validate another file
  wn config vet --config ./ci/wn.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue:  configFlag,
		ProjectDir: projectDir,
	})
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	output.Debug("validating config",
		"path", pathResult.ConfigPath,
		"source", pathResult.Source,
	)

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(pathResult.ConfigPath); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+pathResult.ConfigPath))
	return nil
}
