package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wncli/wn/internal/config"
	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/output"
)

const configHeader = `# wn build configuration.
# Every key can be overridden with a WN_* environment variable,
# e.g. WN_TARGET=./build.
`

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write wn.yaml with every setting at its default value.

The file is written to the --config path if given, otherwise to
wn.yaml in the current directory.

Examples:
  # Create wn.yaml
  wn config init

  # Overwrite an existing wn.yaml
  wn config init --force`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFlag
	if path == "" {
		path = filepath.Join(projectDir, config.DefaultConfigFile)
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return werrors.NewValidationError("configuration already exists", path, "",
			"Use --force to overwrite existing configuration.")
	}

	data, err := renderDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	output.Debug("wrote config", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration written to "+path))
	fmt.Fprintln(cmd.OutOrStdout(), "Validate with: wn config vet")
	return nil
}

func renderDefaultConfig() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.DefaultConfig()); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
