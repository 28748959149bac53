package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wncli/wn/internal/config"
	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// projectDir is the working directory the command runs in.
	projectDir string
)

// NewRootCmd creates the root command for the wn CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wn",
		Short: "Compile JSX class modules into mini-program pages",
		Long: `wn compiles an application written as JSX class modules into the
.js, .json, .wxml and .wxss files a mini-program runtime loads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: WN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output (env: WN_LOG_TIMESTAMPS)")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging. Configuration errors are ignored
// here; commands that need the config report them when they load it.
func initializeGlobals(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	projectDir = wd

	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}

	// flag (if explicitly set) > env > config > default (nil = true)
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg, err := loadLenient(); err != nil {
		output.Debug("config load error", "error", err)
	} else {
		logCfg.Timestamps = cfg.Log.Timestamps
	}

	output.SetupLogging(logCfg)

	output.Debug("initializing CLI",
		"project", projectDir,
		"config", configFlag,
	)
	return nil
}

func loadLenient() (*config.Config, error) {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue:  configFlag,
		ProjectDir: projectDir,
	})
	if err != nil {
		return nil, err
	}
	return config.NewLoader().Load(pathResult.ConfigPath)
}

// loadedConfig is a validated configuration and where it was read from.
type loadedConfig struct {
	*config.Config

	// Path is the config file path, whether or not the file exists.
	Path string
}

// loadConfig resolves the configuration for a command. flags holds the
// values given on the command line, keyed by config key.
func loadConfig(flags map[string]any) (*loadedConfig, error) {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue:  configFlag,
		ProjectDir: projectDir,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	output.Debug("config path resolved",
		"path", pathResult.ConfigPath,
		"source", pathResult.Source,
	)

	exists, err := config.ConfigFileExists(pathResult.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("checking config file: %w", err)
	}
	if !exists && pathResult.Source != config.SourceDefault {
		return nil, werrors.NewNotFoundError(
			"config file does not exist",
			pathResult.ConfigPath,
			"Run 'wn config init' to create one.",
		)
	}

	validator, err := config.NewValidator()
	if err != nil {
		return nil, err
	}
	if exists {
		if err := validator.ValidateFile(pathResult.ConfigPath); err != nil {
			return nil, err
		}
	}

	loader := config.NewLoader()
	for key, value := range flags {
		loader.SetFlag(key, value)
	}
	cfg, err := loader.Load(pathResult.ConfigPath)
	if err != nil {
		return nil, &werrors.DetailError{
			Type:     "invalid configuration",
			Message:  err.Error(),
			Location: pathResult.ConfigPath,
			Cause:    werrors.ErrValidation,
		}
	}
	config.LogResolvedValues(loader.Resolved())

	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return &loadedConfig{Config: cfg, Path: pathResult.ConfigPath}, nil
}
