package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wncli/wn/internal/config"
	"github.com/wncli/wn/internal/output"
	"github.com/wncli/wn/internal/watch"
)

var (
	buildWatchFlag  bool
	buildOutputFlag string
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source] [target]",
		Short: "Compile a project",
		Long: `Compile the modules reachable from the entry module and write one set
of .js/.json/.wxml/.wxss files per module into the target directory.
Bare package imports are copied from node_modules into the modules
directory of the target.

Arguments:
  source    Source directory or entry file (default: source from wn.yaml, ".")
  target    Output directory (default: target from wn.yaml, "./dist")

Examples:
  # Build the project in the current directory
  wn build

  # Build src/ into build/
  wn build src build

  # Rebuild whenever a source or stylesheet changes
  wn build --watch`,
		Args: cobra.MaximumNArgs(2),
		RunE: runBuild,
	}

	cmd.Flags().BoolVarP(&buildWatchFlag, "watch", "w", false,
		"Rebuild when source files change")
	cmd.Flags().StringVarP(&buildOutputFlag, "output", "o", "text",
		fmt.Sprintf("Report format: %v", output.ValidFormats()))

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	format := output.OutputFormat(buildOutputFlag)
	if !format.IsValid() {
		return NewExitError(
			fmt.Errorf("invalid output format %q (valid: %v)", buildOutputFlag, output.ValidFormats()),
			ExitGeneralError,
		)
	}

	flags := make(map[string]any)
	if len(args) > 0 {
		flags["source"] = args[0]
	}
	if len(args) > 1 {
		flags["target"] = args[1]
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	paths, err := config.ResolvePaths(fs, projectDir, cfg.Config)
	if err != nil {
		return err
	}
	c := &compiler{fs: fs, cfg: cfg.Config, paths: paths}

	if buildWatchFlag {
		return runWatch(cmd, c, cfg.Config, format)
	}

	report, _, err := c.compile(cmd.Context())
	if err != nil {
		return err
	}
	return printReport(cmd, report, format)
}

// rebuild returns the build function of watch mode. Each report is
// written to out in format.
func (c *compiler) rebuild(out io.Writer, format output.OutputFormat) watch.BuildFunc {
	return func(ctx context.Context) ([]string, error) {
		report, files, err := c.compile(ctx)
		if err != nil {
			return files, err
		}
		if err := output.WriteReport(out, report, format); err != nil {
			return files, err
		}
		return files, nil
	}
}

// printReport writes the report and turns module failures into exit
// code 3.
func printReport(cmd *cobra.Command, report *output.BuildReport, format output.OutputFormat) error {
	out := cmd.OutOrStdout()
	if err := output.WriteReport(out, report, format); err != nil {
		return err
	}
	if verboseFlag && format == output.FormatText && len(report.Modules) > 0 {
		fmt.Fprintln(out, output.RenderRoleTable(report))
	}

	if failed := report.Failed(); failed > 0 {
		return &ExitError{
			Err:     fmt.Errorf("%d of %d modules failed", failed, len(report.Modules)),
			Code:    ExitBuildFailed,
			Printed: true,
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, c *compiler, cfg *config.Config, format output.OutputFormat) error {
	debounce, err := cfg.Watch.Interval()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(c.rebuild(cmd.OutOrStdout(), format), watch.Options{
		Debounce: debounce,
		Logger:   output.Logger(),
	})
	if err != nil {
		return err
	}
	defer w.Close()

	w.Run(ctx)
	output.Info("stopped watching", "builds", w.Builds())
	return nil
}
