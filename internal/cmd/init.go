package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/output"
	"github.com/wncli/wn/internal/templates"
)

var (
	initNameFlag  string
	initForceFlag bool
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new project",
		Long: `Create a new wn project with an app module, one page, one component
and a wn.yaml build configuration.

The project name defaults to the directory name.

Examples:
  # Create a project in the current directory
  wn init

  # Create a project in ./shop named "shop"
  wn init shop

  # Overwrite files of an existing project
  wn init shop --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initNameFlag, "name", "",
		"Project name (defaults to the directory name)")
	cmd.Flags().BoolVarP(&initForceFlag, "force", "f", false,
		"Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}
	if !filepath.IsAbs(targetDir) {
		targetDir = filepath.Join(projectDir, targetDir)
	}

	gen := templates.NewGenerator(afero.NewOsFs(), templates.GenerateOptions{
		TargetDir: targetDir,
		Name:      initNameFlag,
		Force:     initForceFlag,
	})
	result, err := gen.Generate()
	if err != nil {
		return &werrors.DetailError{
			Type:     "init failed",
			Message:  err.Error(),
			Location: targetDir,
			Hint:     "Choose an empty directory or pass --force.",
			Cause:    err,
		}
	}

	files := make(map[string]string, len(result.Files))
	for _, f := range result.Files {
		files[f] = templates.Describe(f)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.FormatCheckmark("Created project in "+result.TargetDir))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderFileTree(filepath.Base(result.TargetDir), files))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next: run 'npm install' to fetch the runtime, then 'wn build'.")
	return nil
}
