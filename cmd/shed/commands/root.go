// Package commands implements the CLI commands for the shed tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/shedtool/shed/internal/app"
	"github.com/shedtool/shed/internal/build"
	"github.com/shedtool/shed/internal/core/domain"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for shed.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, opts app.RunOptions) (*domain.EnvironmentDescriptor, error)
	Enter(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "shed",
		Short:         "Reproducible development shells from a declarative manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.PersistentFlags().StringP("manifest", "m", domain.ManifestFileName, "Path to the manifest file")
	rootCmd.PersistentFlags().String("index", "", "Resolve against a static index snapshot file instead of the registry")
	rootCmd.PersistentFlags().Bool("no-lock", false, "Skip reading and writing the lockfile")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newEnterCmd())
	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func runOptionsFromFlags(cmd *cobra.Command) app.RunOptions {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	indexPath, _ := cmd.Flags().GetString("index")
	noLock, _ := cmd.Flags().GetBool("no-lock")

	return app.RunOptions{
		ManifestPath: manifestPath,
		IndexPath:    indexPath,
		NoLock:       noLock,
	}
}
