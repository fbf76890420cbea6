package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/mediacat/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server    string // remote API base URL; empty means local storage
	DB        string // local storage path
	Driver    string // local storage driver
	UploadDir string // local upload directory
	Format    string // "json" | "text"
	Timeout   time.Duration
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

var localDrivers = []string{config.DriverFile, config.DriverSQLite}

// NewRootCommand creates the root command for the mediacat CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mediacatctl",
		Short: "mediacatctl - catalog command line",
		Long: `Query and edit a mediacat catalog.

Talks to a running API server with --server, or opens a local
database file directly with --db and --driver.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Server == "" && !slices.Contains(localDrivers, opts.Driver) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid driver %q: must be one of %v", opts.Driver, localDrivers))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "API server base URL (e.g. http://localhost:3000)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "database.json", "local database path")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", config.DriverFile, "local storage driver (file|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.UploadDir, "upload-dir", "uploads", "local upload directory")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewHomeCommand(opts))
	cmd.AddCommand(NewUploadCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
