// Package cli implements the mlsctl command tree: scaffolding the build
// recipe, building the serving image, and managing named instances with
// their port mappings.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mlserve/internal/container"
)

// log is configured by the root command's persistent pre-run.
var log = zerolog.Nop()

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func buildRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "mlsctl",
		Short:         "Package and run ML model servers in containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log = newLogger(logLevel)
	}

	root.AddCommand(
		newInitCmd(),
		newBuildCmd(),
		newRunCmd(),
		newStopCmd(),
		newStartCmd(),
		newRemoveCmd(),
		newListCmd(),
		newHealthCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// 2 when the Docker daemon is unreachable, 1 otherwise.
func Execute() int {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if container.IsDockerUnavailable(err) {
			return 2
		}
		return 1
	}
	return 0
}
