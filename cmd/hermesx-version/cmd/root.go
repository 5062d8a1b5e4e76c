package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/hermesx-build/internal/logger"
	"github.com/oshokin/hermesx-build/internal/repository/props"
	"github.com/oshokin/hermesx-build/internal/service/resolver"
	"github.com/oshokin/hermesx-build/internal/version"
)

var (
	// format selects the output encoding.
	format string
	// field prints a single version string instead of the whole descriptor.
	field string
	// repoDir is the git working tree to inspect.
	repoDir string
	// envFile supplements the process environment.
	envFile string
	// dirtyMarker is appended to the hash of dirty trees.
	dirtyMarker string
	// logLevel sets the minimum level of diagnostics written to stderr.
	logLevel string

	// rootCmd represents the base command for resolving the firmware version.
	rootCmd = &cobra.Command{
		Use:   "hermesx-version [properties-file]",
		Short: "Print the firmware version strings.",
		Long: `Derive the firmware version strings from the [VERSION] section of a properties file.

short   major.minor.build
long    short.<commit>
deb     short.<GITHUB_RUN_NUMBER>~<BUILD_LOCATION><commit>
display HXB_<x.y.z from the branch name, or short><commit>

Without a usable git checkout the commit parts are left out.
The properties file defaults to ` + props.DefaultFilename + `.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &resolver.Options{
				RepoDir:     repoDir,
				EnvFile:     envFile,
				DirtyMarker: dirtyMarker,
			}

			if len(args) > 0 {
				options.PropsPath = args[0]
			}

			descriptor, err := resolver.Run(ctx, options)
			if err != nil {
				return err
			}

			outputFormat := format
			if field != "" {
				outputFormat = resolver.FormatField
			}

			return resolver.Write(cmd.OutOrStdout(), descriptor, outputFormat, field)
		},
	}
)

// Execute runs the hermesx-version CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&format, "format", "f", resolver.FormatYAML,
		"output format: "+strings.Join(resolver.Formats(), ", "))
	rootCmd.Flags().StringVar(&field, "field", "", "print only this field: short, long, deb or display")
	rootCmd.Flags().StringVarP(&repoDir, "repo", "C", "", "git working tree to inspect (default: current directory)")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file with GITHUB_RUN_NUMBER and BUILD_LOCATION")
	rootCmd.Flags().StringVar(&dirtyMarker, "dirty-marker", "", "suffix appended to the commit hash of dirty trees")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}
