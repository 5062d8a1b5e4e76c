package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/hermesx-build/internal/config"
	"github.com/oshokin/hermesx-build/internal/logger"
	"github.com/oshokin/hermesx-build/internal/service/fontgen"
	"github.com/oshokin/hermesx-build/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// repoRoot overrides the firmware checkout from the settings.
	repoRoot string
	// verbose enables verbose bdfconv output.
	verbose bool
	// watch keeps regenerating on charset changes.
	watch bool
	// logLevel sets the minimum level of diagnostics.
	logLevel string

	// rootCmd represents the base command for regenerating the font.
	rootCmd = &cobra.Command{
		Use:   "hermesx-fontgen",
		Short: "Regenerate the HermesX EM Chinese font.",
		Long: `Regenerate the embedded CJK font of the firmware.

Reads tools/fonts/hermesx_em_charset.txt, downloads the unifont BDF database
into tools/fonts/cache, converts it with bdfconv and rewrites
src/graphics/fonts/OLEDDisplayFontsZH.cpp (and the header when it is missing).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		// Applies to every subcommand, including config.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.SetLevelString(logLevel)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return fontgen.Run(ctx, options())
		},
	}

	// configCmd writes the effective settings so they can be edited.
	configCmd = &cobra.Command{
		Use:   "config [output-file]",
		Short: "Write the effective settings to a YAML file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dest := config.DefaultConfigFilename
			if len(args) > 0 {
				dest = args[0]
			}

			return fontgen.WriteConfig(context.Background(), options(), dest)
		},
	}
)

// Execute runs the hermesx-fontgen CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func options() *fontgen.Options {
	return &fontgen.Options{
		ConfigPath: configPath,
		RepoRoot:   repoRoot,
		Verbose:    verbose,
		Watch:      watch,
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(configCmd)

	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to settings file (default: built-in settings)")
	rootCmd.PersistentFlags().StringVarP(&repoRoot, "root", "r", "", "firmware checkout (default: current directory)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose bdfconv output")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever the charset changes")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}
