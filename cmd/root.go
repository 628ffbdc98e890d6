package cmd

import (
	"log/slog"
	"os"

	"github.com/inovacc/journal/internal/application"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "A personal learning journal",
	Long: `Journal keeps short learning reflections in a local store and shows them
merged with the reflections served by a remote endpoint, newest first.

Entries can be written from the command line, an interactive terminal
browser or a small local web app.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $JOURNAL_CONFIG or <app dir>/config.ini)")
}
