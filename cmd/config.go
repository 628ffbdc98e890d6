package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/inovacc/journal/internal/config"
	"github.com/inovacc/journal/internal/model"
	"github.com/spf13/cobra"
)

var configResetYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	Long: `Show or change journal.ini.

Every key can also be overridden with an environment variable named
JOURNAL_<SECTION>_<KEY>, e.g. JOURNAL_REMOTE_URL.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		keys, err := config.Keys(cfg)
		if err != nil {
			return err
		}

		for i := range keys {
			keys[i][1] = maskSecret(keys[i][0], keys[i][1])
		}

		printInfoBox(os.Stdout, "Journal Configuration", keys)
		_, _ = fmt.Fprintf(os.Stdout, "\nFile: %s\n", path)

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <section.key> <value>",
	Short: "Set one configuration value",
	Example: `  journal config set remote.url http://127.0.0.1:5000/api/reflections
  journal config set storage.backend sqlite
  journal config set form.min_length 20`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		cfg, err = config.Set(cfg, args[0], args[1])
		if err != nil {
			return err
		}

		if err := config.Save(path, cfg); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s = %s\n", args[0], maskSecret(args[0], args[1]))

		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configResetYes && !promptConfirm("Reset configuration to defaults? [y/N]: ") {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}

		path := resolvedConfigPath()
		if err := config.Save(path, model.DefaultConfig()); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "Configuration reset (%s)\n", path)

		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(os.Stdout, resolvedConfigPath())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)

	configResetCmd.Flags().BoolVarP(&configResetYes, "yes", "y", false, "Skip confirmation prompt")
}

// maskSecret hides credentials in connection strings and webhook URLs.
func maskSecret(key, value string) string {
	if value == "" {
		return value
	}

	switch key {
	case "storage.dsn", "notify.webhook_url":
		if i := strings.Index(value, "://"); i >= 0 && len(value) > i+3 {
			return value[:i+3] + "****"
		}

		return "****"
	}

	return value
}
