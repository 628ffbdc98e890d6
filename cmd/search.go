package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find entries whose content contains a term",
	Long:  `Search the merged entry list for entries whose content contains the term, ignoring case.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.journal.Search(cmd.Context(), strings.Join(args, " "))

		return printEntries(entries, searchJSON, "No entries match your search.")
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}
