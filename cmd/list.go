package cmd

import (
	"encoding/json"
	"os"

	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/render"
	"github.com/spf13/cobra"
)

var listJSON bool

const addHint = `journal add "<text>"`

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List local and remote entries, newest first",
	Long: `List every entry: the ones kept in the local store merged with the ones
served by the remote endpoint, sorted newest first.

If the remote endpoint cannot be reached only local entries are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.journal.MergeAll(cmd.Context())
		if len(entries) == 0 && !listJSON {
			printEmptyResult(os.Stdout, "entries", addHint)
			return nil
		}

		return printEntries(entries, listJSON, "")
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

// printEntries writes entries as JSON or as terminal cards.
func printEntries(entries []model.Entry, asJSON bool, empty string) error {
	if asJSON {
		if entries == nil {
			entries = []model.Entry{}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(entries)
	}

	if len(entries) == 0 && empty != "" {
		_, err := os.Stdout.WriteString(empty + "\n")
		return err
	}

	return render.NewTerminal(os.Stdout).Render(os.Stdout, entries)
}
