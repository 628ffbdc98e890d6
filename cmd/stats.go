package cmd

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.journal.Stats(cmd.Context())

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(st)
		}

		items := [][2]string{
			{"Total reflections", strconv.Itoa(st.TotalEntries)},
			{"Browser/Local", strconv.Itoa(st.LocalEntries)},
			{"Server", strconv.Itoa(st.RemoteEntries)},
			{"Total words", strconv.Itoa(st.TotalWords)},
			{"Average words", strconv.Itoa(st.AverageWords)},
		}

		if st.TotalEntries > 0 {
			items = append(items,
				[2]string{"Latest entry", st.LatestEntry},
				[2]string{"Earliest entry", st.EarliestEntry},
			)
		}

		printInfoBox(os.Stdout, "Journal Statistics", items)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}
