package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/notify"
	"github.com/spf13/cobra"
)

var addTitle string

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Write a new journal entry",
	Long: `Write a new journal entry. The text must be at least 10 characters long
once surrounding whitespace is removed.

With remote.mode = remote the entry is posted to the remote endpoint
instead of the local store, and --title is sent as the author name.

Examples:
  journal add "Learned how contexts cancel goroutines"
  journal add --title "Day 3" "Table-driven tests keep cases readable"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Entry title (author name in remote mode)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	native := a.webhook(os.Stdin)

	cfg := a.formConfig()
	cfg.Notifier = a.notifier(native, notify.TerminalAlerter{W: os.Stderr})

	ctrl, err := form.New(cfg)
	if err != nil {
		return err
	}

	ctrl.SetInput(strings.Join(args, " "))

	res, err := ctrl.Submit(ctx, addTitle)
	if err != nil {
		// the alerter already told the user
		return fmt.Errorf("entry not saved: %w", err)
	}

	a.rememberPermission(native)

	if res.Entry.ID != 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Saved entry %d\n", res.Entry.ID)
	}

	return nil
}
