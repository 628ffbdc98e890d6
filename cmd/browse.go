package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/notify"
	"github.com/inovacc/journal/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse entries in an interactive terminal UI",
	Long: `Open the interactive journal browser.

Keys:
  c       copy the selected entry to the clipboard
  d       delete the selected local entry
  n       write a new entry (ctrl+s saves, esc cancels)
  r       reload
  /       filter
  q       quit`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// No terminal prompts or alert lines while the UI owns the screen.
	cfg := a.formConfig()
	cfg.Notifier = a.notifier(a.webhook(nil), &notify.Recorder{})

	ctrl, err := form.New(cfg)
	if err != nil {
		return err
	}

	m := tui.New(ctx, tui.Deps{
		Journal: a.journal,
		Local:   a.local,
		Form:    ctrl,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	if bm, ok := final.(tui.Model); ok && bm.Status() != "" {
		_, _ = fmt.Fprintln(os.Stdout, bm.Status())
	}

	return nil
}
