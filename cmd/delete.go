package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/inovacc/journal/internal/model"
	"github.com/spf13/cobra"
)

var (
	deleteAll bool
	deleteYes bool
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a local entry",
	Long: `Delete a local entry by id, or every local entry with --all.

Entries read from the remote endpoint cannot be deleted here. Deleting an id
that does not exist is not an error.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if deleteAll {
			return cobra.NoArgs(cmd, args)
		}

		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every local entry")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var id int64

	if !deleteAll {
		var err error

		id, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		if id >= model.RemoteIDOffset {
			return errors.New("server entries cannot be deleted")
		}
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if deleteAll {
		n := len(a.local.List(ctx))
		if n == 0 {
			_, _ = fmt.Fprintln(os.Stdout, "No local entries to delete.")
			return nil
		}

		if !deleteYes && !promptConfirm(fmt.Sprintf("Delete all %d local entries? [y/N]: ", n)) {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}

		if err := a.local.Clear(ctx); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "Deleted %d entries.\n", n)

		return nil
	}

	if !deleteYes && !promptConfirm(fmt.Sprintf("Delete entry %d? [y/N]: ", id)) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	if err := a.local.Delete(ctx, id); err != nil {
		return err
	}

	a.metrics.EntryDeleted()
	_, _ = fmt.Fprintln(os.Stdout, "Entry deleted!")

	return nil
}
