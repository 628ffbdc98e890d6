package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/reflections"
	"github.com/spf13/cobra"
)

var reflectFile string

var reflectCmd = &cobra.Command{
	Use:   "reflect <text>",
	Short: "Append a reflection to the reflections file",
	Long: `Append a reflection straight to the reflections API's JSON file, stamped
with the current date and time. The text must be at least 10 characters.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReflect,
}

func init() {
	rootCmd.AddCommand(reflectCmd)
	reflectCmd.Flags().StringVar(&reflectFile, "file", "", "Reflections file (default <app dir>/backend/reflections.json)")
}

func runReflect(_ *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))

	if n := utf8.RuneCountInString(text); n < model.DefaultMinLength {
		return &model.ValidationError{Min: model.DefaultMinLength, Got: n}
	}

	path := reflectFile
	if path == "" {
		path = reflectionsPath()
	}

	rec, err := reflections.NewFileStore(path).AppendText(text)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Reflection saved (%s) to %s\n", rec.Date, path)

	return nil
}
