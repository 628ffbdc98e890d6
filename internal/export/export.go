// Package export writes the merged entry list as a downloadable file.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/inovacc/journal/internal/model"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	JSON Format = "json"
	XLSX Format = "xlsx"
)

// ParseFormat accepts "json" or "xlsx" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case "", JSON:
		return JSON, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json or xlsx)", s)
	}
}

// Filename is the download name for an export made at now.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("learning-journal-export-%s.%s", now.UTC().Format(model.DateLayout), f)
}

func ContentType(f Format) string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "application/json"
}

// Write encodes entries in format f.
func Write(w io.Writer, f Format, entries []model.Entry) error {
	if entries == nil {
		entries = []model.Entry{}
	}

	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(entries)
	case XLSX:
		return writeXLSX(w, entries)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

const sheet = "Journal"

var header = []any{"id", "title", "content", "date", "time", "source", "words"}

func writeXLSX(w io.Writer, entries []model.Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	// StreamWriter for efficiency on large tables
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, e := range entries {
		row := []any{e.ID, e.Title, e.Content, e.Date, e.Time, string(e.Source), len(strings.Fields(e.Content))}

		cell, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)

	return err
}
