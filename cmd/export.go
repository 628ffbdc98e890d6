package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/inovacc/journal/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportDir    string
	exportBucket string
	exportPrefix string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all entries to a file or an S3 bucket",
	Long: `Export the merged entry list as JSON or as an Excel workbook.

The file is named learning-journal-export-YYYY-MM-DD.<ext> unless --out is
given. With --s3-bucket (or export.s3_bucket in the config) the export is
uploaded instead; credentials come from the AWS_* environment variables.

Examples:
  journal export
  journal export --format xlsx --dir ~/Documents
  journal export --s3-bucket my-backups --prefix journal/`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, xlsx)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (overrides the dated name)")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "Output directory")
	exportCmd.Flags().StringVar(&exportBucket, "s3-bucket", "", "Upload to this S3 bucket")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Key prefix for S3 uploads")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sink, err := exportSink(a)
	if err != nil {
		return err
	}

	entries := a.journal.MergeAll(ctx)

	where, err := export.Run(ctx, sink, f, entries, time.Now())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Exported %d entries to %s\n", len(entries), where)

	return nil
}

func exportSink(a *app) (export.Sink, error) {
	bucket := exportBucket
	if bucket == "" {
		bucket = a.cfg.Export.S3Bucket
	}

	if bucket != "" {
		cfg := a.cfg.Export
		cfg.S3Bucket = bucket

		return export.NewS3Sink(export.NewS3Client(cfg), bucket, exportPrefix), nil
	}

	if exportOut != "" {
		path, err := expandPath(exportOut)
		if err != nil {
			return nil, err
		}

		return export.FileSink{Path: path}, nil
	}

	dir, err := expandPath(exportDir)
	if err != nil {
		return nil, err
	}

	return export.FileSink{Dir: dir}, nil
}
