package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest local PDF files",
	Long: `Runs each file through the full ingestion pipeline: extract,
chunk, embed, index, register. Files fail independently; the command
reports every outcome and exits non-zero only when nothing succeeded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)

	var uploaded []domain.Document
	var failed []domain.FileFailure

	// One file per batch so progress advances per file and a single
	// all-failed batch error cannot hide sibling outcomes.
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			failed = append(failed, domain.FileFailure{
				Filename: filepath.Base(path),
				Reason:   fmt.Sprintf("unexpected error: %v", err),
			})
			bar.Add(1)
			continue
		}

		result, err := app.ingest.Ingest(ctx, []domain.FileUpload{
			{Filename: filepath.Base(path), Data: data},
		})
		if err != nil {
			var allFailed *domain.IngestAllFailedError
			if errors.As(err, &allFailed) {
				failed = append(failed, allFailed.Failed...)
				bar.Add(1)
				continue
			}
			bar.Finish()
			return err
		}
		uploaded = append(uploaded, result.Uploaded...)
		failed = append(failed, result.Failed...)
		bar.Add(1)
	}
	bar.Finish()

	for _, doc := range uploaded {
		cmd.Printf("ingested %s  (%d chunks, %s)\n", doc.Filename, doc.NumChunks, formatSize(doc.FileSize))
	}
	for _, f := range failed {
		cmd.Printf("failed   %s  %s\n", f.Filename, f.Reason)
	}
	cmd.Printf("\n%d ingested, %d failed\n", len(uploaded), len(failed))

	if len(uploaded) == 0 && len(failed) > 0 {
		return fmt.Errorf("all %d files failed", len(failed))
	}
	return nil
}
