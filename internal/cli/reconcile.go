package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Remove orphaned vector index entries",
	Long: `Sweeps the vector index for chunks whose document no longer
exists in the registry and deletes them. Safe to run repeatedly.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.maintenance.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconciling: %w", err)
	}

	cmd.Printf("indexed documents: %d\n", report.IndexedDocuments)
	cmd.Printf("orphaned documents: %d\n", report.OrphanedDocuments)
	cmd.Printf("removed chunks: %d\n", report.RemovedChunks)
	return nil
}
