// Package cli implements the docsage command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Document Q&A over your own PDFs",
	Long: `docsage ingests PDF documents, indexes them in a vector store,
and answers questions grounded strictly in their content.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docsage/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
