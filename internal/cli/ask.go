package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the ingested documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the retrieved source chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	answer, err := app.answers.Answer(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	cmd.Println(answer.Answer)

	if askSources && len(answer.Sources) > 0 {
		cmd.Println()
		for i, src := range answer.Sources {
			cmd.Printf("--- source %d: %s (page %d)\n", i+1, src.Filename, src.Page)
			cmd.Println(strings.TrimSpace(src.Text))
		}
	}
	return nil
}
