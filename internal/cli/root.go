package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proctor",
	Short: "Rule-based proctor for AI agent tool-call sessions",
	Long: "Evaluates recorded or live agent tool calls against a declarative rule set\n" +
		"(pattern and sequence constraints), scores the session, and reports violations.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
