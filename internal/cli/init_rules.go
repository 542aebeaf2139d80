package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctor/internal/rules"
)

var initRulesOut string

func init() {
	rootCmd.AddCommand(initRulesCmd)
	initRulesCmd.Flags().StringVarP(&initRulesOut, "out", "o", "", "Write to this path instead of ~/.proctor/rules.yaml")
}

var initRulesCmd = &cobra.Command{
	Use:   "init-rules",
	Short: "Generate a default rules.yaml with comments",
	Long: "Creates ~/.proctor/rules.yaml with the default constraints and scoring.\n" +
		"Edit this file to customize what the proctor flags.",
	RunE: runInitRules,
}

func runInitRules(cmd *cobra.Command, args []string) error {
	path := initRulesOut
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir := filepath.Join(home, ".proctor")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create config directory: %w", err)
		}
		path = filepath.Join(dir, "rules.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("rules file already exists at %s", path)
	}

	if err := os.WriteFile(path, []byte(rules.DefaultRulesYAML()), 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
