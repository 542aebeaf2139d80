package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctor/internal/audit"
)

var verifyLog string

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyLog, "log", "l", "", "Path to observation log (required)")
	verifyCmd.MarkFlagRequired("log")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the observation log's hash chain",
	Long: "Walks the JSONL observation log and validates the SHA-256 hash chain.\n" +
		"Exit code 0 if intact, 1 if tampered or truncated.",
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(verifyLog)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}
