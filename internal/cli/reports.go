package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctor/internal/store"
)

var (
	reportsStore string
	reportsLimit int
)

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.PersistentFlags().StringVar(&reportsStore, "store", "", "Path to report database (required)")
	reportsCmd.MarkPersistentFlagRequired("store")

	reportsCmd.AddCommand(reportsListCmd)
	reportsListCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "Maximum rows to list")

	reportsCmd.AddCommand(reportsShowCmd)
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect persisted session reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	RunE:  runReportsList,
}

func runReportsList(cmd *cobra.Command, args []string) error {
	db, err := store.New(reportsStore)
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.List(reportsLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No reports recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tCREATED\tSCORE\tVIOLATIONS\tSTATUS")
	for _, sum := range list {
		status := "FAILED"
		if sum.Passed {
			status = "PASSED"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			sum.SessionID,
			sum.CreatedAt.Format("2006-01-02 15:04:05"),
			sum.FinalScore,
			sum.TotalViolations,
			status)
	}
	return w.Flush()
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	db, err := store.New(reportsStore)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Get(args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
