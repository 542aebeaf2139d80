package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctor/internal/audit"
	"github.com/ppiankov/proctor/internal/model"
	"github.com/ppiankov/proctor/internal/rules"
	"github.com/ppiankov/proctor/internal/session"
	"github.com/ppiankov/proctor/internal/store"
	"github.com/ppiankov/proctor/internal/transcript"
)

var (
	evalRules      string
	evalTranscript string
	evalLog        string
	evalStore      string
	evalSession    string
	evalFormat     string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalRules, "rules", "", "Path to rule document YAML (built-in defaults if omitted)")
	evaluateCmd.Flags().StringVar(&evalTranscript, "transcript", "", "Path to JSONL session transcript (required)")
	evaluateCmd.Flags().StringVar(&evalLog, "log", "", "Append observations to this hash-chained JSONL log")
	evaluateCmd.Flags().StringVar(&evalStore, "store", "", "Persist the report to this SQLite database")
	evaluateCmd.Flags().StringVar(&evalSession, "session", "", "Session id (generated if omitted)")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
	evaluateCmd.MarkFlagRequired("transcript")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a recorded session transcript against a rule set",
	Long: "Replays a JSONL transcript of tool calls through the evaluation engine\n" +
		"and prints the scored report.\n\n" +
		"Exit code 0 if the session passes, 1 if it fails.",
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	rs, hash, err := rules.LoadWithHash(evalRules)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	entries, err := transcript.ReadFile(evalTranscript)
	if err != nil {
		return err
	}

	var obsLog *audit.Log
	if evalLog != "" {
		obsLog, err = audit.Open(evalLog)
		if err != nil {
			return err
		}
		defer obsLog.Close()
	}

	var sess *session.Session
	if evalSession != "" {
		sess = session.NewWithID(rs, evalSession)
	} else {
		sess = session.New(rs)
	}

	for _, e := range entries {
		fresh := sess.Ingest(e.ToolName, e.ToolArgs)
		if obsLog != nil {
			call := model.ToolCall{Name: e.ToolName, Args: e.ToolArgs, Seq: sess.Len() - 1}
			if err := obsLog.Record(audit.BuildEntry(sess.ID(), hash, call, fresh)); err != nil {
				return err
			}
		}
	}

	report := sess.Finalize()

	if evalStore != "" {
		db, err := store.New(evalStore)
		if err != nil {
			return err
		}
		if err := db.Save(sess.ID(), hash, report); err != nil {
			db.Close()
			return err
		}
		db.Close()
	}

	switch evalFormat {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Print(formatReport(rs, sess.ID(), report))
	}

	if !report.Passed {
		os.Exit(1)
	}
	return nil
}

const reportRule = "========================================"

// formatReport renders a report as a human-readable summary.
func formatReport(rs *rules.RuleSet, sessionID string, r model.Report) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	title := rs.TestID
	if title == "" {
		title = sessionID
	}
	fmt.Fprintf(&b, "PROCTOR REPORT: %s\n", title)
	b.WriteString(reportRule + "\n")
	if rs.Objective != "" {
		fmt.Fprintf(&b, "Objective: %s\n", rs.Objective)
	}
	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Final Score: %d/%d\n", r.FinalScore, rs.Scoring.BaseScore)
	status := "FAILED"
	if r.Passed {
		status = "PASSED"
	}
	fmt.Fprintf(&b, "Status: %s (threshold %d)\n", status, rs.Scoring.Threshold)

	if len(r.Violations) > 0 {
		b.WriteString("\nViolations:\n")
		for _, v := range r.Violations {
			fmt.Fprintf(&b, " - [%s] %s (-%d)\n", v.ConstraintID, v.Message, v.Penalty)
		}
	} else {
		b.WriteString("\nNo violations detected.\n")
	}

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&b, "\ndiagnostic: %s\n", d)
	}

	b.WriteString(reportRule + "\n")
	return b.String()
}
