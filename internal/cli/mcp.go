package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	proctormcp "github.com/ppiankov/proctor/internal/mcp"
)

var (
	mcpRules string
	mcpLog   string
	mcpStore string
	mcpWatch bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpRules, "rules", "", "Path to rule document YAML")
	mcpCmd.Flags().StringVar(&mcpLog, "log", "", "Append observations to this hash-chained JSONL log")
	mcpCmd.Flags().StringVar(&mcpStore, "store", "", "Persist finalized reports to this SQLite database")
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Hot-reload the rule document on change")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP observation server for agent integration",
	Long: "Runs the proctor as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes observation tools: observe, finalize, reset, status.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := proctormcp.Config{
		RulesPath:    mcpRules,
		AuditLogPath: mcpLog,
		StorePath:    mcpStore,
	}

	srv, err := proctormcp.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	if mcpWatch {
		reloader, err := proctormcp.NewReloader(srv, mcpRules)
		if err != nil {
			return fmt.Errorf("failed to watch rules: %w", err)
		}
		go func() {
			if err := reloader.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "rules watcher stopped: %v\n", err)
			}
		}()
	}

	fmt.Fprintln(os.Stderr, "proctor MCP server listening on stdio")
	return srv.Run(ctx)
}
