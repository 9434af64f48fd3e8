// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plan-engine/internal/export"
	"github.com/pdiddy/plan-engine/internal/store"
	"github.com/pdiddy/plan-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, export, and delete stored plans",
	Long: `History works against the local SQLite store of completed plans. Use
subcommands to list recent runs, print a stored plan, export one to a
file, or delete one.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored plans, most recent first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	plans, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("No stored plans.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %-14s  %-7s  %s\n", "ID", "Created", "Model", "Valid", "Topic")
	for _, p := range plans {
		fmt.Printf("%-36s  %-19s  %-14s  %d/%d      %s\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04:05"), p.Model,
			p.ValidSections, p.TotalSections, p.Topic)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored plan as plain text",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	plan, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Print(export.Text(plan))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored plan to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	plan, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	var data []byte
	var ext string
	switch format {
	case "text", "":
		data, ext = []byte(export.Text(plan)), "txt"
	case "markdown":
		data, ext = []byte(export.Markdown(plan)), "md"
	case "yaml":
		data, err = export.YAML(plan)
		if err != nil {
			return err
		}
		ext = "yaml"
	default:
		return fmt.Errorf("unsupported format %q: use text, markdown, or yaml", format)
	}

	if out == "" {
		out = plan.ID + "." + ext
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// --- shared helpers ---

func openHistory(cmd *cobra.Command) (*store.Store, error) {
	stateDir, _ := cmd.Flags().GetString("state-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return store.New(types.StoreConfig{StateDir: stateDir, MaxResults: maxResults})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("state-dir", "state", "directory for the plan history database")
	historyCmd.PersistentFlags().Int("max-results", 20, "maximum number of listed plans")

	historyExportCmd.Flags().String("format", "text", "export format: text, markdown, or yaml")
	historyExportCmd.Flags().String("out", "", "output path (default <id>.<ext>)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	rootCmd.AddCommand(historyCmd)
}
