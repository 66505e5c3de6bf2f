/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/taskledger/internal/history"
	"github.com/josephgoksu/taskledger/internal/ui"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the change journal",
	Long: `Show recent entries from the change journal.

The journal records every engine event (creates, updates, deletes, status
changes, dependency edits, saves, loads) in a local SQLite database. It is
off by default; enable it with history.enabled in the config or
TASKLEDGER_HISTORY_ENABLED=true.

Examples:
  taskledger history
  taskledger history --limit 100
  taskledger history --task 7`,
	RunE: runHistory,
}

var (
	historyLimit int
	historyTask  string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum entries to show")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "Only entries for this task id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := newLogger()

	if !cfg.History.Enabled {
		fmt.Println("History journaling is disabled. Enable it with history.enabled = true.")
		return nil
	}

	rec, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		return fmt.Errorf("open history journal: %w", err)
	}
	defer func() { _ = rec.Close() }()

	var entries []history.Entry
	if historyTask != "" {
		entries, err = rec.ForTask(historyTask, historyLimit)
	} else {
		entries, err = rec.Recent(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("read history journal: %w", err)
	}

	if isJSON() {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries yet.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		taskID := e.TaskID
		if taskID == "" {
			taskID = "-"
		}
		rows = append(rows, []string{
			e.RecordedAt.Format("2006-01-02 15:04:05"),
			e.Topic,
			taskID,
		})
	}
	fmt.Println(ui.OperationRows([]string{"When", "Event", "Task"}, rows).Render())
	fmt.Printf("%d entr(ies)\n", len(entries))
	return nil
}
