/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/spf13/cobra"
)

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next task to work on",
	Long: `Pick the most actionable task: not done, every dependency completed,
highest priority first, lowest id as the tie-break.

Examples:
  taskledger next
  taskledger next --priority high
  taskledger next --contains parser`,
	RunE: runNext,
}

var (
	nextPriority string
	nextContains string
)

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().StringVarP(&nextPriority, "priority", "p", "", "Only consider tasks with this priority")
	nextCmd.Flags().StringVar(&nextContains, "contains", "", "Only consider tasks whose title or description contains this text")
}

func runNext(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	if nextPriority != "" {
		normalized, err := taskutil.NormalizePriorityString(nextPriority)
		if err != nil {
			return err
		}
		nextPriority = normalized
	}

	var opts *task.NextOptions
	if nextPriority != "" || nextContains != "" {
		opts = &task.NextOptions{Priority: nextPriority, Contains: nextContains}
	}

	t, ok := appCtx.Service.Next(context.Background(), opts)
	if !ok {
		if isJSON() {
			return printJSON(map[string]any{"found": false})
		}
		fmt.Println("No actionable task right now. Everything is either done, blocked, or filtered out.")
		return nil
	}

	if isJSON() {
		return printJSON(t)
	}

	fmt.Println("Next up:")
	printTaskDetail(t)
	return nil
}
