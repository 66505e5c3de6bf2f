/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/spf13/cobra"
)

// depCmd represents the dep command
var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies",
	Long: `Manage the edges of the dependency graph.

A task is only actionable once everything it depends on is done. Edges
that would make the graph circular are rejected.

Examples:
  taskledger dep add 5 3      # task 5 now depends on task 3
  taskledger dep rm 5 3       # remove that dependency again
  taskledger dep list 3       # who depends on task 3?`,
}

// depAddCmd records a new dependency edge.
var depAddCmd = &cobra.Command{
	Use:   "add <task_id> <depends_on_id>",
	Short: "Add a dependency to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := newAppContext()
		if err != nil {
			return err
		}
		defer func() { _ = appCtx.Close() }()

		t, err := appCtx.Service.AddDependency(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("add dependency: %w", err)
		}

		if isJSON() {
			return printJSON(t)
		}
		fmt.Printf("✓ Task %s now depends on %s (all: %s)\n", t.ID, args[1], strings.Join(t.Dependencies, ", "))
		return nil
	},
}

// depRmCmd removes a dependency edge. Removing an edge that is not there
// succeeds silently.
var depRmCmd = &cobra.Command{
	Use:     "rm <task_id> <depends_on_id>",
	Aliases: []string{"remove"},
	Short:   "Remove a dependency from a task",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := newAppContext()
		if err != nil {
			return err
		}
		defer func() { _ = appCtx.Close() }()

		t, err := appCtx.Service.RemoveDependency(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("remove dependency: %w", err)
		}

		if isJSON() {
			return printJSON(t)
		}
		if len(t.Dependencies) > 0 {
			fmt.Printf("✓ Task %s no longer depends on %s (remaining: %s)\n", t.ID, args[1], strings.Join(t.Dependencies, ", "))
		} else {
			fmt.Printf("✓ Task %s no longer depends on %s (no dependencies left)\n", t.ID, args[1])
		}
		return nil
	},
}

// depListCmd shows the tasks that depend on the given id.
var depListCmd = &cobra.Command{
	Use:   "list <task_id>",
	Short: "List tasks that depend on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := newAppContext()
		if err != nil {
			return err
		}
		defer func() { _ = appCtx.Close() }()

		// Validate the target exists so a typo reads as an error, not an
		// empty result.
		if _, err := appCtx.Service.Get(context.Background(), args[0]); err != nil {
			return err
		}

		res, err := appCtx.Service.List(context.Background(), task.QueryOptions{
			Filter: task.Filter{DependsOn: args[0]},
		})
		if err != nil {
			return fmt.Errorf("list dependents: %w", err)
		}

		if isJSON() {
			return printJSON(res.Tasks)
		}
		if res.Total == 0 {
			fmt.Printf("Nothing depends on task %s.\n", args[0])
			return nil
		}
		fmt.Printf("Tasks depending on %s:\n", args[0])
		for _, t := range res.Tasks {
			fmt.Printf("  %s  %s [%s]\n", t.ID, t.Title, t.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depCmd)

	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depListCmd)
}
