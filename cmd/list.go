/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/josephgoksu/taskledger/internal/ui"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering, sorting, and pagination.

Filters combine with AND. Sorting understands numeric ids, so task 3
comes before task 10. Use --page/--page-size to slice long lists.

Examples:
  taskledger list
  taskledger list --status pending --priority high
  taskledger list --search auth --sort priority
  taskledger list --sort id --desc --page 2 --page-size 20`,
	RunE: runList,
}

var (
	listStatus      string
	listPriority    string
	listSearch      string
	listDependsOn   string
	listHasDeps     bool
	listHasSubtasks bool
	listSortField   string
	listSortDesc    bool
	listPage        int
	listPageSize    int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, in-progress, done, deferred, cancelled)")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority (high, medium, low)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive title substring filter")
	listCmd.Flags().StringVar(&listDependsOn, "depends-on", "", "Only tasks that depend on the given id")
	listCmd.Flags().BoolVar(&listHasDeps, "has-deps", false, "Only tasks with dependencies (--has-deps=false for tasks without)")
	listCmd.Flags().BoolVar(&listHasSubtasks, "has-subtasks", false, "Only tasks with subtasks (--has-subtasks=false for tasks without)")
	listCmd.Flags().StringVar(&listSortField, "sort", "", "Sort field: id, title, description, status, priority, dependencies")
	listCmd.Flags().BoolVar(&listSortDesc, "desc", false, "Sort in descending order")
	listCmd.Flags().IntVar(&listPage, "page", 0, "Page number (1-based)")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Tasks per page (0 = everything on one page)")
}

func runList(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	if listPriority != "" {
		normalized, err := taskutil.NormalizePriorityString(listPriority)
		if err != nil {
			return err
		}
		listPriority = normalized
	}

	opts := task.QueryOptions{
		Filter: task.Filter{
			Status:        listStatus,
			Priority:      listPriority,
			TitleContains: listSearch,
			DependsOn:     listDependsOn,
		},
	}
	// The presence filters are tri-state: only set when the flag was given.
	if cmd.Flags().Changed("has-deps") {
		opts.Filter.HasDependencies = &listHasDeps
	}
	if cmd.Flags().Changed("has-subtasks") {
		opts.Filter.HasSubtasks = &listHasSubtasks
	}
	if listSortField != "" || listSortDesc {
		opts.Sort = &task.Sort{Field: listSortField, Desc: listSortDesc}
	}
	if listPage > 0 || listPageSize > 0 {
		opts.Page = &task.Page{Number: listPage, Size: listPageSize}
	}

	res, err := appCtx.Service.List(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if isJSON() {
		return printJSON(res)
	}

	if res.Total == 0 {
		cmd.Println("No tasks found.")
		cmd.Println("Add one with: taskledger add \"Your first task\"")
		return nil
	}

	fmt.Println(ui.TaskTable(res.Tasks).Render())
	if res.TotalPages > 1 {
		fmt.Printf("Page %d/%d (%d tasks total)\n", res.Page, res.TotalPages, res.Total)
	} else {
		fmt.Printf("%d task(s)\n", res.Total)
	}
	return nil
}
