/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/josephgoksu/taskledger/internal/ui"
	"github.com/josephgoksu/taskledger/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [task_id]",
	Short: "Show one task in full",
	Long: `Show every field of a task, including its subtasks and dependencies.

Subtasks can be addressed directly with the dotted form "<parent>.<n>",
where n is the 1-based position, e.g. "4.2" for the second subtask of
task 4. Without an id an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		selected, err := selectTaskInteractive(appCtx.Service, nil, "Select task to show")
		if err != nil {
			if err == promptui.ErrInterrupt {
				fmt.Println("Cancelled.")
				return nil
			}
			if err == ErrNoTasksFound {
				fmt.Println("No tasks to show.")
				return nil
			}
			return err
		}
		id = selected.ID
	}

	t, err := appCtx.Service.Get(context.Background(), id)
	if err != nil {
		return fmt.Errorf("show task: %w", err)
	}

	if isJSON() {
		return printJSON(t)
	}

	printTaskDetail(t)
	return nil
}

func printTaskDetail(t models.Task) {
	label := ui.StyleSubtle.Render

	fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Task %s", t.ID)))
	fmt.Printf("%s %s\n", label("Title:"), ui.StyleTitle.Render(t.Title))
	if t.Description != "" {
		fmt.Printf("%s %s\n", label("Description:"), t.Description)
	}
	fmt.Printf("%s %s\n", label("Status:"), ui.RenderStatus(t.Status))
	fmt.Printf("%s %s\n", label("Priority:"), ui.RenderPriority(t.Priority))
	if len(t.Dependencies) > 0 {
		fmt.Printf("%s %s\n", label("Depends on:"), strings.Join(t.Dependencies, ", "))
	}
	if t.Details != "" {
		fmt.Printf("%s\n%s\n", label("Details:"), t.Details)
	}
	if t.TestStrategy != "" {
		fmt.Printf("%s\n%s\n", label("Test strategy:"), t.TestStrategy)
	}
	if len(t.Subtasks) > 0 {
		fmt.Println(label("Subtasks:"))
		for i, sub := range t.Subtasks {
			ref := taskutil.SubtaskID(t.ID, i+1)
			fmt.Printf("  %s %s [%s]\n", ui.StylePrimary.Render(ref), sub.Title, ui.RenderStatus(sub.Status))
		}
	}
}
