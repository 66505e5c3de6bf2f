/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/josephgoksu/taskledger/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [task_id]",
	Short: "Update an existing task",
	Long: `Update an existing task. If task_id is provided, it attempts to update that
task directly. Otherwise, it presents an interactive list to choose a task.
With flags the update is applied directly; without flags the command walks
through the editable fields interactively. The task id itself cannot change.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		appCtx, err := newAppContext()
		if err != nil {
			HandleFatalError("Error: Could not initialize the task ledger.", err)
		}
		defer func() { _ = appCtx.Close() }()

		var taskToUpdate models.Task

		if len(args) > 0 {
			taskToUpdate, err = appCtx.Service.Get(context.Background(), args[0])
			if err != nil {
				HandleFatalError(fmt.Sprintf("Error: Could not find task with ID '%s'.", args[0]), err)
			}
		} else {
			taskToUpdate, err = selectTaskInteractive(appCtx.Service, nil, "Select task to update")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Update cancelled.")
					return
				}
				if err == ErrNoTasksFound {
					fmt.Println("No tasks available to update.")
					return
				}
				HandleFatalError("Error: Could not select a task for updating.", err)
			}
		}

		fmt.Printf("Updating task: %s (ID: %s)\n", taskToUpdate.Title, taskToUpdate.ID)
		updates := make(map[string]interface{})
		interactive := true

		if cmd.Flags().Changed("title") {
			newTitle, _ := cmd.Flags().GetString("title")
			updates["title"] = newTitle
			interactive = false
		}
		if cmd.Flags().Changed("description") {
			newDesc, _ := cmd.Flags().GetString("description")
			updates["description"] = newDesc
			interactive = false
		}
		if cmd.Flags().Changed("priority") {
			newPrio, _ := cmd.Flags().GetString("priority")
			normalized, err := taskutil.NormalizePriorityString(newPrio)
			if err != nil {
				HandleFatalError("Error: Invalid priority.", err)
			}
			updates["priority"] = normalized
			interactive = false
		}
		if cmd.Flags().Changed("status") {
			newStatus, _ := cmd.Flags().GetString("status")
			updates["status"] = newStatus
			interactive = false
		}
		if cmd.Flags().Changed("details") {
			newDetails, _ := cmd.Flags().GetString("details")
			updates["details"] = newDetails
			interactive = false
		}
		if cmd.Flags().Changed("test-strategy") {
			newStrategy, _ := cmd.Flags().GetString("test-strategy")
			updates["testStrategy"] = newStrategy
			interactive = false
		}
		if cmd.Flags().Changed("dependencies") {
			newDeps, _ := cmd.Flags().GetString("dependencies")
			if strings.ToLower(newDeps) == "none" || strings.TrimSpace(newDeps) == "" {
				updates["dependencies"] = []string{}
			} else {
				updates["dependencies"] = splitIDList(newDeps)
			}
			interactive = false
		}

		if interactive {
			updates, err = promptForUpdates(taskToUpdate)
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Update cancelled.")
					return
				}
				HandleFatalError("Error: Interactive update failed.", err)
			}
		}

		if len(updates) == 0 {
			fmt.Println("Nothing to update.")
			return
		}

		updated, err := appCtx.Service.Update(context.Background(), taskToUpdate.ID, updates)
		if err != nil {
			HandleFatalError(fmt.Sprintf("Error: Failed to update task '%s'.", taskToUpdate.Title), err)
		}

		if isJSON() {
			_ = printJSON(updated)
			return
		}
		fmt.Printf("✓ Task %s updated.\n", updated.ID)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().StringP("priority", "p", "", "New priority (high, medium, low)")
	updateCmd.Flags().String("status", "", "New status (pending, in-progress, done, deferred, cancelled)")
	updateCmd.Flags().String("details", "", "New implementation details")
	updateCmd.Flags().String("test-strategy", "", "New test strategy")
	updateCmd.Flags().String("dependencies", "", "Comma-separated dependency ids ('none' clears them)")
}

// promptForUpdates walks the main editable fields and collects only the
// values that actually changed.
func promptForUpdates(current models.Task) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	titlePrompt := promptui.Prompt{
		Label:   fmt.Sprintf("New Title (current: %s, press Enter to keep)", current.Title),
		Default: current.Title,
	}
	newTitle, err := titlePrompt.Run()
	if err != nil {
		return nil, err
	}
	if newTitle != current.Title {
		updates["title"] = newTitle
	}

	descPrompt := promptui.Prompt{
		Label:   "New Description (press Enter to keep)",
		Default: current.Description,
	}
	newDesc, err := descPrompt.Run()
	if err != nil {
		return nil, err
	}
	if newDesc != current.Description {
		updates["description"] = newDesc
	}

	priorities := models.AllPriorities()
	prioSelect := promptui.Select{
		Label: fmt.Sprintf("Priority (current: %s)", current.Priority),
		Items: priorities,
	}
	i, _, err := prioSelect.Run()
	if err != nil {
		return nil, err
	}
	if priorities[i] != current.Priority {
		updates["priority"] = string(priorities[i])
	}

	statuses := models.AllStatuses()
	statusSelect := promptui.Select{
		Label: fmt.Sprintf("Status (current: %s)", current.Status),
		Items: statuses,
	}
	j, _, err := statusSelect.Run()
	if err != nil {
		return nil, err
	}
	if statuses[j] != current.Status {
		updates["status"] = string(statuses[j])
	}

	return updates, nil
}
