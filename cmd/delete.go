/*
Copyright © 2025 NAME HERE josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/taskledger/types"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task_id]",
	Short: "Delete a task",
	Long: `Delete a task by its ID. If no ID is provided, an interactive list is shown.
A confirmation prompt is always displayed before deletion.

Deleting a task that others depend on fails unless --force is given, in
which case the task is removed from every dependent's dependency list first.`,
	Args: cobra.MaximumNArgs(1), // Allow 0 or 1 argument
	Run: func(cmd *cobra.Command, args []string) {
		appCtx, err := newAppContext()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open ledger: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = appCtx.Close() }()

		force, _ := cmd.Flags().GetBool("force")

		var taskIDToDelete string
		var taskTitle string // For confirmation message

		if len(args) > 0 {
			taskIDToDelete = args[0]
			// Validate if task exists and get title
			t, err := appCtx.Service.Get(context.Background(), taskIDToDelete)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to retrieve task %s for deletion: %v\n", taskIDToDelete, err)
				os.Exit(1)
			}
			taskTitle = t.Title
		} else {
			selectedTask, err := selectTaskInteractive(appCtx.Service, nil, "Select task to delete")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Deletion cancelled.")
					return
				}
				if err == ErrNoTasksFound {
					fmt.Println("No tasks available to delete.")
					return
				}
				fmt.Fprintf(os.Stderr, "Task selection failed: %v\n", err)
				os.Exit(1)
			}
			taskIDToDelete = selectedTask.ID
			taskTitle = selectedTask.Title
		}

		// Confirmation prompt
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Are you sure you want to delete task '%s' (ID: %s)?", taskTitle, taskIDToDelete),
			IsConfirm: true,
		}
		_, err = confirmPrompt.Run()
		if err != nil {
			// Handles both 'no' (promptui.ErrAbort) and actual errors
			if err == promptui.ErrAbort {
				fmt.Println("Deletion cancelled.")
			} else {
				fmt.Fprintf(os.Stderr, "Confirmation prompt failed: %v\n", err)
			}
			os.Exit(1)
		}

		err = appCtx.Service.Delete(context.Background(), taskIDToDelete, force)
		if err != nil {
			var taskErr *types.TaskError
			if errors.As(err, &taskErr) && taskErr.Code == types.ErrNotPermitted {
				fmt.Fprintf(os.Stderr, "%s\nUse --force to delete anyway and detach the dependents.\n", taskErr.Message)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Failed to delete task %s: %v\n", taskIDToDelete, err)
			os.Exit(1)
		}

		fmt.Printf("Task ID %s deleted successfully.\n", taskIDToDelete)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("force", "f", false, "Delete even when other tasks depend on it")
}
