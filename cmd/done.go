package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/taskledger/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [task_id]",
	Aliases: []string{"finish", "complete", "d"},
	Short:   "Mark a task as done",
	Long:    `Mark a task as completed. If task_id is provided, it attempts to mark that task directly. Otherwise, it presents an interactive list to choose a task.`,
	Example: `  # Interactive mode
  taskledger done

  # Complete specific task
  taskledger done 12

  # Using alias
  taskledger d 12`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		appCtx, err := newAppContext()
		if err != nil {
			HandleFatalError("Error: Could not initialize the task ledger.", err)
		}
		defer func() { _ = appCtx.Close() }()

		var taskToMarkDone models.Task

		if len(args) > 0 {
			taskToMarkDone, err = appCtx.Service.Get(context.Background(), args[0])
			if err != nil {
				HandleFatalError(fmt.Sprintf("Error: Could not find task with ID '%s'.", args[0]), err)
			}
		} else {
			// Filter for tasks that are not yet completed
			notDoneFilter := func(t models.Task) bool {
				return t.Status != models.StatusDone
			}
			taskToMarkDone, err = selectTaskInteractive(appCtx.Service, notDoneFilter, "Select task to mark as done")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Operation cancelled.")
					return
				}
				if err == ErrNoTasksFound {
					fmt.Println("No active tasks available to mark as done.")
					return
				}
				HandleFatalError("Error: Could not select a task.", err)
			}
		}

		if taskToMarkDone.Status == models.StatusDone {
			fmt.Printf("Task '%s' (ID: %s) is already completed.\n", taskToMarkDone.Title, taskToMarkDone.ID)
			return
		}

		updatedTask, err := appCtx.Service.UpdateStatus(context.Background(), taskToMarkDone.ID, models.StatusDone)
		if err != nil {
			HandleFatalError(fmt.Sprintf("Error: Failed to mark task '%s' as done.", taskToMarkDone.Title), err)
		}

		fmt.Printf("🎉 Task '%s' (ID: %s) marked as done successfully!\n", updatedTask.Title, updatedTask.ID)

		// Command discovery hints
		fmt.Printf("\n💡 What's next?\n")
		fmt.Printf("   • Add new task:   taskledger add \"Your next task\"\n")
		fmt.Printf("   • Find next task: taskledger next\n")
		fmt.Printf("   • View all tasks: taskledger list\n")
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
