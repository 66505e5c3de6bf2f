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

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to the ledger.

The title is taken from the arguments; everything else comes from flags.
Without --id the task gets the next free numeric id. Dependencies may
reference ids that do not exist yet; they count as unmet until the task
appears and is done.

Examples:
  taskledger add "Ship the release notes" --description "Draft and publish notes for 0.1"
  taskledger add "Fix login flow" --description "Session cookie lost on redirect" --priority high --depends-on 3,7
  taskledger add "Spike: streaming parser" --id spike-1 --details "Timebox: 2 days"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addID           string
	addDescription  string
	addPriority     string
	addDetails      string
	addTestStrategy string
	addDependsOn    string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addID, "id", "", "Explicit task id (default: next numeric id)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Longer description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority: high, medium, low (aliases like h/urgent/p1 work too)")
	addCmd.Flags().StringVar(&addDetails, "details", "", "Implementation details")
	addCmd.Flags().StringVar(&addTestStrategy, "test-strategy", "", "How the task will be verified")
	addCmd.Flags().StringVar(&addDependsOn, "depends-on", "", "Comma-separated ids this task depends on")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	// Description is required; prompt when the flag was not given.
	if addDescription == "" {
		descPrompt := promptui.Prompt{
			Label: "Description",
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return fmt.Errorf("description cannot be empty")
				}
				return nil
			},
		}
		desc, err := descPrompt.Run()
		if err != nil {
			if err == promptui.ErrInterrupt {
				fmt.Println("Cancelled.")
				return nil
			}
			return fmt.Errorf("description is required (use --description when not running interactively): %w", err)
		}
		addDescription = desc
	}

	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	t := models.NewTask(addID, title, addDescription)
	t.Details = addDetails
	t.TestStrategy = addTestStrategy

	if addPriority != "" {
		normalized, err := taskutil.NormalizePriorityString(addPriority)
		if err != nil {
			return err
		}
		t.Priority = models.TaskPriority(normalized)
	}
	if addDependsOn != "" {
		t.Dependencies = splitIDList(addDependsOn)
	}

	created, err := appCtx.Service.Create(context.Background(), t)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	if isJSON() {
		return printJSON(created)
	}
	fmt.Printf("✓ Added task %s: %s [%s/%s]\n", created.ID, created.Title, created.Status, created.Priority)
	if len(created.Dependencies) > 0 {
		fmt.Printf("  depends on: %s\n", strings.Join(created.Dependencies, ", "))
	}
	return nil
}
