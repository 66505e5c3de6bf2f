/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/josephgoksu/taskledger/internal/ops"
	"github.com/josephgoksu/taskledger/internal/ui"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tasks from a JSON file",
	Long: `Import a JSON array of tasks into the ledger as one transaction.

The import runs as a tracked background operation with live progress and a
time-remaining estimate. With --replace the current tasks are removed first;
otherwise the imported tasks are added alongside them.

Examples:
  taskledger import --file tasks.json
  taskledger import --file tasks.json --replace`,
	RunE: runImport,
}

var (
	importFile    string
	importReplace bool
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file with an array of tasks (required)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the current task set instead of merging")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	svc := appCtx.Service
	importWork := func(ctx context.Context, workArgs map[string]interface{}, rt ops.Runtime) ops.Result {
		path, _ := workArgs["file"].(string)
		replace, _ := workArgs["replace"].(bool)

		rt.Report(ops.Progress{Percent: 5, Message: "reading file", Step: 1, TotalSteps: 3})
		raw, err := os.ReadFile(path)
		if err != nil {
			return ops.Result{Error: &ops.OpError{Code: string(types.ErrFileRead), Message: err.Error()}}
		}

		rt.Report(ops.Progress{Percent: 25, Message: "parsing tasks", Step: 2, TotalSteps: 3})
		var tasks []models.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return ops.Result{Error: &ops.OpError{Code: string(types.ErrValidation), Message: err.Error()}}
		}

		rt.Report(ops.Progress{Percent: 50, Message: fmt.Sprintf("importing %d tasks", len(tasks)), Step: 3, TotalSteps: 3})
		count, err := svc.ImportTasks(ctx, tasks, replace)
		if err != nil {
			return ops.Result{Error: &ops.OpError{Code: string(types.ErrOperationFailed), Message: err.Error()}}
		}

		rt.Report(ops.Progress{Percent: 100, Message: "done", Step: 3, TotalSteps: 3})
		return ops.Result{Success: true, Data: map[string]interface{}{"imported": count, "replaced": replace}}
	}

	opts := &ops.SubmitOptions{Logger: appCtx.Logger}
	if !isJSON() {
		opts.OnProgress = func(p ops.Progress) {
			fmt.Printf("  [%s] %s\n", ui.Percent(p.Percent), p.Message)
		}
	}

	id := appCtx.Tracker.Submit(context.Background(), importWork,
		map[string]interface{}{"file": importFile, "replace": importReplace}, opts)

	if !isJSON() {
		fmt.Printf("Import started (operation %s)\n", id)
	}

	appCtx.Tracker.Wait()

	final := appCtx.Tracker.Status(id)
	if isJSON() {
		return printJSON(final)
	}

	switch final.Status {
	case ops.StatusCompleted:
		fmt.Printf("✓ Import finished: %v\n", final.Result.Data)
	case ops.StatusFailed:
		if final.Result != nil && final.Result.Error != nil {
			return fmt.Errorf("import failed: %s", final.Result.Error.Message)
		}
		return fmt.Errorf("import failed")
	default:
		fmt.Printf("Import ended in state %s\n", final.Status)
	}
	return nil
}
