/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply many changes as one transaction",
	Long: `Apply a set of updates or deletes atomically.

Either the whole batch lands, or none of it does: on the first failure
the ledger is restored to its last saved state and the error reported.

Examples:
  taskledger batch update --file changes.json
  taskledger batch delete --ids 4,5,6
  taskledger batch delete --ids 4,5,6 --force`,
}

// batchUpdateCmd applies updates from a JSON file.
var batchUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update several tasks from a JSON file",
	Long: `Update several tasks in one transaction.

The file holds a JSON array of {"id": "...", "updates": {...}} objects,
where updates maps field names to new values:

  [
    {"id": "3", "updates": {"status": "done"}},
    {"id": "7", "updates": {"priority": "high", "title": "New title"}}
  ]`,
	RunE: runBatchUpdate,
}

// batchDeleteCmd deletes a list of ids in one transaction.
var batchDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete several tasks at once",
	RunE:  runBatchDelete,
}

var (
	batchUpdateFile  string
	batchDeleteIDs   string
	batchDeleteForce bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.AddCommand(batchUpdateCmd)
	batchCmd.AddCommand(batchDeleteCmd)

	batchUpdateCmd.Flags().StringVarP(&batchUpdateFile, "file", "f", "", "JSON file with the updates to apply (required)")
	_ = batchUpdateCmd.MarkFlagRequired("file")

	batchDeleteCmd.Flags().StringVar(&batchDeleteIDs, "ids", "", "Comma-separated task ids to delete (required)")
	batchDeleteCmd.Flags().BoolVar(&batchDeleteForce, "force", false, "Delete even when other tasks depend on them")
	_ = batchDeleteCmd.MarkFlagRequired("ids")
}

func runBatchUpdate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(batchUpdateFile)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}

	var items []task.BatchUpdateItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse batch file: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("Batch file contains no updates.")
		return nil
	}

	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	updated, err := appCtx.Service.BatchUpdate(context.Background(), items)
	if err != nil {
		return fmt.Errorf("batch update rolled back: %w", err)
	}

	if isJSON() {
		return printJSON(updated)
	}
	fmt.Printf("✓ Updated %d task(s) in one transaction.\n", len(updated))
	return nil
}

func runBatchDelete(cmd *cobra.Command, args []string) error {
	ids := splitIDList(batchDeleteIDs)
	if len(ids) == 0 {
		return fmt.Errorf("no task ids given")
	}

	if !confirmOrAbort(fmt.Sprintf("Delete %d task(s)? [y/N]: ", len(ids))) {
		return nil
	}

	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	if err := appCtx.Service.BatchDelete(context.Background(), ids, batchDeleteForce); err != nil {
		return fmt.Errorf("batch delete rolled back: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{"deleted": ids})
	}
	fmt.Printf("✓ Deleted %d task(s) in one transaction.\n", len(ids))
	return nil
}
