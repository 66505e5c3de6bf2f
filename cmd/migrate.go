/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a collection file to the current schema",
	Long: `Rewrite an older or half-formed collection file in the current schema.

Loading migrates automatically, so this command exists for two cases:
fixing a file in place when auto-persist is off, and migrating a file
other than the configured one via --file. Migration is lenient: whatever
can be salvaged is kept, missing ids are assigned, unknown statuses and
priorities fall back to their defaults.`,
	RunE: runMigrate,
}

var migrateFilePath string

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateFilePath, "file", "", "Collection file to migrate (default: the configured data file)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := newLogger()

	path := migrateFilePath
	if path == "" {
		path = cfg.Data.File
	}

	gateway := store.NewFileGateway(afero.NewOsFs(), path, logger)
	if !gateway.Exists(path) {
		fmt.Printf("No collection file at %s; nothing to migrate.\n", path)
		return nil
	}

	doc, err := gateway.ReadDocument(path)
	if err != nil {
		return fmt.Errorf("read collection: %w", err)
	}

	migrator := task.NewMigrator()
	if !migrator.NeedsMigration(doc) {
		if isJSON() {
			return printJSON(map[string]any{"migrated": false, "path": path, "version": models.SchemaVersion})
		}
		fmt.Printf("%s is already at schema %s.\n", path, models.SchemaVersion)
		return nil
	}

	col := migrator.Migrate(doc)
	if err := gateway.Save(path, col, cfg.Data.KeepBackups); err != nil {
		return fmt.Errorf("write migrated collection: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{
			"migrated": true,
			"path":     path,
			"version":  col.Metadata.Version,
			"tasks":    len(col.Tasks),
		})
	}
	fmt.Printf("✓ Migrated %s to schema %s (%d task(s) kept).\n", path, col.Metadata.Version, len(col.Tasks))
	return nil
}
