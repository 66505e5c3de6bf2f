/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/taskledger/models"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if isJSON() {
			_ = printJSON(map[string]string{"version": version, "schema": models.SchemaVersion})
			return
		}
		fmt.Printf("taskledger %s (schema %s)\n", version, models.SchemaVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
