/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/taskledger/types"
	"github.com/spf13/viper"
)

// PrintError prints a user-friendly error message to stderr.
// When verbose mode is on it includes the underlying error details.
func PrintError(userMessage string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", userMessage)

	if err != nil && viper.GetBool("verbose") {
		var taskErr *types.TaskError
		if errors.As(err, &taskErr) {
			fmt.Fprintf(os.Stderr, "  Code: %s\n", taskErr.Code)
			if len(taskErr.Details) > 0 {
				fmt.Fprintf(os.Stderr, "  Details: %v\n", taskErr.Details)
			}
		}
		fmt.Fprintf(os.Stderr, "  Cause: %v\n", err)
	}
}

// HandleFatalError prints an error and exits with a non-zero status.
func HandleFatalError(userMessage string, err error) {
	PrintError(userMessage, err)
	os.Exit(1)
}

// LogError prints an error only when verbose mode is enabled. Useful for
// non-fatal conditions the user does not normally need to see.
func LogError(message string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", message)
		}
	}
}
