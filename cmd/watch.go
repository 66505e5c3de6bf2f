/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/taskledger/store"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload and report when the collection file changes",
	Long: `Watch the collection file and reload the ledger whenever another
process writes it. Changes are debounced and touch-only writes that leave
the content identical are ignored. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = appCtx.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := appCtx.DataFilePath()
	before := appCtx.Service.Collection()
	fmt.Printf("Watching %s (%d task(s)). Press Ctrl+C to stop.\n", path, len(before.Tasks))

	prevCount := len(before.Tasks)

	onChange := func(ev store.ChangeEvent) {
		if err := appCtx.Service.Load(ctx); err != nil {
			PrintError("Reload after change failed.", err)
			return
		}
		col := appCtx.Service.Collection()
		delta := len(col.Tasks) - prevCount
		prevCount = len(col.Tasks)

		switch {
		case delta > 0:
			fmt.Printf("[%s] %s: %d task(s) now (+%d)\n", ev.Timestamp.Format("15:04:05"), ev.Operation, prevCount, delta)
		case delta < 0:
			fmt.Printf("[%s] %s: %d task(s) now (%d)\n", ev.Timestamp.Format("15:04:05"), ev.Operation, prevCount, delta)
		default:
			fmt.Printf("[%s] %s: content changed, still %d task(s)\n", ev.Timestamp.Format("15:04:05"), ev.Operation, prevCount)
		}
	}

	watcher, err := store.NewWatcher(path, onChange, appCtx.Logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	<-ctx.Done()
	fmt.Println("\nStopped watching.")
	return nil
}
