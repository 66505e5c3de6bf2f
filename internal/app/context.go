// Package app wires the engine together for the CLI layer. It owns the
// lifecycle of the store, gateway, event bus, tracker, and the optional
// history journal, so commands stay thin adapters over the task service.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/taskledger/internal/events"
	"github.com/josephgoksu/taskledger/internal/history"
	"github.com/josephgoksu/taskledger/internal/ops"
	"github.com/josephgoksu/taskledger/internal/task"
	"github.com/josephgoksu/taskledger/store"
	"github.com/josephgoksu/taskledger/types"
	"github.com/spf13/afero"
)

// Context holds the shared dependencies for one command invocation.
// Callers must Close() it when done so the journal and bus shut down cleanly.
type Context struct {
	Config  *types.AppConfig
	Logger  *slog.Logger
	Service *task.Service
	Tracker *ops.Tracker

	bus      *events.Bus
	recorder *history.Recorder
}

// NewContext builds the full dependency graph from the resolved config:
// in-memory store, file gateway on the OS filesystem, event bus, task
// service, and operation tracker. When history journaling is enabled the
// journal is opened and subscribed to the bus before any command runs.
func NewContext(cfg *types.AppConfig, logger *slog.Logger) (*Context, error) {
	if cfg == nil {
		return nil, errors.New("app context requires a config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bus := events.NewBus(0, logger)
	gateway := store.NewFileGateway(afero.NewOsFs(), cfg.Data.File, logger)
	svc := task.NewService(store.NewMemoryStore(), task.NewValidator(), gateway, bus, cfg.Data, cfg.Project.Name, logger)
	tracker := ops.NewTracker(cfg.Ops.HistoryLimit, logger)

	ctx := &Context{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		Tracker: tracker,
		bus:     bus,
	}

	if cfg.History.Enabled {
		rec, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("open history journal: %w", err)
		}
		if err := rec.Follow(bus); err != nil {
			_ = rec.Close()
			_ = bus.Close()
			return nil, fmt.Errorf("attach history journal: %w", err)
		}
		ctx.recorder = rec
	}

	return ctx, nil
}

// DataFilePath returns the collection file the service persists to.
func (c *Context) DataFilePath() string {
	return c.Config.Data.File
}

// Close waits for in-flight tracked operations, then shuts down the bus and
// the history journal. Safe to call once per context.
func (c *Context) Close() error {
	c.Tracker.Wait()

	var errs []error
	if err := c.bus.Close(); err != nil && !errors.Is(err, events.ErrClosed) {
		errs = append(errs, err)
	}
	if c.recorder != nil {
		if err := c.recorder.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
