package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/taskledger/internal/history"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
)

func testConfig(t *testing.T, journaling bool) *types.AppConfig {
	t.Helper()
	tmp := t.TempDir()
	return &types.AppConfig{
		Project: types.ProjectConfig{Name: "testproj", RootDir: tmp},
		Data: types.DataConfig{
			File:        filepath.Join(tmp, "tasks.json"),
			Format:      "json",
			AutoPersist: true,
			KeepBackups: 2,
		},
		History: types.HistoryConfig{
			Enabled: journaling,
			Path:    filepath.Join(tmp, "history.db"),
		},
		Ops: types.OpsConfig{HistoryLimit: 10},
	}
}

func TestNewContextRequiresConfig(t *testing.T) {
	_, err := NewContext(nil, nil)
	assert.Error(t, err)
}

func TestNewContextWiresService(t *testing.T) {
	cfg := testConfig(t, false)

	appCtx, err := NewContext(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, cfg.Data.File, appCtx.DataFilePath())
	require.NotNil(t, appCtx.Service)
	require.NotNil(t, appCtx.Tracker)
	require.NotNil(t, appCtx.Logger)
	assert.Nil(t, appCtx.recorder, "journal stays closed when disabled")

	require.NoError(t, appCtx.Service.Load(context.Background()))
	_, err = appCtx.Service.Create(context.Background(), models.NewTask("1", "Wire check", "created through the context"))
	require.NoError(t, err)

	require.NoError(t, appCtx.Close())

	// Auto-persist wrote the collection to the configured file.
	reopened, err := NewContext(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Service.Load(context.Background()))
	got, err := reopened.Service.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Wire check", got.Title)
}

func TestNewContextJournalsWhenEnabled(t *testing.T) {
	cfg := testConfig(t, true)

	appCtx, err := NewContext(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, appCtx.recorder)

	require.NoError(t, appCtx.Service.Load(context.Background()))
	_, err = appCtx.Service.Create(context.Background(), models.NewTask("1", "Journaled", "leaves a trace"))
	require.NoError(t, err)

	// Close drains the bus subscription before the database shuts down.
	require.NoError(t, appCtx.Close())

	rec, err := history.Open(cfg.History.Path, nil)
	require.NoError(t, err)
	defer func() { _ = rec.Close() }()

	entries, err := rec.ForTask("1", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
