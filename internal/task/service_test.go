package task

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"

	"github.com/josephgoksu/taskledger/internal/events"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/store"
	"github.com/josephgoksu/taskledger/types"
)

type serviceHarness struct {
	svc  *Service
	fs   afero.Fs
	gw   *store.FileGateway
	bus  *events.Bus
	path string
}

func newHarness(t *testing.T, autoPersist bool) *serviceHarness {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := store.NewFileGateway(fs, "", logger)
	bus := events.NewBus(32, logger)
	t.Cleanup(func() { _ = bus.Close() })

	cfg := types.DataConfig{
		File:        "data/tasks.json",
		Format:      "json",
		AutoPersist: autoPersist,
		KeepBackups: 2,
	}
	svc := NewService(store.NewMemoryStore(), NewValidator(), gw, bus, cfg, "harness", logger)
	return &serviceHarness{svc: svc, fs: fs, gw: gw, bus: bus, path: cfg.File}
}

func (h *serviceHarness) create(t *testing.T, id, title string, deps ...string) models.Task {
	t.Helper()
	tk := models.NewTask(id, title, "Description for "+title)
	tk.Dependencies = deps
	created, err := h.svc.Create(context.Background(), tk)
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return created
}

// drainEvents empties a subscription's buffer. Bus delivery completes before
// Publish returns, so everything a finished call emitted is already here.
func drainEvents(sub *events.Subscription) []events.Event {
	var out []events.Event
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func topicsOf(evs []events.Event) []events.Topic {
	out := make([]events.Topic, len(evs))
	for i, ev := range evs {
		out[i] = ev.Topic
	}
	return out
}

func TestServiceCreateAssignsSequentialIDs(t *testing.T) {
	h := newHarness(t, false)

	first := h.create(t, "", "First")
	second := h.create(t, "", "Second")
	if first.ID != "1" || second.ID != "2" {
		t.Errorf("auto ids: %s, %s", first.ID, second.ID)
	}

	h.create(t, "10", "Manual")
	if got := h.svc.NextID(); got != "11" {
		t.Errorf("next id after manual insert: %s", got)
	}
	third := h.create(t, "", "Third")
	if third.ID != "11" {
		t.Errorf("id after gap: %s", third.ID)
	}
}

func TestServiceCreateDuplicateID(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Original")

	_, err := h.svc.Create(context.Background(), models.NewTask("1", "Copy", "d"))
	assertCode(t, err, types.ErrAlreadyExists)
}

func TestServiceCreateValidates(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.svc.Create(context.Background(), models.NewTask("", "   ", "d"))
	assertCode(t, err, types.ErrValidation)

	_, err = h.svc.Create(context.Background(), models.NewTask("", "Title", ""))
	assertCode(t, err, types.ErrValidation)
}

func TestServiceCreateDanglingDependencyThenCycle(t *testing.T) {
	h := newHarness(t, false)

	// A dependency on an id that does not exist yet is accepted.
	h.create(t, "2", "Early", "9")

	// Creating the missing task with a reverse edge would close the cycle.
	_, err := h.svc.Create(context.Background(), func() models.Task {
		tk := models.NewTask("9", "Late", "d")
		tk.Dependencies = []string{"2"}
		return tk
	}())
	assertCode(t, err, types.ErrCircularDependency)
}

func TestServiceGetResolvesDottedSubtaskID(t *testing.T) {
	h := newHarness(t, false)

	parent := models.NewTask("1", "Parent", "d")
	parent.Subtasks = []models.Task{
		models.NewTask("", "Alpha", "d"),
		models.NewTask("", "Beta", "d"),
	}
	if _, err := h.svc.Create(context.Background(), parent); err != nil {
		t.Fatalf("create: %v", err)
	}

	sub, err := h.svc.Get(context.Background(), "1.2")
	if err != nil {
		t.Fatalf("dotted get: %v", err)
	}
	if sub.ID != "1.2" || sub.Title != "Beta" {
		t.Errorf("resolved subtask: id=%s title=%s", sub.ID, sub.Title)
	}

	_, err = h.svc.Get(context.Background(), "1.5")
	assertCode(t, err, types.ErrNotFound)
}

func TestServiceUpdateStatusNoOpSkipsEvents(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Task")

	sub, err := h.bus.Subscribe(events.TopicWildcard)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	same, err := h.svc.UpdateStatus(context.Background(), "1", models.StatusPending)
	if err != nil {
		t.Fatalf("no-op status update: %v", err)
	}
	if same.Status != models.StatusPending {
		t.Errorf("status: %s", same.Status)
	}
	if evs := drainEvents(sub); len(evs) != 0 {
		t.Fatalf("no-op must stay silent, got %v", topicsOf(evs))
	}

	if _, err := h.svc.UpdateStatus(context.Background(), "1", models.StatusDone); err != nil {
		t.Fatalf("status update: %v", err)
	}
	evs := drainEvents(sub)
	if len(evs) != 2 || evs[0].Topic != events.TopicTaskUpdated || evs[1].Topic != events.TopicStatusChanged {
		t.Errorf("real change emits update then status_changed: %v", topicsOf(evs))
	}
	if evs[1].Payload["from"] != "pending" || evs[1].Payload["to"] != "done" {
		t.Errorf("status payload: %v", evs[1].Payload)
	}
}

func TestServiceUpdateStatusRejectsInvalid(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Task")

	_, err := h.svc.UpdateStatus(context.Background(), "1", models.TaskStatus("archived"))
	assertCode(t, err, types.ErrValidation)
}

func TestServiceUpdateRejectsIDChange(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Task")

	_, err := h.svc.Update(context.Background(), "1", map[string]interface{}{"id": "7"})
	assertCode(t, err, types.ErrValidation)
}

func TestServiceUpdateRejectsUnknownField(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Task")

	_, err := h.svc.Update(context.Background(), "1", map[string]interface{}{"dueDate": "tomorrow"})
	assertCode(t, err, types.ErrValidation)
}

func TestServiceUpdateDependenciesChecksCycles(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Base")
	h.create(t, "2", "Dependent", "1")

	_, err := h.svc.Update(context.Background(), "1", map[string]interface{}{
		"dependencies": []interface{}{"2"},
	})
	assertCode(t, err, types.ErrCircularDependency)

	// Existing edges are not re-checked, so rewriting the same set is fine.
	updated, err := h.svc.Update(context.Background(), "2", map[string]interface{}{
		"dependencies": []string{"1", "1"},
	})
	if err != nil {
		t.Fatalf("rewrite dependencies: %v", err)
	}
	if len(updated.Dependencies) != 1 {
		t.Errorf("dependencies should be deduped: %v", updated.Dependencies)
	}
}

func TestServiceUpdateAppliesFields(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Old title")

	updated, err := h.svc.Update(context.Background(), "1", map[string]interface{}{
		"title":    "New title",
		"priority": "high",
		"details":  "Step by step",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New title" || updated.Priority != models.PriorityHigh || updated.Details != "Step by step" {
		t.Errorf("updated task: %+v", updated)
	}

	got, err := h.svc.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "New title" {
		t.Errorf("update must be visible through the store: %s", got.Title)
	}
}

func TestServiceDeleteWithDependents(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "1", "Base")
	h.create(t, "2", "Dependent", "1")

	err := h.svc.Delete(context.Background(), "1", false)
	assertCode(t, err, types.ErrNotPermitted)

	sub, err := h.bus.Subscribe(events.TopicWildcard)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := h.svc.Delete(context.Background(), "1", true); err != nil {
		t.Fatalf("force delete: %v", err)
	}

	dependent, err := h.svc.Get(context.Background(), "2")
	if err != nil {
		t.Fatalf("get survivor: %v", err)
	}
	if dependent.DependsOn("1") {
		t.Errorf("force delete must strip the dangling edge: %v", dependent.Dependencies)
	}

	// The error event from the refused delete is long gone; force emits the
	// strip then the deletion.
	evs := topicsOf(drainEvents(sub))
	if len(evs) != 2 || evs[0] != events.TopicDependencyRemoved || evs[1] != events.TopicTaskDeleted {
		t.Errorf("force delete events: %v", evs)
	}
}

func TestServiceBatchUpdateRollsBackToLastSave(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.create(t, "1", "Keep me")
	h.create(t, "2", "Me too")

	_, err := h.svc.BatchUpdate(ctx, []BatchUpdateItem{
		{ID: "1", Updates: map[string]interface{}{"title": "Changed"}},
		{ID: "ghost", Updates: map[string]interface{}{"title": "Never"}},
	})
	assertCode(t, err, types.ErrNotFound)

	got, err := h.svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get after rollback: %v", err)
	}
	if got.Title != "Keep me" {
		t.Errorf("rollback must restore the persisted title: %s", got.Title)
	}
	res, err := h.svc.List(ctx, QueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("task count after rollback: %d", res.Total)
	}
}

func TestServiceBatchUpdateRollbackWithoutFileClears(t *testing.T) {
	// With auto-persist off and no explicit save there is no file to restore
	// from, so rollback leaves the store empty.
	h := newHarness(t, false)
	ctx := context.Background()
	h.create(t, "1", "Unsaved")

	_, err := h.svc.BatchUpdate(ctx, []BatchUpdateItem{
		{ID: "ghost", Updates: map[string]interface{}{"title": "Never"}},
	})
	assertCode(t, err, types.ErrNotFound)

	_, err = h.svc.Get(ctx, "1")
	assertCode(t, err, types.ErrNotFound)
}

func TestServiceBatchUpdateHappyPath(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	h.create(t, "1", "a")
	h.create(t, "2", "b")

	updated, err := h.svc.BatchUpdate(ctx, []BatchUpdateItem{
		{ID: "1", Updates: map[string]interface{}{"status": "in-progress"}},
		{ID: "2", Updates: map[string]interface{}{"priority": "high"}},
	})
	if err != nil {
		t.Fatalf("batch update: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("updated count: %d", len(updated))
	}
	if updated[0].Status != models.StatusInProgress || updated[1].Priority != models.PriorityHigh {
		t.Errorf("batch results: %+v", updated)
	}
}

func TestServiceBatchDeleteRollsBack(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.create(t, "1", "a")
	h.create(t, "2", "b")

	err := h.svc.BatchDelete(ctx, []string{"1", "ghost"}, false)
	assertCode(t, err, types.ErrNotFound)

	res, _ := h.svc.List(ctx, QueryOptions{})
	if res.Total != 2 {
		t.Errorf("both tasks must survive the failed batch: %d", res.Total)
	}

	if err := h.svc.BatchDelete(ctx, []string{"1", "2"}, false); err != nil {
		t.Fatalf("batch delete: %v", err)
	}
	res, _ = h.svc.List(ctx, QueryOptions{})
	if res.Total != 0 {
		t.Errorf("tasks left after batch delete: %d", res.Total)
	}
}

func TestServiceImportTasksReplace(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.create(t, "1", "Old")

	incoming := []models.Task{
		models.NewTask("", "New A", "d"),
		models.NewTask("", "New B", "d"),
	}
	count, err := h.svc.ImportTasks(ctx, incoming, true)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 2 {
		t.Errorf("imported count: %d", count)
	}

	res, _ := h.svc.List(ctx, QueryOptions{})
	if res.Total != 2 {
		t.Errorf("replace must drop prior tasks: %d", res.Total)
	}
	for _, tk := range res.Tasks {
		if tk.Title == "Old" {
			t.Error("old task survived a replace import")
		}
	}
}

func TestServiceImportTasksRollsBackOnInvalid(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.create(t, "1", "Original")

	_, err := h.svc.ImportTasks(ctx, []models.Task{
		models.NewTask("", "Fine", "d"),
		models.NewTask("", "", ""), // fails validation
	}, true)
	assertCode(t, err, types.ErrValidation)

	got, err := h.svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("original should be restored: %v", err)
	}
	if got.Title != "Original" {
		t.Errorf("restored title: %s", got.Title)
	}
}

func TestServiceLoadMissingFileStartsEmpty(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	if err := h.svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	res, _ := h.svc.List(ctx, QueryOptions{})
	if res.Total != 0 {
		t.Errorf("fresh load should be empty: %d", res.Total)
	}
	if got := h.svc.Collection().Metadata.Version; got != models.SchemaVersion {
		t.Errorf("collection version: %s", got)
	}
}

func TestServiceLoadMigratesLegacyPayload(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	legacy := `{"tasks":[{"id":7,"title":"Legacy"},{"title":"No id"}]}`
	if err := afero.WriteFile(h.fs, h.path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := h.svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := h.svc.Get(ctx, "7")
	if err != nil {
		t.Fatalf("migrated task: %v", err)
	}
	if got.Title != "Legacy" || got.Description != "" {
		t.Errorf("migrated fields: title=%q description=%q", got.Title, got.Description)
	}
	if _, err := h.svc.Get(ctx, "1"); err != nil {
		t.Errorf("task without id should get a fallback id: %v", err)
	}

	// Auto-persist rewrites the upgraded document in place.
	doc, err := h.gw.ReadDocument(h.path)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if NewMigrator().NeedsMigration(doc) {
		t.Error("persisted document should be current after a migrating load")
	}
}

func TestServiceSaveLoadRoundTrip(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	h.create(t, "1", "Persist me")
	h.create(t, "2", "And me", "1")

	if err := h.svc.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fresh := NewService(store.NewMemoryStore(), NewValidator(), h.gw, nil,
		types.DataConfig{File: h.path, Format: "json"}, "harness", logger)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	got, err := fresh.Get(ctx, "2")
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if !got.DependsOn("1") {
		t.Errorf("dependencies must survive the round trip: %v", got.Dependencies)
	}
}

func TestServiceNextIDIgnoresNonNumeric(t *testing.T) {
	h := newHarness(t, false)
	h.create(t, "3", "a")
	h.create(t, "10", "b")
	h.create(t, "abc", "c")

	if got := h.svc.NextID(); got != "11" {
		t.Errorf("next id: %s", got)
	}
}
