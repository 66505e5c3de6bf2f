// Package task implements the task engine: validation, dependency graph
// management, querying, migration, transactions, and the service that
// composes them behind a single operation set.
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/josephgoksu/taskledger/internal/events"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/store"
	"github.com/josephgoksu/taskledger/types"
)

// Service composes store, validator, graph, query, transaction log, and
// persistence gateway behind the public operation set. The mutex serializes
// every operation end to end: batches are atomic with respect to other
// callers, and at most one transaction is ever open.
type Service struct {
	mu       sync.Mutex
	store    store.RecordStore
	val      Validator
	graph    *Graph
	query    *Query
	txn      *Log
	migrator *Migrator
	gateway  store.Gateway
	bus      *events.Bus
	logger   *slog.Logger
	cfg      types.DataConfig
	meta     models.CollectionMetadata
}

// BatchUpdateItem pairs a task id with the field updates to apply to it.
type BatchUpdateItem struct {
	ID      string                 `json:"id"`
	Updates map[string]interface{} `json:"updates"`
}

// NewService wires the engine together. A nil validator gets the default
// implementation, a nil logger falls back to slog.Default, and a nil bus
// disables event emission. The gateway may be nil for purely in-memory use;
// saves then fail explicitly rather than silently succeeding.
func NewService(s store.RecordStore, v Validator, gw store.Gateway, bus *events.Bus, cfg types.DataConfig, projectName string, logger *slog.Logger) *Service {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    s,
		val:      v,
		graph:    NewGraph(s),
		query:    NewQuery(s),
		txn:      NewLog(),
		migrator: NewMigrator(),
		gateway:  gw,
		bus:      bus,
		logger:   logger,
		cfg:      cfg,
		meta:     models.NewCollection(projectName).Metadata,
	}
}

// Create validates and stores a new task. An empty id is assigned the next
// numeric id. Dependencies on ids that do not exist yet are tolerated, but a
// dependency that would close a cycle through an existing reference fails.
func (s *Service) Create(ctx context.Context, t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.createLocked(t)
	if err != nil {
		s.emitError("create", err)
		return models.Task{}, err
	}
	if err := s.maybePersistLocked("create"); err != nil {
		return created, err
	}
	return created, nil
}

// Get resolves a task by id, including the dotted subtask form
// "<parent>.<1-based-index>".
func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.query.TaskByID(id)
	if !ok {
		err := types.NotFoundError(id)
		s.emitError("get", err)
		return models.Task{}, err
	}
	return t, nil
}

// List runs a filtered, sorted, paginated query.
func (s *Service) List(ctx context.Context, opts QueryOptions) (QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.query.Run(opts)
	if err != nil {
		s.emitError("list", err)
		return QueryResult{}, err
	}
	return res, nil
}

// Ready returns the pending tasks whose dependencies are all done.
func (s *Service) Ready(ctx context.Context) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.ReadyTasks()
}

// Next returns the best actionable task, if any.
func (s *Service) Next(ctx context.Context, opts *NextOptions) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.FindNextTask(opts)
}

// Update applies a map of field updates to a task. Keys use the persisted
// field names ("title", "status", "dependencies", ...). Changing the id is
// rejected. A status change is re-validated as a transition; a dependencies
// change is checked for cycles edge by edge.
func (s *Service) Update(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.updateLocked(id, updates)
	if err != nil {
		s.emitError("update", err)
		return models.Task{}, err
	}
	if err := s.maybePersistLocked("update"); err != nil {
		return updated, err
	}
	return updated, nil
}

// UpdateStatus moves a task to the given status, short-circuiting to a no-op
// when the status is unchanged. No event is emitted and nothing is persisted
// for the no-op case.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.IsValidStatus(status) {
		err := types.NewTaskError(types.ErrValidation,
			fmt.Sprintf("invalid status '%s'", status),
			map[string]interface{}{"status": string(status)})
		s.emitError("updateStatus", err)
		return models.Task{}, err
	}

	current, ok := s.store.Get(id)
	if !ok {
		err := types.NotFoundError(id)
		s.emitError("updateStatus", err)
		return models.Task{}, err
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.updateLocked(id, map[string]interface{}{"status": string(status)})
	if err != nil {
		s.emitError("updateStatus", err)
		return models.Task{}, err
	}
	if err := s.maybePersistLocked("updateStatus"); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a task. With dependents and force unset it fails with
// OperationNotPermitted; with force it first strips the id from every
// dependent's dependency set.
func (s *Service) Delete(ctx context.Context, id string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteLocked(id, force); err != nil {
		s.emitError("delete", err)
		return err
	}
	return s.maybePersistLocked("delete")
}

// AddDependency records that taskID depends on depID. Both ids must exist
// and the new edge must not close a cycle.
func (s *Service) AddDependency(ctx context.Context, taskID, depID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.addDependencyLocked(taskID, depID)
	if err != nil {
		s.emitError("addDependency", err)
		return models.Task{}, err
	}
	if err := s.maybePersistLocked("addDependency"); err != nil {
		return t, err
	}
	return t, nil
}

// RemoveDependency removes the edge taskID -> depID, idempotently.
func (s *Service) RemoveDependency(ctx context.Context, taskID, depID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.removeDependencyLocked(taskID, depID)
	if err != nil {
		s.emitError("removeDependency", err)
		return models.Task{}, err
	}
	if err := s.maybePersistLocked("removeDependency"); err != nil {
		return t, err
	}
	return t, nil
}

// BatchUpdate applies a sequence of updates inside one transaction. On any
// failure the whole batch rolls back: the store is restored from the last
// successful save (or cleared when no file exists yet) and the original
// error is returned. Auto-persist runs once, after the commit.
func (s *Service) BatchUpdate(ctx context.Context, items []BatchUpdateItem) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.txn.Begin(); err != nil {
		s.emitError("batchUpdate", err)
		return nil, err
	}
	s.emit(events.TopicTxnStarted, map[string]interface{}{"operation": "batchUpdate"})

	updated := make([]models.Task, 0, len(items))
	for _, item := range items {
		t, err := s.updateLocked(item.ID, item.Updates)
		if err != nil {
			s.rollbackLocked()
			s.emitError("batchUpdate", err)
			return nil, err
		}
		updated = append(updated, t)
	}

	changes, err := s.txn.Commit()
	if err != nil {
		s.emitError("batchUpdate", err)
		return nil, err
	}
	s.emit(events.TopicTxnCommitted, map[string]interface{}{"count": len(changes), "changes": changes})

	if err := s.maybePersistLocked("batchUpdate"); err != nil {
		return updated, err
	}
	return updated, nil
}

// BatchDelete removes a set of tasks inside one transaction, rolling back on
// the first failure.
func (s *Service) BatchDelete(ctx context.Context, ids []string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.txn.Begin(); err != nil {
		s.emitError("batchDelete", err)
		return err
	}
	s.emit(events.TopicTxnStarted, map[string]interface{}{"operation": "batchDelete"})

	for _, id := range ids {
		if err := s.deleteLocked(id, force); err != nil {
			s.rollbackLocked()
			s.emitError("batchDelete", err)
			return err
		}
	}

	changes, err := s.txn.Commit()
	if err != nil {
		s.emitError("batchDelete", err)
		return err
	}
	s.emit(events.TopicTxnCommitted, map[string]interface{}{"count": len(changes), "changes": changes})

	return s.maybePersistLocked("batchDelete")
}

// ImportTasks loads a batch of external tasks inside one transaction. With
// replace set, the current task set is force-deleted first. Returns the
// number of tasks created.
func (s *Service) ImportTasks(ctx context.Context, tasks []models.Task, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.txn.Begin(); err != nil {
		s.emitError("import", err)
		return 0, err
	}
	s.emit(events.TopicTxnStarted, map[string]interface{}{"operation": "import"})

	if replace {
		for _, t := range s.store.GetAll() {
			if err := s.deleteLocked(t.ID, true); err != nil {
				s.rollbackLocked()
				s.emitError("import", err)
				return 0, err
			}
		}
	}

	count := 0
	for i := range tasks {
		if _, err := s.createLocked(tasks[i]); err != nil {
			s.rollbackLocked()
			s.emitError("import", err)
			return 0, err
		}
		count++
	}

	changes, err := s.txn.Commit()
	if err != nil {
		s.emitError("import", err)
		return 0, err
	}
	s.emit(events.TopicTxnCommitted, map[string]interface{}{"count": len(changes), "changes": changes})

	if err := s.maybePersistLocked("import"); err != nil {
		return count, err
	}
	return count, nil
}

// Load replaces the in-memory task set with the persisted collection,
// migrating older payloads on the fly. A missing file loads as empty. The
// collection version is always current after a load.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save flushes the full collection through the persistence gateway.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(); err != nil {
		s.emitError("save", err)
		return err
	}
	return nil
}

// Collection returns a snapshot of the full aggregate.
func (s *Service) Collection() *models.TaskCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectionLocked()
}

// NextID returns the id Create would assign to a task with an empty id.
func (s *Service) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked()
}

func (s *Service) createLocked(t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = s.nextIDLocked()
	}
	if err := s.val.Validate(&t); err != nil {
		return models.Task{}, err
	}
	// A dangling reference to this id may already exist, so a new task's own
	// dependencies can still close a cycle.
	for _, dep := range t.Dependencies {
		if s.graph.HasCircularDependency(t.ID, dep) {
			return models.Task{}, types.NewTaskError(types.ErrCircularDependency,
				fmt.Sprintf("adding dependency '%s' -> '%s' would create a cycle", t.ID, dep),
				map[string]interface{}{"taskId": t.ID, "dependsOn": dep})
		}
	}
	if err := s.store.Add(t); err != nil {
		return models.Task{}, err
	}
	s.txn.Record(Change{Op: OpCreate, Task: t})
	s.emit(events.TopicTaskCreated, map[string]interface{}{"taskId": t.ID})
	return t, nil
}

func (s *Service) updateLocked(id string, updates map[string]interface{}) (models.Task, error) {
	task, ok := s.store.Get(id)
	if !ok {
		return models.Task{}, types.NotFoundError(id)
	}
	prev := task.Clone()

	if _, ok := updates["id"]; ok {
		return models.Task{}, types.NewTaskError(types.ErrValidation,
			"task id cannot be changed",
			map[string]interface{}{"taskId": id})
	}

	if raw, ok := updates["dependencies"]; ok {
		deps, err := toStringSlice(raw)
		if err != nil {
			return models.Task{}, types.WrapError(types.ErrValidation,
				"dependencies must be a list of task ids", err)
		}
		deps = dedupeStrings(deps)
		for _, dep := range deps {
			if dep == id {
				return models.Task{}, types.NewTaskError(types.ErrValidation,
					"task cannot depend on itself",
					map[string]interface{}{"taskId": id})
			}
			if task.DependsOn(dep) {
				continue
			}
			if s.graph.HasCircularDependency(id, dep) {
				return models.Task{}, types.NewTaskError(types.ErrCircularDependency,
					fmt.Sprintf("adding dependency '%s' -> '%s' would create a cycle", id, dep),
					map[string]interface{}{"taskId": id, "dependsOn": dep})
			}
		}
		task.Dependencies = deps
	}

	if err := applyFieldUpdates(&task, updates); err != nil {
		return models.Task{}, err
	}

	if err := s.val.Validate(&task); err != nil {
		return models.Task{}, err
	}
	if task.Status != prev.Status {
		if err := s.val.ValidateStatusTransition(prev.Status, task.Status); err != nil {
			return models.Task{}, err
		}
	}

	if err := s.store.Update(id, task); err != nil {
		return models.Task{}, err
	}
	s.txn.Record(Change{Op: OpUpdate, Task: task, Meta: map[string]interface{}{"previous": prev}})
	s.emit(events.TopicTaskUpdated, map[string]interface{}{"taskId": id})
	if task.Status != prev.Status {
		s.emit(events.TopicStatusChanged, map[string]interface{}{
			"taskId": id,
			"from":   string(prev.Status),
			"to":     string(task.Status),
		})
	}
	return task, nil
}

func (s *Service) deleteLocked(id string, force bool) error {
	task, ok := s.store.Get(id)
	if !ok {
		return types.NotFoundError(id)
	}

	dependents := s.graph.FindDependentTasks(id)
	if len(dependents) > 0 && !force {
		ids := make([]string, len(dependents))
		for i, d := range dependents {
			ids[i] = d.ID
		}
		return types.NewTaskError(types.ErrNotPermitted,
			fmt.Sprintf("cannot delete task '%s': %d task(s) depend on it", id, len(ids)),
			map[string]interface{}{"taskId": id, "dependents": ids})
	}

	var stripped []string
	if force && len(dependents) > 0 {
		var err error
		stripped, err = s.graph.RemoveFromAllDependencies(id)
		if err != nil {
			return err
		}
		for _, depID := range stripped {
			if t, ok := s.store.Get(depID); ok {
				s.txn.Record(Change{Op: OpRemoveDependency, Task: t, Meta: map[string]interface{}{"removed": id}})
				s.emit(events.TopicDependencyRemoved, map[string]interface{}{"taskId": depID, "dependsOn": id})
			}
		}
	}

	s.store.Delete(id)
	s.txn.Record(Change{Op: OpDelete, Task: task})
	s.emit(events.TopicTaskDeleted, map[string]interface{}{"taskId": id, "force": force, "strippedFrom": stripped})
	return nil
}

func (s *Service) addDependencyLocked(taskID, depID string) (models.Task, error) {
	t, err := s.graph.AddDependency(taskID, depID)
	if err != nil {
		return models.Task{}, err
	}
	s.txn.Record(Change{Op: OpAddDependency, Task: t, Meta: map[string]interface{}{"dependsOn": depID}})
	s.emit(events.TopicDependencyAdded, map[string]interface{}{"taskId": taskID, "dependsOn": depID})
	return t, nil
}

func (s *Service) removeDependencyLocked(taskID, depID string) (models.Task, error) {
	t, err := s.graph.RemoveDependency(taskID, depID)
	if err != nil {
		return models.Task{}, err
	}
	s.txn.Record(Change{Op: OpRemoveDependency, Task: t, Meta: map[string]interface{}{"removed": depID}})
	s.emit(events.TopicDependencyRemoved, map[string]interface{}{"taskId": taskID, "dependsOn": depID})
	return t, nil
}

// rollbackLocked restores the documented rollback guarantee: state matches
// the last successful save, or empty when no file has been written yet. It
// is not an in-memory undo of the recorded change list.
func (s *Service) rollbackLocked() {
	discarded, err := s.txn.Rollback()
	if err != nil {
		s.logger.Warn("rollback requested without an open transaction")
		return
	}
	s.restoreLocked()
	s.emit(events.TopicTxnRolledBack, map[string]interface{}{"discarded": len(discarded)})
}

func (s *Service) restoreLocked() {
	if s.gateway != nil {
		path := s.dataPath()
		if s.gateway.Exists(path) {
			col, err := s.gateway.Load(path)
			if err == nil {
				s.replaceLocked(col)
				return
			}
			s.logger.Warn("could not reload collection for rollback, clearing store", "path", path, "error", err)
		}
	}
	s.store.Clear()
}

func (s *Service) loadLocked() error {
	if s.gateway == nil {
		return types.NewTaskError(types.ErrFileRead, "no persistence gateway configured", nil)
	}

	path := s.dataPath()
	if !s.gateway.Exists(path) {
		s.store.Clear()
		s.meta = models.NewCollection(s.meta.ProjectName).Metadata
		s.emit(events.TopicTasksLoaded, map[string]interface{}{"path": path, "count": 0, "migrated": false})
		return nil
	}

	doc, err := s.gateway.ReadDocument(path)
	if err != nil {
		s.emitError("load", err)
		return err
	}

	var col *models.TaskCollection
	migrated := false
	if s.migrator.NeedsMigration(doc) {
		col = s.migrator.Migrate(doc)
		migrated = true
		s.logger.Info("migrated persisted collection to current schema", "path", path, "version", models.SchemaVersion)
	} else {
		col, err = models.CollectionFromPayload(doc)
		if err != nil {
			err = types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to decode collection from %s", path), err)
			s.emitError("load", err)
			return err
		}
	}

	s.replaceLocked(col)
	s.emit(events.TopicTasksLoaded, map[string]interface{}{"path": path, "count": s.store.Len(), "migrated": migrated})

	if migrated && s.cfg.AutoPersist {
		if err := s.saveLocked(); err != nil {
			s.logger.Warn("could not persist migrated collection", "path", path, "error", err)
			s.emitError("load", err)
		}
	}
	return nil
}

func (s *Service) saveLocked() error {
	if s.gateway == nil {
		return types.NewTaskError(types.ErrFileWrite, "no persistence gateway configured", nil)
	}

	s.meta.Updated = time.Now().UTC()
	col := s.collectionLocked()
	path := s.dataPath()
	if err := s.gateway.Save(path, col, s.cfg.KeepBackups); err != nil {
		return err
	}
	s.emit(events.TopicTasksSaved, map[string]interface{}{"path": path, "count": len(col.Tasks)})
	return nil
}

// maybePersistLocked flushes after a mutation when auto-persist is on. A
// failed save leaves the in-memory mutation applied and reports the write
// error to the caller rather than masking it.
func (s *Service) maybePersistLocked(operation string) error {
	if !s.cfg.AutoPersist {
		return nil
	}
	if err := s.saveLocked(); err != nil {
		s.emitError(operation, err)
		return err
	}
	return nil
}

func (s *Service) replaceLocked(col *models.TaskCollection) {
	s.store.Clear()
	for _, t := range col.Tasks {
		if err := s.store.Add(t); err != nil {
			s.logger.Warn("skipping duplicate task id during load", "id", t.ID)
		}
	}
	s.meta = col.Metadata
	s.meta.Version = models.SchemaVersion
}

func (s *Service) collectionLocked() *models.TaskCollection {
	return &models.TaskCollection{
		Tasks:    s.store.GetAll(),
		Metadata: s.meta,
	}
}

func (s *Service) dataPath() string {
	if s.cfg.File != "" {
		return s.cfg.File
	}
	if s.gateway != nil {
		return s.gateway.FindDefaultPath()
	}
	return ""
}

// nextIDLocked returns max(numeric ids)+1 as text, starting at "1".
// Non-numeric ids do not participate.
func (s *Service) nextIDLocked() string {
	var max int64
	for _, t := range s.store.GetAll() {
		if n, err := strconv.ParseInt(t.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

func (s *Service) emit(topic events.Topic, payload map[string]interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.NewEvent(topic, payload)); err != nil {
		s.logger.Warn("event publish failed", "topic", string(topic), "error", err)
	}
}

// emitError mirrors every error returned to a caller onto the error topic.
func (s *Service) emitError(operation string, err error) {
	s.logger.Error("operation failed", "operation", operation, "error", err)
	s.emit(events.TopicError, map[string]interface{}{
		"operation": operation,
		"code":      string(types.CodeOf(err)),
		"error":     err.Error(),
	})
}

// fieldNameMapping maps persisted field names to struct field names.
var fieldNameMapping = map[string]string{
	"id":           "ID",
	"title":        "Title",
	"description":  "Description",
	"status":       "Status",
	"priority":     "Priority",
	"dependencies": "Dependencies",
	"details":      "Details",
	"testStrategy": "TestStrategy",
	"subtasks":     "Subtasks",
	"metadata":     "Metadata",
}

// applyFieldUpdates sets struct fields reflectively from persisted field
// names. Dependencies are handled by the caller so graph checks run first.
func applyFieldUpdates(task *models.Task, updates map[string]interface{}) error {
	for key, value := range updates {
		if key == "dependencies" {
			continue
		}
		fieldName, ok := fieldNameMapping[key]
		if !ok {
			if key == "" {
				return types.NewTaskError(types.ErrValidation, "empty field name", nil)
			}
			fieldName = strings.ToUpper(key[:1]) + key[1:]
		}

		field := reflect.ValueOf(task).Elem().FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			return types.NewTaskError(types.ErrValidation,
				fmt.Sprintf("unknown field '%s'", key),
				map[string]interface{}{"field": key})
		}

		val := reflect.ValueOf(value)
		if value == nil || field.Type() != val.Type() {
			converted, err := convertType(value, field.Type())
			if err != nil {
				return types.WrapError(types.ErrValidation,
					fmt.Sprintf("invalid value for field '%s'", key), err)
			}
			val = converted
		}
		field.Set(val)
	}
	return nil
}

// convertType coerces an update value to the target field type, covering the
// shapes JSON decoding and typed callers both produce.
func convertType(value interface{}, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	if vt := reflect.TypeOf(value); vt == target {
		return reflect.ValueOf(value), nil
	}

	if s, ok := value.(string); ok {
		switch target {
		case reflect.TypeOf(models.TaskStatus("")):
			return reflect.ValueOf(models.TaskStatus(s)), nil
		case reflect.TypeOf(models.TaskPriority("")):
			return reflect.ValueOf(models.TaskPriority(s)), nil
		}
	}

	switch target {
	case reflect.TypeOf([]string{}):
		list, err := toStringSlice(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(list), nil
	case reflect.TypeOf([]models.Task{}):
		raw, err := json.Marshal(value)
		if err != nil {
			return reflect.Value{}, err
		}
		var tasks []models.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(tasks), nil
	case reflect.TypeOf(map[string]interface{}{}):
		raw, err := json.Marshal(value)
		if err != nil {
			return reflect.Value{}, err
		}
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(m), nil
	}

	return reflect.Value{}, fmt.Errorf("unsupported type conversion from %v to %v", reflect.TypeOf(value), target)
}

func toStringSlice(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", v)
}
