package task

import (
	"strconv"
	"time"

	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/josephgoksu/taskledger/models"
)

const fallbackTitle = "Untitled Task"

// Migrator upgrades arbitrary persisted payloads to the current schema. It
// never fails: malformed entries are rebuilt field by field with defaults so
// a load can always proceed.
type Migrator struct{}

// NewMigrator creates a migration service.
func NewMigrator() *Migrator {
	return &Migrator{}
}

// NeedsMigration reports whether a raw document must be rebuilt before it can
// be loaded as a collection: missing tasks sequence, missing metadata object,
// or metadata lacking version/created/updated/projectName with usable types.
// Timestamps may arrive as strings or as decoder-native time values depending
// on the file format.
func (m *Migrator) NeedsMigration(payload map[string]interface{}) bool {
	if payload == nil {
		return true
	}
	if _, ok := payload["tasks"].([]interface{}); !ok {
		return true
	}
	meta, ok := payload["metadata"].(map[string]interface{})
	if !ok {
		return true
	}
	for _, key := range []string{"version", "projectName"} {
		if _, ok := meta[key].(string); !ok {
			return true
		}
	}
	for _, key := range []string{"created", "updated"} {
		switch meta[key].(type) {
		case string, time.Time:
		default:
			return true
		}
	}
	return false
}

// Migrate rebuilds a raw document into a well-formed collection. Tasks that
// are not objects become fully-defaulted records; fallback ids count up from
// "1" per call, with the counter shared across that call's recursive subtask
// tree and never carried between calls. Metadata is rebuilt with the version
// forced to the current schema. The output always satisfies
// NeedsMigration == false after a round-trip.
func (m *Migrator) Migrate(payload map[string]interface{}) *models.TaskCollection {
	nextID := 0
	newID := func() string {
		nextID++
		return strconv.Itoa(nextID)
	}
	now := time.Now().UTC()

	var rawTasks []interface{}
	var rawMeta map[string]interface{}
	if payload != nil {
		rawTasks, _ = payload["tasks"].([]interface{})
		rawMeta, _ = payload["metadata"].(map[string]interface{})
	}

	col := &models.TaskCollection{Tasks: make([]models.Task, 0, len(rawTasks))}
	for _, raw := range rawTasks {
		col.Tasks = append(col.Tasks, migrateTask(raw, newID))
	}

	col.Metadata = models.CollectionMetadata{
		Version:     models.SchemaVersion,
		Created:     timeOr(rawMeta["created"], now),
		Updated:     timeOr(rawMeta["updated"], now),
		ProjectName: stringOr(rawMeta["projectName"], ""),
	}
	return col
}

func migrateTask(raw interface{}, newID func() string) models.Task {
	obj, _ := raw.(map[string]interface{})

	t := models.Task{
		Status:       models.StatusPending,
		Priority:     models.PriorityMedium,
		Dependencies: []string{},
	}

	if id, ok := asID(obj["id"]); ok {
		t.ID = id
	} else {
		t.ID = newID()
	}
	t.Title = stringOr(obj["title"], fallbackTitle)
	t.Description = stringOr(obj["description"], "")

	if s, ok := obj["status"].(string); ok && models.IsValidStatus(models.TaskStatus(s)) {
		t.Status = models.TaskStatus(s)
	}
	if p, ok := obj["priority"].(string); ok {
		if norm, err := taskutil.NormalizePriorityString(p); err == nil && norm != "" {
			t.Priority = models.TaskPriority(norm)
		}
	}
	if d, ok := obj["details"].(string); ok {
		t.Details = d
	}
	if ts, ok := obj["testStrategy"].(string); ok {
		t.TestStrategy = ts
	}

	if deps, ok := obj["dependencies"].([]interface{}); ok {
		for _, dep := range deps {
			if id, ok := asID(dep); ok {
				t.Dependencies = append(t.Dependencies, id)
			}
		}
		t.Dependencies = dedupeStrings(t.Dependencies)
	}

	if subs, ok := obj["subtasks"].([]interface{}); ok {
		for _, sub := range subs {
			t.Subtasks = append(t.Subtasks, migrateTask(sub, newID))
		}
	}

	if meta, ok := obj["metadata"].(map[string]interface{}); ok {
		t.Metadata = meta
	}
	return t
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func timeOr(v interface{}, fallback time.Time) time.Time {
	switch tv := v.(type) {
	case time.Time:
		return tv
	case string:
		if parsed, err := time.Parse(time.RFC3339, tv); err == nil {
			return parsed
		}
	}
	return fallback
}

// asID accepts the id shapes different decoders produce: strings plus the
// numeric types JSON, YAML and TOML emit for bare numbers.
func asID(v interface{}) (string, bool) {
	switch n := v.(type) {
	case string:
		if n == "" {
			return "", false
		}
		return n, true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	}
	return "", false
}
