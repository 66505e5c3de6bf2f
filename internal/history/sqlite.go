// Package history journals domain events into a local SQLite database so
// past changes stay inspectable after the process exits.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/josephgoksu/taskledger/internal/events"
)

const defaultRecentLimit = 50

// Entry is one journaled change.
type Entry struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	TaskID     string    `json:"taskId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Recorder persists domain events as journal rows. It never blocks or fails
// an operation: insert errors are logged and the event is dropped.
type Recorder struct {
	db     *sql.DB
	logger *slog.Logger
	sub    *events.Subscription
	done   chan struct{}
}

// Open creates or opens the journal database at path. ":memory:" is
// supported for tests.
func Open(path string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	r := &Recorder{db: db, logger: logger}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return r, nil
}

// initSchema creates the journal table if it does not exist.
func (r *Recorder) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS changes (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		task_id TEXT,
		detail TEXT,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_changes_task ON changes(task_id);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Follow subscribes to every bus topic and journals events until the
// subscription closes. Call Close to stop.
func (r *Recorder) Follow(bus *events.Bus) error {
	sub, err := bus.Subscribe(events.TopicWildcard)
	if err != nil {
		return err
	}
	r.sub = sub
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		for ev := range sub.Events() {
			r.Record(ev)
		}
	}()
	return nil
}

// Record journals one event. The full payload is kept as JSON in detail;
// the task id is lifted into its own column for filtering.
func (r *Recorder) Record(ev events.Event) {
	taskID, _ := ev.Payload["taskId"].(string)
	detail := ""
	if len(ev.Payload) > 0 {
		if raw, err := json.Marshal(ev.Payload); err == nil {
			detail = string(raw)
		}
	}

	_, err := r.db.Exec(
		`INSERT INTO changes (id, topic, task_id, detail, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Topic), taskID, detail, ev.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Warn("could not journal event", "topic", string(ev.Topic), "error", err)
	}
}

// Recent returns up to limit entries in reverse insertion order (newest
// first). limit <= 0 uses the default of 50.
func (r *Recorder) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := r.db.Query(
		`SELECT id, topic, task_id, detail, recorded_at FROM changes ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// ForTask returns up to limit entries touching one task id, newest first.
func (r *Recorder) ForTask(taskID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := r.db.Query(
		`SELECT id, topic, task_id, detail, recorded_at FROM changes WHERE task_id = ? ORDER BY rowid DESC LIMIT ?`,
		taskID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history for task %s: %w", taskID, err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var taskID, detail sql.NullString
		var recorded string
		if err := rows.Scan(&e.ID, &e.Topic, &taskID, &detail, &recorded); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.TaskID = taskID.String
		e.Detail = detail.String
		if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			e.RecordedAt = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close stops following the bus, waits for the drain goroutine, and closes
// the database.
func (r *Recorder) Close() error {
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
		<-r.done
	}
	return r.db.Close()
}
