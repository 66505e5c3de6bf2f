package task

import (
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
)

// ChangeOp names the kind of mutation buffered in an open transaction.
type ChangeOp string

const (
	OpCreate           ChangeOp = "create"
	OpUpdate           ChangeOp = "update"
	OpDelete           ChangeOp = "delete"
	OpAddDependency    ChangeOp = "add-dependency"
	OpRemoveDependency ChangeOp = "remove-dependency"
)

// Change records one mutation applied while a transaction was open. Task is
// the post-mutation state (the pre-deletion state for OpDelete). Meta carries
// op-specific extras, e.g. the prior state under "previous" for updates.
type Change struct {
	Op   ChangeOp               `json:"op"`
	Task models.Task            `json:"task"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// Log buffers changes between Begin and Commit/Rollback. At most one
// transaction is open at a time. Mutations are applied eagerly by the
// caller; the log only remembers what happened so commit can report it and
// rollback knows there is state to restore. Callers serialize access.
type Log struct {
	open    bool
	changes []Change
}

// NewLog creates an idle transaction log.
func NewLog() *Log {
	return &Log{}
}

// Begin opens a transaction. Opening while one is already open fails with
// a transaction-in-progress error.
func (l *Log) Begin() error {
	if l.open {
		return types.NewTaskError(types.ErrTransactionInProgress,
			"a transaction is already in progress", nil)
	}
	l.open = true
	l.changes = nil
	return nil
}

// Record appends a change to the open transaction. Outside a transaction it
// is a no-op, so callers record unconditionally.
func (l *Log) Record(c Change) {
	if !l.open {
		return
	}
	l.changes = append(l.changes, c)
}

// Commit closes the transaction and returns the buffered changes in order.
// Without an open transaction it fails with a no-transaction error. An empty
// commit is legal and returns an empty slice.
func (l *Log) Commit() ([]Change, error) {
	if !l.open {
		return nil, types.NewTaskError(types.ErrNoTransaction,
			"no transaction in progress", nil)
	}
	committed := l.changes
	l.open = false
	l.changes = nil
	if committed == nil {
		committed = []Change{}
	}
	return committed, nil
}

// Rollback closes the transaction and returns the discarded changes.
// Restoring state is the caller's job; the log only drops its buffer.
func (l *Log) Rollback() ([]Change, error) {
	if !l.open {
		return nil, types.NewTaskError(types.ErrNoTransaction,
			"no transaction in progress", nil)
	}
	discarded := l.changes
	l.open = false
	l.changes = nil
	if discarded == nil {
		discarded = []Change{}
	}
	return discarded, nil
}

// IsOpen reports whether a transaction is in progress.
func (l *Log) IsOpen() bool {
	return l.open
}

// Pending returns the number of buffered changes.
func (l *Log) Pending() int {
	return len(l.changes)
}
