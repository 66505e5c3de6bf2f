package ops

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josephgoksu/taskledger/types"
)

const (
	// defaultHistoryLimit bounds the completed-history map.
	defaultHistoryLimit = 100
	// progressWindow caps the rolling sample window used for estimation.
	progressWindow = 10
)

// SubmitOptions tunes one submission. All fields are optional.
type SubmitOptions struct {
	// Logger overrides the tracker logger for this operation.
	Logger *slog.Logger
	// OnProgress is invoked for every reported sample, fire-and-forget.
	OnProgress func(Progress)
	// Session is handed to the work function unchanged.
	Session map[string]interface{}
}

// Tracker schedules work functions as background goroutines and owns their
// status, progress, and the bounded history of finished operations. It is
// the sole mutator of a given operation's state.
type Tracker struct {
	mu        sync.RWMutex
	active    map[string]*Operation
	history   map[string]*Operation
	callbacks map[string]func(Progress)
	limit     int
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewTracker creates a tracker retaining up to historyLimit finished
// operations (the default 100 when <= 0).
func NewTracker(historyLimit int, logger *slog.Logger) *Tracker {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		active:    make(map[string]*Operation),
		history:   make(map[string]*Operation),
		callbacks: make(map[string]func(Progress)),
		limit:     historyLimit,
		logger:    logger,
	}
}

// Submit registers the work as pending and returns its id immediately; the
// work starts on its own goroutine and moves to running before it is
// invoked. There is no cancellation or timeout: the function runs until it
// settles.
func (t *Tracker) Submit(ctx context.Context, work WorkFunc, args map[string]interface{}, opts *SubmitOptions) string {
	id := uuid.NewString()
	op := &Operation{
		ID:        id,
		Status:    StatusPending,
		StartedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	t.active[id] = op
	if opts != nil && opts.OnProgress != nil {
		t.callbacks[id] = opts.OnProgress
	}
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run(ctx, id, work, args, opts)
	return id
}

func (t *Tracker) run(ctx context.Context, id string, work WorkFunc, args map[string]interface{}, opts *SubmitOptions) {
	defer t.wg.Done()

	t.mu.Lock()
	if op, ok := t.active[id]; ok {
		op.Status = StatusRunning
	}
	t.mu.Unlock()

	logger := t.logger
	var session map[string]interface{}
	if opts != nil {
		if opts.Logger != nil {
			logger = opts.Logger
		}
		session = opts.Session
	}
	if session == nil {
		session = map[string]interface{}{}
	}

	rt := Runtime{
		Logger:  logger.With("operation", id),
		Report:  func(p Progress) { t.ReportProgress(id, p) },
		Session: session,
	}

	var result Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error("operation panicked", "operation", id, "panic", r)
				result = Result{
					Success: false,
					Error:   &OpError{Code: string(types.ErrOperationFailed), Message: fmt.Sprintf("panic: %v", r)},
				}
			}
		}()
		result = work(ctx, args, rt)
	}()

	t.settle(id, result)
}

func (t *Tracker) settle(id string, result Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	op, ok := t.active[id]
	if !ok {
		return
	}
	delete(t.active, id)
	delete(t.callbacks, id)

	op.EndedAt = time.Now().UTC()
	op.Result = &result
	op.ETA = 0
	if result.Success {
		op.Status = StatusCompleted
		op.Progress = 100
	} else {
		op.Status = StatusFailed
		if op.Result.Error == nil {
			op.Result.Error = &OpError{Code: string(types.ErrOperationFailed), Message: "operation failed"}
		}
	}

	t.history[id] = op
	t.evictLocked()
}

// evictLocked drops the single oldest history entry by end time once the map
// has grown past the limit. One eviction per insertion that crosses the
// threshold, never a batch.
func (t *Tracker) evictLocked() {
	if len(t.history) <= t.limit {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, op := range t.history {
		if oldestID == "" || op.EndedAt.Before(oldest) {
			oldestID = id
			oldest = op.EndedAt
		}
	}
	if oldestID != "" {
		delete(t.history, oldestID)
	}
}

// ReportProgress appends a timestamped sample to the operation's rolling
// window and recomputes the time-remaining estimate. Reports for unknown or
// already-settled ids are logged and dropped.
func (t *Tracker) ReportProgress(id string, p Progress) {
	if p.At.IsZero() {
		p.At = time.Now().UTC()
	}
	if p.Percent < 0 {
		p.Percent = 0
	}
	if p.Percent > 100 {
		p.Percent = 100
	}

	t.mu.Lock()
	op, ok := t.active[id]
	if !ok {
		t.mu.Unlock()
		t.logger.Warn("progress report for unknown operation", "operation", id)
		return
	}

	op.Progress = p.Percent
	op.Message = p.Message
	if p.Step > 0 {
		op.Step = p.Step
	}
	if p.TotalSteps > 0 {
		op.TotalSteps = p.TotalSteps
	}
	op.Samples = append(op.Samples, p)
	if len(op.Samples) > progressWindow {
		op.Samples = op.Samples[len(op.Samples)-progressWindow:]
	}
	op.ETA = estimateRemaining(op.Samples)

	cb := t.callbacks[id]
	t.mu.Unlock()

	if cb != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Warn("progress callback failed", "operation", id, "panic", r)
				}
			}()
			cb(p)
		}()
	}
}

// estimateRemaining extrapolates linearly across the window:
// rate = (lastPercent - firstPercent) / (lastTime - firstTime), then
// remaining = (100 - lastPercent) / rate. It needs at least two samples and
// a last percent strictly between 0 and 100; non-monotonic or zero-rate
// windows yield no estimate rather than an error.
func estimateRemaining(samples []Progress) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	first := samples[0]
	last := samples[len(samples)-1]
	if last.Percent <= 0 || last.Percent >= 100 {
		return 0
	}
	elapsed := last.At.Sub(first.At)
	gain := last.Percent - first.Percent
	if elapsed <= 0 || gain <= 0 {
		return 0
	}
	rate := gain / float64(elapsed.Milliseconds())
	if rate <= 0 {
		return 0
	}
	remainingMs := (100 - last.Percent) / rate
	return time.Duration(remainingMs * float64(time.Millisecond))
}

// Status returns a snapshot of the operation, checking active work first and
// the completed history second. Ids absent from both come back with status
// not-found rather than an error.
func (t *Tracker) Status(id string) Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if op, ok := t.active[id]; ok {
		return op.Clone()
	}
	if op, ok := t.history[id]; ok {
		return op.Clone()
	}
	return Operation{ID: id, Status: StatusNotFound}
}

// Cancel is accepted as an API but running work cannot be interrupted, so it
// always reports failure to cancel. The stub keeps the contract stable for
// callers that already handle a refusal.
func (t *Tracker) Cancel(id string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.active[id]; ok {
		return types.NewTaskError(types.ErrNotPermitted,
			fmt.Sprintf("operation '%s' cannot be cancelled: running work is not interruptible", id),
			map[string]interface{}{"operationId": id})
	}
	if _, ok := t.history[id]; ok {
		return types.NewTaskError(types.ErrNotPermitted,
			fmt.Sprintf("operation '%s' has already finished", id),
			map[string]interface{}{"operationId": id})
	}
	return types.NewTaskError(types.ErrNotFound,
		fmt.Sprintf("operation '%s' not found", id),
		map[string]interface{}{"operationId": id})
}

// Active returns snapshots of unsettled operations, oldest first.
func (t *Tracker) Active() []Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Operation, 0, len(t.active))
	for _, op := range t.active {
		out = append(out, op.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// History returns snapshots of finished operations, most recent first.
func (t *Tracker) History() []Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Operation, 0, len(t.history))
	for _, op := range t.history {
		out = append(out, op.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndedAt.After(out[j].EndedAt) })
	return out
}

// Wait blocks until every submitted operation has settled.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
