package ops

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/taskledger/types"
)

// blockingWork returns a work function that signals start and then waits for
// release, so tests can observe the running state.
func blockingWork(started, release chan struct{}) WorkFunc {
	return func(ctx context.Context, args map[string]interface{}, rt Runtime) Result {
		close(started)
		<-release
		return Result{Success: true}
	}
}

func instantWork(res Result) WorkFunc {
	return func(ctx context.Context, args map[string]interface{}, rt Runtime) Result {
		return res
	}
}

func TestTrackerSubmitCompletes(t *testing.T) {
	tr := NewTracker(0, nil)

	id := tr.Submit(context.Background(), instantWork(Result{
		Success: true,
		Data:    map[string]interface{}{"imported": 3},
	}), nil, nil)
	require.NotEmpty(t, id)

	tr.Wait()

	op := tr.Status(id)
	assert.Equal(t, StatusCompleted, op.Status)
	assert.Equal(t, float64(100), op.Progress)
	assert.True(t, op.Done())
	assert.False(t, op.EndedAt.IsZero())
	assert.Zero(t, op.ETA)
	require.NotNil(t, op.Result)
	assert.True(t, op.Result.Success)

	assert.Empty(t, tr.Active())
	require.Len(t, tr.History(), 1)
}

func TestTrackerRunningState(t *testing.T) {
	tr := NewTracker(0, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	id := tr.Submit(context.Background(), blockingWork(started, release), nil, nil)
	<-started

	op := tr.Status(id)
	assert.Equal(t, StatusRunning, op.Status)
	assert.False(t, op.Done())

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)

	close(release)
	tr.Wait()

	assert.Equal(t, StatusCompleted, tr.Status(id).Status)
	assert.Empty(t, tr.Active())
}

func TestTrackerFailureKeepsError(t *testing.T) {
	tr := NewTracker(0, nil)

	id := tr.Submit(context.Background(), instantWork(Result{
		Error: &OpError{Code: string(types.ErrFileRead), Message: "no such file"},
	}), nil, nil)
	tr.Wait()

	op := tr.Status(id)
	assert.Equal(t, StatusFailed, op.Status)
	require.NotNil(t, op.Result)
	require.NotNil(t, op.Result.Error)
	assert.Equal(t, string(types.ErrFileRead), op.Result.Error.Code)
	assert.Equal(t, "no such file", op.Result.Error.Message)
}

func TestTrackerFailureWithoutErrorGetsSyntheticCode(t *testing.T) {
	tr := NewTracker(0, nil)

	id := tr.Submit(context.Background(), instantWork(Result{Success: false}), nil, nil)
	tr.Wait()

	op := tr.Status(id)
	assert.Equal(t, StatusFailed, op.Status)
	require.NotNil(t, op.Result.Error)
	assert.Equal(t, string(types.ErrOperationFailed), op.Result.Error.Code)
}

func TestTrackerPanicBecomesFailedResult(t *testing.T) {
	tr := NewTracker(0, nil)

	id := tr.Submit(context.Background(), func(ctx context.Context, args map[string]interface{}, rt Runtime) Result {
		panic("boom")
	}, nil, nil)
	tr.Wait()

	op := tr.Status(id)
	assert.Equal(t, StatusFailed, op.Status)
	require.NotNil(t, op.Result)
	require.NotNil(t, op.Result.Error)
	assert.Equal(t, string(types.ErrOperationFailed), op.Result.Error.Code)
	assert.Contains(t, op.Result.Error.Message, "boom")
}

func TestTrackerStatusUnknownIsNotFound(t *testing.T) {
	tr := NewTracker(0, nil)

	op := tr.Status("no-such-operation")
	assert.Equal(t, "no-such-operation", op.ID)
	assert.Equal(t, StatusNotFound, op.Status)
}

func TestTrackerCancelAlwaysRefuses(t *testing.T) {
	tr := NewTracker(0, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	id := tr.Submit(context.Background(), blockingWork(started, release), nil, nil)
	<-started

	// Running work cannot be interrupted.
	err := tr.Cancel(id)
	assert.True(t, types.HasCode(err, types.ErrNotPermitted), "got %v", err)

	close(release)
	tr.Wait()

	// Finished work cannot be cancelled either.
	err = tr.Cancel(id)
	assert.True(t, types.HasCode(err, types.ErrNotPermitted), "got %v", err)

	err = tr.Cancel("missing")
	assert.True(t, types.HasCode(err, types.ErrNotFound), "got %v", err)
}

func TestTrackerProgressWindowAndSnapshot(t *testing.T) {
	tr := NewTracker(0, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	id := tr.Submit(context.Background(), blockingWork(started, release), nil, nil)
	<-started

	base := time.Now().UTC()
	for i := 1; i <= 15; i++ {
		tr.ReportProgress(id, Progress{
			Percent: float64(i * 5),
			Message: fmt.Sprintf("step %d", i),
			At:      base.Add(time.Duration(i) * time.Second),
		})
	}

	op := tr.Status(id)
	assert.Equal(t, float64(75), op.Progress)
	assert.Equal(t, "step 15", op.Message)
	// Window keeps the last ten samples only.
	require.Len(t, op.Samples, 10)
	assert.Equal(t, float64(30), op.Samples[0].Percent)
	assert.Equal(t, float64(75), op.Samples[9].Percent)
	assert.Greater(t, op.ETA, time.Duration(0))

	close(release)
	tr.Wait()
}

func TestTrackerProgressClampsAndIgnoresUnknown(t *testing.T) {
	tr := NewTracker(0, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	id := tr.Submit(context.Background(), blockingWork(started, release), nil, nil)
	<-started

	tr.ReportProgress(id, Progress{Percent: -10})
	assert.Equal(t, float64(0), tr.Status(id).Progress)

	tr.ReportProgress(id, Progress{Percent: 250})
	assert.Equal(t, float64(100), tr.Status(id).Progress)

	// Reports for ids the tracker does not know are dropped silently.
	tr.ReportProgress("missing", Progress{Percent: 50})
	assert.Equal(t, StatusNotFound, tr.Status("missing").Status)

	close(release)
	tr.Wait()
}

func TestTrackerOnProgressCallback(t *testing.T) {
	tr := NewTracker(0, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	var seen []float64
	opts := &SubmitOptions{OnProgress: func(p Progress) {
		seen = append(seen, p.Percent)
		if p.Percent > 40 {
			panic("callback bug") // must not take the operation down
		}
	}}

	id := tr.Submit(context.Background(), blockingWork(started, release), nil, opts)
	<-started

	tr.ReportProgress(id, Progress{Percent: 25})
	tr.ReportProgress(id, Progress{Percent: 50})

	close(release)
	tr.Wait()

	assert.Equal(t, []float64{25, 50}, seen)
	assert.Equal(t, StatusCompleted, tr.Status(id).Status)
}

func TestTrackerRuntimeReport(t *testing.T) {
	tr := NewTracker(0, nil)

	id := tr.Submit(context.Background(), func(ctx context.Context, args map[string]interface{}, rt Runtime) Result {
		rt.Report(Progress{Percent: 10, Message: "warming up"})
		rt.Report(Progress{Percent: 90, Message: "almost there"})
		return Result{Success: true, Data: args["key"]}
	}, map[string]interface{}{"key": "value"}, nil)
	tr.Wait()

	op := tr.Status(id)
	assert.Equal(t, StatusCompleted, op.Status)
	assert.Equal(t, "value", op.Result.Data)
	require.Len(t, op.Samples, 2)
	assert.Equal(t, "almost there", op.Samples[1].Message)
}

func TestTrackerHistoryEvictionOrder(t *testing.T) {
	tr := NewTracker(3, nil)

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		id := tr.Submit(context.Background(), instantWork(Result{Success: true}), nil, nil)
		tr.Wait()
		ids = append(ids, id)
	}

	hist := tr.History()
	require.Len(t, hist, 3)
	// Most recent first; the very first operation was evicted.
	assert.Equal(t, ids[3], hist[0].ID)
	assert.Equal(t, ids[1], hist[2].ID)
	assert.Equal(t, StatusNotFound, tr.Status(ids[0]).Status)
	assert.Equal(t, StatusCompleted, tr.Status(ids[1]).Status)
}

func TestTrackerDefaultHistoryLimit(t *testing.T) {
	tr := NewTracker(0, nil)

	ids := make([]string, 0, 101)
	for i := 0; i < 101; i++ {
		id := tr.Submit(context.Background(), instantWork(Result{Success: true}), nil, nil)
		tr.Wait()
		ids = append(ids, id)
	}

	assert.Len(t, tr.History(), 100)
	assert.Equal(t, StatusNotFound, tr.Status(ids[0]).Status)
	assert.Equal(t, StatusCompleted, tr.Status(ids[100]).Status)
}

func TestEstimateRemaining(t *testing.T) {
	base := time.Now().UTC()

	// Half done after ten seconds leaves ten more.
	eta := estimateRemaining([]Progress{
		{Percent: 0, At: base},
		{Percent: 50, At: base.Add(10 * time.Second)},
	})
	assert.Equal(t, 10*time.Second, eta)

	// Fewer than two samples: no estimate.
	assert.Zero(t, estimateRemaining(nil))
	assert.Zero(t, estimateRemaining([]Progress{{Percent: 50, At: base}}))

	// Settled or not-started endpoints: no estimate.
	assert.Zero(t, estimateRemaining([]Progress{
		{Percent: 0, At: base},
		{Percent: 100, At: base.Add(time.Second)},
	}))
	assert.Zero(t, estimateRemaining([]Progress{
		{Percent: 10, At: base},
		{Percent: 0, At: base.Add(time.Second)},
	}))

	// Non-monotonic window: no estimate rather than a negative one.
	assert.Zero(t, estimateRemaining([]Progress{
		{Percent: 80, At: base},
		{Percent: 40, At: base.Add(time.Second)},
	}))
}
