// Package ops tracks long-running background work: submission, status and
// progress polling, time-remaining estimation, and a bounded history of
// finished operations.
package ops

import (
	"context"
	"log/slog"
	"time"
)

// Status is the lifecycle state of a tracked operation. NotFound is a status,
// not an error, so pollers treat an evicted or unknown id like any other
// state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusNotFound  Status = "not-found"
)

// OpError is the failure half of a work result.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the discriminated union a work function settles with: Success
// with Data, or failure with Error.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *OpError    `json:"error,omitempty"`
}

// Progress is one reported sample. Percent runs 0-100; Step/TotalSteps are
// optional labels for step-wise work.
type Progress struct {
	Percent    float64   `json:"percent"`
	Message    string    `json:"message,omitempty"`
	Step       int       `json:"step,omitempty"`
	TotalSteps int       `json:"totalSteps,omitempty"`
	At         time.Time `json:"at"`
}

// Runtime is handed to a work function when it starts.
type Runtime struct {
	Logger *slog.Logger
	// Report publishes a progress sample. Delivery is fire-and-forget: a
	// failed delivery is logged and swallowed, never surfaced to the work.
	Report func(Progress)
	// Session carries caller-scoped values across the work function's life.
	Session map[string]interface{}
}

// WorkFunc is a unit of asynchronous work. A panic is caught by the tracker
// and mapped to a failed result with a synthetic error code.
type WorkFunc func(ctx context.Context, args map[string]interface{}, rt Runtime) Result

// Operation is a point-in-time snapshot of one tracked unit of work.
// EndedAt stays zero until the operation settles. ETA is zero when no
// estimate is available.
type Operation struct {
	ID         string        `json:"id"`
	Status     Status        `json:"status"`
	StartedAt  time.Time     `json:"startedAt"`
	EndedAt    time.Time     `json:"endedAt,omitzero"`
	Result     *Result       `json:"result,omitempty"`
	Progress   float64       `json:"progress"`
	Message    string        `json:"message,omitempty"`
	Step       int           `json:"step,omitempty"`
	TotalSteps int           `json:"totalSteps,omitempty"`
	ETA        time.Duration `json:"eta,omitempty"`
	Samples    []Progress    `json:"samples,omitempty"`
}

// Clone returns a copy safe to hand to callers while the tracker keeps
// mutating the original.
func (o *Operation) Clone() Operation {
	c := *o
	if o.Samples != nil {
		c.Samples = make([]Progress, len(o.Samples))
		copy(c.Samples, o.Samples)
	}
	if o.Result != nil {
		r := *o.Result
		c.Result = &r
	}
	return c
}

// Done reports whether the operation has settled.
func (o *Operation) Done() bool {
	return o.Status == StatusCompleted || o.Status == StatusFailed || o.Status == StatusCancelled
}
