package task

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
)

// Validator checks records before they enter the store and guards status
// transitions. It is an explicit seam so a stricter implementation can be
// injected without touching the service.
type Validator interface {
	// Validate normalizes and structurally validates a task in place.
	// Failures carry the ValidationError code.
	Validate(task *models.Task) error

	// ValidateStatusTransition reports whether a task may move from current
	// to next. The default matrix permits every transition; the hook exists
	// so a stricter matrix can be enforced without touching callers.
	ValidateStatusTransition(current, next models.TaskStatus) error
}

// DefaultValidator applies the standard rules: required title/description,
// defaulted status and priority, deduplicated dependencies, no
// self-reference, and recursive normalization of subtasks.
type DefaultValidator struct{}

// NewValidator returns the default validator.
func NewValidator() *DefaultValidator {
	return &DefaultValidator{}
}

func (v *DefaultValidator) Validate(task *models.Task) error {
	if task == nil {
		return types.NewTaskError(types.ErrValidation, "task must not be nil", nil)
	}
	return v.validateTree(task, task.ID)
}

func (v *DefaultValidator) validateTree(task *models.Task, path string) error {
	if strings.TrimSpace(task.Title) == "" {
		return types.NewTaskError(types.ErrValidation, "task title must not be empty",
			map[string]interface{}{"id": path})
	}
	if strings.TrimSpace(task.Description) == "" {
		return types.NewTaskError(types.ErrValidation, "task description must not be empty",
			map[string]interface{}{"id": path})
	}

	// Default absent fields rather than rejecting them.
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !models.IsValidStatus(task.Status) {
		return types.NewTaskError(types.ErrValidation,
			fmt.Sprintf("invalid status '%s'", task.Status),
			map[string]interface{}{"id": path, "status": string(task.Status)})
	}
	if !models.IsValidPriority(task.Priority) {
		return types.NewTaskError(types.ErrValidation,
			fmt.Sprintf("invalid priority '%s'", task.Priority),
			map[string]interface{}{"id": path, "priority": string(task.Priority)})
	}

	task.Dependencies = dedupeStrings(task.Dependencies)
	for _, dep := range task.Dependencies {
		if dep == task.ID && dep != "" {
			return types.NewTaskError(types.ErrValidation, "task cannot depend on itself",
				map[string]interface{}{"id": path})
		}
	}

	// Subtasks share the parent's shape; empty subtask ids default to their
	// 1-based position, matching how migrated payloads are rebuilt.
	for i := range task.Subtasks {
		st := &task.Subtasks[i]
		if st.ID == "" {
			st.ID = strconv.Itoa(i + 1)
		}
		if err := v.validateTree(st, path+"."+strconv.Itoa(i+1)); err != nil {
			return err
		}
	}

	if err := models.ValidateStruct(*task); err != nil {
		return types.WrapError(types.ErrValidation, "task failed structural validation", err)
	}
	return nil
}

// ValidateStatusTransition currently permits every transition between valid
// statuses. Reserved for a stricter matrix; failures would carry
// InvalidStatusTransition.
func (v *DefaultValidator) ValidateStatusTransition(current, next models.TaskStatus) error {
	if current == next {
		return nil
	}
	if !models.IsValidStatus(next) {
		return types.NewTaskError(types.ErrInvalidTransition,
			fmt.Sprintf("cannot transition from '%s' to unknown status '%s'", current, next),
			map[string]interface{}{"from": string(current), "to": string(next)})
	}
	return nil
}

// dedupeStrings removes duplicates preserving first occurrence. A nil slice
// normalizes to an empty one so persisted output is stable.
func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
