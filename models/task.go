package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusDeferred   TaskStatus = "deferred"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// AllStatuses lists every valid status, in rank order for display.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusDone, StatusDeferred, StatusCancelled}
}

// AllPriorities lists every valid priority from most to least urgent.
func AllPriorities() []TaskPriority {
	return []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValidStatus reports whether s is one of the known statuses.
func IsValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusDeferred, StatusCancelled:
		return true
	}
	return false
}

// IsValidPriority reports whether p is one of the known priorities.
func IsValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents a unit of work. IDs are opaque text, unique within a
// collection; numeric-looking IDs are common but never required. Subtasks are
// nested child records sharing the parent's shape and are addressed
// externally as "<parentId>.<1-based-index>"; the dotted form is computed at
// presentation time and never stored.
type Task struct {
	ID           string                 `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title        string                 `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description  string                 `json:"description" yaml:"description" toml:"description" validate:"required"`
	Status       TaskStatus             `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending in-progress done deferred cancelled"`
	Priority     TaskPriority           `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=high medium low"`
	Dependencies []string               `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Details      string                 `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`
	TestStrategy string                 `json:"testStrategy,omitempty" yaml:"testStrategy,omitempty" toml:"testStrategy,omitempty"`
	Subtasks     []Task                 `json:"subtasks,omitempty" yaml:"subtasks,omitempty" toml:"subtasks,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Clone returns a deep copy of the task so callers can mutate the result
// without touching store-held state.
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = make([]string, len(t.Dependencies))
		copy(c.Dependencies, t.Dependencies)
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]Task, len(t.Subtasks))
		for i, st := range t.Subtasks {
			c.Subtasks[i] = st.Clone()
		}
	}
	if t.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(t.Metadata))
		for k, v := range t.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// DependsOn reports whether the task's dependency set contains id.
func (t Task) DependsOn(id string) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask creates a task with defaulted status, priority and initialized
// slices. The ID is taken as given; the caller owns uniqueness.
func NewTask(id, title, description string) Task {
	return Task{
		ID:           id,
		Title:        title,
		Description:  description,
		Status:       StatusPending,
		Priority:     PriorityMedium,
		Dependencies: []string{},
	}
}
