package task

import (
	"fmt"

	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/store"
	"github.com/josephgoksu/taskledger/types"
)

// Graph maintains the depends-on edge set over the record store and forbids
// cycles. Writes are strict: both endpoints must exist. Read-time leniency
// toward missing dependency targets lives in the query engine, not here; the
// two policies are deliberately different.
type Graph struct {
	store store.RecordStore
}

// NewGraph creates a dependency graph manager over the given store.
func NewGraph(s store.RecordStore) *Graph {
	return &Graph{store: s}
}

// AddDependency records that taskID depends on depID and returns the updated
// task. It fails with NotFound when either id is absent and with
// CircularDependency when the new edge would close a cycle. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddDependency(taskID, depID string) (models.Task, error) {
	task, ok := g.store.Get(taskID)
	if !ok {
		return models.Task{}, types.NotFoundError(taskID)
	}
	if !g.store.Has(depID) {
		return models.Task{}, types.NotFoundError(depID)
	}

	if g.HasCircularDependency(taskID, depID) {
		return models.Task{}, types.NewTaskError(types.ErrCircularDependency,
			fmt.Sprintf("adding dependency '%s' -> '%s' would create a cycle", taskID, depID),
			map[string]interface{}{"taskId": taskID, "dependsOn": depID})
	}

	if !task.DependsOn(depID) {
		task.Dependencies = append(task.Dependencies, depID)
		if err := g.store.Update(taskID, task); err != nil {
			return models.Task{}, err
		}
	}
	return task, nil
}

// RemoveDependency removes the edge taskID -> depID. Removal is idempotent:
// a missing edge is not an error, only a missing task is.
func (g *Graph) RemoveDependency(taskID, depID string) (models.Task, error) {
	task, ok := g.store.Get(taskID)
	if !ok {
		return models.Task{}, types.NotFoundError(taskID)
	}

	if task.DependsOn(depID) {
		deps := make([]string, 0, len(task.Dependencies))
		for _, d := range task.Dependencies {
			if d != depID {
				deps = append(deps, d)
			}
		}
		task.Dependencies = deps
		if err := g.store.Update(taskID, task); err != nil {
			return models.Task{}, err
		}
	}
	return task, nil
}

// HasCircularDependency reports whether adding the edge taskID -> depID
// would create a cycle, without mutating anything. A self-edge always
// counts as a cycle. The check walks depth-first from depID through existing
// dependency edges looking for taskID; ids with no record contribute no
// edges.
func (g *Graph) HasCircularDependency(taskID, depID string) bool {
	if taskID == depID {
		return true
	}

	visited := make(map[string]bool)

	var reaches func(fromID string) bool
	reaches = func(fromID string) bool {
		if fromID == taskID {
			return true
		}
		if visited[fromID] {
			return false
		}
		visited[fromID] = true

		current, ok := g.store.Get(fromID)
		if !ok {
			return false
		}
		for _, next := range current.Dependencies {
			if reaches(next) {
				return true
			}
		}
		return false
	}

	return reaches(depID)
}

// FindDependentTasks returns every task whose dependency set contains taskID.
func (g *Graph) FindDependentTasks(taskID string) []models.Task {
	var dependents []models.Task
	for _, t := range g.store.GetAll() {
		if t.DependsOn(taskID) {
			dependents = append(dependents, t)
		}
	}
	return dependents
}

// RemoveFromAllDependencies strips taskID from every task's dependency set
// and returns the ids that were touched. Used before deleting a task.
func (g *Graph) RemoveFromAllDependencies(taskID string) ([]string, error) {
	var touched []string
	for _, t := range g.store.GetAll() {
		if !t.DependsOn(taskID) {
			continue
		}
		deps := make([]string, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			if d != taskID {
				deps = append(deps, d)
			}
		}
		t.Dependencies = deps
		if err := g.store.Update(t.ID, t); err != nil {
			return touched, err
		}
		touched = append(touched, t.ID)
	}
	return touched, nil
}
