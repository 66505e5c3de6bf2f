package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephgoksu/taskledger/internal/taskutil"
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/store"
	"github.com/josephgoksu/taskledger/types"
)

// Filter selects tasks by conjunction: every non-zero criterion must match.
type Filter struct {
	// Status and Priority match exactly when non-empty.
	Status   string
	Priority string
	// TitleContains and DescContains are case-insensitive substring matches.
	TitleContains string
	DescContains  string
	// DependsOn keeps tasks whose dependency set contains the given id.
	DependsOn string
	// HasDependencies / HasSubtasks assert presence (true) or absence (false)
	// when set.
	HasDependencies *bool
	HasSubtasks     *bool
}

// Sort orders tasks by one field. Valid fields: id, title, description,
// status, priority, dependencies. Priority uses the fixed high < medium < low
// rank; id is numeric-aware; dependencies compares the dependency count.
type Sort struct {
	Field string
	Desc  bool
}

// Page slices the filtered-and-sorted sequence. A nil Page (or Size <= 0)
// yields a single page holding every result.
type Page struct {
	Number int
	Size   int
}

// QueryOptions composes filter, sort, and pagination.
type QueryOptions struct {
	Filter Filter
	Sort   *Sort
	Page   *Page
}

// QueryResult carries one page of results plus pagination totals.
type QueryResult struct {
	Tasks      []models.Task `json:"tasks"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// NextOptions narrows the next-task search.
type NextOptions struct {
	// Priority keeps only tasks of that priority when non-empty.
	Priority string
	// Contains is a case-insensitive substring match over title and
	// description.
	Contains string
}

// Query is the read side of the engine: filtering, sorting, pagination,
// readiness, and next-task ranking over the record store.
type Query struct {
	store store.RecordStore
}

// NewQuery creates a query engine over the given store.
func NewQuery(s store.RecordStore) *Query {
	return &Query{store: s}
}

func matchesFilter(t models.Task, f Filter) bool {
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	if f.DescContains != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.DescContains)) {
		return false
	}
	if f.DependsOn != "" && !t.DependsOn(f.DependsOn) {
		return false
	}
	if f.HasDependencies != nil && (len(t.Dependencies) > 0) != *f.HasDependencies {
		return false
	}
	if f.HasSubtasks != nil && (len(t.Subtasks) > 0) != *f.HasSubtasks {
		return false
	}
	return true
}

// Apply returns every task matching the filter, in store order.
func (q *Query) Apply(f Filter) []models.Task {
	var out []models.Task
	for _, t := range q.store.GetAll() {
		if matchesFilter(t, f) {
			out = append(out, t)
		}
	}
	return out
}

// Run composes filter, sort, and pagination.
func (q *Query) Run(opts QueryOptions) (QueryResult, error) {
	tasks := q.Apply(opts.Filter)

	if opts.Sort != nil {
		if err := sortTasks(tasks, *opts.Sort); err != nil {
			return QueryResult{}, err
		}
	}

	total := len(tasks)
	if opts.Page == nil || opts.Page.Size <= 0 {
		return QueryResult{
			Tasks:      tasks,
			Total:      total,
			Page:       1,
			PageSize:   total,
			TotalPages: 1,
		}, nil
	}

	number := opts.Page.Number
	if number < 1 {
		number = 1
	}
	size := opts.Page.Size
	totalPages := (total + size - 1) / size

	start := (number - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return QueryResult{
		Tasks:      tasks[start:end],
		Total:      total,
		Page:       number,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

func sortTasks(tasks []models.Task, s Sort) error {
	var less func(a, b models.Task) bool

	switch s.Field {
	case "", "id":
		less = func(a, b models.Task) bool { return taskutil.CompareIDs(a.ID, b.ID) < 0 }
	case "title":
		less = func(a, b models.Task) bool { return strings.Compare(a.Title, b.Title) < 0 }
	case "description":
		less = func(a, b models.Task) bool { return strings.Compare(a.Description, b.Description) < 0 }
	case "status":
		less = func(a, b models.Task) bool { return strings.Compare(string(a.Status), string(b.Status)) < 0 }
	case "priority":
		less = func(a, b models.Task) bool { return taskutil.PriorityRank(a.Priority) < taskutil.PriorityRank(b.Priority) }
	case "dependencies":
		less = func(a, b models.Task) bool { return len(a.Dependencies) < len(b.Dependencies) }
	default:
		return types.NewTaskError(types.ErrValidation,
			fmt.Sprintf("unknown sort field '%s'", s.Field),
			map[string]interface{}{"field": s.Field})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if s.Desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
	return nil
}

// depsSatisfied reports whether every resolvable dependency of t is done.
// Dependency ids that resolve to nothing are treated as satisfied; this
// read-time leniency is intentional and must not be unified with the strict
// existence check in Graph.AddDependency.
func (q *Query) depsSatisfied(t models.Task) bool {
	for _, depID := range t.Dependencies {
		dep, ok := q.TaskByID(depID)
		if !ok {
			continue
		}
		if dep.Status != models.StatusDone {
			return false
		}
	}
	return true
}

// ReadyTasks returns the pending tasks whose dependencies are all done.
func (q *Query) ReadyTasks() []models.Task {
	var ready []models.Task
	for _, t := range q.store.GetAll() {
		if t.Status != models.StatusPending {
			continue
		}
		if q.depsSatisfied(t) {
			ready = append(ready, t)
		}
	}
	return ready
}

// FindNextTask picks the best actionable task: non-done, matching the
// optional filters, with all dependencies done; ranked by priority then
// numeric id ascending. The boolean is false when no candidate remains.
// The total order is deterministic so repeated calls agree.
func (q *Query) FindNextTask(opts *NextOptions) (models.Task, bool) {
	var best models.Task
	found := false

	for _, t := range q.store.GetAll() {
		if t.Status == models.StatusDone {
			continue
		}
		if opts != nil {
			if opts.Priority != "" && string(t.Priority) != opts.Priority {
				continue
			}
			if opts.Contains != "" {
				needle := strings.ToLower(opts.Contains)
				if !strings.Contains(strings.ToLower(t.Title), needle) &&
					!strings.Contains(strings.ToLower(t.Description), needle) {
					continue
				}
			}
		}
		if !q.depsSatisfied(t) {
			continue
		}

		if !found {
			best = t
			found = true
			continue
		}
		ra, rb := taskutil.PriorityRank(t.Priority), taskutil.PriorityRank(best.Priority)
		if ra < rb || (ra == rb && taskutil.CompareIDs(t.ID, best.ID) < 0) {
			best = t
		}
	}

	return best, found
}

// TaskByID resolves a plain id or the dotted subtask form
// "<parent>.<1-based-index>". Literal ids win over dotted interpretation.
// The returned subtask carries its rendered dotted id. Missing parents,
// non-numeric indexes, and out-of-range indexes all yield absent.
func (q *Query) TaskByID(id string) (models.Task, bool) {
	if t, ok := q.store.Get(id); ok {
		return t, true
	}

	parentID, index, ok := taskutil.SplitSubtaskID(id)
	if !ok {
		return models.Task{}, false
	}
	parent, ok := q.store.Get(parentID)
	if !ok {
		return models.Task{}, false
	}
	if index > len(parent.Subtasks) {
		return models.Task{}, false
	}

	sub := parent.Subtasks[index-1].Clone()
	sub.ID = taskutil.SubtaskID(parentID, index)
	return sub, true
}
