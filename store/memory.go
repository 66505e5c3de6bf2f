package store

import (
	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
)

// MemoryStore is the default RecordStore: a plain map plus an insertion-order
// index so GetAll is deterministic. Records are cloned on the way in and out,
// so callers can never alias store-held state.
type MemoryStore struct {
	tasks map[string]models.Task
	order []string
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]models.Task),
	}
}

func (s *MemoryStore) Get(id string) (models.Task, bool) {
	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return task.Clone(), true
}

func (s *MemoryStore) GetAll() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, id := range s.order {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task.Clone())
		}
	}
	return out
}

func (s *MemoryStore) Add(task models.Task) error {
	if _, exists := s.tasks[task.ID]; exists {
		return types.AlreadyExistsError(task.ID)
	}
	s.tasks[task.ID] = task.Clone()
	s.order = append(s.order, task.ID)
	return nil
}

func (s *MemoryStore) Update(id string, task models.Task) error {
	if _, exists := s.tasks[id]; !exists {
		return types.NotFoundError(id)
	}
	s.tasks[id] = task.Clone()
	return nil
}

func (s *MemoryStore) Delete(id string) bool {
	if _, exists := s.tasks[id]; !exists {
		return false
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *MemoryStore) Has(id string) bool {
	_, ok := s.tasks[id]
	return ok
}

func (s *MemoryStore) Clear() {
	s.tasks = make(map[string]models.Task)
	s.order = nil
}

func (s *MemoryStore) Len() int {
	return len(s.tasks)
}
