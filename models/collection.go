package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is the current persisted-collection schema. Loads always
// normalize the collection to this version (see the migration service).
const SchemaVersion = "1.0.0"

// CollectionMetadata describes the aggregate, not any single task.
type CollectionMetadata struct {
	Version     string    `json:"version" yaml:"version" toml:"version" validate:"required"`
	Created     time.Time `json:"created" yaml:"created" toml:"created"`
	Updated     time.Time `json:"updated" yaml:"updated" toml:"updated"`
	ProjectName string    `json:"projectName" yaml:"projectName" toml:"projectName"`
}

// TaskCollection is the single persisted aggregate: the full task set plus
// collection metadata.
type TaskCollection struct {
	Tasks    []Task             `json:"tasks" yaml:"tasks" toml:"tasks"`
	Metadata CollectionMetadata `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// NewCollection builds an empty collection stamped with the current schema.
func NewCollection(projectName string) *TaskCollection {
	now := time.Now().UTC()
	return &TaskCollection{
		Tasks: []Task{},
		Metadata: CollectionMetadata{
			Version:     SchemaVersion,
			Created:     now,
			Updated:     now,
			ProjectName: projectName,
		},
	}
}

// Clone returns a deep copy of the collection.
func (c *TaskCollection) Clone() *TaskCollection {
	out := &TaskCollection{
		Tasks:    make([]Task, len(c.Tasks)),
		Metadata: c.Metadata,
	}
	for i, t := range c.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// CollectionFromPayload decodes an untyped document (as produced by
// Gateway.ReadDocument) into a typed collection.
func CollectionFromPayload(payload map[string]interface{}) (*TaskCollection, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	var c TaskCollection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode payload into collection: %w", err)
	}
	return &c, nil
}
