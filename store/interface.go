package store

import "github.com/josephgoksu/taskledger/models"

// RecordStore defines the contract for pure keyed task storage.
// No validation, graph logic, or I/O lives behind it; every method is a
// straight dictionary operation. Implementations are owned by a single
// writer (the task service) and are not required to be goroutine-safe.
type RecordStore interface {
	// Get retrieves a record by its unique identifier. The boolean is false
	// when the id is absent.
	Get(id string) (models.Task, bool)

	// GetAll returns every record. The order is stable across calls as long
	// as the set of ids is unchanged.
	GetAll() []models.Task

	// Add inserts a new record. It fails with AlreadyExists when the id is
	// already present.
	Add(task models.Task) error

	// Update replaces the record stored under id. It fails with NotFound
	// when the id is absent.
	Update(id string, task models.Task) error

	// Delete removes a record and reports whether it was present.
	Delete(id string) bool

	// Has reports whether a record with the given id exists.
	Has(id string) bool

	// Clear drops every record.
	Clear()

	// Len returns the number of stored records.
	Len() int
}

// Gateway is the durable persistence boundary for the full record set.
// The engine only consumes this contract: saves are atomic from its
// perspective and keepBackups rotates older snapshots without the caller
// managing filenames.
type Gateway interface {
	// Save durably writes the collection to path, rotating up to keepBackups
	// older snapshots first. keepBackups <= 0 means the default of 5.
	// Failures surface as FileWriteError.
	Save(path string, collection *models.TaskCollection, keepBackups int) error

	// Load reads and decodes the collection at path. Failures, including
	// checksum mismatches, surface as FileReadError.
	Load(path string) (*models.TaskCollection, error)

	// ReadDocument reads the raw persisted document without imposing the
	// collection schema, for migration of older payloads.
	ReadDocument(path string) (map[string]interface{}, error)

	// Exists reports whether a collection file is present at path.
	Exists(path string) bool

	// FindDefaultPath returns the path used when the caller does not supply
	// one.
	FindDefaultPath() string
}
