package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
)

const (
	defaultDataFile    = ".taskledger/tasks.json"
	defaultKeepBackups = 5
	formatJSON         = "json"
	formatYAML         = "yaml"
	formatTOML         = "toml"
	checksumSuffix     = ".checksum"
	backupSuffix       = ".bak"
)

// FileGateway is the default Gateway: one collection file per path, with a
// SHA256 checksum sidecar, atomic temp-file renames, and rotating .bak
// snapshots. The format follows the file extension (json, yaml, toml).
type FileGateway struct {
	fs          afero.Fs
	defaultPath string
	logger      *slog.Logger
}

// NewFileGateway creates a gateway over the given filesystem. defaultPath is
// returned by FindDefaultPath when non-empty; logger may be nil.
func NewFileGateway(fs afero.Fs, defaultPath string, logger *slog.Logger) *FileGateway {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileGateway{fs: fs, defaultPath: defaultPath, logger: logger}
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// formatForPath derives the encoding from the file extension, defaulting to
// JSON for unknown extensions.
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	default:
		return formatJSON
	}
}

func marshalCollection(collection *models.TaskCollection, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(collection, "", "  ")
	case formatYAML:
		return yaml.Marshal(collection)
	case formatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(collection); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported data format: %s", format)
	}
}

func unmarshalDocument(data []byte, format string, out interface{}) error {
	switch format {
	case formatJSON:
		return json.Unmarshal(data, out)
	case formatYAML:
		return yaml.Unmarshal(data, out)
	case formatTOML:
		return toml.Unmarshal(data, out)
	default:
		return fmt.Errorf("unsupported data format: %s", format)
	}
}

// Save writes the collection atomically: marshal, rotate backups, write a
// temp data file and temp checksum file, then rename both into place.
func (g *FileGateway) Save(path string, collection *models.TaskCollection, keepBackups int) error {
	if path == "" {
		path = g.FindDefaultPath()
	}
	if keepBackups <= 0 {
		keepBackups = defaultKeepBackups
	}

	data, err := marshalCollection(collection, formatForPath(path))
	if err != nil {
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to marshal collection for %s", path), err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := g.fs.MkdirAll(dir, 0o755); err != nil {
			return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}

	if err := g.rotateBackups(path, keepBackups); err != nil {
		return err
	}

	tempPath := path + ".tmp"
	checksumPath := path + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"

	defer func() { _ = g.fs.Remove(tempPath) }()
	defer func() { _ = g.fs.Remove(tempChecksumPath) }()

	if err := afero.WriteFile(g.fs, tempPath, data, 0o644); err != nil {
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to write temporary data file %s", tempPath), err)
	}
	if err := afero.WriteFile(g.fs, tempChecksumPath, []byte(calculateChecksum(data)), 0o644); err != nil {
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to write temporary checksum file %s", tempChecksumPath), err)
	}

	if err := g.fs.Rename(tempPath, path); err != nil {
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to rename temporary data file into %s", path), err)
	}
	if err := g.fs.Rename(tempChecksumPath, checksumPath); err != nil {
		// Data file landed but the checksum did not; the next save heals it,
		// but the caller must know the store may look corrupt until then.
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("data file %s updated but checksum file %s was not", path, checksumPath), err)
	}

	g.logger.Debug("collection saved", "path", path, "bytes", len(data), "tasks", len(collection.Tasks))
	return nil
}

// rotateBackups shifts path.bak.1..keep-1 up by one and copies the current
// file to path.bak.1. No-op when the target file does not exist yet.
func (g *FileGateway) rotateBackups(path string, keep int) error {
	exists, err := afero.Exists(g.fs, path)
	if err != nil || !exists {
		return nil
	}

	oldest := fmt.Sprintf("%s%s.%d", path, backupSuffix, keep)
	_ = g.fs.Remove(oldest)
	for i := keep - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s%s.%d", path, backupSuffix, i)
		to := fmt.Sprintf("%s%s.%d", path, backupSuffix, i+1)
		if ok, _ := afero.Exists(g.fs, from); ok {
			if err := g.fs.Rename(from, to); err != nil {
				return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to rotate backup %s", from), err)
			}
		}
	}

	current, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to read %s for backup", path), err)
	}
	first := fmt.Sprintf("%s%s.1", path, backupSuffix)
	if err := afero.WriteFile(g.fs, first, current, 0o644); err != nil {
		return types.WrapError(types.ErrFileWrite, fmt.Sprintf("failed to write backup file %s", first), err)
	}
	return nil
}

// readVerified reads the file at path and verifies it against the checksum
// sidecar when one exists. Files predating checksums load without one; the
// next save creates it.
func (g *FileGateway) readVerified(path string) ([]byte, error) {
	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return nil, types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to read data file %s", path), err)
	}

	checksumPath := path + checksumSuffix
	if ok, _ := afero.Exists(g.fs, checksumPath); ok {
		expectedBytes, readErr := afero.ReadFile(g.fs, checksumPath)
		if readErr != nil {
			return nil, types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to read checksum file %s", checksumPath), readErr)
		}
		expected := strings.TrimSpace(string(expectedBytes))
		actual := calculateChecksum(data)
		if actual != expected {
			return nil, types.NewTaskError(types.ErrFileRead,
				fmt.Sprintf("checksum mismatch for %s - file is corrupt or tampered", path),
				map[string]interface{}{"expected": expected, "actual": actual})
		}
	}
	return data, nil
}

// Load reads, verifies, and decodes the collection at path.
func (g *FileGateway) Load(path string) (*models.TaskCollection, error) {
	if path == "" {
		path = g.FindDefaultPath()
	}
	data, err := g.readVerified(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return models.NewCollection(""), nil
	}

	var collection models.TaskCollection
	if err := unmarshalDocument(data, formatForPath(path), &collection); err != nil {
		return nil, types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to decode collection from %s", path), err)
	}
	g.logger.Debug("collection loaded", "path", path, "tasks", len(collection.Tasks))
	return &collection, nil
}

// ReadDocument reads the raw persisted document as an untyped map, for
// payloads that may predate the current schema.
func (g *FileGateway) ReadDocument(path string) (map[string]interface{}, error) {
	if path == "" {
		path = g.FindDefaultPath()
	}
	data, err := g.readVerified(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}

	var doc map[string]interface{}
	if err := unmarshalDocument(data, formatForPath(path), &doc); err != nil {
		return nil, types.WrapError(types.ErrFileRead, fmt.Sprintf("failed to decode document from %s", path), err)
	}
	return doc, nil
}

// Exists reports whether a collection file is present at path.
func (g *FileGateway) Exists(path string) bool {
	if path == "" {
		path = g.FindDefaultPath()
	}
	ok, err := afero.Exists(g.fs, path)
	return err == nil && ok
}

// FindDefaultPath returns the configured default location, falling back to
// .taskledger/tasks.json under the working directory.
func (g *FileGateway) FindDefaultPath() string {
	if g.defaultPath != "" {
		return g.defaultPath
	}
	return defaultDataFile
}
