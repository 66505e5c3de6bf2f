package cmd

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/josephgoksu/taskledger/models"
	"github.com/josephgoksu/taskledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetAddFlags clears the package-level flag targets so values from one
// Execute cannot leak into the next.
func resetAddFlags() {
	addID, addDescription, addPriority, addDetails, addTestStrategy, addDependsOn = "", "", "", "", "", ""
}

// readLedger loads the persisted collection for side-effect assertions.
func readLedger(t *testing.T, path string) models.TaskCollection {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var col models.TaskCollection
	require.NoError(t, json.Unmarshal(raw, &col))
	return col
}

// addTask runs the add command with explicit flags.
func addTask(t *testing.T, id, title, description string, extra ...string) error {
	t.Helper()
	resetAddFlags()
	args := []string{"add", title, "--id", id, "--description", description}
	args = append(args, extra...)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestAddCommand_Structure(t *testing.T) {
	if addCmd == nil {
		t.Fatal("addCmd should not be nil")
	}

	if addCmd.Use != "add <title>" {
		t.Errorf("Use mismatch: got %q, want %q", addCmd.Use, "add <title>")
	}

	expectedFlags := []string{
		"id",
		"description",
		"priority",
		"details",
		"test-strategy",
		"depends-on",
	}

	flags := addCmd.Flags()
	for _, flagName := range expectedFlags {
		if flags.Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist", flagName)
		}
	}

	if flags.ShorthandLookup("p") == nil {
		t.Error("expected short flag -p for --priority to exist")
	}
}

func TestAddCmd_CreatesTask(t *testing.T) {
	dataFile := useTempLedger(t)

	err := addTask(t, "1", "Write docs", "Cover the basics", "--priority", "p1")
	require.NoError(t, err)

	col := readLedger(t, dataFile)
	require.Len(t, col.Tasks, 1)
	created := col.Tasks[0]
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, "Write docs", created.Title)
	assert.Equal(t, "Cover the basics", created.Description)
	assert.Equal(t, models.StatusPending, created.Status)
	// The p1 alias normalizes to high.
	assert.Equal(t, models.PriorityHigh, created.Priority)
}

func TestAddCmd_DuplicateIDFails(t *testing.T) {
	useTempLedger(t)

	require.NoError(t, addTask(t, "1", "First", "one"))

	err := addTask(t, "1", "Second", "two")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrAlreadyExists), "got %v", err)
}

func TestAddCmd_DanglingDependencyAllowed(t *testing.T) {
	dataFile := useTempLedger(t)

	// References to ids that do not exist yet are allowed at creation; they
	// simply count as unmet.
	err := addTask(t, "1", "Blocked work", "waits on future tasks", "--depends-on", "7, 9")
	require.NoError(t, err)

	col := readLedger(t, dataFile)
	require.Len(t, col.Tasks, 1)
	assert.Equal(t, []string{"7", "9"}, col.Tasks[0].Dependencies)
}

func TestAddCmd_UnknownPriorityFails(t *testing.T) {
	useTempLedger(t)

	err := addTask(t, "1", "Task", "desc", "--priority", "sometime")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown priority")
}
