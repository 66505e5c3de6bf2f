package ui

import (
	"strings"
	"testing"

	"github.com/josephgoksu/taskledger/models"
	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Title", "Status"},
		Rows: [][]string{
			{"1", "First task", "pending"},
			{"12", "Second task with longer title", "done"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])  // "ID" beats "12"
	assert.Equal(t, 29, widths[1]) // "Second task with longer title"
	assert.Equal(t, 7, widths[2])  // "pending" is longest
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Description"},
		Rows:     [][]string{{"1", "This is a very long description that should be truncated"}},
		MaxWidth: 20,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])  // "ID" is longest
	assert.Equal(t, 20, widths[1]) // Capped at MaxWidth
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Title"},
		Rows: [][]string{
			{"1", "Set up repo"},
			{"2", "Write parser"},
		},
	}

	output := table.Render()

	// Should contain headers and rows (with ANSI codes)
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Title")
	assert.Contains(t, output, "Set up repo")
	assert.Contains(t, output, "Write parser")
	// Should contain separator line
	assert.Contains(t, output, "─")
}

func TestTable_Render_Empty(t *testing.T) {
	table := &Table{
		Headers: []string{},
		Rows:    [][]string{},
	}

	output := table.Render()
	assert.Empty(t, output)
}

func TestTable_Render_Truncation(t *testing.T) {
	table := &Table{
		Headers:  []string{"Text"},
		Rows:     [][]string{{"This is way too long"}},
		MaxWidth: 10,
	}

	output := table.Render()

	// Should contain truncation indicator
	assert.Contains(t, output, "…")
}

func TestTable_Render_RowsHaveFewerColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Title", "Status"},
		Rows: [][]string{
			{"1", "Alice"}, // Missing Status column
		},
	}

	output := table.Render()

	// Should not panic and should render what's available
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Alice")
	// Count lines - should have header, separator, and 1 data row
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, 3, len(lines))
}

func TestTaskTable(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Set up repo", Status: models.StatusDone, Priority: models.PriorityHigh},
		{
			ID:           "2",
			Title:        "Write parser",
			Status:       models.StatusPending,
			Priority:     models.PriorityMedium,
			Dependencies: []string{"1"},
			Subtasks:     []models.Task{{ID: "2.1", Title: "Lexer"}},
		},
	}

	table := TaskTable(tasks)

	assert.Equal(t, []string{"ID", "Title", "Status", "Priority", "Deps", "Subs"}, table.Headers)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Set up repo", "done", "high", "-", "-"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Write parser", "pending", "medium", "1", "1"}, table.Rows[1])
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"abc", 5, "abc  "},
		{"hello", 5, "hello"},
		{"longer", 3, "longer"},
		{"", 3, "   "},
	}

	for _, tc := range tests {
		result := padRight(tc.input, tc.width)
		assert.Equal(t, tc.expected, result)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "  0%", Percent(0))
	assert.Equal(t, " 42%", Percent(42))
	assert.Equal(t, "100%", Percent(100))
	assert.Equal(t, "  0%", Percent(-5))
	assert.Equal(t, "100%", Percent(140))
}

func TestRenderStatusAndPriority(t *testing.T) {
	// Styled output still carries the raw value.
	assert.Contains(t, RenderStatus(models.StatusDone), "done")
	assert.Contains(t, RenderPriority(models.PriorityHigh), "high")
	// Unknown values pass through unstyled.
	assert.Equal(t, "weird", RenderStatus(models.TaskStatus("weird")))
	assert.Equal(t, "weird", RenderPriority(models.TaskPriority("weird")))
}
