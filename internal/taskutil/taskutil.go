package taskutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/taskledger/models"
)

// NormalizePriorityString maps common inputs and typos to canonical priorities.
// Returns one of: high, medium, low. Empty input stays empty.
func NormalizePriorityString(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}

	switch s {
	case "high", "medium", "low":
		return s, nil
	case "hi", "h", "important", "urgent", "critical", "p1":
		return "high", nil
	case "med", "m", "normal", "regular", "p2", "p3":
		return "medium", nil
	case "lo", "l", "minor", "p4", "p5":
		return "low", nil
	}

	return "", fmt.Errorf("unknown priority '%s'", input)
}

// PriorityRank maps priorities to sortable integer weights (lower = more
// urgent), giving the fixed high < medium < low order used for ranking.
// Unknown priorities sort last.
func PriorityRank(p models.TaskPriority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// StatusToInt maps statuses to workflow order.
func StatusToInt(s models.TaskStatus) int {
	switch s {
	case models.StatusPending:
		return 1
	case models.StatusInProgress:
		return 2
	case models.StatusDone:
		return 3
	case models.StatusDeferred:
		return 4
	case models.StatusCancelled:
		return 5
	default:
		return 0
	}
}

// CompareIDs orders two task IDs numerically when both parse as integers
// ("3" sorts before "10"), falling back to plain string comparison otherwise.
func CompareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// SubtaskID renders the external dotted form for the index-th (1-based)
// subtask of parent.
func SubtaskID(parentID string, index int) string {
	return fmt.Sprintf("%s.%d", parentID, index)
}

// SplitSubtaskID splits a dotted subtask id into its parent id and 1-based
// index. ok is false when id has no dot or the index part is not a positive
// integer.
func SplitSubtaskID(id string) (parent string, index int, ok bool) {
	dot := strings.Index(id, ".")
	if dot <= 0 || dot == len(id)-1 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(id[dot+1:])
	if err != nil || idx < 1 {
		return "", 0, false
	}
	return id[:dot], idx, true
}
