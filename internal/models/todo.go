package models

// TodoStatus is the checkbox state of a checklist line.
type TodoStatus string

const (
	TodoPending    TodoStatus = "Pending"    // - [ ]
	TodoDone       TodoStatus = "Done"       // - [x]
	TodoInProgress TodoStatus = "InProgress" // - [~]
)

// ParseTodoStatus maps a status token as stored in item hashes back to a status.
func ParseTodoStatus(s string) (TodoStatus, bool) {
	switch TodoStatus(s) {
	case TodoPending, TodoDone, TodoInProgress:
		return TodoStatus(s), true
	default:
		return "", false
	}
}

// Marker returns the checkbox as written in Markdown.
func (s TodoStatus) Marker() string {
	switch s {
	case TodoDone:
		return "[x]"
	case TodoInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Todo is one checklist line item.
type Todo struct {
	Content        string      `json:"content"`
	Status         TodoStatus  `json:"status"`
	Change         ChangeKind  `json:"change"`
	PreviousStatus *TodoStatus `json:"previous_status,omitempty"`
	File           string      `json:"file"`
	Line           int         `json:"line"` // 1-based
}

// WasCompleted reports whether the item moved to Done in this run.
func (t Todo) WasCompleted() bool {
	return t.Status == TodoDone && t.PreviousStatus != nil && *t.PreviousStatus != TodoDone
}
