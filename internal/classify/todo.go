package classify

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

var todoPrefixes = []struct {
	prefix string
	status models.TodoStatus
}{
	{"- [ ] ", models.TodoPending},
	{"- [x] ", models.TodoDone},
	{"- [~] ", models.TodoInProgress},
}

// ParseTodos extracts checklist items from file content. Each line is trimmed
// before matching; line numbers are 1-based.
func ParseTodos(content, file string) []models.Todo {
	var todos []models.Todo
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, p := range todoPrefixes {
			if rest, found := strings.CutPrefix(trimmed, p.prefix); found {
				todos = append(todos, models.Todo{
					Content: rest,
					Status:  p.status,
					File:    file,
					Line:    i + 1,
				})
				break
			}
		}
	}
	return todos
}

// ContentKey identifies an item independent of its status.
func ContentKey(t models.Todo) string {
	return fmt.Sprintf("%s:%d:%s", t.File, t.Line, t.Content)
}

// HashTodo is the stored identity of an item including its status.
func HashTodo(t models.Todo) string {
	return string(t.Status) + ":" + ContentKey(t)
}

// splitHash separates a stored hash into its status token and content key.
func splitHash(h string) (status, key string, ok bool) {
	return strings.Cut(h, ":")
}

// ClassifyTodos classifies the items of one checklist file.
//
// An exact hash match is Unchanged. Otherwise a prior hash with the same
// file, line and content under another status makes the item Modified, with
// PreviousStatus taken from that hash. Anything else is New. A nil prior
// record makes every item New.
//
// All items are returned, Unchanged included; use Reportable to filter. The
// next record lists every current hash in item order.
func ClassifyTodos(prior *state.TodoRecord, items []models.Todo, lastModified, now time.Time) ([]models.Todo, state.TodoRecord) {
	exact := make(map[string]struct{})
	byKey := make(map[string]string)
	if prior != nil {
		for _, h := range prior.ItemHashes {
			exact[h] = struct{}{}
			if status, key, ok := splitHash(h); ok {
				if _, seen := byKey[key]; !seen {
					byKey[key] = status
				}
			}
		}
	}

	next := state.TodoRecord{
		LastChecked:  now,
		LastModified: lastModified,
		ItemHashes:   make([]string, 0, len(items)),
	}
	out := make([]models.Todo, 0, len(items))

	for _, t := range items {
		hash := HashTodo(t)
		next.ItemHashes = append(next.ItemHashes, hash)

		t.PreviousStatus = nil
		switch {
		case prior == nil:
			t.Change = models.ChangeNew
		case hasKey(exact, hash):
			t.Change = models.ChangeUnchanged
		default:
			if token, found := byKey[ContentKey(t)]; found {
				t.Change = models.ChangeModified
				if prev, valid := models.ParseTodoStatus(token); valid {
					t.PreviousStatus = &prev
				}
			} else {
				t.Change = models.ChangeNew
			}
		}
		out = append(out, t)
	}

	return out, next
}

func hasKey(set map[string]struct{}, k string) bool {
	_, ok := set[k]
	return ok
}

// Reportable returns the New and Modified items in their original order.
func Reportable(todos []models.Todo) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.Change.Reportable() {
			out = append(out, t)
		}
	}
	return out
}
