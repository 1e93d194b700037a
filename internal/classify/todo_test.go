package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

func TestParseTodos(t *testing.T) {
	content := "# List\n- [ ] Buy milk\n  - [x] Call Bob  \nplain line\n- [~] Write report\n- [X] not a todo\n-[ ] nope\n"

	todos := ParseTodos(content, "todo.md")
	require.Len(t, todos, 3)

	assert.Equal(t, models.Todo{Content: "Buy milk", Status: models.TodoPending, File: "todo.md", Line: 2}, todos[0])
	assert.Equal(t, "Call Bob", todos[1].Content)
	assert.Equal(t, models.TodoDone, todos[1].Status)
	assert.Equal(t, 3, todos[1].Line)
	assert.Equal(t, models.TodoInProgress, todos[2].Status)
	assert.Equal(t, 5, todos[2].Line)
}

func TestHashTodo(t *testing.T) {
	todo := models.Todo{Content: "Buy milk", Status: models.TodoPending, File: "todo.md", Line: 1}
	assert.Equal(t, "Pending:todo.md:1:Buy milk", HashTodo(todo))
	assert.Equal(t, "todo.md:1:Buy milk", ContentKey(todo))
}

func TestClassifyTodosBuyMilkScenario(t *testing.T) {
	first, rec := ClassifyTodos(nil, ParseTodos("- [ ] Buy milk\n", "todo.md"), now, now)
	require.Len(t, first, 1)
	assert.Equal(t, models.ChangeNew, first[0].Change)
	assert.Equal(t, models.TodoPending, first[0].Status)
	assert.Equal(t, []string{"Pending:todo.md:1:Buy milk"}, rec.ItemHashes)

	second, rec2 := ClassifyTodos(&rec, ParseTodos("- [x] Buy milk\n", "todo.md"), now, now)
	require.Len(t, second, 1)
	assert.Equal(t, models.ChangeModified, second[0].Change)
	assert.Equal(t, models.TodoDone, second[0].Status)
	require.NotNil(t, second[0].PreviousStatus)
	assert.Equal(t, models.TodoPending, *second[0].PreviousStatus)
	assert.True(t, second[0].WasCompleted())
	assert.Equal(t, []string{"Done:todo.md:1:Buy milk"}, rec2.ItemHashes)
	assert.Equal(t, []string{"Pending:todo.md:1:Buy milk"}, rec.ItemHashes, "prior record untouched")
}

func TestClassifyTodosIdempotent(t *testing.T) {
	content := "- [ ] one\n- [x] two\n- [~] three\n"
	_, rec := ClassifyTodos(nil, ParseTodos(content, "t.md"), now, now)

	again, _ := ClassifyTodos(&rec, ParseTodos(content, "t.md"), now, now)
	for _, todo := range again {
		assert.Equal(t, models.ChangeUnchanged, todo.Change)
	}
	assert.Empty(t, Reportable(again))
}

func TestClassifyTodosMovedLineIsNew(t *testing.T) {
	prior := &state.TodoRecord{ItemHashes: []string{"Pending:t.md:1:task"}}

	got, _ := ClassifyTodos(prior, ParseTodos("\n- [ ] task\n", "t.md"), now, now)
	require.Len(t, got, 1)
	assert.Equal(t, models.ChangeNew, got[0].Change)
	assert.Nil(t, got[0].PreviousStatus)
}

func TestClassifyTodosNoSubstringFalsePositive(t *testing.T) {
	// "t.md:1:ask" is a substring of the stored hash but names another file.
	prior := &state.TodoRecord{ItemHashes: []string{"Pending:xt.md:1:ask"}}

	got, _ := ClassifyTodos(prior, ParseTodos("- [x] ask\n", "t.md"), now, now)
	require.Len(t, got, 1)
	assert.Equal(t, models.ChangeNew, got[0].Change)
}

func TestClassifyTodosDeletedItemsDropOut(t *testing.T) {
	_, rec := ClassifyTodos(nil, ParseTodos("- [ ] a\n- [ ] b\n", "t.md"), now, now)
	require.Len(t, rec.ItemHashes, 2)

	_, rec2 := ClassifyTodos(&rec, ParseTodos("- [ ] a\n", "t.md"), now, now)
	assert.Equal(t, []string{"Pending:t.md:1:a"}, rec2.ItemHashes)
}

func TestClassifyTodosContentWithColons(t *testing.T) {
	_, rec := ClassifyTodos(nil, ParseTodos("- [ ] meet at 10:30: room 2\n", "t.md"), now, now)

	got, _ := ClassifyTodos(&rec, ParseTodos("- [~] meet at 10:30: room 2\n", "t.md"), now, now)
	require.Len(t, got, 1)
	assert.Equal(t, models.ChangeModified, got[0].Change)
	require.NotNil(t, got[0].PreviousStatus)
	assert.Equal(t, models.TodoPending, *got[0].PreviousStatus)
}
