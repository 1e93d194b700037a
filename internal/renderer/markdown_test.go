package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chronicle/internal/models"
)

var (
	day       = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	generated = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
)

func statusPtr(s models.TodoStatus) *models.TodoStatus { return &s }

func sampleChronicle() *models.Chronicle {
	return &models.Chronicle{
		Date:        day,
		Since:       generated.Add(-24 * time.Hour),
		GeneratedAt: generated,
		Repositories: []models.Repository{{
			Path:          "/src/app",
			Name:          "app",
			DefaultBranch: "main",
			Branches: []models.Branch{
				{
					Name:   "feature",
					Change: models.ChangeNew,
					Ahead:  2,
					Commits: []models.Commit{
						{Hash: "abc1234", Message: "Add parser", Author: "ana", Files: []string{"parser.go", "main.go"}},
						{Hash: "def5678", Message: "Fix bug", Author: "ana", Files: []string{"parser.go"}},
					},
				},
				{
					Name:    "main",
					Change:  models.ChangeModified,
					Commits: []models.Commit{{Hash: "0a1b2c3", Message: "Bump", Author: "bo"}},
				},
			},
		}},
		Todos: []models.Todo{
			{Content: "Buy milk", Status: models.TodoDone, Change: models.ChangeModified, PreviousStatus: statusPtr(models.TodoPending), File: "todo.md", Line: 1},
			{Content: "Plan trip", Status: models.TodoPending, Change: models.ChangeNew, File: "work.md", Line: 3},
			{Content: "Call bank", Status: models.TodoInProgress, Change: models.ChangeModified, PreviousStatus: statusPtr(models.TodoPending), File: "todo.md", Line: 2},
		},
		Notes: []models.Note{
			{Path: "ideas.md", Change: models.ChangeNew, ModifiedAt: generated.Add(-time.Hour), Excerpt: "First idea."},
		},
	}
}

func TestRenderHeaderAndSummary(t *testing.T) {
	out := New(Options{ShowAuthors: true, MaxChangedFiles: 80}).Render(sampleChronicle())

	assert.True(t, strings.HasPrefix(out, "# Chronicle: 2025-05-01\n\n"+
		"**Generated:** 2025-05-01 12:00:00 UTC\n"+
		"**Since:** 2025-04-30 12:00:00 UTC\n\n"+
		"## Summary\n\n"+
		"| Category | Count |\n"+
		"|----------|-------|\n"+
		"| Repositories | 1 |\n"+
		"| Commits | 3 |\n"+
		"| New Branches | 1 |\n"+
		"| New TODOs | 1 |\n"+
		"| Completed TODOs | 1 |\n"+
		"| Note Updates | 1 |\n\n"+
		"## Git Activity\n"), out)
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestRenderBranches(t *testing.T) {
	out := New(Options{ShowAuthors: true, MaxChangedFiles: 80}).Render(sampleChronicle())

	mainIdx := strings.Index(out, "#### `main`\n")
	featureIdx := strings.Index(out, "#### `feature` (ahead 2, behind 0) ← NEW\n")
	require.Positive(t, mainIdx)
	require.Positive(t, featureIdx)
	assert.Less(t, mainIdx, featureIdx, "default branch is listed first")

	assert.Contains(t, out, "- `abc1234` Add parser — *ana*  \n")
	assert.Contains(t, out, "<summary>Changed files (2)</summary>\n\n- `parser.go`\n- `main.go`\n")
	assert.NotContains(t, out, "#### `main` (ahead")
}

func TestRenderWithoutAuthors(t *testing.T) {
	out := New(Options{MaxChangedFiles: 80}).Render(sampleChronicle())
	assert.Contains(t, out, "- `abc1234` Add parser  \n")
	assert.NotContains(t, out, "*ana*")
}

func TestRenderChangedFilesCap(t *testing.T) {
	c := sampleChronicle()
	out := New(Options{MaxChangedFiles: 1}).Render(c)
	assert.Contains(t, out, "<summary>Changed files (2)</summary>\n\n- `parser.go`\n\n*... and 1 more files*\n")
	assert.NotContains(t, out, "- `main.go`")
}

func TestSortBranchesByActivity(t *testing.T) {
	got := sortBranches([]models.Branch{
		{Name: "a", Commits: make([]models.Commit, 1)},
		{Name: "b", Commits: make([]models.Commit, 3)},
		{Name: "main"},
		{Name: "c", Commits: make([]models.Commit, 2)},
	}, "main")
	names := make([]string, len(got))
	for i, b := range got {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"main", "b", "c", "a"}, names)
}

func TestRenderTodosGroupedByFile(t *testing.T) {
	out := New(Options{}).Render(sampleChronicle())

	assert.Contains(t, out, "## TODOs\n\n### `todo.md`\n\n"+
		"- [x] Buy milk ← DONE  \n"+
		"- [~] Call bank ← MODIFIED  \n"+
		"\n### `work.md`\n\n"+
		"- [ ] Plan trip ← NEW")
}

func TestRenderNotes(t *testing.T) {
	out := New(Options{}).Render(sampleChronicle())
	assert.True(t, strings.HasSuffix(out, "## Notes\n\n"+
		"### `ideas.md` ← new\n\n"+
		"*Modified: 2025-05-01 11:00:00 UTC*\n\n"+
		"First idea."), out)
}

func TestRenderOmitsEmptySections(t *testing.T) {
	out := New(Options{}).Render(&models.Chronicle{Date: day, Since: generated, GeneratedAt: generated})
	assert.NotContains(t, out, "## Git Activity")
	assert.NotContains(t, out, "## TODOs")
	assert.NotContains(t, out, "## Notes")
	assert.True(t, strings.HasSuffix(out, "| Note Updates | 0 |"))
}
