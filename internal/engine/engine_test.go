package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
	helpers "git.home.luguber.info/inful/chronicle/internal/testutil/testutils"
)

var (
	cutoff = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	clock  = func() time.Time { return cutoff.Add(12 * time.Hour) }
	limits = Limits{MaxCommits: 50, MaxChangedFiles: 80, MaxNoteFiles: 30, MaxCharsPerItem: 2000}
)

func TestRunDefaultBranchScenario(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, repo, dir, "a.txt", "a", "first", cutoff.Add(time.Hour))

	e := New(Sources{Repos: []string{dir}}, limits, WithClock(clock))
	res, err := e.Run(context.Background(), state.New(), Options{Since: cutoff})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Chronicle.Repositories, 1)
	r := res.Chronicle.Repositories[0]
	assert.Equal(t, "main", r.DefaultBranch)
	require.Len(t, r.Branches, 1)
	assert.Equal(t, "main", r.Branches[0].Name)
	assert.Zero(t, r.Branches[0].Ahead)
	assert.Zero(t, r.Branches[0].Behind)

	rec, ok := state.Lookup[state.GitRecord](res.State, dir)
	require.True(t, ok)
	assert.Equal(t, r.Branches[0].LastCommit(), rec.Branches["main"].LastCommit)

	again, err := e.Run(context.Background(), res.State, Options{Since: cutoff})
	require.NoError(t, err)
	assert.Empty(t, again.Chronicle.Repositories, "no new commits on second run")
}

func TestRunTodosScenario(t *testing.T) {
	dir := t.TempDir()
	path := helpers.WriteFile(t, dir, "todo.md", "- [ ] Buy milk\n", cutoff.Add(time.Hour))

	e := New(Sources{TodoFiles: []string{path}}, limits, WithClock(clock))
	first, err := e.Run(context.Background(), state.New(), Options{Since: cutoff})
	require.NoError(t, err)
	require.Len(t, first.Chronicle.Todos, 1)
	assert.Equal(t, models.ChangeNew, first.Chronicle.Todos[0].Change)

	again, err := e.Run(context.Background(), first.State, Options{Since: cutoff})
	require.NoError(t, err)
	assert.Empty(t, again.Chronicle.Todos)

	helpers.WriteFile(t, dir, "todo.md", "- [x] Buy milk\n", cutoff.Add(2*time.Hour))
	second, err := e.Run(context.Background(), again.State, Options{Since: cutoff})
	require.NoError(t, err)
	require.Len(t, second.Chronicle.Todos, 1)
	todo := second.Chronicle.Todos[0]
	assert.Equal(t, models.ChangeModified, todo.Change)
	assert.Equal(t, models.TodoDone, todo.Status)
	require.NotNil(t, todo.PreviousStatus)
	assert.Equal(t, models.TodoPending, *todo.PreviousStatus)
	assert.Equal(t, 1, second.Chronicle.Stats().TodosCompleted)
}

func TestRunNotesLimitAcrossDirectories(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	helpers.WriteFile(t, a, "one.md", "one", cutoff.Add(1*time.Hour))
	helpers.WriteFile(t, a, "two.md", "two", cutoff.Add(3*time.Hour))
	helpers.WriteFile(t, b, "three.md", "three", cutoff.Add(2*time.Hour))

	l := limits
	l.MaxNoteFiles = 2
	e := New(Sources{NotesDirs: []string{a, b}}, l, WithClock(clock))
	res, err := e.Run(context.Background(), state.New(), Options{Since: cutoff})
	require.NoError(t, err)

	require.Len(t, res.Chronicle.Notes, 2)
	assert.Equal(t, filepath.Join(a, "two.md"), res.Chronicle.Notes[0].Path)
	assert.Equal(t, filepath.Join(b, "three.md"), res.Chronicle.Notes[1].Path)

	recA, ok := state.Lookup[state.NotesRecord](res.State, a)
	require.True(t, ok)
	assert.Len(t, recA.Files, 2, "state keeps every observed file")

	again, err := e.Run(context.Background(), res.State, Options{Since: cutoff})
	require.NoError(t, err)
	for _, n := range again.Chronicle.Notes {
		assert.Equal(t, models.ChangeModified, n.Change)
	}
}

func TestRunSourceFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	good := helpers.WriteFile(t, dir, "todo.md", "- [ ] task\n", cutoff.Add(time.Hour))
	missing := filepath.Join(dir, "missing.md")
	notRepo := t.TempDir()

	prior := state.New()
	prior.Put(missing, state.TodoRecord{ItemHashes: []string{"Pending:" + missing + ":1:x"}})

	e := New(Sources{Repos: []string{notRepo}, TodoFiles: []string{missing, good}}, limits, WithClock(clock))
	res, err := e.Run(context.Background(), prior, Options{Since: cutoff})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, KindGit, res.Warnings[0].Kind)
	assert.Equal(t, missing, res.Warnings[1].Source)
	assert.Len(t, res.Chronicle.Todos, 1)

	_, ok := state.Lookup[state.TodoRecord](res.State, good)
	assert.True(t, ok)
	kept, ok := state.Lookup[state.TodoRecord](res.State, missing)
	require.True(t, ok, "failed source keeps prior record")
	assert.Len(t, kept.ItemHashes, 1)
}

func TestRunOnlySelectedKinds(t *testing.T) {
	dir := t.TempDir()
	todo := helpers.WriteFile(t, t.TempDir(), "todo.md", "- [ ] task\n", cutoff.Add(time.Hour))
	helpers.WriteFile(t, dir, "note.md", "note", cutoff.Add(time.Hour))

	e := New(Sources{TodoFiles: []string{todo}, NotesDirs: []string{dir}}, limits, WithClock(clock))
	res, err := e.Run(context.Background(), state.New(), Options{Since: cutoff, Only: []Kind{KindNotes}})
	require.NoError(t, err)
	assert.Empty(t, res.Chronicle.Todos)
	assert.Len(t, res.Chronicle.Notes, 1)
	_, ok := res.State.Source(todo)
	assert.False(t, ok)
}

func TestRunRejectsSharedSourcePath(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, repo, dir, "README.md", "hello", "first", cutoff.Add(time.Hour))

	e := New(Sources{Repos: []string{dir}, NotesDirs: []string{dir}}, limits, WithClock(clock))
	res, err := e.Run(context.Background(), state.New(), Options{Since: cutoff})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), dir)
	assert.Empty(t, res.State.Sources)
}

func TestSourcesValidate(t *testing.T) {
	tests := map[string]struct {
		sources Sources
		wantErr bool
	}{
		"distinct":          {Sources{Repos: []string{"/r"}, TodoFiles: []string{"/t.md"}, NotesDirs: []string{"/n"}}, false},
		"repo and notes":    {Sources{Repos: []string{"/r"}, NotesDirs: []string{"/r"}}, true},
		"todo and notes":    {Sources{TodoFiles: []string{"/x"}, NotesDirs: []string{"/x"}}, true},
		"repeated notes":    {Sources{NotesDirs: []string{"/n", "/n"}}, true},
		"no sources at all": {Sources{}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.sources.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunDoesNotMutatePrior(t *testing.T) {
	dir := t.TempDir()
	path := helpers.WriteFile(t, dir, "todo.md", "- [x] done\n", cutoff.Add(time.Hour))
	prior := state.New()
	prior.Put(path, state.TodoRecord{ItemHashes: []string{"Pending:" + path + ":1:done"}})

	e := New(Sources{TodoFiles: []string{path}}, limits, WithClock(clock))
	_, err := e.Run(context.Background(), prior, Options{Since: cutoff})
	require.NoError(t, err)

	rec, _ := state.Lookup[state.TodoRecord](prior, path)
	assert.Equal(t, []string{"Pending:" + path + ":1:done"}, rec.ItemHashes)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(Sources{NotesDirs: []string{os.TempDir()}}, limits, WithClock(clock))
	_, err := e.Run(ctx, state.New(), Options{Since: cutoff})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds("")
	require.NoError(t, err)
	assert.Equal(t, AllKinds, kinds)

	kinds, err = ParseKinds("Git, notes")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindGit, KindNotes}, kinds)

	_, err = ParseKinds("git,svn")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
