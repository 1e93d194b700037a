package git

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/chronicle/internal/testutil/testutils"
)

var base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))
}

func TestDefaultBranchAndBranches(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, repo, dir, "a.txt", "a", "initial", base)
	helpers.CreateBranch(t, repo, "feature")
	helpers.Checkout(t, repo, "main")

	r, err := Open(dir)
	require.NoError(t, err)

	def, err := r.DefaultBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", def)

	branches, err := r.Branches()
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "feature", branches[0].Name)
	assert.Equal(t, "main", branches[1].Name)
	assert.Equal(t, branches[0].Hash, branches[1].Hash)
}

func TestDefaultBranchEmptyRepository(t *testing.T) {
	_, _, dir := helpers.SetupTestGitRepo(t)

	r, err := Open(dir)
	require.NoError(t, err)
	_, err = r.DefaultBranch()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))
}

func TestCommitsSince(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, repo, dir, "old.txt", "old", "old commit", base.Add(-48*time.Hour))
	helpers.CommitFile(t, repo, dir, "src/a.go", "a", "add a\n\nlong body", base.Add(time.Hour))
	tip := helpers.CommitFile(t, repo, dir, "src/a.go", "a2", "edit a again", base.Add(2*time.Hour))

	r, err := Open(dir)
	require.NoError(t, err)

	commits, err := r.CommitsSince(tip, base, WalkLimits{MaxCommits: 50, MaxChangedFiles: 80})
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, tip.String()[:7], commits[0].Hash)
	assert.Equal(t, "edit a again", commits[0].Message)
	assert.Equal(t, "add a", commits[1].Message)
	assert.Equal(t, "tester", commits[0].Author)
	assert.Equal(t, base.Add(2*time.Hour), commits[0].Timestamp)
	assert.Equal(t, []string{"src/a.go"}, commits[0].Files)
	assert.Empty(t, commits[1].Files, "file already listed on the newer commit")
}

func TestCommitsSinceLimits(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	var tip = helpers.CommitFile(t, repo, dir, "f0.txt", "0", "c0", base)
	for i := 1; i < 5; i++ {
		name := filepath.Join("files", strings.Repeat("x", i)+".txt")
		tip = helpers.CommitFile(t, repo, dir, name, "x", "c", base.Add(time.Duration(i)*time.Minute))
	}

	r, err := Open(dir)
	require.NoError(t, err)

	commits, err := r.CommitsSince(tip, base, WalkLimits{MaxCommits: 3, MaxChangedFiles: 2})
	require.NoError(t, err)
	require.Len(t, commits, 3)

	total := 0
	for _, c := range commits {
		total += len(c.Files)
	}
	assert.Equal(t, 2, total)
}

func TestCommitsSinceRootCommitListsTree(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	tip := helpers.CommitFile(t, repo, dir, "readme.md", "hi", "root", base)

	r, err := Open(dir)
	require.NoError(t, err)
	commits, err := r.CommitsSince(tip, base.Add(-time.Hour), WalkLimits{MaxCommits: 10, MaxChangedFiles: 10})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, []string{"readme.md"}, commits[0].Files)
}

func TestFirstLineTruncatesRunes(t *testing.T) {
	long := strings.Repeat("é", 100)
	assert.Len(t, []rune(firstLine(long)), 72)
	assert.Equal(t, "subject", firstLine("subject\r\nbody"))
}

func TestAheadBehind(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, repo, dir, "a.txt", "a", "A", base)
	helpers.CreateBranch(t, repo, "feature")
	helpers.CommitFile(t, repo, dir, "b.txt", "b", "B", base.Add(time.Minute))
	featureTip := helpers.CommitFile(t, repo, dir, "c.txt", "c", "C", base.Add(2*time.Minute))
	helpers.Checkout(t, repo, "main")
	mainTip := helpers.CommitFile(t, repo, dir, "d.txt", "d", "D", base.Add(3*time.Minute))

	r, err := Open(dir)
	require.NoError(t, err)

	ahead, behind, err := r.AheadBehind(featureTip, mainTip)
	require.NoError(t, err)
	assert.Equal(t, 2, ahead)
	assert.Equal(t, 1, behind)

	ahead, behind, err = r.AheadBehind(mainTip, mainTip)
	require.NoError(t, err)
	assert.Zero(t, ahead)
	assert.Zero(t, behind)
}
