package collect

import (
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/git"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
	"git.home.luguber.info/inful/chronicle/internal/models"
)

// GitObservation is the raw view of one repository in the run window.
type GitObservation struct {
	Path          string
	Name          string
	DefaultBranch string
	Branches      []models.Branch
}

// GitCollector walks local branches of repositories.
type GitCollector struct {
	limits git.WalkLimits
}

// NewGitCollector returns a collector bounded by the given limits.
func NewGitCollector(limits git.WalkLimits) *GitCollector {
	return &GitCollector{limits: limits}
}

// Collect observes every local branch of the repository at path. Ahead/behind
// is computed for branches with commits in the window, against the default
// branch. When the default branch has no local ref the counts stay at zero.
func (c *GitCollector) Collect(path string, since time.Time) (GitObservation, error) {
	repo, err := git.Open(path)
	if err != nil {
		return GitObservation{}, err
	}
	defaultBranch, err := repo.DefaultBranch()
	if err != nil {
		return GitObservation{}, err
	}
	refs, err := repo.Branches()
	if err != nil {
		return GitObservation{}, err
	}

	obs := GitObservation{
		Path:          path,
		Name:          filepath.Base(path),
		DefaultBranch: defaultBranch,
	}

	var defaultRef *git.BranchRef
	for i := range refs {
		if refs[i].Name == defaultBranch {
			defaultRef = &refs[i]
			break
		}
	}

	for _, ref := range refs {
		commits, err := repo.CommitsSince(ref.Hash, since, c.limits)
		if err != nil {
			return GitObservation{}, err
		}
		b := models.Branch{Name: ref.Name, Commits: commits}

		if len(commits) > 0 && ref.Name != defaultBranch {
			if defaultRef == nil {
				slog.Debug("Default branch has no local ref, skipping ahead/behind",
					logfields.Path(path), logfields.Branch(defaultBranch))
			} else {
				b.Ahead, b.Behind, err = repo.AheadBehind(ref.Hash, defaultRef.Hash)
				if err != nil {
					return GitObservation{}, err
				}
			}
		}
		obs.Branches = append(obs.Branches, b)
	}

	return obs, nil
}
