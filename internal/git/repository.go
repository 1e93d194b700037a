package git

import (
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FallbackDefaultBranch names the default branch when HEAD is detached.
const FallbackDefaultBranch = "main"

// Repository is a read-only handle on a local repository.
type Repository struct {
	path string
	repo *git.Repository
}

// BranchRef is a local branch and the commit it points at.
type BranchRef struct {
	Name string
	Hash plumbing.Hash
}

// Open opens the repository rooted at path. Parent directories are not searched.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the directory the repository was opened from.
func (r *Repository) Path() string { return r.path }

// DefaultBranch returns the short name of the branch HEAD points at, or
// FallbackDefaultBranch when HEAD is detached.
func (r *Repository) DefaultBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", classifyHeadError(r.path, err)
	}
	if !head.Name().IsBranch() {
		return FallbackDefaultBranch, nil
	}
	return head.Name().Short(), nil
}

// Branches lists local branches ordered by name.
func (r *Repository) Branches() ([]BranchRef, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, wrapGitError(r.path, "failed to list branches", err)
	}
	defer iter.Close()

	var out []BranchRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		out = append(out, BranchRef{Name: ref.Name().Short(), Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, wrapGitError(r.path, "failed to list branches", err)
	}

	slices.SortFunc(out, func(a, b BranchRef) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
