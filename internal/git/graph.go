package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// AheadBehind counts the commits reachable from branch but not from base
// (ahead) and from base but not from branch (behind).
func (r *Repository) AheadBehind(branch, base plumbing.Hash) (ahead, behind int, err error) {
	if branch == base {
		return 0, 0, nil
	}
	fromBranch, err := r.reachable(branch)
	if err != nil {
		return 0, 0, wrapGitError(r.path, "failed to compute ahead/behind", err)
	}
	fromBase, err := r.reachable(base)
	if err != nil {
		return 0, 0, wrapGitError(r.path, "failed to compute ahead/behind", err)
	}

	for h := range fromBranch {
		if _, ok := fromBase[h]; !ok {
			ahead++
		}
	}
	for h := range fromBase {
		if _, ok := fromBranch[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

// reachable returns every commit reachable from tip, tip included.
func (r *Repository) reachable(tip plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{tip}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return seen, nil
}
