package models

import "time"

// Commit is a single commit observed in the run window.
type Commit struct {
	Hash      string    `json:"hash"`    // short hash, 7 characters
	Message   string    `json:"message"` // first line, at most 72 runes
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Files     []string  `json:"files,omitempty"`
}

// Branch is a local branch with the commits observed since the cutoff, newest first.
type Branch struct {
	Name    string     `json:"name"`
	Change  ChangeKind `json:"change"`
	Ahead   int        `json:"ahead"`
	Behind  int        `json:"behind"`
	Commits []Commit   `json:"commits"`
}

// LastCommit returns the newest commit hash, or "" when the branch has no commits.
func (b Branch) LastCommit() string {
	if len(b.Commits) == 0 {
		return ""
	}
	return b.Commits[0].Hash
}

// Repository groups the reported branches of one repository source.
type Repository struct {
	Path          string   `json:"path"`
	Name          string   `json:"name"`
	DefaultBranch string   `json:"default_branch"`
	Branches      []Branch `json:"branches"`
}

// CommitCount is the total number of commits across all branches.
func (r Repository) CommitCount() int {
	n := 0
	for _, b := range r.Branches {
		n += len(b.Commits)
	}
	return n
}

// FilesChanged is the number of distinct files touched across all commits.
func (r Repository) FilesChanged() int {
	seen := make(map[string]struct{})
	for _, b := range r.Branches {
		for _, c := range b.Commits {
			for _, f := range c.Files {
				seen[f] = struct{}{}
			}
		}
	}
	return len(seen)
}

// NewBranchCount is the number of branches classified New.
func (r Repository) NewBranchCount() int {
	n := 0
	for _, b := range r.Branches {
		if b.Change == ChangeNew {
			n++
		}
	}
	return n
}
