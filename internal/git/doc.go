// Package git reads local repositories with go-git: the default branch, local
// branches, commits since a cutoff with their changed files, and ahead/behind
// counts between branches.
//
// Nothing here writes to a repository.
package git
