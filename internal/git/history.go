package git

import (
	"errors"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"git.home.luguber.info/inful/chronicle/internal/models"
)

const (
	shortHashLen  = 7
	maxMessageLen = 72
)

// WalkLimits bounds a commit walk.
type WalkLimits struct {
	MaxCommits      int
	MaxChangedFiles int
}

// CommitsSince walks history from tip, newest first by committer time, and
// returns the commits at or after since. The walk stops at the first older
// commit or after MaxCommits commits.
//
// Changed files come from the diff against the first parent. A file is listed
// only on the newest commit of the walk that touched it, and no more than
// MaxChangedFiles distinct files are listed across the walk.
func (r *Repository) CommitsSince(tip plumbing.Hash, since time.Time, limits WalkLimits) ([]models.Commit, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: tip, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, wrapGitError(r.path, "failed to walk history", err)
	}
	defer iter.Close()

	seen := make(map[string]struct{})
	var commits []models.Commit

	err = iter.ForEach(func(c *object.Commit) error {
		if limits.MaxCommits > 0 && len(commits) >= limits.MaxCommits {
			return storer.ErrStop
		}
		when := c.Committer.When
		if when.Before(since) {
			return storer.ErrStop
		}

		files, err := r.changedFiles(c, seen, limits.MaxChangedFiles)
		if err != nil {
			return err
		}

		commits = append(commits, models.Commit{
			Hash:      shortHash(c.Hash),
			Message:   firstLine(c.Message),
			Author:    authorName(c),
			Timestamp: when.UTC(),
			Files:     files,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, wrapGitError(r.path, "failed to walk history", err)
	}
	return commits, nil
}

func (r *Repository) changedFiles(c *object.Commit, seen map[string]struct{}, limit int) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var paths []string
	if c.NumParents() == 0 {
		err = tree.Files().ForEach(func(f *object.File) error {
			paths = append(paths, f.Name)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return nil, err
		}
		changes, err := object.DiffTree(parentTree, tree)
		if err != nil {
			return nil, err
		}
		for _, ch := range changes {
			name := ch.To.Name
			if name == "" {
				name = ch.From.Name
			}
			paths = append(paths, name)
		}
	}

	var files []string
	for _, p := range paths {
		if limit > 0 && len(seen) >= limit {
			break
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	return files, nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:shortHashLen]
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	line = strings.TrimRight(line, "\r")
	if runes := []rune(line); len(runes) > maxMessageLen {
		return string(runes[:maxMessageLen])
	}
	return line
}

func authorName(c *object.Commit) string {
	if c.Author.Name == "" {
		return "Unknown"
	}
	return c.Author.Name
}

