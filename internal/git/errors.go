package git

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// classifyOpenError maps go-git open failures onto git errors with a stable message.
func classifyOpenError(path string, err error) error {
	msg := "failed to open repository"
	if errors.Is(err, git.ErrRepositoryNotExists) {
		msg = "not a git repository"
	}
	return ferrors.GitError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}

func classifyHeadError(path string, err error) error {
	msg := "failed to resolve HEAD"
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		msg = "HEAD does not point at a commit"
	}
	return ferrors.GitError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}

func wrapGitError(path, msg string, err error) error {
	return ferrors.GitError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
