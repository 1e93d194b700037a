package engine

import (
	"slices"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/foundation/normalization"
)

// Kind selects one family of sources.
type Kind string

const (
	KindGit   Kind = "git"
	KindTodos Kind = "todos"
	KindNotes Kind = "notes"
)

// AllKinds lists the kinds in processing order.
var AllKinds = []Kind{KindGit, KindTodos, KindNotes}

var kindNormalizer = normalization.NewNormalizer(map[string]Kind{
	"git":   KindGit,
	"repos": KindGit,
	"todos": KindTodos,
	"todo":  KindTodos,
	"notes": KindNotes,
	"note":  KindNotes,
}, "")

// ParseKinds parses a comma separated kind list such as "git,notes". An empty
// list selects every kind.
func ParseKinds(raw string) ([]Kind, error) {
	kinds, err := kindNormalizer.NormalizeList(raw)
	if err != nil {
		return nil, ferrors.ValidationError("invalid --only value").
			WithCause(err).
			WithContext("value", raw).
			Build()
	}
	if len(kinds) == 0 {
		return slices.Clone(AllKinds), nil
	}
	return kinds, nil
}

func enabled(only []Kind, k Kind) bool {
	return len(only) == 0 || slices.Contains(only, k)
}
