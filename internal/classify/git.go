package classify

import (
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

// ClassifyBranches classifies the observed local branches of one repository.
//
// Commits of a known branch are cut at the prior last_commit, so the same
// commit is reported once. Only branches left with at least one commit are
// reported; the default branch is always evaluated and always reports
// ahead=0 behind=0.
//
// The next record holds one BranchRecord per reported branch, plus the prior
// record of every known branch that is still present but idle. Branches no
// longer observed drop out. first_seen is stamped on New branches and carried
// forward for known ones. ok is false when no branch was reported; the caller
// then keeps the prior record as is.
func ClassifyBranches(defaultBranch string, prior *state.GitRecord, observed []models.Branch, now time.Time) (branches []models.Branch, next state.GitRecord, ok bool) {
	next = state.GitRecord{
		LastChecked:   now,
		DefaultBranch: defaultBranch,
		Branches:      make(map[string]state.BranchRecord),
	}

	for _, b := range observed {
		if b.Name == defaultBranch {
			b.Ahead, b.Behind = 0, 0
		}

		var known *state.BranchRecord
		if prior != nil {
			if rec, found := prior.Branches[b.Name]; found {
				known = &rec
			}
		}
		if known != nil {
			b.Commits = newerThan(b.Commits, known.LastCommit)
		}

		if len(b.Commits) == 0 {
			if known != nil {
				next.Branches[b.Name] = copyBranchRecord(*known)
			}
			continue
		}

		rec := state.BranchRecord{LastCommit: b.LastCommit(), LastSeen: now}
		if known == nil {
			b.Change = models.ChangeNew
			firstSeen := now
			rec.FirstSeen = &firstSeen
		} else {
			b.Change = models.ChangeModified
			if known.FirstSeen != nil {
				firstSeen := *known.FirstSeen
				rec.FirstSeen = &firstSeen
			}
		}

		next.Branches[b.Name] = rec
		branches = append(branches, b)
	}

	return branches, next, len(branches) > 0
}

// newerThan returns the commits before the one with the given hash. Commits
// are newest first; an unknown hash keeps every commit.
func newerThan(commits []models.Commit, hash string) []models.Commit {
	if hash == "" {
		return commits
	}
	for i, c := range commits {
		if c.Hash == hash {
			return commits[:i]
		}
	}
	return commits
}

func copyBranchRecord(r state.BranchRecord) state.BranchRecord {
	if r.FirstSeen != nil {
		fs := *r.FirstSeen
		r.FirstSeen = &fs
	}
	return r
}
