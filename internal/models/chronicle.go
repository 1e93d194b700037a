package models

import "time"

// Chronicle is the aggregate report for one run.
type Chronicle struct {
	Date         time.Time    `json:"date"` // calendar day, time part ignored
	Since        time.Time    `json:"since"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Repositories []Repository `json:"repositories"`
	Todos        []Todo       `json:"todos"`
	Notes        []Note       `json:"notes"`
}

// Stats summarises a chronicle.
type Stats struct {
	RepoCount      int `json:"repo_count"`
	CommitCount    int `json:"commit_count"`
	NewBranchCount int `json:"new_branch_count"`
	TodosNew       int `json:"todos_new"`
	TodosCompleted int `json:"todos_completed"`
	NotesCount     int `json:"notes_count"`
}

// Stats computes the summary statistics.
func (c *Chronicle) Stats() Stats {
	s := Stats{
		RepoCount:  len(c.Repositories),
		NotesCount: len(c.Notes),
	}
	for _, r := range c.Repositories {
		s.CommitCount += r.CommitCount()
		s.NewBranchCount += r.NewBranchCount()
	}
	for _, t := range c.Todos {
		if t.Change == ChangeNew {
			s.TodosNew++
		}
		if t.WasCompleted() {
			s.TodosCompleted++
		}
	}
	return s
}

// HasActivity reports whether there is anything to render.
func (c *Chronicle) HasActivity() bool {
	return len(c.Repositories) > 0 || len(c.Todos) > 0 || len(c.Notes) > 0
}
