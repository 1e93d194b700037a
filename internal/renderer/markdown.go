package renderer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05 UTC"

// Options controls report layout.
type Options struct {
	ShowAuthors     bool
	MaxChangedFiles int
}

// Renderer produces Markdown reports.
type Renderer struct {
	opts Options
}

// New returns a renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render returns the Markdown body of the report, without front matter and
// without a trailing newline.
func (r *Renderer) Render(c *models.Chronicle) string {
	sections := []string{r.header(c), r.summary(c)}
	if len(c.Repositories) > 0 {
		sections = append(sections, r.gitActivity(c.Repositories))
	}
	if len(c.Todos) > 0 {
		sections = append(sections, r.todos(c.Todos))
	}
	if len(c.Notes) > 0 {
		sections = append(sections, r.notes(c.Notes))
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n ")
}

func stamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func (r *Renderer) header(c *models.Chronicle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chronicle: %s\n\n", c.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "**Generated:** %s\n", stamp(c.GeneratedAt))
	fmt.Fprintf(&b, "**Since:** %s", stamp(c.Since))
	return b.String()
}

func (r *Renderer) summary(c *models.Chronicle) string {
	s := c.Stats()
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString("| Category | Count |\n")
	b.WriteString("|----------|-------|\n")
	fmt.Fprintf(&b, "| Repositories | %d |\n", s.RepoCount)
	fmt.Fprintf(&b, "| Commits | %d |\n", s.CommitCount)
	fmt.Fprintf(&b, "| New Branches | %d |\n", s.NewBranchCount)
	fmt.Fprintf(&b, "| New TODOs | %d |\n", s.TodosNew)
	fmt.Fprintf(&b, "| Completed TODOs | %d |\n", s.TodosCompleted)
	fmt.Fprintf(&b, "| Note Updates | %d |", s.NotesCount)
	return b.String()
}

func (r *Renderer) gitActivity(repos []models.Repository) string {
	var b strings.Builder
	b.WriteString("## Git Activity\n")
	for _, repo := range repos {
		b.WriteString("\n")
		r.repository(&b, repo)
	}
	return b.String()
}

// sortBranches puts the default branch first, then the others by commit
// count, most active first.
func sortBranches(branches []models.Branch, defaultBranch string) []models.Branch {
	out := slices.Clone(branches)
	slices.SortStableFunc(out, func(a, b models.Branch) int {
		switch {
		case a.Name == defaultBranch && b.Name != defaultBranch:
			return -1
		case b.Name == defaultBranch && a.Name != defaultBranch:
			return 1
		}
		return cmp.Compare(len(b.Commits), len(a.Commits))
	})
	return out
}

func (r *Renderer) repository(b *strings.Builder, repo models.Repository) {
	fmt.Fprintf(b, "### %s\n\n", repo.Name)
	fmt.Fprintf(b, "**Path:** `%s`\n\n", repo.Path)
	for _, branch := range sortBranches(repo.Branches, repo.DefaultBranch) {
		r.branch(b, branch, repo.DefaultBranch)
		b.WriteString("\n")
	}
}

func (r *Renderer) branch(b *strings.Builder, branch models.Branch, defaultBranch string) {
	aheadBehind := ""
	if branch.Name != defaultBranch && (branch.Ahead > 0 || branch.Behind > 0) {
		aheadBehind = fmt.Sprintf(" (ahead %d, behind %d)", branch.Ahead, branch.Behind)
	}
	marker := ""
	if branch.Change == models.ChangeNew {
		marker = " ← NEW"
	}
	fmt.Fprintf(b, "#### `%s`%s%s\n\n", branch.Name, aheadBehind, marker)

	if len(branch.Commits) == 0 {
		return
	}
	for _, c := range branch.Commits {
		author := ""
		if r.opts.ShowAuthors {
			author = fmt.Sprintf(" — *%s*", c.Author)
		}
		fmt.Fprintf(b, "- `%s` %s%s  \n", c.Hash, c.Message, author)
	}

	if files := branchFiles(branch); len(files) > 0 {
		b.WriteString("\n")
		r.changedFiles(b, files)
	}
}

// branchFiles is the distinct set of files across commits, in first-seen order.
func branchFiles(branch models.Branch) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, c := range branch.Commits {
		for _, f := range c.Files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files
}

func (r *Renderer) changedFiles(b *strings.Builder, files []string) {
	shown := files
	if r.opts.MaxChangedFiles > 0 && len(files) > r.opts.MaxChangedFiles {
		shown = files[:r.opts.MaxChangedFiles]
	}

	b.WriteString("<details>\n")
	fmt.Fprintf(b, "<summary>Changed files (%d)</summary>\n\n", len(files))
	for _, f := range shown {
		fmt.Fprintf(b, "- `%s`\n", f)
	}
	if rest := len(files) - len(shown); rest > 0 {
		fmt.Fprintf(b, "\n*... and %d more files*\n", rest)
	}
	b.WriteString("\n</details>\n")
}

func (r *Renderer) todos(todos []models.Todo) string {
	var files []string
	byFile := make(map[string][]models.Todo)
	for _, t := range todos {
		if _, ok := byFile[t.File]; !ok {
			files = append(files, t.File)
		}
		byFile[t.File] = append(byFile[t.File], t)
	}

	var b strings.Builder
	b.WriteString("## TODOs\n")
	for _, file := range files {
		fmt.Fprintf(&b, "\n### `%s`\n\n", file)
		for _, t := range byFile[file] {
			fmt.Fprintf(&b, "- %s %s%s  \n", t.Status.Marker(), t.Content, todoMarker(t))
		}
	}
	return b.String()
}

func todoMarker(t models.Todo) string {
	switch {
	case t.Change == models.ChangeNew:
		return " ← NEW"
	case t.Change == models.ChangeModified && t.WasCompleted():
		return " ← DONE"
	case t.Change == models.ChangeModified:
		return " ← MODIFIED"
	default:
		return ""
	}
}

func (r *Renderer) notes(notes []models.Note) string {
	var b strings.Builder
	b.WriteString("## Notes\n\n")
	for _, n := range notes {
		marker := ""
		switch n.Change {
		case models.ChangeNew:
			marker = " ← new"
		case models.ChangeModified:
			marker = " ← modified"
		}
		fmt.Fprintf(&b, "### `%s`%s\n\n", n.Path, marker)
		fmt.Fprintf(&b, "*Modified: %s*\n\n", stamp(n.ModifiedAt))
		fmt.Fprintf(&b, "%s\n\n", n.Excerpt)
	}
	return b.String()
}
