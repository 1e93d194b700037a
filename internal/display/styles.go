package display

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	primary   = lipgloss.Color("#7C3AED")
	secondary = lipgloss.Color("#10B981")
	muted     = lipgloss.Color("#6B7280")
	warning   = lipgloss.Color("#F59E0B")
	info      = lipgloss.Color("#60A5FA")
)

type styles struct {
	title    lipgloss.Style
	section  lipgloss.Style
	heading  lipgloss.Style
	branch   lipgloss.Style
	code     lipgloss.Style
	strong   lipgloss.Style
	emphasis lipgloss.Style
	muted    lipgloss.Style
	marker   lipgloss.Style
	done     lipgloss.Style
	plain    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(primary),
		section:  r.NewStyle().Bold(true).Underline(true).Foreground(secondary),
		heading:  r.NewStyle().Bold(true),
		branch:   r.NewStyle().Foreground(info),
		code:     r.NewStyle().Foreground(info),
		strong:   r.NewStyle().Bold(true),
		emphasis: r.NewStyle().Italic(true),
		muted:    r.NewStyle().Foreground(muted),
		marker:   r.NewStyle().Bold(true).Foreground(warning),
		done:     r.NewStyle().Foreground(secondary),
		plain:    r.NewStyle(),
	}
}
