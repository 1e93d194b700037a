package commands

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/chronicle/internal/state"
)

// StateCmd groups the state file commands.
type StateCmd struct {
	Reset StateResetCmd `cmd:"" help:"Delete the state file so the next run reports everything as new"`
	Show  StateShowCmd  `cmd:"" help:"Summarise the persisted state per source"`
}

// StateResetCmd implements 'state reset'.
type StateResetCmd struct{}

func (c *StateResetCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	store := state.NewStore(cfg.StatePath())
	removed, err := store.Reset()
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(g.Stdout, "No state to reset.")
		return nil
	}
	fmt.Fprintf(g.Stdout, "State reset: removed %s\n", store.Path())
	return nil
}

// StateShowCmd implements 'state show'.
type StateShowCmd struct{}

func (c *StateShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	store := state.NewStore(cfg.StatePath())
	if !store.Exists() {
		fmt.Fprintf(g.Stdout, "No state file at %s\n", store.Path())
		return nil
	}
	st, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Stdout, "State %s (version %s, updated %s)\n",
		store.Path(), st.Version, st.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	summaries := st.Summaries()
	if len(summaries) == 0 {
		fmt.Fprintln(g.Stdout, "No sources tracked.")
		return nil
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			string(s.Kind),
			s.ID,
			s.LastChecked.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(s.Items),
		})
	}
	return g.Printer().Table([]string{"Type", "Source", "Last checked", "Items"}, rows)
}
