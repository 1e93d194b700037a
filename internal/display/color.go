package display

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorEnabled applies the NO_COLOR / CLICOLOR_FORCE / CLICOLOR conventions,
// falling back to whether the output is a terminal.
func ColorEnabled(getenv func(string) string, isTTY bool) bool {
	if _, set := lookup(getenv, "NO_COLOR"); set {
		return false
	}
	if v, set := lookup(getenv, "CLICOLOR_FORCE"); set && v != "0" {
		return true
	}
	if v, set := lookup(getenv, "CLICOLOR"); set && v == "0" {
		return false
	}
	return isTTY
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	return v, v != ""
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
