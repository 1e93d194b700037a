// Package display prints chronicle Markdown to a terminal with lipgloss
// styles. The report is parsed with goldmark; the raw HTML blocks used for
// collapsible file lists are read with x/net/html.
package display
