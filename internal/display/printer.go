package display

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

var changeMarkers = []string{"← NEW", "← DONE", "← MODIFIED", "← new", "← modified"}

// Printer writes styled chronicle Markdown.
type Printer struct {
	out    io.Writer
	styles styles
	md     goldmark.Markdown
}

// NewPrinter returns a printer writing to w. When color is false the output
// is plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:    w,
		styles: newStyles(r),
		md:     goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Print renders a Markdown document body.
func (p *Printer) Print(source []byte) error {
	root := p.md.Parser().Parse(text.NewReader(source))

	var blocks []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if s := p.block(n, source); s != "" {
			blocks = append(blocks, s)
		}
	}
	_, err := fmt.Fprintln(p.out, strings.Join(blocks, "\n\n"))
	return err
}

func (p *Printer) block(n gmast.Node, src []byte) string {
	switch node := n.(type) {
	case *gmast.Heading:
		return p.heading(node, src)
	case *gmast.Paragraph, *gmast.TextBlock:
		return p.inline(node, src)
	case *gmast.List:
		return p.list(node, src)
	case *east.Table:
		return p.table(node, src)
	case *gmast.HTMLBlock:
		return p.html(node, src)
	case *gmast.Blockquote:
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, p.block(c, src))
		}
		return p.styles.muted.Render("│ ") + strings.Join(parts, "\n")
	default:
		return ""
	}
}

func (p *Printer) heading(h *gmast.Heading, src []byte) string {
	content := p.inline(h, src)
	switch h.Level {
	case 1:
		return p.styles.title.Render(content)
	case 2:
		return p.styles.section.Render(content)
	case 3:
		return p.styles.heading.Render(content)
	default:
		return p.styles.branch.Render("» ") + content
	}
}

func (p *Printer) list(l *gmast.List, src []byte) string {
	var lines []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, p.block(c, src))
		}
		lines = append(lines, "  • "+strings.Join(parts, "\n    "))
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) table(t *east.Table, src []byte) string {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			row = append(row, plain(c, src))
		}
		rows = append(rows, row)
	}

	widths := map[int]int{}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var lines []string
	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		line := "  " + strings.Join(cells, "  ")
		if ri == 0 {
			line = p.styles.strong.Render(line)
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

// html keeps the summary line of a <details> block and drops other markup.
func (p *Printer) html(b *gmast.HTMLBlock, src []byte) string {
	var raw bytes.Buffer
	lines := b.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(src))
	}
	if b.HasClosure() {
		raw.Write(b.ClosureLine.Value(src))
	}

	doc, err := html.Parse(&raw)
	if err != nil {
		return ""
	}
	if summary := findElementText(doc, "summary"); summary != "" {
		return p.styles.muted.Render("▸ " + summary)
	}
	return ""
}

func findElementText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findElementText(c, tag); s != "" {
			return s
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// inline renders the inline children of n with styles applied.
func (p *Printer) inline(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			b.WriteString(p.text(string(node.Segment.Value(src))))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *gmast.String:
			b.WriteString(p.text(string(node.Value)))
		case *gmast.CodeSpan:
			b.WriteString(p.styles.code.Render(plain(node, src)))
		case *gmast.Emphasis:
			if node.Level >= 2 {
				b.WriteString(p.styles.strong.Render(plain(node, src)))
			} else {
				b.WriteString(p.styles.emphasis.Render(plain(node, src)))
			}
		default:
			b.WriteString(p.inline(node, src))
		}
	}
	return strings.TrimRight(b.String(), "\n ")
}

// text styles change markers and checkboxes inside plain text.
func (p *Printer) text(s string) string {
	for _, m := range changeMarkers {
		if strings.Contains(s, m) {
			s = strings.ReplaceAll(s, m, p.styles.marker.Render(m))
		}
	}
	if strings.HasPrefix(s, "[x]") {
		s = p.styles.done.Render("[x]") + s[len("[x]"):]
	}
	return s
}

// plain concatenates the text of every descendant without styling.
func plain(n gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() {
				b.WriteString(" ")
			}
		case *gmast.String:
			b.Write(node.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
