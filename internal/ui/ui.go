package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Styler renders text with the palette when color is enabled and returns it untouched otherwise.
type Styler struct {
	palette *Palette
	color   bool
}

// NewStyler enables color only when w is a terminal.
func NewStyler(w io.Writer) *Styler {
	return &Styler{palette: styles, color: IsTerminal(w)}
}

// PlainStyler never colors output.
func PlainStyler() *Styler {
	return &Styler{palette: styles}
}

func (s *Styler) render(style func(*Palette) lipgloss.Style, text string) string {
	if s == nil || !s.color {
		return text
	}
	return style(s.palette).Render(text)
}

func (s *Styler) Title(text string) string {
	return s.render(func(p *Palette) lipgloss.Style { return p.title }, text)
}

func (s *Styler) OK(text string) string {
	return s.render(func(p *Palette) lipgloss.Style { return p.ok }, text)
}

func (s *Styler) Err(text string) string {
	return s.render(func(p *Palette) lipgloss.Style { return p.err }, text)
}

func (s *Styler) Warn(text string) string {
	return s.render(func(p *Palette) lipgloss.Style { return p.warn }, text)
}

func (s *Styler) Help(text string) string {
	return s.render(func(p *Palette) lipgloss.Style { return p.help }, text)
}

// Numbered renders items as "n. item" lines, numbering from offset+1.
func Numbered(items []string, offset int) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", offset+i+1, item)
	}
	return b.String()
}

// PageFooter describes the position within a paginated list.
func PageFooter(page, pages, total int) string {
	return fmt.Sprintf("Page %d/%d (%s total)", page, pages, humanize.Comma(int64(total)))
}

// FormatSize renders a byte count, e.g. "4.2 MB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatAge renders t relative to now, e.g. "3 hours ago".
func FormatAge(t time.Time) string {
	return humanize.Time(t)
}
