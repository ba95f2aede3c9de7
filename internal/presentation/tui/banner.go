package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const bannerWidth = 80

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the welcome banner framed by rules.
// Colours are used only when w is a terminal.
func PrintBanner(w io.Writer, title string) {
	width := bannerWidth
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && cols < width {
			width = cols
		}
	}
	rule := strings.Repeat("-", width)

	if !IsTerminal(w) {
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, rule)
		return
	}

	p := termenv.ColorProfile()
	fmt.Fprintln(w, termenv.String(rule).Foreground(p.Color("#818cf8")))
	fmt.Fprintln(w, termenv.String(title).Foreground(p.Color("#c084fc")).Bold())
	fmt.Fprintln(w, termenv.String(rule).Foreground(p.Color("#f472b6")))
}

// Speaker styles a speaker tag ("🤖", "📞") when w is a terminal.
func Speaker(w io.Writer, tag string, hex string) string {
	if !IsTerminal(w) {
		return tag
	}
	p := termenv.ColorProfile()
	return termenv.String(tag).Foreground(p.Color(hex)).Bold().String()
}
