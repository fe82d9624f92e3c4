package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for senglish.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to indigo, one shade per line.
	lines := []struct {
		text, color string
	}{
		{"                       _ _     _     ", "#2dd4bf"},
		{"  ___  ___ _ __   __ _| (_)___| |__  ", "#22d3ee"},
		{" / __|/ _ \\ '_ \\ / _` | | / __| '_ \\ ", "#38bdf8"},
		{" \\__ \\  __/ | | | (_| | | \\__ \\ | | |", "#60a5fa"},
		{" |___/\\___|_| |_|\\__, |_|_|___/_| |_|", "#818cf8"},
		{"                 |___/               ", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
