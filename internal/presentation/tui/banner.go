package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{`                 _ _             _ `, "#38bdf8"},
	{`   ___  _ __ __| (_)_ __   __ _| |`, "#22d3ee"},
	{`  / _ \| '__/ _' | | '_ \ / _' | |`, "#2dd4bf"},
	{` | (_) | | | (_| | | | | | (_| | |`, "#34d399"},
	{`  \___/|_|  \__,_|_|_| |_|\__,_|_|`, "#4ade80"},
}

// PrintBanner writes the ordinal banner to w using profile for colors.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
