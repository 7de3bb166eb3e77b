package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how command results are printed.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode validates a user supplied output mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want auto, text, markdown or json)", s)
}

// Color policies.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Printer writes command results in the selected mode.
type Printer struct {
	out     io.Writer
	mode    Mode
	profile termenv.Profile
	width   int
	render  func(string) (string, error)
}

// NewPrinter resolves ModeAuto and the color policy against out. Auto picks
// markdown on a terminal and text otherwise.
func NewPrinter(out io.Writer, mode Mode, color string) (*Printer, error) {
	tty, width := terminal(out)

	p := &Printer{out: out, mode: mode, width: width}
	switch color {
	case ColorAlways:
		p.profile = termenv.ANSI256
	case ColorNever:
		p.profile = termenv.Ascii
	case ColorAuto, "":
		p.profile = termenv.Ascii
		if tty {
			p.profile = termenv.NewOutput(out).EnvColorProfile()
		}
	default:
		return nil, fmt.Errorf("unknown color policy %q (want auto, always or never)", color)
	}

	if p.mode == ModeAuto {
		p.mode = ModeText
		if tty {
			p.mode = ModeMarkdown
		}
	}
	if p.mode == ModeMarkdown {
		r, err := NewRenderer(p.profile != termenv.Ascii, p.width)
		if err != nil {
			return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		p.render = r
	}
	return p, nil
}

// Mode returns the resolved output mode.
func (p *Printer) Mode() Mode {
	return p.mode
}

// Profile returns the resolved color profile.
func (p *Printer) Profile() termenv.Profile {
	return p.profile
}

func terminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 80
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return true, 80
	}
	return true, w
}

func (p *Printer) styled(s, hex string) string {
	return p.profile.String(s).Foreground(p.profile.Color(hex)).String()
}

func (p *Printer) markdown(md string) error {
	out, err := p.render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(p.out, out)
	return err
}
