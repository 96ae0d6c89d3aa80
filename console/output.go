// Package console is the write-only terminal output of a shell script.
//
// Messages carry a verbosity; anything above the configured level is dropped.
// Inline tags style parts of a message:
//
//	out.Writeln("<info>done</info> 12 rows", console.Normal)
//
// Tags are rendered with lipgloss on a terminal and stripped elsewhere.
package console

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Verbosity orders messages from always shown to debug only.
type Verbosity int

const (
	Quiet Verbosity = iota
	Normal
	Verbose
	VeryVerbose
	Debug
)

// ParseVerbosity maps a config value to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "quiet":
		return Quiet, nil
	case "", "normal":
		return Normal, nil
	case "verbose":
		return Verbose, nil
	case "very_verbose":
		return VeryVerbose, nil
	case "debug":
		return Debug, nil
	}
	return Normal, fmt.Errorf("console: unknown verbosity %q", s)
}

// ColorMode decides whether tags are rendered.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var tagPatterns = map[string]*regexp.Regexp{
	"info":     regexp.MustCompile(`(?s)<info>(.*?)</info>`),
	"comment":  regexp.MustCompile(`(?s)<comment>(.*?)</comment>`),
	"error":    regexp.MustCompile(`(?s)<error>(.*?)</error>`),
	"question": regexp.MustCompile(`(?s)<question>(.*?)</question>`),
}

// tag order keeps rendering deterministic.
var tagOrder = []string{"info", "comment", "error", "question"}

// Output writes script messages to a stream.
type Output struct {
	w         io.Writer
	verbosity Verbosity
	styled    bool
	styles    map[string]lipgloss.Style
}

// New returns an Output writing to w. A nil w writes to os.Stdout.
func New(w io.Writer, verbosity Verbosity, mode ColorMode) *Output {
	if w == nil {
		w = os.Stdout
	}
	o := &Output{w: w, verbosity: verbosity}

	switch mode {
	case ColorAlways:
		o.styled = true
	case ColorNever:
		o.styled = false
	default:
		o.styled = isTerminal(w)
	}

	r := lipgloss.NewRenderer(w)
	if o.styled {
		r.SetColorProfile(termenv.ANSI)
	}
	o.styles = map[string]lipgloss.Style{
		"info":     r.NewStyle().Foreground(lipgloss.Color("2")),
		"comment":  r.NewStyle().Foreground(lipgloss.Color("3")),
		"error":    r.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")),
		"question": r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
	}
	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Verbosity returns the configured level.
func (o *Output) Verbosity() Verbosity { return o.verbosity }

// SetVerbosity changes the level for later writes.
func (o *Output) SetVerbosity(v Verbosity) { o.verbosity = v }

// Styled reports whether tags are rendered rather than stripped.
func (o *Output) Styled() bool { return o.styled }

// Write prints msg at verbosity v, followed by a newline when newline is set.
func (o *Output) Write(msg string, newline bool, v Verbosity) error {
	if v > o.verbosity {
		return nil
	}
	text := o.Format(msg)
	if newline {
		text += "\n"
	}
	_, err := io.WriteString(o.w, text)
	return err
}

// Writeln prints msg and a newline at verbosity v.
func (o *Output) Writeln(msg string, v Verbosity) error {
	return o.Write(msg, true, v)
}

// Format renders or strips the inline tags of msg.
func (o *Output) Format(msg string) string {
	for _, tag := range tagOrder {
		re := tagPatterns[tag]
		style := o.styles[tag]
		msg = re.ReplaceAllStringFunc(msg, func(m string) string {
			inner := re.FindStringSubmatch(m)[1]
			if !o.styled {
				return inner
			}
			return style.Render(inner)
		})
	}
	return msg
}
