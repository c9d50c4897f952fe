// Package output renders CLI results in text, markdown, or JSON form,
// with lipgloss styling when writing to a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(enabled bool) *Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain, Info: plain,
			StatusSuccess: plain, StatusFailed: plain,
		}
	}
	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		StatusSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		StatusFailed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Renderer writes command output in the resolved mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. ModeAuto resolves to text on a TTY and
// markdown otherwise, so piped output stays machine-friendly.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	styled := false
	resolved := mode

	switch mode {
	case ModeAuto, "":
		if isTTY(out) {
			resolved = ModeText
			styled = true
		} else {
			resolved = ModeMarkdown
		}
	case ModeText:
		styled = isTTY(out)
	case "md":
		resolved = ModeMarkdown
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   resolved,
		styles: newStyles(styled),
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Styles returns the active style set. Styles are no-ops when output is
// not a terminal.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to the output writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Errorln writes a line to the error writer.
func (r *Renderer) Errorln(a ...any) {
	_, _ = fmt.Fprintln(r.errOut, a...)
}

// JSON encodes v as indented JSON on the output writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader renders a markdown-style header of the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown-style bolded key with its value.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}
