// Package output renders CLI results as terminal tables, markdown or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes results to an output and diagnostics to an error output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   Mode
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, isTTY: isTTY, mode: mode}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsJSON reports whether results are rendered as JSON.
func (r *Renderer) IsJSON() bool { return r.EffectiveMode() == ModeJSON }

// Out returns the result writer.
func (r *Renderer) Out() io.Writer { return r.out }

// Header prints a section title.
func (r *Renderer) Header(title string) {
	switch r.EffectiveMode() {
	case ModeJSON:
	case ModeMarkdown:
		_, _ = fmt.Fprintf(r.out, "## %s\n\n", title)
	default:
		if r.isTTY {
			title = text.Colors{text.Bold}.Sprint(title)
		}
		_, _ = fmt.Fprintln(r.out, title)
	}
}

// Table renders rows under headers. In JSON mode it is a no-op; callers
// encode their own values with JSON.
func (r *Renderer) Table(headers []string, rows [][]string) {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if mode == ModeMarkdown {
		t.RenderMarkdown()
		_, _ = fmt.Fprintln(r.out)
		return
	}
	t.Render()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Println writes a line of plain output. It is suppressed in JSON mode so
// the result stream stays parseable.
func (r *Renderer) Println(a ...any) {
	if r.IsJSON() {
		return
	}
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted plain output, suppressed in JSON mode.
func (r *Renderer) Printf(format string, a ...any) {
	if r.IsJSON() {
		return
	}
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Warnf writes a warning to the error output.
func (r *Renderer) Warnf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if r.isTTY {
		msg = text.Colors{text.FgYellow}.Sprint(msg)
	}
	_, _ = fmt.Fprintf(r.errOut, "warning: %s\n", msg)
}
