// Package ui renders the conversation and model cards to the terminal and reads user input.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/history"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("171")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Renderer writes transcripts and model cards. Styling and markdown rendering
// only apply when Out is a terminal; other writers get plain text.
type Renderer struct {
	Out      io.Writer
	Markdown bool

	tty bool
	md  *glamour.TermRenderer
}

// NewRenderer returns a Renderer for out. Markdown rendering of assistant
// replies is enabled only when markdown is true and out is a terminal.
func NewRenderer(out io.Writer, markdown bool) *Renderer {
	r := &Renderer{Out: out, Markdown: markdown, tty: IsTerminal(out)}
	if r.Markdown && r.tty {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(TerminalWidth(out)),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or 80 when unknown.
func TerminalWidth(w any) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func (r *Renderer) label(role ai.Role) string {
	name := role.DisplayName() + ":"
	if !r.tty {
		return name
	}
	switch role {
	case ai.RoleUser:
		return userStyle.Render(name)
	case ai.RoleAssistant:
		return assistantStyle.Render(name)
	default:
		return systemStyle.Render(name)
	}
}

func (r *Renderer) body(m ai.Message) string {
	if r.md == nil || m.Role != ai.RoleAssistant || strings.HasPrefix(m.Content, "Error: ") {
		return m.Content
	}
	out, err := r.md.Render(m.Content)
	if err != nil {
		return m.Content
	}
	return "\n" + strings.Trim(out, "\n")
}

// Message prints a single turn.
func (r *Renderer) Message(m ai.Message) {
	fmt.Fprintf(r.Out, "%s %s\n", r.label(m.Role), r.body(m))
}

// Transcript prints the full log in order, untruncated.
func (r *Renderer) Transcript(log []ai.Message) {
	if len(log) == 0 {
		r.Dim("(no messages yet)")
		return
	}
	for _, m := range log {
		r.Message(m)
	}
}

// Dim prints a muted status line.
func (r *Renderer) Dim(s string) {
	if r.tty {
		s = dimStyle.Render(s)
	}
	fmt.Fprintln(r.Out, s)
}

// Profile prints the model card for p.
func (r *Renderer) Profile(p ai.ModelProfile) {
	card := ProfileCard(p)
	if r.tty {
		card = cardStyle.Render(card)
	}
	fmt.Fprintln(r.Out, card)
}

// ProfileCard formats the model card as plain text.
func ProfileCard(p ai.ModelProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", p.ID)
	if p.Parameters != "" {
		fmt.Fprintf(&b, "Parameters: %s\n", p.Parameters)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&b, "Context window: %s tokens\n", humanize.Comma(int64(p.MaxTokens)))
	fmt.Fprintf(&b, "Approximate words: %s\n", humanize.Comma(int64(p.ApproxWords())))
	fmt.Fprintf(&b, "Approximate pages: %s", humanize.Comma(int64(p.ApproxPages())))
	return b.String()
}

// Budget prints how much of the context window the next request would use.
func (r *Renderer) Budget(model string, b history.Budget) {
	line := fmt.Sprintf("%s: %s / %s tokens in context (%s free), %d kept, %d dropped",
		model, humanize.Comma(int64(b.Tokens)), humanize.Comma(int64(b.Limit)), humanize.Comma(int64(b.Remaining())), b.Kept, b.Dropped)
	r.Dim(line)
}
