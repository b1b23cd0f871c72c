package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/paperchat/paperchat/internal/domain"
)

const historyPreviewLen = 240

// Renderer owns all terminal output: prompts, streamed fragments, citation
// lists, status lines and error banners. Assistant markdown is rendered at
// rest (history view); live fragments print raw as they arrive.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer

	user      func(a ...interface{}) string
	assistant func(a ...interface{}) string
	errc      func(a ...interface{}) string
	status    func(a ...interface{}) string
	dim       func(a ...interface{}) string
}

func NewRenderer(out io.Writer) *Renderer {
	// A failed renderer init degrades to plain text output.
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		md = nil
	}

	return &Renderer{
		out:       out,
		markdown:  md,
		user:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		assistant: color.New(color.FgCyan, color.Bold).SprintFunc(),
		errc:      color.New(color.FgRed).SprintFunc(),
		status:    color.New(color.FgYellow).SprintFunc(),
		dim:       color.New(color.Faint).SprintFunc(),
	}
}

// Prompt returns the input prompt string.
func (r *Renderer) Prompt() string {
	return r.user("You: ")
}

// AssistantPrefix starts the assistant's reply line.
func (r *Renderer) AssistantPrefix() {
	fmt.Fprint(r.out, r.assistant("Assistant: "))
}

// Fragment prints one streamed content fragment as-is.
func (r *Renderer) Fragment(fragment string) {
	fmt.Fprint(r.out, fragment)
}

// FinishTurn closes the streamed reply and prints its citations.
func (r *Renderer) FinishTurn(msg *domain.Message) {
	fmt.Fprintln(r.out)
	if len(msg.Documents) > 0 {
		r.Citations(msg.Documents)
	}
	fmt.Fprintln(r.out)
}

// Citations prints the numbered source list attached to an assistant reply.
func (r *Renderer) Citations(docs []domain.Document) {
	fmt.Fprintln(r.out, r.dim("Sources:"))
	for i, d := range docs {
		ref := d.Metadata.Source
		if d.Metadata.Page > 0 {
			ref = fmt.Sprintf("%s, p. %d", ref, d.Metadata.Page)
		}
		if ref == "" {
			ref = "document"
		}
		preview := strings.TrimSpace(SplitMessage(d.PageContent, historyPreviewLen)[0])
		fmt.Fprintf(r.out, "%s\n", r.dim(fmt.Sprintf("  [%d] %s — %q", i+1, ref, preview)))
	}
}

// Banner prints a transient error line. Never fatal to the session.
func (r *Renderer) Banner(text string) {
	fmt.Fprintln(r.out, r.errc("✗ "+text))
}

// Status prints a transient informational line.
func (r *Renderer) Status(text string) {
	fmt.Fprintln(r.out, r.status("• "+text))
}

// Line prints plain text.
func (r *Renderer) Line(text string) {
	fmt.Fprintln(r.out, text)
}

// Models prints the model selector list, marking the active model.
func (r *Renderer) Models(models []domain.AIModel, current string) {
	for _, m := range models {
		marker := "  "
		if m.ID == current {
			marker = r.user("* ")
		}
		cost := "free"
		if !m.IsFree() {
			cost = "$" + m.Cost.StringFixed(2) + "/1M tokens"
		}
		fmt.Fprintf(r.out, "%s%s %s\n", marker, m.ID, r.dim(fmt.Sprintf("%s (%s, %s)", m.Name, m.Provider, cost)))
		if m.Description != "" {
			fmt.Fprintf(r.out, "    %s\n", r.dim(m.Description))
		}
	}
}

// History prints the cached conversation. Assistant content goes through the
// markdown renderer; user content prints verbatim.
func (r *Renderer) History(msgs []domain.Message) {
	if len(msgs) == 0 {
		r.Status("no messages yet")
		return
	}
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleUser:
			fmt.Fprintf(r.out, "%s%s\n", r.user("You: "), m.Content)
		case domain.RoleAssistant:
			fmt.Fprint(r.out, r.assistant("Assistant:"))
			fmt.Fprintln(r.out, r.Markdown(m.Content))
			if len(m.Documents) > 0 {
				r.Citations(m.Documents)
			}
		}
	}
}

// Markdown renders markdown for display, falling back to the raw text.
func (r *Renderer) Markdown(content string) string {
	if r.markdown == nil {
		return "\n" + content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return "\n" + content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
