package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

const (
	nudgeStep     = 10
	fineNudgeStep = 1
)

// tagWidget places image tags by nudging their pixel coordinates. The
// image itself opens in the system viewer.
type tagWidget struct {
	listCursor
	col *response.TagCollector
}

func (w *tagWidget) tags() []question.Tag {
	return w.col.Variant().Tags
}

func (w *tagWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	tags := w.tags()
	if len(tags) == 0 {
		return false, nil
	}
	key := keyOf(msg)
	switch key {
	case "j", "tab":
		w.cursor = (w.cursor + 1) % len(tags)
		return true, nil
	case "k", "shift+tab":
		w.cursor = (w.cursor - 1 + len(tags)) % len(tags)
		return true, nil
	}

	dx, dy := 0.0, 0.0
	switch key {
	case "left":
		dx = -nudgeStep
	case "right":
		dx = nudgeStep
	case "up":
		dy = -nudgeStep
	case "down":
		dy = nudgeStep
	case "H":
		dx = -fineNudgeStep
	case "L":
		dx = fineNudgeStep
	case "K":
		dy = -fineNudgeStep
	case "J":
		dy = fineNudgeStep
	default:
		return false, nil
	}
	w.col.Nudge(tags[w.cursor].ID, dx, dy)
	return true, nil
}

func (w *tagWidget) Media() string { return w.col.Variant().Image }

func (w *tagWidget) View(int) string {
	var b strings.Builder
	if img := w.col.Variant().Image; img != "" {
		b.WriteString(theme.Hint.Render("🖼 "+question.FileName(img)) + "\n\n")
	}
	for i, t := range w.tags() {
		p, _ := w.col.Position(t.ID)
		label := t.Label
		if label == "" {
			label = t.ID
		}
		cursor, style := "  ", theme.Unselected
		if w.focused && i == w.cursor {
			cursor, style = "▸ ", theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-16s (%4.0f, %4.0f)", cursor, label, p.X, p.Y)))
		if i < len(w.tags())-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (w *tagWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "j/k", Description: "Tag"},
		{Key: "←↑↓→", Description: "Move 10px"},
		{Key: "HJKL", Description: "Move 1px"},
	}
}

// compositeWidget shows the parts of a question block, one focused at a
// time.
type compositeWidget struct {
	parts   []widget
	specs   []question.Spec
	cursor  int
	focused bool
}

func newCompositeWidget(spec question.Spec, c *response.CompositeCollector) *compositeWidget {
	w := &compositeWidget{}
	var nested []question.Spec
	if p, ok := spec.Payload.(question.MultiQuestions); ok {
		nested = p.Questions
	}
	for i, col := range c.Parts() {
		var s question.Spec
		if i < len(nested) {
			s = nested[i]
		}
		w.specs = append(w.specs, s)
		w.parts = append(w.parts, newWidget(s, col))
	}
	return w
}

func (w *compositeWidget) active() widget {
	if w.cursor < len(w.parts) {
		return w.parts[w.cursor]
	}
	return nil
}

func (w *compositeWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	part := w.active()
	if part == nil {
		return false, nil
	}
	if ok, cmd := part.HandleKey(msg); ok {
		return true, cmd
	}
	switch keyOf(msg) {
	case "tab", "ctrl+down":
		if w.cursor < len(w.parts)-1 {
			return true, w.focusPart(w.cursor + 1)
		}
		return true, nil
	case "shift+tab", "ctrl+up":
		if w.cursor > 0 {
			return true, w.focusPart(w.cursor - 1)
		}
		return true, nil
	}
	return false, nil
}

func (w *compositeWidget) focusPart(i int) tea.Cmd {
	w.parts[w.cursor].Blur()
	w.cursor = i
	return w.parts[i].Focus()
}

func (w *compositeWidget) Typing() bool {
	part := w.active()
	return w.focused && part != nil && part.Typing()
}

func (w *compositeWidget) Focus() tea.Cmd {
	w.focused = true
	if part := w.active(); part != nil {
		return part.Focus()
	}
	return nil
}

func (w *compositeWidget) Blur() {
	w.focused = false
	if part := w.active(); part != nil {
		part.Blur()
	}
}

func (w *compositeWidget) Media() string {
	part := w.active()
	if part == nil {
		return ""
	}
	if m := part.Media(); m != "" {
		return m
	}
	return firstMedia(w.specs[w.cursor].Media)
}

func (w *compositeWidget) View(width int) string {
	inner := max(width-4, 20)
	cards := make([]string, len(w.parts))
	for i, part := range w.parts {
		prompt := w.specs[i].Prompt
		if prompt == "" {
			prompt = fmt.Sprintf("Part %d", i+1)
		}
		body := theme.Prompt.Render(fmt.Sprintf("%d. %s", i+1, prompt)) + "\n\n" + part.View(inner)
		style := theme.Card
		if w.focused && i == w.cursor {
			style = theme.FocusedCard
		}
		cards[i] = style.Width(width).Render(body)
	}
	return strings.Join(cards, "\n")
}

func (w *compositeWidget) Hints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next part"}}
	if part := w.active(); part != nil {
		hints = append(hints, part.Hints()...)
	}
	return hints
}

// firstMedia returns the first attached media path, preferring video and
// then audio over a still image.
func firstMedia(m question.Media) string {
	switch {
	case m.Video != "":
		return m.Video
	case m.Audio != "":
		return m.Audio
	}
	return m.Image
}
