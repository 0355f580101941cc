package quiz

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/ui/components"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

// widget edits one collector from key presses.
type widget interface {
	// HandleKey applies a key and reports whether it was consumed.
	HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd)

	// Typing reports whether printable keys are going to a text field.
	Typing() bool

	Focus() tea.Cmd
	Blur()

	// Media returns the media path under the cursor, if any.
	Media() string

	View(width int) string
	Hints() []layout.KeyHint
}

func keyOf(msg tea.KeyPressMsg) string {
	k := msg.String()
	if k == " " {
		return "space"
	}
	return k
}

// newWidget builds the editor for col. spec supplies display text the
// collector does not carry.
func newWidget(spec question.Spec, col response.Collector) widget {
	switch c := col.(type) {
	case *response.ChoiceCollector:
		return &choiceWidget{listCursor: listCursor{cursor: max(c.Selected(), 0)}, col: c}
	case *response.SelectionCollector:
		w := &selectionWidget{col: c}
		if p, ok := spec.Payload.(question.ListPick); ok {
			w.options = p.Options
		}
		return w
	case *response.TextCollector:
		return newTextWidget(spec, c)
	case *response.PickCollector:
		return newPickWidget(spec, c)
	case *response.RankCollector:
		w := &rankWidget{col: c}
		if p, ok := spec.Payload.(question.SequenceAudio); ok {
			w.clips = p.Clips
		}
		return w
	case *response.OrderCollector:
		return &orderWidget{col: c}
	case *response.TagCollector:
		return &tagWidget{col: c}
	case *response.CompositeCollector:
		return newCompositeWidget(spec, c)
	}
	return &nullWidget{kind: col.Kind()}
}

// listCursor is the shared up/down cursor of the list widgets.
type listCursor struct {
	cursor  int
	focused bool
}

func (l *listCursor) move(key string, n int) bool {
	switch key {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
		return true
	case "down", "j":
		if l.cursor < n-1 {
			l.cursor++
		}
		return true
	}
	return false
}

func (l *listCursor) Focus() tea.Cmd {
	l.focused = true
	return nil
}

func (l *listCursor) Blur()        { l.focused = false }
func (l *listCursor) Typing() bool { return false }

// digitIndex maps "1".."9" to a zero-based index below n.
func digitIndex(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	return i, i < n
}

type choiceWidget struct {
	listCursor
	col *response.ChoiceCollector
}

func (w *choiceWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := keyOf(msg)
	n := len(w.col.Options())
	if w.move(key, n) {
		return true, nil
	}
	if key == "space" {
		w.col.Select(w.cursor)
		return true, nil
	}
	if i, ok := digitIndex(key, n); ok {
		w.cursor = i
		w.col.Select(i)
		return true, nil
	}
	return false, nil
}

func (w *choiceWidget) Media() string { return "" }

func (w *choiceWidget) View(int) string {
	return components.OptionList{
		Options: numbered(w.col.Options()),
		Cursor:  w.cursor,
		Focused: w.focused,
		MarkFn: func(i int) components.Mark {
			if i == w.col.Selected() {
				return components.MarkChosen
			}
			return components.MarkNone
		},
	}.View()
}

func (w *choiceWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "↑↓", Description: "Move"}, {Key: "Space", Description: "Choose"}}
}

type selectionWidget struct {
	listCursor
	col     *response.SelectionCollector
	options []question.Stimulus
}

func (w *selectionWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := keyOf(msg)
	n := len(w.col.Labels())
	if w.move(key, n) {
		return true, nil
	}
	if key == "space" {
		w.col.Toggle(w.cursor)
		return true, nil
	}
	if i, ok := digitIndex(key, n); ok {
		w.cursor = i
		w.col.Toggle(i)
		return true, nil
	}
	return false, nil
}

func (w *selectionWidget) Media() string {
	if w.cursor < len(w.options) {
		return w.options[w.cursor].Image
	}
	return ""
}

func (w *selectionWidget) View(int) string {
	labels := make([]string, len(w.col.Labels()))
	for i, l := range w.col.Labels() {
		if i < len(w.options) && w.options[i].Text == "" && w.options[i].Image != "" {
			l = "🖼 " + question.FileName(w.options[i].Image)
		}
		labels[i] = l
	}
	return components.OptionList{
		Options: numbered(labels),
		Cursor:  w.cursor,
		Focused: w.focused,
		Multi:   true,
		MarkFn: func(i int) components.Mark {
			if w.col.IsSelected(i) {
				return components.MarkChosen
			}
			return components.MarkNone
		},
	}.View()
}

func (w *selectionWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "↑↓", Description: "Move"}, {Key: "Space", Description: "Toggle"}}
}

func numbered(opts []string) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = fmt.Sprintf("%d. %s", i+1, o)
	}
	return out
}

// textWidget fills word_fill blanks with one text input per blank.
type textWidget struct {
	col     *response.TextCollector
	parts   []string
	inputs  []components.TextInput
	cursor  int
	focused bool
}

func newTextWidget(spec question.Spec, c *response.TextCollector) *textWidget {
	w := &textWidget{col: c}
	if p, ok := spec.Payload.(question.WordFill); ok {
		w.parts = p.Parts
	}
	w.inputs = make([]components.TextInput, c.Len())
	for i := range w.inputs {
		w.inputs[i] = components.NewTextInput("…", 24)
		w.inputs[i].SetValue(c.Text(i))
	}
	return w
}

func (w *textWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if len(w.inputs) == 0 {
		return false, nil
	}
	switch keyOf(msg) {
	case "tab", "down":
		if w.cursor >= len(w.inputs)-1 {
			return false, nil
		}
		return true, w.focusInput(w.cursor + 1)
	case "shift+tab", "up":
		if w.cursor == 0 {
			return false, nil
		}
		return true, w.focusInput(w.cursor - 1)
	case "enter", "esc":
		return false, nil
	}
	var cmd tea.Cmd
	w.inputs[w.cursor], cmd = w.inputs[w.cursor].Update(msg)
	w.col.Set(w.cursor, w.inputs[w.cursor].Value())
	return true, cmd
}

func (w *textWidget) focusInput(i int) tea.Cmd {
	w.inputs[w.cursor].Blur()
	w.cursor = i
	return w.inputs[i].Focus()
}

func (w *textWidget) Typing() bool { return w.focused && len(w.inputs) > 0 }

func (w *textWidget) Focus() tea.Cmd {
	w.focused = true
	if len(w.inputs) == 0 {
		return nil
	}
	return w.inputs[w.cursor].Focus()
}

func (w *textWidget) Blur() {
	w.focused = false
	if len(w.inputs) > 0 {
		w.inputs[w.cursor].Blur()
	}
}

func (w *textWidget) Media() string { return "" }

func (w *textWidget) View(width int) string {
	var b strings.Builder
	for i, part := range w.parts {
		b.WriteString(theme.Body.Render(part))
		if i < len(w.inputs) {
			b.WriteString(" " + w.inputs[i].View() + " ")
		}
	}
	for i := len(w.parts); i < len(w.inputs); i++ {
		b.WriteString(" " + w.inputs[i].View())
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (w *textWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Tab", Description: "Next blank"}}
}

// pickWidget chooses one value per row by cycling through its choices.
type pickWidget struct {
	listCursor
	col      *response.PickCollector
	sentence []string // fill_blanks_dropdown text around the blanks
	media    []string // per-row image path
}

func newPickWidget(spec question.Spec, c *response.PickCollector) *pickWidget {
	w := &pickWidget{col: c, media: make([]string, c.Rows())}
	switch p := spec.Payload.(type) {
	case question.FillBlanksDropdown:
		w.sentence = p.Parts
	case question.MatchSentence:
		for i, pair := range p.Pairs {
			if i < len(w.media) {
				w.media[i] = pair.ImagePath
			}
		}
	case question.Categorization:
		if len(w.media) > 0 {
			w.media[0] = p.Stimulus.Image
		}
	case question.CategorizationMultiple:
		for i, item := range p.Items {
			if i < len(w.media) {
				w.media[i] = item.Image
			}
		}
	}
	return w
}

func (w *pickWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := keyOf(msg)
	if w.move(key, w.col.Rows()) {
		return true, nil
	}
	switch key {
	case "right", "space":
		w.col.Cycle(w.cursor, 1)
		return true, nil
	case "left":
		w.col.Cycle(w.cursor, -1)
		return true, nil
	}
	return false, nil
}

func (w *pickWidget) Media() string {
	if w.cursor < len(w.media) {
		return w.media[w.cursor]
	}
	return ""
}

func (w *pickWidget) View(width int) string {
	var b strings.Builder
	if len(w.sentence) > 0 {
		var s strings.Builder
		for i, part := range w.sentence {
			s.WriteString(part)
			if i < w.col.Rows() {
				v := w.col.Selected(i)
				if v == "" {
					v = "____"
				}
				s.WriteString(" " + theme.Selected.Render(v) + " ")
			}
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(s.String()))
		b.WriteString("\n\n")
	}

	labelWidth := 0
	for i := range w.col.Rows() {
		labelWidth = max(labelWidth, lipgloss.Width(w.label(i)))
	}
	labelWidth = min(labelWidth, width/2)

	for i := range w.col.Rows() {
		cursor := "  "
		style := theme.Unselected
		if w.focused && i == w.cursor {
			cursor = "▸ "
			style = theme.Selected
		}
		value := w.col.Selected(i)
		if value == "" {
			value = "choose"
		}
		label := lipgloss.NewStyle().Width(labelWidth).Render(w.label(i))
		b.WriteString(style.Render(cursor+label) + "  " + theme.Chip.Render("‹ "+value+" ›"))
		if i < w.col.Rows()-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (w *pickWidget) label(i int) string {
	if i < len(w.media) && w.media[i] != "" && w.col.Label(i) == w.media[i] {
		return "🖼 " + question.FileName(w.media[i])
	}
	return w.col.Label(i)
}

func (w *pickWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "↑↓", Description: "Row"}, {Key: "←→", Description: "Change"}}
}

// rankWidget assigns a rank to each audio clip.
type rankWidget struct {
	listCursor
	col   *response.RankCollector
	clips []string
}

func (w *rankWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := keyOf(msg)
	if w.move(key, w.col.Len()) {
		return true, nil
	}
	switch key {
	case "backspace", "delete", "0":
		w.col.Set(w.cursor, 0)
		return true, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n > 0 {
		w.col.Set(w.cursor, n)
		return true, nil
	}
	return false, nil
}

func (w *rankWidget) Media() string {
	if w.cursor < len(w.clips) {
		return w.clips[w.cursor]
	}
	return ""
}

func (w *rankWidget) View(int) string {
	var b strings.Builder
	for i := range w.col.Len() {
		name := fmt.Sprintf("Clip %d", i+1)
		if i < len(w.clips) {
			name = "♪ " + question.FileName(w.clips[i])
		}
		rank := "_"
		if r := w.col.Rank(i); r != 0 {
			rank = strconv.Itoa(r)
		}
		cursor, style := "  ", theme.Unselected
		if w.focused && i == w.cursor {
			cursor, style = "▸ ", theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s[%s] %s", cursor, rank, name)))
		if i < w.col.Len()-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (w *rankWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "1-9", Description: "Rank"}, {Key: "o", Description: "Play"}}
}

// orderWidget reorders phrase tokens with adjacent swaps.
type orderWidget struct {
	col     *response.OrderCollector
	cursor  int
	focused bool
}

func (w *orderWidget) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	n := len(w.col.Tokens())
	switch keyOf(msg) {
	case "left":
		w.cursor = max(w.cursor-1, 0)
	case "right":
		w.cursor = min(w.cursor+1, max(n-1, 0))
	case "[":
		if w.col.MoveUp(w.cursor) {
			w.cursor--
		}
	case "]":
		if w.col.MoveDown(w.cursor) {
			w.cursor++
		}
	default:
		return false, nil
	}
	return true, nil
}

func (w *orderWidget) Focus() tea.Cmd {
	w.focused = true
	return nil
}

func (w *orderWidget) Typing() bool  { return false }
func (w *orderWidget) Blur()         { w.focused = false }
func (w *orderWidget) Media() string { return "" }

func (w *orderWidget) View(width int) string {
	tokens := w.col.Tokens()
	chips := make([]string, len(tokens))
	for i, t := range tokens {
		if w.focused && i == w.cursor {
			chips[i] = theme.ActiveChip.Render(t)
		} else {
			chips[i] = theme.Chip.Render(t)
		}
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(chips, " "))
}

func (w *orderWidget) Hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "←→", Description: "Select"}, {Key: "[ ]", Description: "Move word"}}
}

type nullWidget struct {
	kind question.Kind
}

func (w *nullWidget) HandleKey(tea.KeyPressMsg) (bool, tea.Cmd) { return false, nil }
func (w *nullWidget) Typing() bool                              { return false }
func (w *nullWidget) Focus() tea.Cmd                            { return nil }
func (w *nullWidget) Blur()                                     {}
func (w *nullWidget) Media() string                             { return "" }
func (w *nullWidget) Hints() []layout.KeyHint                   { return nil }

func (w *nullWidget) View(int) string {
	return theme.Warning.Render(fmt.Sprintf("This question type (%s) is not supported.", w.kind))
}
