package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

// Mark decorates an option line.
type Mark int

const (
	MarkNone Mark = iota
	MarkChosen
	MarkCorrect
	MarkWrong
)

// OptionList renders a vertical list of options with a cursor.
type OptionList struct {
	Options []string
	Cursor  int
	Focused bool

	// Multi renders checkboxes instead of radio buttons.
	Multi bool

	// MarkFn returns the mark of option i. Nil means no marks.
	MarkFn func(i int) Mark
}

// View renders the list, one option per line.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		mark := MarkNone
		if l.MarkFn != nil {
			mark = l.MarkFn(i)
		}

		cursor := "  "
		if l.Focused && i == l.Cursor {
			cursor = "▸ "
		}
		box := l.box(mark != MarkNone)

		style := theme.Unselected
		switch {
		case mark == MarkCorrect:
			style = theme.Correct
		case mark == MarkWrong:
			style = theme.Incorrect
		case l.Focused && i == l.Cursor:
			style = theme.Selected
		case mark == MarkChosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}

		b.WriteString(style.Render(cursor + box + " " + opt))
		if i < len(l.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l OptionList) box(on bool) string {
	switch {
	case l.Multi && on:
		return "[x]"
	case l.Multi:
		return "[ ]"
	case on:
		return "(•)"
	default:
		return "( )"
	}
}
