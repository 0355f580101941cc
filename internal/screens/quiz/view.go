package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Emily9121/WifeyMOOC/internal/grading"
	"github.com/Emily9121/WifeyMOOC/internal/question"
	quizctl "github.com/Emily9121/WifeyMOOC/internal/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.quitting {
		return renderQuitConfirm(width, height)
	}
	if s.widget == nil {
		return ""
	}

	compact := layout.IsCompactHeight(height)
	gap := "\n\n"
	if compact {
		gap = "\n"
	}
	inner := max(width-4, 20)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d · %s",
		s.ctl.Index()+1, s.ctl.Len(), s.spec.Kind.Label())))
	b.WriteString("\n")
	if s.spec.Prompt != "" {
		b.WriteString(theme.Prompt.Width(inner).Render(s.spec.Prompt))
		b.WriteString("\n")
	}
	if line := mediaLine(s.spec.Media); line != "" {
		b.WriteString(theme.Hint.Render(line))
		b.WriteString("\n")
	}
	if s.showHint {
		b.WriteString(theme.Hint.Width(inner).Render("Hint: " + s.spec.Hint))
		b.WriteString("\n")
	}
	b.WriteString(gap[1:])

	b.WriteString(s.widget.View(inner))
	if p, ok := s.spec.Payload.(question.ImageTagging); ok && len(p.Alternatives) > 0 {
		alt := s.ctl.Alternative(quizctl.Key(s.ctl.Index()))
		b.WriteString(gap)
		b.WriteString(theme.Chip.Render("a  " + tagging.NextLabel(p, alt)))
	}

	if s.result != nil {
		b.WriteString(gap)
		b.WriteString(renderResult(*s.result, inner))
	}

	switch {
	case s.showExplain && s.explanation != nil:
		b.WriteString(gap)
		b.WriteString(s.renderExplanation(inner))
	case s.explanation != nil:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press ? to see why."))
	case s.explainErr != "":
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("No explanation available: " + s.explainErr))
	}

	if s.notice != "" {
		b.WriteString(gap)
		style := theme.Hint
		if s.noticeErr {
			style = theme.Warning
		}
		b.WriteString(style.Width(inner).Render(s.notice))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func renderResult(res grading.Result, width int) string {
	var line string
	switch {
	case res.Correct:
		line = theme.Correct.Render("✓ Correct!") + "  " + theme.Hint.Render("Press Enter to continue.")
	case res.Incomplete:
		line = theme.Warning.Render("… " + res.Message)
	default:
		line = theme.Incorrect.Render("✗ " + res.Message)
	}
	if len(res.Parts) == 0 {
		return line
	}
	parts := make([]string, len(res.Parts))
	for i, p := range res.Parts {
		label := fmt.Sprintf("Part %d ", i+1)
		switch {
		case p.Correct:
			parts[i] = theme.Correct.Render(label + "✓")
		case p.Incomplete:
			parts[i] = theme.Warning.Render(label + "…")
		default:
			parts[i] = theme.Incorrect.Render(label + "✗")
		}
	}
	return line + "\n" + lipgloss.NewStyle().Width(width).Render(strings.Join(parts, "   "))
}

func (s *QuizScreen) renderExplanation(width int) string {
	e := s.explanation
	var b strings.Builder
	b.WriteString(theme.Title.Render(e.Summary))
	if e.Explanation != "" {
		b.WriteString("\n\n" + theme.Body.Render(e.Explanation))
	}
	if e.Tip != "" {
		b.WriteString("\n\n" + theme.Hint.Render("Tip: "+e.Tip))
	}
	return theme.Card.Width(width).Render(b.String())
}

// mediaLine lists the media attached to a question.
func mediaLine(m question.Media) string {
	var items []string
	if m.Audio != "" {
		items = append(items, "♪ "+question.FileName(m.Audio))
	}
	if m.Video != "" {
		items = append(items, "▶ "+question.FileName(m.Video))
	}
	if m.Image != "" {
		items = append(items, "🖼 "+question.FileName(m.Image))
	}
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "   ") + "   (o to open)"
}

func renderError(width, height int, msg string) string {
	body := theme.Incorrect.Render(msg) + "\n\n" + theme.Hint.Render("Press any key to go back.")
	return layout.Center(body, width, height)
}

func renderQuitConfirm(width, height int) string {
	body := theme.Title.Render("Quit this quiz?") + "\n\n" +
		theme.Body.Render("Your progress will be saved.") + "\n\n" +
		theme.Hint.Render("Y to quit · N to keep going")
	return layout.Center(theme.Dialog.Render(body), width, height)
}
