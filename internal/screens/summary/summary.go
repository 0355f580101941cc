package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emily9121/WifeyMOOC/internal/router"
	"github.com/Emily9121/WifeyMOOC/internal/screen"
	"github.com/Emily9121/WifeyMOOC/internal/ui/components"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

// Summary is the result of a finished quiz or flashcard session.
type Summary struct {
	Title    string
	Score    int
	Total    int
	Duration time.Duration

	// Answered lists the keys answered correctly, in question order.
	Answered []string

	// Boxes holds Leitner box counts after a flashcard session.
	Boxes map[int]int
}

// Accuracy returns Score / Total, or 0 when nothing was scorable.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Close"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	heading := "Quiz complete!"
	if sum.Boxes != nil {
		heading = "Review complete!"
	}
	b.WriteString(center(theme.Title.Render(heading)))
	b.WriteString("\n")
	if sum.Title != "" {
		b.WriteString(center(theme.Subtitle.Render(sum.Title)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	stats := fmt.Sprintf("Score: %d / %d        Accuracy: %.0f%%        Time: %d:%02d",
		sum.Score, sum.Total, sum.Accuracy()*100, mins, secs)
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Correct", sum.Score, sum.Total, min(width-20, 40))
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))

	if len(sum.Answered) > 0 && !layout.IsCompactHeight(height) {
		b.WriteString(center(theme.Hint.Render("Answered correctly")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Width(min(width-8, 60)).Render(answeredKeys(sum.Answered))))
		b.WriteString("\n")
	}

	if sum.Boxes != nil {
		b.WriteString(center(theme.Hint.Render("Boxes")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		var boxes []string
		for box := 1; box <= 5; box++ {
			boxes = append(boxes, fmt.Sprintf("%d: %d", box, sum.Boxes[box]))
		}
		b.WriteString(center(theme.Body.Render(strings.Join(boxes, "    "))))
		b.WriteString("\n")
	}

	return b.String()
}

// answeredKeys renders zero-based keys as 1-based question labels.
func answeredKeys(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = "Q" + displayKey(k)
	}
	return strings.Join(labels, "  ")
}

func displayKey(k string) string {
	head, tail, nested := strings.Cut(k, "-")
	var n int
	if _, err := fmt.Sscanf(head, "%d", &n); err != nil {
		return k
	}
	label := fmt.Sprint(n + 1)
	if nested {
		var m int
		if _, err := fmt.Sscanf(tail, "%d", &m); err != nil {
			return k
		}
		label += fmt.Sprintf(".%d", m+1)
	}
	return label
}
