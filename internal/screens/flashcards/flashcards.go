// Package flashcards is the terminal screen for Leitner flashcard reviews.
package flashcards

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/Emily9121/WifeyMOOC/internal/deck"
	"github.com/Emily9121/WifeyMOOC/internal/leitner"
	"github.com/Emily9121/WifeyMOOC/internal/router"
	"github.com/Emily9121/WifeyMOOC/internal/screen"
	"github.com/Emily9121/WifeyMOOC/internal/screens/summary"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
	"github.com/Emily9121/WifeyMOOC/internal/ui/theme"
)

// Deps are the collaborators of the flashcard screen. Session must
// already be started.
type Deps struct {
	Session *leitner.Session
	Deck    string

	// ProgressPath is where card progress is saved when the session ends.
	ProgressPath string

	Events store.EventRepo
}

// FlashcardScreen shows due cards one at a time.
type FlashcardScreen struct {
	deps      Deps
	sessionID string
	started   time.Time

	card     deck.Card
	hasCard  bool
	revealed bool
	reviewed int
	correct  int
	lastBox  int

	errMsg string
	saved  bool
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)
var _ screen.StatusProvider = (*FlashcardScreen)(nil)

// New creates a flashcard screen.
func New(deps Deps) *FlashcardScreen {
	return &FlashcardScreen{deps: deps, sessionID: uuid.New().String()}
}

func (s *FlashcardScreen) Init() tea.Cmd {
	s.started = time.Now()
	s.next()
	return nil
}

func (s *FlashcardScreen) Title() string {
	if s.deps.Deck != "" {
		return s.deps.Deck
	}
	return "Flashcards"
}

func (s *FlashcardScreen) Status() string {
	total := s.deps.Session.Total()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("Card %d/%d · %d correct", min(s.reviewed+1, total), total, s.correct)
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" || !s.hasCard:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.revealed:
		return []layout.KeyHint{
			{Key: "Y", Description: "Knew it"},
			{Key: "N", Description: "Didn't"},
			{Key: "Esc", Description: "Stop"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Reveal"},
		{Key: "Esc", Description: "Stop"},
	}
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		return s.handleKey(kmsg)
	}
	return s, nil
}

func (s *FlashcardScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || !s.hasCard {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch key {
	case "esc", "q":
		return s, s.stop()
	}

	if !s.revealed {
		switch key {
		case "space", " ", "enter":
			s.revealed = true
		}
		return s, nil
	}

	switch key {
	case "y", "Y":
		return s, s.grade(true)
	case "n", "N":
		return s, s.grade(false)
	}
	return s, nil
}

func (s *FlashcardScreen) next() {
	s.card, s.hasCard = s.deps.Session.Next()
	s.revealed = false
}

func (s *FlashcardScreen) grade(correct bool) tea.Cmd {
	p, err := s.deps.Session.Record(correct)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.reviewed++
	if correct {
		s.correct++
	}
	s.lastBox = p.Box
	if s.deps.Events != nil {
		_ = s.deps.Events.AppendReview(context.Background(), store.ReviewEventData{
			SessionID: s.sessionID,
			Deck:      s.deps.Deck,
			CardID:    s.card.ID,
			Correct:   correct,
			Box:       p.Box,
		})
	}

	s.next()
	if !s.hasCard {
		return s.finish()
	}
	return nil
}

func (s *FlashcardScreen) save() error {
	if s.saved || s.deps.ProgressPath == "" {
		return nil
	}
	if err := leitner.SaveProgress(s.deps.ProgressPath, s.deps.Session.Export()); err != nil {
		return err
	}
	s.saved = true
	return nil
}

func (s *FlashcardScreen) stop() tea.Cmd {
	if err := s.save(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *FlashcardScreen) finish() tea.Cmd {
	if err := s.save(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	sum := summary.Summary{
		Title:    s.deps.Deck,
		Score:    s.correct,
		Total:    s.reviewed,
		Duration: time.Since(s.started),
		Boxes:    s.deps.Session.BoxCounts(),
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *FlashcardScreen) View(width, height int) string {
	if s.errMsg != "" {
		body := theme.Incorrect.Render(s.errMsg) + "\n\n" + theme.Hint.Render("Press any key to go back.")
		return layout.Center(body, width, height)
	}
	if !s.hasCard {
		body := theme.Title.Render("Nothing to review") + "\n\n" +
			theme.Body.Render("No cards are due. Come back later.")
		return layout.Center(body, width, height)
	}

	cardWidth := min(width-8, 60)
	var b strings.Builder
	b.WriteString(theme.Hint.Render("Front"))
	b.WriteString("\n")
	b.WriteString(theme.Prompt.Render(s.card.Front))
	if s.revealed {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Back"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(s.card.Back))
	}
	card := theme.FocusedCard.Width(cardWidth).Align(lipgloss.Center).Render(b.String())

	var footer string
	if s.revealed {
		footer = theme.Hint.Render("Did you know it? Y / N")
	} else {
		footer = theme.Hint.Render("Press Space to reveal")
	}
	if p, ok := s.deps.Session.Progress(s.card.ID); ok {
		footer += "\n" + theme.Hint.Render(fmt.Sprintf("Box %d", p.Box))
	}
	return layout.Center(card+"\n\n"+footer, width, height)
}
