// Package quiz is the terminal screen that runs a quiz session.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Emily9121/WifeyMOOC/internal/grading"
	"github.com/Emily9121/WifeyMOOC/internal/media"
	"github.com/Emily9121/WifeyMOOC/internal/question"
	quizctl "github.com/Emily9121/WifeyMOOC/internal/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/router"
	"github.com/Emily9121/WifeyMOOC/internal/screen"
	"github.com/Emily9121/WifeyMOOC/internal/screens/summary"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
	"github.com/Emily9121/WifeyMOOC/internal/tutor"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
)

// snapshotsKept is how many store snapshots are kept per question set.
const snapshotsKept = 20

// Deps are the collaborators of the quiz screen. Only Controller is
// required.
type Deps struct {
	Controller *quizctl.Controller
	Title      string

	// ProgressPath is the progress file written on save. Empty disables
	// file saves.
	ProgressPath string

	Events    store.EventRepo
	Snapshots store.SnapshotRepo
	Media     *media.Resolver
	Tutor     *tutor.Service
}

// QuizScreen implements screen.Screen for an active quiz session.
type QuizScreen struct {
	deps      Deps
	ctl       *quizctl.Controller
	sessionID string
	started   time.Time
	ended     bool

	spec   question.Spec
	col    response.Collector
	widget widget

	result   *grading.Result
	solved   bool
	showHint bool
	quitting bool

	notice    string
	noticeErr bool

	explanation *tutor.Explanation
	explainErr  string
	showExplain bool

	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a quiz screen for a controller that already holds a loaded
// or restored session.
func New(deps Deps) *QuizScreen {
	return &QuizScreen{
		deps:      deps,
		ctl:       deps.Controller,
		sessionID: uuid.New().String(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.started = time.Now()
	if s.ctl == nil || s.ctl.State() == quizctl.StateEmpty {
		s.errMsg = "No question set loaded."
		return nil
	}
	s.recordSession(store.SessionStart)
	if s.ctl.State() == quizctl.StateCompleted {
		return s.finish()
	}
	return s.load()
}

func (s *QuizScreen) Title() string {
	if s.deps.Title != "" {
		return s.deps.Title
	}
	return "Quiz"
}

func (s *QuizScreen) Status() string {
	if s.ctl == nil || s.ctl.State() == quizctl.StateEmpty {
		return ""
	}
	pos := min(s.ctl.Index()+1, s.ctl.Len())
	return fmt.Sprintf("Score %d · Q %d/%d", s.ctl.Score(), pos, s.ctl.Len())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.quitting {
		return []layout.KeyHint{
			{Key: "Y", Description: "Save and quit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	var hints []layout.KeyHint
	if s.widget != nil {
		hints = append(hints, s.widget.Hints()...)
	}
	if s.solved {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Submit"})
	}
	if s.explanation != nil {
		hints = append(hints, layout.KeyHint{Key: "?", Description: "Explain"})
	}
	if s.spec.Hint != "" {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "Hint"})
	}
	return append(hints,
		layout.KeyHint{Key: "n", Description: "Skip"},
		layout.KeyHint{Key: "s", Description: "Save"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainTickMsg:
		return s, s.pollExplanation()

	case mediaOpenedMsg:
		if msg.Err != nil {
			s.setError(msg.Err.Error())
		} else {
			s.setNotice("Opened " + question.FileName(msg.Path))
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// load builds the collector and widget for the current question.
func (s *QuizScreen) load() tea.Cmd {
	spec, err := s.ctl.Current()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	col, err := s.ctl.NewCollector()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.spec = spec
	s.col = col
	s.widget = newWidget(spec, col)
	s.result = nil
	s.solved = false
	s.showHint = false
	s.clearExplanation()
	return s.widget.Focus()
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.quitting {
		switch key {
		case "y", "Y":
			s.quitting = false
			return s, s.quit()
		case "n", "N", "esc":
			s.quitting = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitting = true
		return s, nil
	case "ctrl+s":
		s.save()
		return s, nil
	case "ctrl+n":
		return s, s.advance()
	case "enter":
		if s.solved {
			return s, s.advance()
		}
		return s, s.submit()
	}

	if s.widget != nil {
		if ok, cmd := s.widget.HandleKey(msg); ok {
			return s, cmd
		}
		if s.widget.Typing() {
			return s, nil
		}
	}

	switch key {
	case "n":
		return s, s.advance()
	case "s":
		s.save()
	case "r":
		return s, s.restart()
	case "a":
		return s, s.cycleAlternative()
	case "h":
		if s.spec.Hint == "" {
			s.setNotice("No hint for this question.")
		} else {
			s.showHint = !s.showHint
		}
	case "l":
		if s.spec.Lesson.PDF == "" {
			s.setNotice("No lesson for this question.")
			return s, nil
		}
		return s, s.openMedia(s.spec.Lesson.PDF)
	case "o":
		p := s.widget.Media()
		if p == "" {
			p = firstMedia(s.spec.Media)
		}
		if p == "" {
			s.setNotice("No media for this question.")
			return s, nil
		}
		return s, s.openMedia(p)
	case "?":
		s.toggleExplanation()
	case "q":
		s.quitting = true
	}
	return s, nil
}

// submit grades the collector's current response.
func (s *QuizScreen) submit() tea.Cmd {
	if s.col == nil {
		return nil
	}
	out, err := s.ctl.Submit(s.col.Value())
	if err != nil {
		s.setError(err.Error())
		return nil
	}
	s.result = &out.Result
	s.recordAttempts(out)
	s.clearExplanation()

	switch {
	case out.Result.Correct:
		s.solved = true
	case !out.Result.Incomplete:
		return s.requestExplanation(out)
	}
	return nil
}

func (s *QuizScreen) advance() tea.Cmd {
	st, err := s.ctl.Advance()
	if err != nil {
		s.setError(err.Error())
		return nil
	}
	if st == quizctl.StateCompleted {
		return s.finish()
	}
	return s.load()
}

func (s *QuizScreen) restart() tea.Cmd {
	if err := s.ctl.Restart(); err != nil {
		s.setError(err.Error())
		return nil
	}
	cmd := s.load()
	s.setNotice("Restarted from the first question.")
	return cmd
}

// cycleAlternative cycles the active question, or the focused part when
// the question is a block.
func (s *QuizScreen) cycleAlternative() tea.Cmd {
	key, spec, part := quizctl.Key(s.ctl.Index()), s.spec, -1
	if w, ok := s.widget.(*compositeWidget); ok && w.cursor < len(w.specs) {
		part = w.cursor
		key, spec = response.PartKey(key, part), w.specs[part]
	}
	alt, err := s.ctl.CycleAlternativeAt(key)
	if errors.Is(err, quizctl.ErrNotImageTagging) {
		s.setNotice("This question has no alternative versions.")
		return nil
	}
	if err != nil {
		s.setError(err.Error())
		return nil
	}
	cmd := s.load()
	if w, ok := s.widget.(*compositeWidget); ok && part > 0 && part < len(w.parts) {
		cmd = w.focusPart(part)
	}
	if p, ok := spec.Payload.(question.ImageTagging); ok {
		s.setNotice(fmt.Sprintf("Showing version %d of %d", alt+1, tagging.AlternativeCount(p)))
	}
	return cmd
}

// finish saves, closes the session and replaces the screen with the
// summary.
func (s *QuizScreen) finish() tea.Cmd {
	s.save()
	s.recordSession(store.SessionEnd)
	sum := summary.Summary{
		Title:    s.deps.Title,
		Score:    s.ctl.Score(),
		Total:    s.ctl.Scorable(),
		Duration: time.Since(s.started),
		Answered: sortedKeys(s.ctl.Answers()),
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *QuizScreen) quit() tea.Cmd {
	s.save()
	s.recordSession(store.SessionEnd)
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// save writes the snapshot to the progress file and the store. Failures
// are shown in the view.
func (s *QuizScreen) save() {
	snap, err := s.ctl.Snapshot()
	if err != nil {
		s.setError(err.Error())
		return
	}
	var failures []string
	if s.deps.ProgressPath != "" {
		if err := quizctl.SaveFile(s.deps.ProgressPath, snap); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if s.deps.Snapshots != nil {
		if err := s.saveSnapshot(snap); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		s.setError(strings.Join(failures, "; "))
		return
	}
	s.setNotice("Progress saved.")
}

func (s *QuizScreen) saveSnapshot(snap quizctl.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	ctx := context.Background()
	if err := s.deps.Snapshots.Save(ctx, &store.Snapshot{
		SessionID:    s.sessionID,
		QuestionFile: snap.QuestionFile,
		Data:         data,
	}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return s.deps.Snapshots.Prune(ctx, snap.QuestionFile, snapshotsKept)
}

func (s *QuizScreen) recordAttempts(out quizctl.Outcome) {
	if s.deps.Events == nil {
		return
	}
	ctx := context.Background()
	for _, a := range out.Attempts {
		_ = s.deps.Events.AppendAttempt(ctx, store.AttemptEventData{
			SessionID:    s.sessionID,
			QuestionFile: s.ctl.Ref(),
			QuestionKey:  a.Key,
			Kind:         string(a.Kind),
			Correct:      a.Correct,
			UserAnswer:   a.UserAnswer,
			Message:      a.Message,
		})
	}
}

func (s *QuizScreen) recordSession(action string) {
	if s.deps.Events == nil {
		return
	}
	if action == store.SessionEnd {
		if s.ended {
			return
		}
		s.ended = true
	}
	_ = s.deps.Events.AppendSession(context.Background(), store.SessionEventData{
		SessionID:    s.sessionID,
		QuestionFile: s.ctl.Ref(),
		Action:       action,
		Score:        s.ctl.Score(),
		Total:        s.ctl.Scorable(),
		DurationSecs: int(time.Since(s.started).Seconds()),
	})
}

func (s *QuizScreen) openMedia(p string) tea.Cmd {
	if s.deps.Media == nil {
		s.setNotice("Media: " + p)
		return nil
	}
	r := s.deps.Media
	return func() tea.Msg {
		return mediaOpenedMsg{Path: p, Err: r.Open(context.Background(), p)}
	}
}

// requestExplanation asks the tutor about the first wrong unit of out.
func (s *QuizScreen) requestExplanation(out quizctl.Outcome) tea.Cmd {
	if s.deps.Tutor == nil {
		return nil
	}
	in, ok := explanationInput(s.spec, out)
	if !ok {
		return nil
	}
	s.deps.Tutor.Request(context.Background(), in)
	return explainTickCmd()
}

func explanationInput(spec question.Spec, out quizctl.Outcome) (tutor.Input, bool) {
	for _, a := range out.Attempts {
		if a.Correct {
			continue
		}
		in := tutor.Input{Key: a.Key, Spec: spec, UserAnswer: a.UserAnswer, Message: a.Message}
		if m, ok := spec.Payload.(question.MultiQuestions); ok && a.Key != out.Key {
			_, inner, _ := strings.Cut(a.Key, "-")
			i, err := strconv.Atoi(inner)
			if err != nil || i >= len(m.Questions) {
				return tutor.Input{}, false
			}
			in.Spec = m.Questions[i]
		}
		return in, true
	}
	return tutor.Input{}, false
}

func (s *QuizScreen) pollExplanation() tea.Cmd {
	if s.deps.Tutor == nil {
		return nil
	}
	exp, err := s.deps.Tutor.Consume()
	if errors.Is(err, tutor.ErrNotReady) {
		if s.deps.Tutor.Busy() {
			return explainTickCmd()
		}
		return nil
	}
	if err != nil {
		s.explainErr = tutor.Describe(err)
		return nil
	}
	s.explanation = exp
	return nil
}

func (s *QuizScreen) toggleExplanation() {
	switch {
	case s.deps.Tutor == nil:
		s.setNotice("Explanations are not enabled.")
	case s.explanation != nil:
		s.showExplain = !s.showExplain
	case s.deps.Tutor.Busy():
		s.setNotice("Thinking about your answer...")
	default:
		s.setNotice("No explanation for this question.")
	}
}

func (s *QuizScreen) clearExplanation() {
	s.explanation = nil
	s.explainErr = ""
	s.showExplain = false
	if s.deps.Tutor != nil {
		s.deps.Tutor.Reset()
	}
}

func (s *QuizScreen) setNotice(msg string) {
	s.notice = msg
	s.noticeErr = false
}

func (s *QuizScreen) setError(msg string) {
	s.notice = msg
	s.noticeErr = true
}

// sortedKeys orders answer keys by question index, then nested index.
func sortedKeys(answers map[string]any) []string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ai, ak := splitKey(a)
		bi, bk := splitKey(b)
		if ai != bi {
			return ai - bi
		}
		return ak - bk
	})
	return keys
}

func splitKey(k string) (int, int) {
	head, tail, nested := strings.Cut(k, "-")
	i, _ := strconv.Atoi(head)
	if !nested {
		return i, -1
	}
	j, _ := strconv.Atoi(tail)
	return i, j
}
