package quiz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Emily9121/WifeyMOOC/internal/llm"
	"github.com/Emily9121/WifeyMOOC/internal/question"
	quizctl "github.com/Emily9121/WifeyMOOC/internal/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/router"
	"github.com/Emily9121/WifeyMOOC/internal/screens/summary"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/Emily9121/WifeyMOOC/internal/tutor"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	attempts []store.AttemptEventData
	sessions []store.SessionEventData
}

func (m *mockEventRepo) AppendAttempt(_ context.Context, data store.AttemptEventData) error {
	m.attempts = append(m.attempts, data)
	return nil
}
func (m *mockEventRepo) AppendSession(_ context.Context, data store.SessionEventData) error {
	m.sessions = append(m.sessions, data)
	return nil
}
func (m *mockEventRepo) AppendReview(_ context.Context, _ store.ReviewEventData) error {
	return nil
}
func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) QueryAttempts(_ context.Context, _ store.QueryOpts) ([]store.AttemptEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) QuerySessions(_ context.Context, _ store.QueryOpts) ([]store.SessionEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryLLMRequests(_ context.Context, _ store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) QuestionStats(_ context.Context, _, _ string) (store.AttemptStats, error) {
	return store.AttemptStats{}, nil
}

// mockSnapshotRepo implements store.SnapshotRepo for testing.
type mockSnapshotRepo struct {
	snapshots []*store.Snapshot
	pruned    int
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	m.snapshots = append(m.snapshots, snap)
	return nil
}
func (m *mockSnapshotRepo) Latest(_ context.Context, _ string) (*store.Snapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}
func (m *mockSnapshotRepo) Prune(_ context.Context, _ string, _ int) error {
	m.pruned++
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func mcq(prompt string, correct int, options ...string) question.Spec {
	return question.Spec{
		Kind:    question.KindMCQSingle,
		Prompt:  prompt,
		Payload: question.MCQSingle{Options: options, Correct: []int{correct}},
	}
}

type fixture struct {
	screen    *QuizScreen
	ctl       *quizctl.Controller
	events    *mockEventRepo
	snapshots *mockSnapshotRepo
	progress  string
}

func newFixture(t *testing.T, qs ...question.Spec) *fixture {
	t.Helper()
	ctl := quizctl.New()
	if err := ctl.LoadQuestions("set.json", t.TempDir(), qs); err != nil {
		t.Fatalf("LoadQuestions: %v", err)
	}
	f := &fixture{
		ctl:       ctl,
		events:    &mockEventRepo{},
		snapshots: &mockSnapshotRepo{},
		progress:  filepath.Join(t.TempDir(), "set.progress.json"),
	}
	f.screen = New(Deps{
		Controller:   ctl,
		Title:        "Test Set",
		ProgressPath: f.progress,
		Events:       f.events,
		Snapshots:    f.snapshots,
	})
	f.screen.Init()
	return f
}

func (f *fixture) press(keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.screen.Update(k)
	}
	return cmd
}

func TestInitRecordsSessionStart(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))
	if len(f.events.sessions) != 1 || f.events.sessions[0].Action != store.SessionStart {
		t.Fatalf("sessions = %+v, want one start event", f.events.sessions)
	}
	if f.events.sessions[0].QuestionFile != "set.json" {
		t.Errorf("QuestionFile = %q, want set.json", f.events.sessions[0].QuestionFile)
	}
}

func TestCorrectAnswerThenAdvance(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"), mcq("Pick a", 0, "a", "b"))

	f.press(keyPress('2'), enterKey)
	if f.screen.result == nil || !f.screen.result.Correct {
		t.Fatalf("result = %+v, want correct", f.screen.result)
	}
	if f.ctl.Score() != 1 {
		t.Errorf("Score = %d, want 1", f.ctl.Score())
	}
	if len(f.events.attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(f.events.attempts))
	}
	a := f.events.attempts[0]
	if a.QuestionKey != "0" || a.Kind != "mcq_single" || !a.Correct {
		t.Errorf("attempt = %+v", a)
	}

	f.press(enterKey)
	if f.ctl.Index() != 1 {
		t.Errorf("Index = %d, want 1", f.ctl.Index())
	}
	if f.screen.result != nil {
		t.Error("feedback should reset on the next question")
	}
}

func TestIncompleteSubmissionIsNotRecorded(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))
	f.press(enterKey)
	if f.screen.result == nil || !f.screen.result.Incomplete {
		t.Fatalf("result = %+v, want incomplete", f.screen.result)
	}
	if len(f.events.attempts) != 0 {
		t.Errorf("attempts = %d, want 0", len(f.events.attempts))
	}
	if f.screen.solved {
		t.Error("incomplete submission must not unlock Enter to advance")
	}
}

func TestWrongAnswerKeepsQuestion(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))
	f.press(keyPress('1'), enterKey, enterKey)
	if f.ctl.Index() != 0 {
		t.Errorf("Index = %d, want 0 after wrong answers", f.ctl.Index())
	}
	if len(f.events.attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(f.events.attempts))
	}
	if !strings.Contains(f.screen.View(100, 30), "Incorrect.") {
		t.Error("view should show the grading message")
	}
}

func TestSkipAdvancesWithoutAnswer(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"), mcq("Pick a", 0, "a", "b"))
	f.press(keyPress('n'))
	if f.ctl.Index() != 1 {
		t.Errorf("Index = %d, want 1", f.ctl.Index())
	}
	if f.ctl.Score() != 0 {
		t.Errorf("Score = %d, want 0", f.ctl.Score())
	}
}

func TestCompletionShowsSummary(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))
	cmd := f.press(keyPress('2'), enterKey, enterKey)
	if cmd == nil {
		t.Fatal("expected a command on completion")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	last := f.events.sessions[len(f.events.sessions)-1]
	if last.Action != store.SessionEnd || last.Score != 1 || last.Total != 1 {
		t.Errorf("end event = %+v", last)
	}
	if _, err := os.Stat(f.progress); err != nil {
		t.Errorf("progress file not written: %v", err)
	}
	if len(f.snapshots.snapshots) != 1 || f.snapshots.pruned != 1 {
		t.Errorf("snapshots = %d pruned = %d, want 1 and 1", len(f.snapshots.snapshots), f.snapshots.pruned)
	}
}

func TestSaveWritesProgress(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"), mcq("Pick a", 0, "a", "b"))
	f.press(keyPress('2'), enterKey, enterKey, keyPress('s'))

	snap, err := quizctl.LoadFile(f.progress)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if snap.CurrentQuestion != 1 || snap.Score != 1 || snap.QuestionFile != "set.json" {
		t.Errorf("snapshot = %+v", snap)
	}
	if _, ok := snap.StudentAnswers["0"]; !ok {
		t.Error("expected answer for key 0")
	}
	if len(f.snapshots.snapshots) != 1 {
		t.Fatalf("store snapshots = %d, want 1", len(f.snapshots.snapshots))
	}
	if f.snapshots.snapshots[0].SessionID != f.screen.sessionID {
		t.Error("store snapshot should carry the session id")
	}
	if f.screen.notice != "Progress saved." {
		t.Errorf("notice = %q", f.screen.notice)
	}
}

func TestQuitConfirmation(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))

	f.press(escKey)
	if !f.screen.quitting {
		t.Fatal("Esc should show the quit confirmation")
	}
	if !strings.Contains(f.screen.View(100, 30), "Quit this quiz?") {
		t.Error("expected quit dialog")
	}
	f.press(keyPress('n'))
	if f.screen.quitting {
		t.Fatal("N should dismiss the dialog")
	}

	cmd := f.press(keyPress('q'), keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command on confirm")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
	ends := 0
	for _, e := range f.events.sessions {
		if e.Action == store.SessionEnd {
			ends++
		}
	}
	if ends != 1 {
		t.Errorf("end events = %d, want 1", ends)
	}
	if _, err := os.Stat(f.progress); err != nil {
		t.Errorf("progress file not written on quit: %v", err)
	}
}

func TestWordFillTyping(t *testing.T) {
	f := newFixture(t, question.Spec{
		Kind:    question.KindWordFill,
		Prompt:  "Fill in",
		Payload: question.WordFill{Parts: []string{"Je", "français."}, Answers: []string{"parle"}},
	})
	if !f.screen.widget.Typing() {
		t.Fatal("word fill should focus its text field")
	}
	for _, r := range "parse" {
		f.press(keyPress(r))
	}
	if f.screen.notice != "" {
		t.Errorf("letters must go to the text field, got notice %q", f.screen.notice)
	}
	f.press(enterKey)
	if f.screen.result == nil || f.screen.result.Correct {
		t.Fatalf("result = %+v, want incorrect", f.screen.result)
	}
}

func TestRestart(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"), mcq("Pick a", 0, "a", "b"))
	f.press(keyPress('2'), enterKey, enterKey)
	f.press(keyPress('r'))
	if f.ctl.Index() != 0 || f.ctl.Score() != 0 {
		t.Errorf("after restart index=%d score=%d, want 0 0", f.ctl.Index(), f.ctl.Score())
	}
	if len(f.ctl.Answers()) != 0 {
		t.Error("restart should clear answers")
	}
}

func tagSpec() question.Spec {
	tags := []question.Tag{{ID: "head", Label: "Head"}}
	answer := map[string]question.Point{"head": {X: 100, Y: 100}}
	return question.Spec{
		Kind:   question.KindImageTagging,
		Prompt: "Tag the cat",
		Payload: question.ImageTagging{
			TagVariant: question.TagVariant{Image: "cat.png", Tags: tags, Answer: answer, ButtonLabel: "Main"},
			Alternatives: []question.TagVariant{
				{Image: "dog.png", Tags: tags, Answer: answer, ButtonLabel: "Dog version"},
			},
		},
	}
}

func TestCycleAlternative(t *testing.T) {
	f := newFixture(t, tagSpec(), mcq("Pick a", 0, "a", "b"))

	f.press(keyPress('a'))
	if got := f.ctl.Alternative("0"); got != 1 {
		t.Fatalf("Alternative = %d, want 1", got)
	}
	col, ok := f.screen.col.(*response.TagCollector)
	if !ok {
		t.Fatalf("collector = %T, want *response.TagCollector", f.screen.col)
	}
	if col.Alternative() != 1 || col.Variant().Image != "dog.png" {
		t.Errorf("collector shows alt %d image %q", col.Alternative(), col.Variant().Image)
	}

	f.press(keyPress('a'))
	if got := f.ctl.Alternative("0"); got != 0 {
		t.Errorf("Alternative = %d, want 0 after wrapping", got)
	}

	f.press(keyPress('n'), keyPress('a'))
	if f.screen.notice != "This question has no alternative versions." {
		t.Errorf("notice = %q", f.screen.notice)
	}
}

func TestTagMovesSurviveAlternativeSwitch(t *testing.T) {
	f := newFixture(t, tagSpec())
	col := f.screen.col.(*response.TagCollector)
	before, _ := col.Position("head")

	f.press(tea.KeyPressMsg{Code: tea.KeyRight})
	f.press(keyPress('a'), keyPress('a'))

	col = f.screen.col.(*response.TagCollector)
	after, _ := col.Position("head")
	if after.X != before.X+nudgeStep {
		t.Errorf("X = %v, want %v", after.X, before.X+nudgeStep)
	}
}

func TestCycleAlternativeInsideBlock(t *testing.T) {
	block := question.Spec{
		Kind: question.KindMultiQuestions,
		Payload: question.MultiQuestions{Questions: []question.Spec{
			mcq("Pick a", 0, "a", "b"),
			tagSpec(),
		}},
	}
	f := newFixture(t, block)

	f.press(keyPress('a'))
	if f.screen.notice != "This question has no alternative versions." {
		t.Errorf("notice = %q with the choice part focused", f.screen.notice)
	}

	f.press(tabKey, keyPress('a'))
	if got := f.ctl.Alternative("0-1"); got != 1 {
		t.Fatalf("Alternative(0-1) = %d, want 1", got)
	}
	w, ok := f.screen.widget.(*compositeWidget)
	if !ok || w.cursor != 1 {
		t.Fatalf("widget = %T, want the block with its tagging part still focused", f.screen.widget)
	}
	parts := f.screen.col.(*response.CompositeCollector).Parts()
	tags, ok := parts[1].(*response.TagCollector)
	if !ok || tags.Variant().Image != "dog.png" {
		t.Errorf("tagging part = %T, want the dog.png variant", parts[1])
	}
	if f.screen.notice != "Showing version 2 of 2" {
		t.Errorf("notice = %q", f.screen.notice)
	}
}

func TestHintToggle(t *testing.T) {
	spec := mcq("Pick b", 1, "a", "b")
	spec.Hint = "It is the second letter."
	f := newFixture(t, spec)

	f.press(keyPress('h'))
	if !strings.Contains(f.screen.View(100, 30), "second letter") {
		t.Error("expected hint in view")
	}
	f.press(keyPress('h'))
	if strings.Contains(f.screen.View(100, 30), "second letter") {
		t.Error("hint should toggle off")
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"), mcq("Pick a", 0, "a", "b"))
	if got := f.screen.Status(); got != "Score 0 · Q 1/2" {
		t.Errorf("Status = %q", got)
	}
	f.press(keyPress('2'), enterKey)
	if got := f.screen.Status(); got != "Score 1 · Q 1/2" {
		t.Errorf("Status = %q", got)
	}
}

func TestViewShowsQuestion(t *testing.T) {
	f := newFixture(t, mcq("Which letter comes first?", 0, "a", "b"))
	view := f.screen.View(100, 30)
	for _, want := range []string{"Question 1 of 1", "Which letter comes first?", "1. a", "2. b"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyControllerShowsError(t *testing.T) {
	s := New(Deps{Controller: quizctl.New()})
	s.Init()
	if s.errMsg == "" {
		t.Fatal("expected an error for an empty controller")
	}
	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected pop on any key")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestResumedCompletedSessionGoesToSummary(t *testing.T) {
	ctl := quizctl.New()
	qs := []question.Spec{mcq("Pick b", 1, "a", "b")}
	src := quizctl.SourceFunc(func(string) (string, []question.Spec, error) { return "", qs, nil })
	if err := ctl.Restore(quizctl.Snapshot{CurrentQuestion: 1, Score: 1, QuestionFile: "set.json"}, src); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	s := New(Deps{Controller: ctl})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
}

func TestWrongAnswerRequestsExplanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{
		"summary": "b was right.",
		"explanation": "The second option is b.",
		"tip": "Count the options."
	}`)})
	svc := tutor.NewService(mock, tutor.DefaultConfig())

	ctl := quizctl.New()
	if err := ctl.LoadQuestions("set.json", "", []question.Spec{mcq("Pick b", 1, "a", "b")}); err != nil {
		t.Fatal(err)
	}
	s := New(Deps{Controller: ctl, Tutor: svc})
	s.Init()

	s.Update(keyPress('1'))
	_, cmd := s.Update(enterKey)
	if cmd == nil {
		t.Fatal("expected a poll command after a wrong answer")
	}

	deadline := time.Now().Add(5 * time.Second)
	for svc.Busy() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Update(explainTickMsg(time.Now()))
	if s.explanation == nil {
		t.Fatalf("explanation not received (err %q)", s.explainErr)
	}

	s.Update(keyPress('?'))
	if !strings.Contains(s.View(100, 30), "The second option is b.") {
		t.Error("expected explanation in view")
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}

func TestExplanationErrorIsDescribed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{Status: 401}})
	svc := tutor.NewService(mock, tutor.DefaultConfig())

	ctl := quizctl.New()
	if err := ctl.LoadQuestions("set.json", "", []question.Spec{mcq("Pick b", 1, "a", "b")}); err != nil {
		t.Fatal(err)
	}
	s := New(Deps{Controller: ctl, Tutor: svc})
	s.Init()

	s.Update(keyPress('1'))
	s.Update(enterKey)

	deadline := time.Now().Add(5 * time.Second)
	for svc.Busy() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Update(explainTickMsg(time.Now()))
	if !strings.Contains(s.explainErr, "API key") {
		t.Fatalf("explainErr = %q, want a hint about the API key", s.explainErr)
	}
}

func TestExplanationInput(t *testing.T) {
	block := question.Spec{
		Kind: question.KindMultiQuestions,
		Payload: question.MultiQuestions{Questions: []question.Spec{
			mcq("first", 0, "a", "b"),
			mcq("second", 1, "a", "b"),
		}},
	}
	out := quizctl.Outcome{
		Key: "4",
		Attempts: []quizctl.Attempt{
			{Key: "4-0", Correct: true},
			{Key: "4-1", Correct: false, UserAnswer: 0, Message: "Incorrect."},
		},
	}
	in, ok := explanationInput(block, out)
	if !ok {
		t.Fatal("expected an input")
	}
	if in.Key != "4-1" || in.Spec.Prompt != "second" || in.Message != "Incorrect." {
		t.Errorf("input = %+v", in)
	}

	_, ok = explanationInput(block, quizctl.Outcome{Key: "4", Attempts: out.Attempts[:1]})
	if ok {
		t.Error("no wrong part should mean no input")
	}
}

func TestMediaOpenFailureShowsNotice(t *testing.T) {
	f := newFixture(t, mcq("Pick b", 1, "a", "b"))
	f.screen.Update(mediaOpenedMsg{Path: "x.mp3", Err: errors.New("open x.mp3: media file not found")})
	if !f.screen.noticeErr || !strings.Contains(f.screen.notice, "not found") {
		t.Errorf("notice = %q err=%v", f.screen.notice, f.screen.noticeErr)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]any{"10": 1, "2": 1, "3-1": 1, "3-0": 1, "0": 1})
	want := []string{"0", "2", "3-0", "3-1", "10"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sortedKeys = %v, want %v", got, want)
	}
}
