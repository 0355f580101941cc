package quiz

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

func build(t *testing.T, spec question.Spec) (widget, response.Collector) {
	t.Helper()
	col := response.New(spec, response.Options{Key: "0"})
	w := newWidget(spec, col)
	w.Focus()
	return w, col
}

func send(w widget, keys ...tea.KeyPressMsg) bool {
	handled := true
	for _, k := range keys {
		ok, _ := w.HandleKey(k)
		handled = handled && ok
	}
	return handled
}

var (
	upKey    = tea.KeyPressMsg{Code: tea.KeyUp}
	downKey  = tea.KeyPressMsg{Code: tea.KeyDown}
	leftKey  = tea.KeyPressMsg{Code: tea.KeyLeft}
	rightKey = tea.KeyPressMsg{Code: tea.KeyRight}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
	spaceKey = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
)

func TestChoiceWidget(t *testing.T) {
	w, col := build(t, mcq("Pick", 0, "a", "b", "c"))
	c := col.(*response.ChoiceCollector)

	send(w, downKey, downKey, spaceKey)
	if c.Selected() != 2 {
		t.Errorf("Selected = %d, want 2", c.Selected())
	}
	send(w, keyPress('1'))
	if c.Selected() != 0 {
		t.Errorf("Selected = %d, want 0", c.Selected())
	}
	if send(w, keyPress('9')) {
		t.Error("out-of-range digit should not be handled")
	}
}

func TestSelectionWidget(t *testing.T) {
	spec := question.Spec{
		Kind: question.KindListPick,
		Payload: question.ListPick{
			Options: []question.Stimulus{{Text: "cat"}, {Image: "img/dog.png"}},
			Correct: []int{0},
		},
	}
	w, col := build(t, spec)
	c := col.(*response.SelectionCollector)

	send(w, spaceKey, downKey, spaceKey)
	if !c.IsSelected(0) || !c.IsSelected(1) {
		t.Error("expected both options selected")
	}
	send(w, spaceKey)
	if c.IsSelected(1) {
		t.Error("space should toggle")
	}
	if w.Media() != "img/dog.png" {
		t.Errorf("Media = %q", w.Media())
	}
	if !strings.Contains(w.View(80), "dog.png") {
		t.Error("image option should show its file name")
	}
}

func TestTextWidgetTabsAcrossBlanks(t *testing.T) {
	spec := question.Spec{
		Kind:    question.KindWordFill,
		Payload: question.WordFill{Parts: []string{"a", "b", "c"}, Answers: []string{"x", "y"}},
	}
	w, _ := build(t, spec)
	tw := w.(*textWidget)

	if ok, _ := w.HandleKey(tabKey); !ok || tw.cursor != 1 {
		t.Fatalf("tab should move to the second blank (cursor %d)", tw.cursor)
	}
	if ok, _ := w.HandleKey(tabKey); ok {
		t.Error("tab past the last blank should be left to the parent")
	}
	if ok, _ := w.HandleKey(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}); !ok || tw.cursor != 0 {
		t.Errorf("shift+tab should move back (cursor %d)", tw.cursor)
	}
	if ok, _ := w.HandleKey(enterKey); ok {
		t.Error("enter belongs to the screen")
	}
}

func TestPickWidget(t *testing.T) {
	spec := question.Spec{
		Kind: question.KindFillBlanksDropdown,
		Payload: question.FillBlanksDropdown{
			Parts:   []string{"Le chat est", "et", "."},
			Options: [][]string{{"noir", "blanc"}, {"petit", "grand"}},
			Answers: []string{"noir", "petit"},
		},
	}
	w, col := build(t, spec)
	c := col.(*response.PickCollector)

	send(w, rightKey)
	first := c.Selected(0)
	if first == "" {
		t.Fatal("right should pick a value")
	}
	send(w, downKey, spaceKey)
	if c.Selected(1) == "" {
		t.Error("space should pick a value on the second row")
	}
	send(w, upKey, leftKey)
	if c.Selected(0) == first {
		t.Error("left should cycle the first row back")
	}
	if !strings.Contains(w.View(80), "Le chat est") {
		t.Error("sentence preview missing")
	}
}

func TestRankWidget(t *testing.T) {
	spec := question.Spec{
		Kind: question.KindSequenceAudio,
		Payload: question.SequenceAudio{
			Clips:        []string{"one.mp3", "two.mp3"},
			CorrectOrder: []int{1, 0},
		},
	}
	w, col := build(t, spec)
	c := col.(*response.RankCollector)

	send(w, keyPress('2'), downKey, keyPress('1'))
	if c.Rank(0) != 2 || c.Rank(1) != 1 {
		t.Errorf("ranks = %d %d, want 2 1", c.Rank(0), c.Rank(1))
	}
	if w.Media() != "two.mp3" {
		t.Errorf("Media = %q, want two.mp3", w.Media())
	}
	send(w, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if c.Rank(1) != 0 {
		t.Errorf("backspace should clear the rank, got %d", c.Rank(1))
	}
}

func TestOrderWidget(t *testing.T) {
	spec := question.Spec{
		Kind:    question.KindOrderPhrase,
		Payload: question.OrderPhrase{Tokens: []string{"am", "I", "here"}, Correct: []string{"I", "am", "here"}},
	}
	w, col := build(t, spec)
	c := col.(*response.OrderCollector)

	send(w, rightKey, keyPress('['))
	if got := strings.Join(c.Tokens(), " "); got != "I am here" {
		t.Errorf("tokens = %q", got)
	}
	send(w, keyPress('['))
	if got := strings.Join(c.Tokens(), " "); got != "I am here" {
		t.Errorf("moving the first token up should do nothing, got %q", got)
	}
	send(w, keyPress(']'), keyPress(']'))
	if got := strings.Join(c.Tokens(), " "); got != "am here I" {
		t.Errorf("tokens = %q", got)
	}
}

func TestTagWidget(t *testing.T) {
	spec := tagSpec()
	p := spec.Payload.(question.ImageTagging)
	p.Tags = append(p.Tags, question.Tag{ID: "tail", Label: "Tail"})
	spec.Payload = p
	w, col := build(t, spec)
	c := col.(*response.TagCollector)

	head, _ := c.Position("head")
	send(w, rightKey, downKey, keyPress('L'))
	got, _ := c.Position("head")
	if got.X != head.X+nudgeStep+fineNudgeStep || got.Y != head.Y+nudgeStep {
		t.Errorf("head = %+v, from %+v", got, head)
	}

	tail, _ := c.Position("tail")
	send(w, keyPress('j'), upKey)
	got, _ = c.Position("tail")
	if got.Y != tail.Y-nudgeStep {
		t.Errorf("tail Y = %v, want %v", got.Y, tail.Y-nudgeStep)
	}
	if w.Media() != "cat.png" {
		t.Errorf("Media = %q", w.Media())
	}
}

func TestCompositeWidget(t *testing.T) {
	spec := question.Spec{
		Kind: question.KindMultiQuestions,
		Payload: question.MultiQuestions{Questions: []question.Spec{
			mcq("first", 0, "a", "b"),
			mcq("second", 1, "a", "b"),
		}},
	}
	w, col := build(t, spec)
	parts := col.(*response.CompositeCollector).Parts()

	send(w, keyPress('2'), tabKey, keyPress('1'))
	if got := parts[0].(*response.ChoiceCollector).Selected(); got != 1 {
		t.Errorf("part 0 selected = %d, want 1", got)
	}
	if got := parts[1].(*response.ChoiceCollector).Selected(); got != 0 {
		t.Errorf("part 1 selected = %d, want 0", got)
	}
	view := w.View(80)
	if !strings.Contains(view, "first") || !strings.Contains(view, "second") {
		t.Error("composite view should show every part")
	}
}

func TestUnknownKindWidget(t *testing.T) {
	w, _ := build(t, question.Spec{Kind: question.Kind("hologram"), Payload: question.Unknown{Type: "hologram"}})
	if send(w, keyPress('1')) {
		t.Error("unsupported questions take no input")
	}
	if !strings.Contains(w.View(80), "not supported") {
		t.Error("expected unsupported notice")
	}
}
