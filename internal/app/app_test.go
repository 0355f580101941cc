package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Emily9121/WifeyMOOC/internal/screen"
	"github.com/Emily9121/WifeyMOOC/internal/ui/layout"
)

type fakeScreen struct{}

func (fakeScreen) Init() tea.Cmd                             { return nil }
func (f fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return f, nil }
func (fakeScreen) View(int, int) string                      { return "body" }
func (fakeScreen) Title() string                             { return "Fake" }
func (fakeScreen) Status() string                            { return "3/5" }
func (fakeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "x", Description: "Explode"}}
}

func resize(m AppModel, w, h int) AppModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(AppModel)
}

func TestViewTooSmall(t *testing.T) {
	m := resize(NewAppModel(fakeScreen{}), 60, 20)
	content := m.render()
	if !strings.Contains(content, "Terminal too small") {
		t.Errorf("expected resize notice, got %q", content)
	}
}

func TestViewFrame(t *testing.T) {
	m := resize(NewAppModel(fakeScreen{}), 100, 30)
	content := m.render()
	for _, want := range []string{"WifeyMOOC", "Fake", "3/5", "body", "Explode"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := NewAppModel(fakeScreen{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
