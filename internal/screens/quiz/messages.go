package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// explainTickMsg polls the tutor for a finished explanation.
type explainTickMsg time.Time

// mediaOpenedMsg reports the result of opening a media file.
type mediaOpenedMsg struct {
	Path string
	Err  error
}

const explainPollInterval = 500 * time.Millisecond

func explainTickCmd() tea.Cmd {
	return tea.Tick(explainPollInterval, func(t time.Time) tea.Msg {
		return explainTickMsg(t)
	})
}
