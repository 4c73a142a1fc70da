package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gymtag/client/internal/exercise"
)

// The timer view is display only: it polls Tracker.Elapsed on each
// tick, and the submitted duration is computed independently inside
// the tracker when the exercise ends. A slow or stalled terminal never
// changes what gets recorded.

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

type timerModel struct {
	tracker   *exercise.Tracker
	name      string
	cancelled bool
}

func (m timerModel) Init() tea.Cmd {
	return tickCmd()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			return m, tea.Quit
		case "c", "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m timerModel) View() string {
	elapsed := int(m.tracker.Elapsed() / time.Second)
	return "\n" + titleStyle.Render("Current Exercise: "+m.name) + "\n\n" +
		timerStyle.Render(formatClock(elapsed)) + "\n\n" +
		helpStyle.Render("enter: end exercise · c: cancel") + "\n"
}

// runTimer blocks until the user ends or cancels the exercise.
func runTimer(tracker *exercise.Tracker, name string) (cancelled bool, err error) {
	final, err := tea.NewProgram(timerModel{tracker: tracker, name: name}).Run()
	if err != nil {
		return false, fmt.Errorf("running timer view: %w", err)
	}
	model, ok := final.(timerModel)
	if !ok {
		return false, nil
	}
	return model.cancelled, nil
}

func formatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
