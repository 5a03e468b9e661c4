package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/l-e-g/legsim/cpu"
)

// model is the interactive TUI's state: the driver being stepped, plus
// whatever error caused it to stop.
type model struct {
	driver *cpu.Driver
	err    error
	done   bool
}

func newModel(d *cpu.Driver) model {
	return model{driver: d}
}

var _ tea.Model = model{}

// Init returns the first command to run; none is needed here.
func (m model) Init() tea.Cmd { return nil }

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			if m.done {
				return m, nil
			}
			running, err := m.driver.Step()
			if err != nil {
				m.err = err
				m.done = true
				return m, nil
			}
			if !running {
				m.done = true
			}
		}
	}
	return m, nil
}

func (m model) status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Done: %t\n", m.done)
	if m.err != nil {
		fmt.Fprintf(&b, "Error: %s\n", m.err)
	}
	return b.String()
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.status(),
		spew.Sdump(m.driver),
		"",
		"space/j: step    q: quit",
	)
}
