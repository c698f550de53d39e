// Package model is the Bubble Tea model behind `conlog watch`.
package model

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modoterra/conlog/pkg/transport/uds"
)

// App is the root Bubble Tea model.
type App struct {
	// Connection
	client     *uds.Client
	socketPath string
	connected  bool
	interval   time.Duration

	// State
	text   string
	status uds.StatusResponse
	paused bool

	// UI
	view   viewport.Model
	ready  bool
	width  int
	height int

	// Error display
	statusMsg string
}

// New creates a new viewer polling the daemon at socketPath every interval.
func New(socketPath string, interval time.Duration) App {
	if interval <= 0 {
		interval = time.Second
	}
	return App{
		socketPath: socketPath,
		interval:   interval,
	}
}

// Init connects to the daemon.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		connectCmd(a.socketPath),
		tea.SetWindowTitle("conlog"),
	)
}

// tickMsg triggers periodic refresh.
type tickMsg time.Time

// connectedMsg indicates successful daemon connection.
type connectedMsg struct{ client *uds.Client }

// snapshotMsg carries the buffer contents and connection status.
type snapshotMsg struct {
	text   string
	status uds.StatusResponse
}

// errorMsg carries an error to display.
type errorMsg struct{ err error }

func connectCmd(socketPath string) tea.Cmd {
	return func() tea.Msg {
		client, err := uds.Dial(socketPath)
		if err != nil {
			return errorMsg{err}
		}
		return connectedMsg{client}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchCmd(client *uds.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		text, err := client.Read(ctx)
		if err != nil {
			return errorMsg{err}
		}
		st, err := client.Status(ctx)
		if err != nil {
			return errorMsg{err}
		}
		return snapshotMsg{text: text, status: st}
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if !a.ready {
			a.view = viewport.New(a.width, 1)
			a.ready = true
		}
		a.view.Width = a.width
		a.layout()
		a.view.SetContent(a.text)
		return a, nil

	case connectedMsg:
		a.client = msg.client
		a.connected = true
		a.statusMsg = "connected"
		a.layout()
		return a, tea.Batch(tickCmd(a.interval), fetchCmd(a.client))

	case tickMsg:
		if a.client != nil && !a.paused {
			return a, tea.Batch(tickCmd(a.interval), fetchCmd(a.client))
		}
		return a, tickCmd(a.interval)

	case snapshotMsg:
		a.status = msg.status
		a.layout()
		if msg.text != a.text {
			a.text = msg.text
			if a.ready {
				atBottom := a.view.AtBottom()
				a.view.SetContent(a.text)
				if atBottom {
					a.view.GotoBottom()
				}
			}
		}
		return a, nil

	case errorMsg:
		a.statusMsg = "error: " + msg.err.Error()
		a.layout()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if a.client != nil {
				a.client.Close()
			}
			return a, tea.Quit
		case " ":
			a.paused = !a.paused
			if a.paused {
				a.statusMsg = "paused"
			} else {
				a.statusMsg = "resumed"
			}
			return a, nil
		case "g":
			a.view.GotoTop()
			return a, nil
		case "G":
			a.view.GotoBottom()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.view, cmd = a.view.Update(msg)
	return a, cmd
}

// layout gives the viewport whatever rows the header and status bar leave.
func (a *App) layout() {
	if !a.ready {
		return
	}
	chrome := lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderStatusBar())
	a.view.Height = max(a.height-chrome, 1)
}
