// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/regen"
)

const (
	// DefaultSuccessDelay is how long a finished notice stays on the board.
	DefaultSuccessDelay = 2 * time.Second
	// DefaultFailureDelay is how long an errored notice stays on the board.
	DefaultFailureDelay = 10 * time.Second
)

var (
	boardTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	boardMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boardSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	boardErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	boardProjectStyle = lipgloss.NewStyle().Bold(true)
	boardSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

type (
	// BoardOptions configures a Board.
	BoardOptions struct {
		// SuccessDelay is how long a notice stays after its pass finished.
		SuccessDelay time.Duration
		// FailureDelay is how long a notice stays after its pass errored.
		FailureDelay time.Duration
		// Verbose keeps an idle line on the board when no pass is running.
		Verbose bool
	}

	// Board is a live terminal status board with one notice per
	// regeneration pass. Each notice retires on its own a short while after
	// its pass finishes or errors.
	Board struct {
		program *tea.Program
		nextID  atomic.Uint64
	}

	boardModel struct {
		opts    BoardOptions
		notices []*notice
		spinner spinner.Model
		width   int
	}

	notice struct {
		id      uint64
		project string
		stage   regen.Stage
		kind    regen.ErrorKind
		err     error
	}

	// noticeObserver forwards pass progress to the board program.
	noticeObserver struct {
		id   uint64
		send func(tea.Msg)
	}

	noticeOpenedMsg struct {
		id      uint64
		project string
	}

	noticeStageMsg struct {
		id    uint64
		stage regen.Stage
	}

	noticeErrorMsg struct {
		id   uint64
		kind regen.ErrorKind
		err  error
	}

	noticeRetireMsg struct {
		id uint64
	}
)

// NewBoard creates a Board. Zero delays use the defaults.
func NewBoard(opts BoardOptions, programOpts ...tea.ProgramOption) *Board {
	return &Board{
		program: tea.NewProgram(newBoardModel(opts), programOpts...),
	}
}

// Run draws the board until Quit is called or the user presses q or ctrl+c.
func (b *Board) Run() error {
	_, err := b.program.Run()
	return err
}

// Quit stops the board.
func (b *Board) Quit() {
	b.program.Quit()
}

// ObserverFactory returns a factory that opens a notice for each pass.
// Observers block until the board is running and become no-ops once it has
// stopped.
func (b *Board) ObserverFactory() regen.ObserverFactory {
	return func(p project.Project) regen.Observer {
		return openNotice(b.nextID.Add(1), p.Title(), b.program.Send)
	}
}

func openNotice(id uint64, title string, send func(tea.Msg)) *noticeObserver {
	send(noticeOpenedMsg{id: id, project: title})
	return &noticeObserver{id: id, send: send}
}

// OnStage implements regen.Observer.
func (o *noticeObserver) OnStage(stage regen.Stage) {
	o.send(noticeStageMsg{id: o.id, stage: stage})
}

// OnError implements regen.Observer.
func (o *noticeObserver) OnError(kind regen.ErrorKind, err error) {
	o.send(noticeErrorMsg{id: o.id, kind: kind, err: err})
}

func newBoardModel(opts BoardOptions) boardModel {
	if opts.SuccessDelay <= 0 {
		opts.SuccessDelay = DefaultSuccessDelay
	}
	if opts.FailureDelay <= 0 {
		opts.FailureDelay = DefaultFailureDelay
	}
	return boardModel{
		opts:    opts,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(boardSpinnerStyle)),
	}
}

// Init implements tea.Model.
func (m boardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case noticeOpenedMsg:
		m.notices = append(m.notices, &notice{id: msg.id, project: msg.project})
		return m, nil

	case noticeStageMsg:
		n := m.find(msg.id)
		if n == nil {
			return m, nil
		}
		n.stage = msg.stage
		switch msg.stage {
		case regen.StageFinished:
			return m, retireAfter(msg.id, m.opts.SuccessDelay)
		case regen.StageErrored:
			return m, retireAfter(msg.id, m.opts.FailureDelay)
		}
		return m, nil

	case noticeErrorMsg:
		if n := m.find(msg.id); n != nil {
			n.kind = msg.kind
			n.err = msg.err
		}
		return m, nil

	case noticeRetireMsg:
		for i, n := range m.notices {
			if n.id == msg.id {
				m.notices = append(m.notices[:i:i], m.notices[i+1:]...)
				break
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m boardModel) View() string {
	var sb strings.Builder
	sb.WriteString(boardTitleStyle.Render("Input actions"))
	sb.WriteString("\n")

	if len(m.notices) == 0 {
		if m.opts.Verbose {
			sb.WriteString(boardMutedStyle.Render("  watching for changes…"))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	for _, n := range m.notices {
		sb.WriteString("  ")
		sb.WriteString(m.renderNotice(n))
		sb.WriteString("\n")
	}
	sb.WriteString(boardMutedStyle.Render("  q to quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m boardModel) renderNotice(n *notice) string {
	name := boardProjectStyle.Render(n.project)
	switch n.stage {
	case regen.StageFinished:
		return fmt.Sprintf("%s %s %s", boardSuccessStyle.Render("✓"), name, boardMutedStyle.Render("input actions generated"))
	case regen.StageErrored:
		detail := n.kind.String()
		if n.err != nil {
			detail += ": " + n.err.Error()
		}
		line := fmt.Sprintf("%s %s %s", boardErrorStyle.Render("✗"), name, boardErrorStyle.Render(detail))
		if m.width > 0 {
			return lipgloss.NewStyle().MaxWidth(m.width - 2).Render(line)
		}
		return line
	default:
		return fmt.Sprintf("%s %s %s", m.spinner.View(), name, boardMutedStyle.Render(n.stage.String()+"…"))
	}
}

func (m boardModel) find(id uint64) *notice {
	for _, n := range m.notices {
		if n.id == id {
			return n
		}
	}
	return nil
}

func retireAfter(id uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return noticeRetireMsg{id: id}
	})
}
