// Package tui implements keycli's terminal client: a scrollable key
// listing, a detail view for a single key's value, and a freeform command
// line, built on Bubble Tea in the same Model/Update/View shape as the
// source TUI.
package tui

import (
	"context"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/keyd/clipboard"
	"github.com/mickamy/keyd/highlight"
	"github.com/mickamy/keyd/resp"
)

type viewMode int

const (
	viewList viewMode = iota
	viewDetail
	viewCommand
)

// Model is the Bubble Tea model for keycli.
type Model struct {
	addr string
	cli  *client

	keys   []string
	cursor int

	view   viewMode
	width  int
	height int
	err    error
	status string

	detailKey   string
	detailValue string

	cmdInput  string
	cmdCursor int
	cmdResult string
}

// New creates a Model that will connect to addr on Init.
func New(addr string) Model {
	return Model{addr: addr, view: viewList}
}

type connectedMsg struct{ cli *client }
type keysMsg struct{ keys []string }
type valueMsg struct {
	key   string
	frame resp.Frame
}
type cmdResultMsg struct{ text string }
type errMsg struct{ err error }

func (m Model) Init() tea.Cmd {
	return connect(m.addr)
}

func connect(addr string) tea.Cmd {
	return func() tea.Msg {
		c, err := dial(context.Background(), addr)
		if err != nil {
			return errMsg{err: err}
		}
		return connectedMsg{cli: c}
	}
}

func fetchKeys(c *client) tea.Cmd {
	return func() tea.Msg {
		frame, err := c.do("KEYS", "*")
		if err != nil {
			return errMsg{err: err}
		}
		keys := framesToKeys(frame)
		sort.Strings(keys)
		return keysMsg{keys: keys}
	}
}

func fetchValue(c *client, key string) tea.Cmd {
	return func() tea.Msg {
		frame, err := c.do("GET", key)
		if err != nil {
			return errMsg{err: err}
		}
		return valueMsg{key: key, frame: frame}
	}
}

func runCommand(c *client, line string) tea.Cmd {
	return func() tea.Msg {
		args := strings.Fields(line)
		if len(args) == 0 {
			return cmdResultMsg{text: ""}
		}
		frame, err := c.do(args...)
		if err != nil {
			return errMsg{err: err}
		}
		return cmdResultMsg{text: frameToDisplay(frame)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		m.cli = msg.cli
		return m, fetchKeys(m.cli)

	case keysMsg:
		m.keys = msg.keys
		if m.cursor >= len(m.keys) {
			m.cursor = max(len(m.keys)-1, 0)
		}
		return m, nil

	case valueMsg:
		m.detailKey = msg.key
		m.detailValue = frameToDisplay(msg.frame)
		m.view = viewDetail
		return m, nil

	case cmdResultMsg:
		m.cmdResult = msg.text
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewList:
			return m.updateList(msg)
		case viewDetail:
			return m.updateDetail(msg)
		case viewCommand:
			return m.updateCommand(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(len(m.keys)-1, 0)
	case "enter":
		if m.cursor < len(m.keys) {
			return m, fetchValue(m.cli, m.keys[m.cursor])
		}
	case "r":
		return m, fetchKeys(m.cli)
	case "y":
		if m.cursor < len(m.keys) {
			key := m.keys[m.cursor]
			if err := clipboard.Copy(context.Background(), key); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "copied key to clipboard"
			}
		}
	case ":":
		m.view = viewCommand
		m.cmdInput = ""
		m.cmdCursor = 0
		m.cmdResult = ""
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = viewList
	case "y":
		if err := clipboard.Copy(context.Background(), m.detailValue); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied value to clipboard"
		}
	}
	return m, nil
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewList
		return m, nil
	case "enter":
		line := m.cmdInput
		return m, runCommand(m.cli, line)
	case "backspace":
		if m.cmdCursor > 0 {
			runes := []rune(m.cmdInput)
			m.cmdInput = string(runes[:m.cmdCursor-1]) + string(runes[m.cmdCursor:])
			m.cmdCursor--
		}
	case "left":
		if m.cmdCursor > 0 {
			m.cmdCursor--
		}
	case "right":
		if m.cmdCursor < len([]rune(m.cmdInput)) {
			m.cmdCursor++
		}
	default:
		if len(msg.Runes) > 0 {
			runes := []rune(m.cmdInput)
			m.cmdInput = string(runes[:m.cmdCursor]) + string(msg.Runes) + string(runes[m.cmdCursor:])
			m.cmdCursor += len(msg.Runes)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.err != nil {
		return friendlyError(m.err, m.width)
	}
	if m.cli == nil {
		return "Connecting..."
	}

	switch m.view {
	case viewDetail:
		return m.renderDetail()
	case viewCommand:
		return m.renderCommand()
	default:
		return m.renderList()
	}
}

func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("GET " + m.detailKey))
	b.WriteString("\n\n")
	b.WriteString(highlight.Command(m.detailValue))
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(footerHint("q/esc: back", "y: yank value"))
	return b.String()
}

func (m Model) renderCommand() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("command"))
	b.WriteString("\n\n")
	b.WriteString("> " + renderInputWithCursor(m.cmdInput, m.cmdCursor))
	b.WriteString("\n\n")
	if m.cmdResult != "" {
		b.WriteString(highlight.Command(m.cmdResult) + "\n\n")
	}
	b.WriteString(footerHint("enter: run", "esc: cancel"))
	return b.String()
}
