// Package ui renders the task board in the terminal.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/board"
)

const emptyText = "No tasks found. Add your first task!"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	editStyle     = lipgloss.NewStyle().Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("12")).Foreground(lipgloss.Color("0"))
	disabledStyle = buttonStyle.Background(lipgloss.Color("8"))
)

type focus int

const (
	focusList focus = iota
	focusInput
)

// Model is the bubbletea model driving a board.Board against an API.
type Model struct {
	ctx    context.Context
	api    board.API
	board  board.Board
	first  board.Effect
	cursor int
	focus  focus
}

func NewModel(ctx context.Context, api board.API) *Model {
	b, eff := board.Init()
	return &Model{ctx: ctx, api: api, board: b, first: eff}
}

// Board exposes the current state, mostly for tests.
func (m *Model) Board() board.Board { return m.board }

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, api board.API) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("ui requires a TTY")
	}
	program := tea.NewProgram(NewModel(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.cmd(m.first)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case board.Event:
		return m, m.dispatch(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.board.Notice.Text != "" {
			m.board, _ = m.board.Handle(board.DismissNotice{})
		}
		if m.focus == focusInput {
			return m, m.inputKey(msg)
		}
		return m, m.listKey(msg)
	}
	return m, nil
}

// dispatch feeds ev to the board and turns the resulting effect into a command.
func (m *Model) dispatch(ev board.Event) tea.Cmd {
	var eff board.Effect
	m.board, eff = m.board.Handle(ev)
	m.clampCursor()
	return m.cmd(eff)
}

func (m *Model) cmd(eff board.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return eff(ctx, api)
	}
}

func (m *Model) inputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.dispatch(board.Submit{})
	case tea.KeyEsc, tea.KeyTab:
		m.focus = focusList
		return nil
	}
	if m.board.Creating {
		return nil
	}
	if text, ok := editText(m.board.Input, msg); ok {
		return m.dispatch(board.ChangeInput{Text: text})
	}
	return nil
}

func (m *Model) listKey(msg tea.KeyMsg) tea.Cmd {
	if m.board.PendingDelete != "" {
		switch msg.String() {
		case "y", "Y":
			return m.dispatch(board.ConfirmDelete{})
		case "n", "N", "esc":
			return m.dispatch(board.CancelDelete{})
		}
		return nil
	}

	if m.board.EditingID != "" {
		switch msg.Type {
		case tea.KeyEnter:
			return m.dispatch(board.SaveEdit{})
		case tea.KeyEsc:
			return m.dispatch(board.CancelEdit{})
		case tea.KeyUp, tea.KeyDown:
			cmd := m.dispatch(board.BlurEdit{})
			m.move(msg.Type)
			return cmd
		}
		if text, ok := editText(m.board.Buffer, msg); ok {
			return m.dispatch(board.EditInput{Text: text})
		}
		return nil
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.move(tea.KeyUp)
	case "down", "j":
		m.move(tea.KeyDown)
	case "r":
		return m.dispatch(board.Refresh{})
	case "a", "tab":
		m.focus = focusInput
	case " ", "space":
		if id, ok := m.selected(); ok {
			return m.dispatch(board.Toggle{ID: id})
		}
	case "e", "enter":
		if id, ok := m.selected(); ok {
			return m.dispatch(board.StartEdit{ID: id})
		}
	case "d":
		if id, ok := m.selected(); ok {
			return m.dispatch(board.RequestDelete{ID: id})
		}
	}
	return nil
}

func (m *Model) move(dir tea.KeyType) {
	switch dir {
	case tea.KeyUp:
		m.cursor--
	case tea.KeyDown:
		m.cursor++
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.board.Tasks) {
		m.cursor = len(m.board.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.board.Tasks) {
		return "", false
	}
	return m.board.Tasks[m.cursor].ID, true
}

// editText applies a typing key to s.
func editText(s string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		return s + string(msg.Runes), true
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s, false
		}
		return string(r[:len(r)-1]), true
	}
	return s, false
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task List") + "\n\n")

	m.writeInput(&b)

	switch m.board.View() {
	case board.ViewLoading:
		b.WriteString(mutedStyle.Render("Loading...") + "\n")
	case board.ViewError:
		b.WriteString(errorStyle.Render(m.board.LoadErr) + mutedStyle.Render("  (r to retry)") + "\n")
	case board.ViewEmpty:
		b.WriteString(mutedStyle.Render(emptyText) + "\n")
	default:
		m.writeTasks(&b)
	}

	b.WriteString("\n")
	if m.board.PendingDelete != "" {
		t, _ := m.board.Find(m.board.PendingDelete)
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? (y/n)", t.Content)) + "\n")
	}
	if n := m.board.Notice; n.Text != "" {
		style := successStyle
		if n.Failure {
			style = errorStyle
		}
		b.WriteString(style.Render(n.Text) + "\n")
	}
	b.WriteString(mutedStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m *Model) writeInput(b *strings.Builder) {
	marker := "  "
	if m.focus == focusInput {
		marker = cursorStyle.Render("> ")
	}
	input := m.board.Input
	if input == "" && m.focus != focusInput {
		input = mutedStyle.Render("What needs to be done?")
	}
	button := buttonStyle.Render("Add")
	if m.board.SubmitDisabled() {
		label := "Add"
		if m.board.Creating {
			label = "Adding..."
		}
		button = disabledStyle.Render(label)
	}
	fmt.Fprintf(b, "%s%s  %s\n\n", marker, input, button)
}

func (m *Model) writeTasks(b *strings.Builder) {
	for i, t := range m.board.Tasks {
		marker := "  "
		if i == m.cursor && m.focus == focusList {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		var content string
		switch {
		case m.board.ModeOf(t.ID) == board.Editing:
			content = editStyle.Render(m.board.Buffer + "_")
		case t.Completed:
			content = doneStyle.Render(t.Content)
		default:
			content = t.Content
		}
		fmt.Fprintf(b, "%s%s %s\n", marker, check, content)
	}
}

func (m *Model) help() string {
	switch {
	case m.focus == focusInput:
		return "enter add | esc back to list"
	case m.board.PendingDelete != "":
		return "y confirm | n cancel"
	case m.board.EditingID != "":
		return "enter save | esc cancel | up/down save and move"
	default:
		return "space toggle | e edit | d delete | a add | r refresh | q quit"
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
