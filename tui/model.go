// Package tui is a terminal view over a task store: two tabs, an add input
// and an edit modal. The model re-reads the store snapshot after every gesture.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/todo-list-demo/domain/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

const (
	tabTodo = iota
	tabCompleted
)

var tabNames = []string{task.TodoList, task.Completed}

const (
	addPlaceholder     = "Enter your Task"
	editTitle          = "Edit your task:"
	emptyCompletedText = "There are no completed tasks yet."
	emptyTodoText      = "Nothing to do. Press 'a' to add a task."
	completedOnPrefix  = "Completed on: "
	listHelp           = "a add • e edit • c complete • d delete • tab switch • q quit"
	addHelp            = "enter add • esc back"
	editHelp           = "enter save • esc cancel"
	readOnlyStatus     = "Completed tasks cannot be changed"
	emptyTitleStatus   = "Task title cannot be empty"
	defaultInputWidth  = 40
	titleCharLimit     = 256
)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dateStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	modalStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// Model is the bubbletea model of the task list view.
type Model struct {
	store     *task.Store
	snap      task.Snapshot
	tab       int
	cursor    int
	mode      mode
	input     textinput.Model
	editInput textinput.Model
	editingID task.ID
	status    string
}

// New creates a view over store.
func New(store *task.Store) Model {
	in := textinput.New()
	in.Placeholder = addPlaceholder
	in.CharLimit = titleCharLimit
	in.Width = defaultInputWidth

	edit := textinput.New()
	edit.CharLimit = titleCharLimit
	edit.Width = defaultInputWidth

	return Model{
		store:     store,
		snap:      store.Snapshot(),
		input:     in,
		editInput: edit,
		mode:      modeList,
	}
}

// Run starts the terminal program and blocks until the user quits.
func Run(store *task.Store) error {
	_, err := tea.NewProgram(New(store), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		default:
			return m.updateListMode(msg)
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 10; w > 0 {
			m.input.Width = w
			m.editInput.Width = w
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.switchTab((m.tab + 1) % len(tabNames))
	case "shift+tab", "left", "h":
		m.switchTab((m.tab + len(tabNames) - 1) % len(tabNames))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.current()))
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.current()))
	case "a":
		m.switchTab(tabTodo)
		m.mode = modeAdd
		m.status = ""
		cmd := m.input.Focus()
		return m, cmd
	case "c":
		t, ok := m.selectedActive()
		if !ok {
			return m, nil
		}
		if done, ok := m.store.CompleteTask(t.ID); ok {
			m.status = fmt.Sprintf("Completed %q", done.Title)
		}
		m.refresh()
	case "d":
		t, ok := m.selectedActive()
		if !ok {
			return m, nil
		}
		if m.store.DeleteTask(t.ID) {
			m.status = fmt.Sprintf("Deleted %q", t.Title)
		}
		m.refresh()
	case "e", "enter":
		t, ok := m.selectedActive()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editingID = t.ID
		m.editInput.SetValue(t.Title)
		m.editInput.CursorEnd()
		m.status = ""
		cmd := m.editInput.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		title := m.input.Value()
		if err := task.ValidateTitle(title); err != nil {
			m.status = emptyTitleStatus
			return m, nil
		}
		added := m.store.AddTask(title)
		m.input.SetValue("")
		m.status = fmt.Sprintf("Added %q", added.Title)
		m.refresh()
		m.cursor = clampCursor(len(m.snap.TodoList)-1, len(m.snap.TodoList))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeEdit()
		m.status = "Edit cancelled"
		return m, nil
	case "enter":
		title := m.editInput.Value()
		if err := task.ValidateTitle(title); err != nil {
			m.status = emptyTitleStatus
			return m, nil
		}
		if edited, ok := m.store.EditTask(m.editingID, title); ok {
			m.status = fmt.Sprintf("Renamed to %q", edited.Title)
		}
		m.closeEdit()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *Model) closeEdit() {
	m.mode = modeList
	m.editingID = 0
	m.editInput.Blur()
	m.editInput.SetValue("")
}

func (m *Model) switchTab(tab int) {
	if tab == m.tab {
		return
	}
	m.tab = tab
	m.cursor = 0
}

// refresh re-reads the store and keeps the cursor in range.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.current()))
}

func (m Model) current() []task.Task {
	return m.snap.Collection(tabNames[m.tab])
}

// selectedActive returns the highlighted task when it can still be changed.
func (m *Model) selectedActive() (task.Task, bool) {
	if m.tab != tabTodo {
		m.status = readOnlyStatus
		return task.Task{}, false
	}
	tasks := m.current()
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	if m.mode == modeAdd || m.tab == tabTodo {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.mode == modeEdit {
		b.WriteString(modalStyle.Render(editTitle + "\n" + m.editInput.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.listView())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpText()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%s (%d)", name, len(m.snap.Collection(name)))
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) listView() string {
	tasks := m.current()
	if len(tasks) == 0 {
		if m.tab == tabCompleted {
			return mutedStyle.Render(emptyCompletedText) + "\n"
		}
		return mutedStyle.Render(emptyTodoText) + "\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		prefix := "  "
		if i == m.cursor && m.mode == modeList {
			prefix = cursorStyle.Render("> ")
		}

		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, check, t.Title)

		if t.Completed && t.CompletionDate != nil {
			b.WriteString("      ")
			b.WriteString(dateStyle.Render(completedOnPrefix + t.CompletionDate.String()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) helpText() string {
	switch m.mode {
	case modeAdd:
		return addHelp
	case modeEdit:
		return editHelp
	default:
		return listHelp
	}
}

func clampCursor(cursor, length int) int {
	if length <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}
