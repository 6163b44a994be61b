package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// ValueEditorModel is the model for editing a template's literal values.
type ValueEditorModel struct {
	// Values holds the edited literal values. A missing name is unbound.
	Values    map[string]string
	Done      bool
	Cancelled bool

	template *placeholders.Template
	list     list.Model
	editing  bool
	current  string
	input    textinput.Model
	err      error
}

// valueItem represents a placeholder in the list.
type valueItem struct {
	name       string
	constraint string
	value      string
	bound      bool
	computed   bool
}

// NewValueEditor creates a value editor for t. Literal values are editable;
// nested and computed values are shown but left alone unless overwritten.
func NewValueEditor(t *placeholders.Template) *ValueEditorModel {
	values := make(map[string]string)
	for name, v := range t.Data() {
		if lit, ok := v.(placeholders.Literal); ok {
			values[name] = lit.Text()
		}
	}

	li := list.New(nil, valueDelegate{}, 60, 20)
	li.SetShowStatusBar(false)
	li.SetFilteringEnabled(false)
	li.Title = "Placeholders"

	m := &ValueEditorModel{
		Values:   values,
		template: t,
		list:     li,
	}
	m.updateListItems()
	return m
}

// Init initializes the value editor.
func (m *ValueEditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update updates the value editor model.
func (m *ValueEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditing(msg)
		}
		return m.handleNormalMode(msg)

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleNormalMode handles key messages in normal mode.
func (m *ValueEditorModel) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit

	case tea.KeyCtrlS:
		m.Done = true
		return m, tea.Quit

	case tea.KeyEnter:
		item, ok := m.list.SelectedItem().(valueItem)
		if !ok {
			return m, nil
		}
		m.editing = true
		m.current = item.name
		m.err = nil

		m.input = textinput.New()
		m.input.Placeholder = item.constraint
		m.input.SetValue(m.Values[item.name])
		m.input.Focus()
		return m, textinput.Blink

	case tea.KeyDelete, tea.KeyBackspace:
		// Unbind current placeholder
		if item, ok := m.list.SelectedItem().(valueItem); ok {
			delete(m.Values, item.name)
			m.updateListItems()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleEditing handles key messages when editing a value.
func (m *ValueEditorModel) handleEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.editing = false
		m.err = nil
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		if value != "" {
			if err := placeholders.Validate(value, m.template.Constraint(m.current)); err != nil {
				m.err = err
				return m, nil
			}
			m.Values[m.current] = value
		} else {
			delete(m.Values, m.current)
		}
		m.editing = false
		m.err = nil
		m.updateListItems()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateListItems rebuilds the list in placeholder discovery order.
func (m *ValueEditorModel) updateListItems() {
	items := make([]list.Item, 0, len(m.template.Tokens()))
	for _, name := range m.template.Names() {
		item := valueItem{
			name:       name,
			constraint: m.template.Constraint(name),
		}
		if v, ok := m.Values[name]; ok {
			item.value, item.bound = v, true
		} else if _, ok := m.template.Value(name); ok {
			item.bound, item.computed = true, true
		}
		items = append(items, item)
	}
	m.list.SetItems(items)
}

// Apply writes the edited values onto t, keeping nested and computed
// values that were not overwritten or unbound.
func (m *ValueEditorModel) Apply(t *placeholders.Template) {
	for name, v := range t.Data() {
		if _, ok := v.(placeholders.Literal); ok {
			if _, kept := m.Values[name]; !kept {
				t.UnsetData(name)
			}
		}
	}
	t.SetDataMap(placeholders.Strings(m.Values), true)
}

// View renders the value editor.
func (m *ValueEditorModel) View() string {
	if m.editing {
		return m.renderEditView()
	}

	footer := footerStyle.Render(
		" [Ctrl+S]: save and close [Esc]: cancel [Enter]: edit [Del]: unbind",
	)
	return titleStyle.Render("Template: "+m.template.Source()) + "\n" + m.list.View() + "\n" + footer
}

// renderEditView renders the edit view for a single value.
func (m *ValueEditorModel) renderEditView() string {
	title := titleStyle.Render("Edit value: " + m.current)

	status := ""
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}

	footer := footerStyle.Render(" [Enter]: save [Esc]: cancel")

	return title + "\n\n" +
		labelStyle.Render("Value:") + " " + m.input.View() + "\n\n" +
		labelStyle.Render("Matches:") + " " + m.template.Constraint(m.current) + "\n\n" +
		status + "\n\n" +
		footer
}

// RunValueEditor runs the value editor for t and applies the result.
func RunValueEditor(t *placeholders.Template) error {
	model := NewValueEditor(t)

	result, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	final, ok := result.(*ValueEditorModel)
	if !ok || final.Cancelled || !final.Done {
		return tplerrors.ErrCanceled
	}
	final.Apply(t)
	return nil
}

// valueDelegate defines how placeholders are rendered in the list.
type valueDelegate struct{}

func (d valueDelegate) Height() int                               { return 2 }
func (d valueDelegate) Spacing() int                              { return 0 }
func (d valueDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d valueDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(valueItem)
	if !ok {
		return
	}

	nameStyle := boundStyle
	if !item.bound {
		nameStyle = unboundStyle
	}
	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	value := item.value
	switch {
	case item.computed:
		value = "(nested or computed)"
	case !item.bound:
		value = "(unbound)"
	}

	fmt.Fprintf(w, "%s%s = %s\n", cursor, nameStyle.Render(item.name), value)
	fmt.Fprintf(w, "%s\n", dimStyle.Render("    matches "+item.constraint))
}

func (i valueItem) FilterValue() string {
	return i.name + " " + i.value
}
