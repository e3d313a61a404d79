// Package tui provides the interactive product form used by
// `stockctl product create` and `stockctl product update` when no field
// flags are given.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockctl/stockctl/api"
)

const (
	fieldName = iota
	fieldPrice
	fieldDescription
	fieldColors
	fieldCount
)

// Model is the bubbletea model for the product form.
type Model struct {
	title  string
	styles Styles

	name        textinput.Model
	price       textinput.Model
	description textinput.Model
	colors      *tagControl

	focus      int
	fieldError string

	submitted bool
	aborted   bool
}

// NewForm builds a form model, pre-populated from initial when editing an
// existing record.
func NewForm(initial *api.ProductForm) *Model {
	styles := DefaultStyles()

	name := textinput.New()
	name.Placeholder = "item name"
	name.CharLimit = 128
	name.Prompt = ""

	price := textinput.New()
	price.Placeholder = "0.00"
	price.CharLimit = 32
	price.Prompt = ""

	description := textinput.New()
	description.Placeholder = "what is it?"
	description.CharLimit = 512
	description.Prompt = ""

	title := "New product"
	var tags *api.ColorTagSet
	if initial != nil {
		title = "Edit product"
		name.SetValue(initial.Name)
		if initial.Price != 0 {
			price.SetValue(strconv.FormatFloat(initial.Price, 'f', -1, 64))
		}
		description.SetValue(initial.Description)
		tags = initial.Colors
	}

	m := &Model{
		title:       title,
		styles:      styles,
		name:        name,
		price:       price,
		description: description,
		colors:      newTagControl(tags, styles),
	}
	return m
}

// Init focuses the first field.
func (m *Model) Init() tea.Cmd {
	return m.name.Focus()
}

// Update routes key presses: Tab/Down and Shift+Tab/Up navigate fields, Esc
// aborts, Enter submits unless the tag control claims it for a pending tag.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocused(msg)
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit

	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case "enter":
		if m.focus == fieldColors && m.colors.capturesEnter() {
			return m, m.colors.Update(msg)
		}
		if err := m.validate(); err != "" {
			m.fieldError = err
			return m, nil
		}
		m.submitted = true
		return m, tea.Quit
	}

	m.fieldError = ""
	return m, m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldPrice:
		m.price, cmd = m.price.Update(msg)
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldColors:
		cmd = m.colors.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(target int) tea.Cmd {
	m.name.Blur()
	m.price.Blur()
	m.description.Blur()
	m.colors.Blur()
	m.focus = target
	m.fieldError = ""

	switch target {
	case fieldName:
		return m.name.Focus()
	case fieldPrice:
		return m.price.Focus()
	case fieldDescription:
		return m.description.Focus()
	default:
		return m.colors.Focus()
	}
}

// validate applies the client-side rules: a name is required and the price
// must parse as a non-negative number. Everything else is the server's call.
func (m *Model) validate() string {
	if strings.TrimSpace(m.name.Value()) == "" {
		return "name is required"
	}
	raw := strings.TrimSpace(m.price.Value())
	if raw == "" {
		return "price is required"
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "price must be a number"
	}
	if n < 0 {
		return "price must not be negative"
	}
	return ""
}

// View renders the form.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	m.renderField(&b, fieldName, "Name", m.name.View())
	m.renderField(&b, fieldPrice, "Price", m.price.View())
	m.renderField(&b, fieldDescription, "Description", m.description.View())
	m.renderField(&b, fieldColors, "Colors", m.colors.View())

	if m.fieldError != "" {
		b.WriteString(m.styles.Error.Render(m.fieldError))
		b.WriteByte('\n')
	}

	help := "Tab: next field · Enter: submit · Esc: cancel"
	if m.focus == fieldColors {
		help = m.colors.helpText() + " · " + help
	}
	b.WriteString(m.styles.Help.Render(help))
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) renderField(b *strings.Builder, field int, label, view string) {
	box := m.styles.Control
	if m.focus == field {
		box = m.styles.FocusedControl
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.FieldLabel.Render(label),
		box.Render(view),
	))
	b.WriteByte('\n')
}

// Form materializes the completed form. Only meaningful after a submit.
func (m *Model) Form() *api.ProductForm {
	price, _ := strconv.ParseFloat(strings.TrimSpace(m.price.Value()), 64)
	return &api.ProductForm{
		Name:        strings.TrimSpace(m.name.Value()),
		Price:       price,
		Description: strings.TrimSpace(m.description.Value()),
		Colors:      m.colors.tags,
	}
}

// Run drives the form to completion. ok is false when the user aborted.
// Image attachment stays on the command line (`--image`); the form covers
// the text fields and color tags.
func Run(ctx context.Context, initial *api.ProductForm) (*api.ProductForm, bool, error) {
	model := NewForm(initial)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, false, err
	}

	m, ok := final.(*Model)
	if !ok || !m.submitted {
		return nil, false, nil
	}
	return m.Form(), true, nil
}
