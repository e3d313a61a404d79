package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/stockctl/stockctl/api"
)

func keyPress(t *testing.T, m *Model, keys ...tea.KeyType) {
	t.Helper()
	for _, k := range keys {
		_, _ = m.Update(tea.KeyMsg{Type: k})
	}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTagControl_AddOnEnter(t *testing.T) {
	c := newTagControl(nil, DefaultStyles())
	c.Focus()

	c.input.SetValue("red")
	require.True(t, c.capturesEnter())
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"red"}, c.tags.Values())
	require.Empty(t, c.input.Value())
	require.False(t, c.capturesEnter())
}

func TestTagControl_DuplicateIsDropped(t *testing.T) {
	c := newTagControl(api.NewColorTagSet("red"), DefaultStyles())
	c.Focus()

	c.input.SetValue("red")
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"red"}, c.tags.Values())
	require.Empty(t, c.input.Value(), "the field clears even when the tag already exists")
}

func TestTagControl_BackspaceOnEmptyRemovesLastTag(t *testing.T) {
	c := newTagControl(api.NewColorTagSet("red", "blue"), DefaultStyles())
	c.Focus()

	c.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, []string{"red"}, c.tags.Values())

	// With pending text, backspace edits the text instead.
	c.input.SetValue("gr")
	c.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, []string{"red"}, c.tags.Values())
	require.Equal(t, "g", c.input.Value())
}

func TestForm_SubmitRequiresNameAndPrice(t *testing.T) {
	m := NewForm(nil)
	m.Init()

	keyPress(t, m, tea.KeyEnter)
	require.False(t, m.submitted)
	require.Equal(t, "name is required", m.fieldError)

	typeText(t, m, "Backpack")
	keyPress(t, m, tea.KeyEnter)
	require.False(t, m.submitted)
	require.Equal(t, "price is required", m.fieldError)
}

func TestForm_PriceMustBeNonNegativeNumber(t *testing.T) {
	m := NewForm(nil)
	m.Init()
	typeText(t, m, "Backpack")
	keyPress(t, m, tea.KeyTab)

	typeText(t, m, "abc")
	keyPress(t, m, tea.KeyEnter)
	require.Equal(t, "price must be a number", m.fieldError)

	// Clear and retype a negative price.
	keyPress(t, m, tea.KeyBackspace, tea.KeyBackspace, tea.KeyBackspace)
	typeText(t, m, "-5")
	keyPress(t, m, tea.KeyEnter)
	require.Equal(t, "price must not be negative", m.fieldError)
}

func TestForm_FullFlow(t *testing.T) {
	m := NewForm(nil)
	m.Init()

	typeText(t, m, "Backpack")
	keyPress(t, m, tea.KeyTab)
	typeText(t, m, "12.5")
	keyPress(t, m, tea.KeyTab)
	typeText(t, m, "roomy")
	keyPress(t, m, tea.KeyTab)

	// On the colors field, Enter with pending text confirms the tag.
	typeText(t, m, "red")
	keyPress(t, m, tea.KeyEnter)
	require.False(t, m.submitted)
	typeText(t, m, "blue")
	keyPress(t, m, tea.KeyEnter)
	require.False(t, m.submitted)

	// Enter with nothing pending submits.
	keyPress(t, m, tea.KeyEnter)
	require.True(t, m.submitted)
	require.False(t, m.aborted)

	form := m.Form()
	require.Equal(t, "Backpack", form.Name)
	require.Equal(t, 12.5, form.Price)
	require.Equal(t, "roomy", form.Description)
	require.Equal(t, []string{"red", "blue"}, form.Colors.Values())
}

func TestForm_EscapeAborts(t *testing.T) {
	m := NewForm(nil)
	m.Init()
	typeText(t, m, "half-typed")

	keyPress(t, m, tea.KeyEsc)
	require.True(t, m.aborted)
	require.False(t, m.submitted)
}

func TestForm_ShiftTabNavigatesBackwards(t *testing.T) {
	m := NewForm(nil)
	m.Init()
	require.Equal(t, fieldName, m.focus)

	keyPress(t, m, tea.KeyShiftTab)
	require.Equal(t, fieldColors, m.focus)

	keyPress(t, m, tea.KeyTab)
	require.Equal(t, fieldName, m.focus)
}

func TestForm_PrePopulatedForEdit(t *testing.T) {
	initial := &api.ProductForm{
		Name:        "Backpack",
		Price:       1290,
		Description: "roomy",
		Colors:      api.NewColorTagSet("red"),
	}
	m := NewForm(initial)
	m.Init()

	require.Equal(t, "Edit product", m.title)

	// Submit untouched; everything survives.
	keyPress(t, m, tea.KeyEnter)
	require.True(t, m.submitted)

	form := m.Form()
	require.Equal(t, "Backpack", form.Name)
	require.Equal(t, float64(1290), form.Price)
	require.Equal(t, []string{"red"}, form.Colors.Values())
}
