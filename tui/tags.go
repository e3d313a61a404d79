package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockctl/stockctl/api"
)

// tagControl is the color-tag input: a text field above the chips already
// confirmed. Enter on a non-empty, trimmed value appends it to the set only
// when absent and clears the field; Backspace on an empty field removes the
// most recent tag. There is no in-place edit of a chip; remove and re-add
// is the only way to change a tag's text.
type tagControl struct {
	input  textinput.Model
	tags   *api.ColorTagSet
	styles Styles
}

func newTagControl(tags *api.ColorTagSet, styles Styles) *tagControl {
	ti := textinput.New()
	ti.Placeholder = "type a color and press Enter"
	ti.CharLimit = 64
	ti.Prompt = ""
	if tags == nil {
		tags = api.NewColorTagSet()
	}
	return &tagControl{input: ti, tags: tags, styles: styles}
}

func (c *tagControl) Focus() tea.Cmd { return c.input.Focus() }

func (c *tagControl) Blur() { c.input.Blur() }

// capturesEnter reports whether Enter should confirm a pending tag instead
// of submitting the form.
func (c *tagControl) capturesEnter() bool {
	return strings.TrimSpace(c.input.Value()) != ""
}

func (c *tagControl) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			c.tags.Add(c.input.Value())
			c.input.SetValue("")
			return nil
		case "backspace":
			if c.input.Value() == "" {
				if values := c.tags.Values(); len(values) > 0 {
					c.tags.Remove(values[len(values)-1])
				}
				return nil
			}
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *tagControl) View() string {
	var parts []string
	parts = append(parts, c.input.View())
	if values := c.tags.Values(); len(values) > 0 {
		chips := make([]string, len(values))
		for i, v := range values {
			chips[i] = c.styles.Tag.Render(v)
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Center, chips...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *tagControl) helpText() string {
	return "Enter: add tag · Backspace on empty: remove last tag"
}
