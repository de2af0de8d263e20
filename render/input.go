package render

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextInput 基于 bubbles/textinput 的过滤输入框，实现 table.FilterInput
type TextInput struct {
	model     textinput.Model
	listeners map[int]func(string)
	next      int
}

func NewTextInput(placeholder string) *TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.Prompt = "/ "
	m.CharLimit = 100
	m.Width = 40
	return &TextInput{model: m, listeners: map[int]func(string){}}
}

func (ti *TextInput) Value() string {
	return ti.model.Value()
}

// SetValue 回写输入框，不通知订阅者
func (ti *TextInput) SetValue(value string) {
	ti.model.SetValue(value)
}

func (ti *TextInput) OnInput(fn func(value string)) func() {
	id := ti.next
	ti.next++
	ti.listeners[id] = fn
	return func() {
		delete(ti.listeners, id)
	}
}

// Update 处理按键，内容变化时通知订阅者
func (ti *TextInput) Update(msg tea.Msg) tea.Cmd {
	before := ti.model.Value()
	var cmd tea.Cmd
	ti.model, cmd = ti.model.Update(msg)
	if after := ti.model.Value(); after != before {
		for _, fn := range ti.listeners {
			fn(after)
		}
	}
	return cmd
}

func (ti *TextInput) Focus() tea.Cmd {
	return ti.model.Focus()
}

func (ti *TextInput) Blur() {
	ti.model.Blur()
}

func (ti *TextInput) Focused() bool {
	return ti.model.Focused()
}

func (ti *TextInput) View() string {
	return ti.model.View()
}
