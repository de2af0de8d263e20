package render

import "github.com/charmbracelet/lipgloss"

// Styles 文本渲染使用的样式
type Styles struct {
	Header      lipgloss.Style
	Cell        lipgloss.Style
	Selected    lipgloss.Style
	Cursor      lipgloss.Style
	Divider     lipgloss.Style
	Muted       lipgloss.Style
	Destructive lipgloss.Style
	Footer      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true),
		Cell:        lipgloss.NewStyle(),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")),
		Cursor:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Destructive: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Footer:      lipgloss.NewStyle().MarginTop(1),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// PlainStyles 无颜色无修饰的样式，输出到文件或管道时使用
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:      plain,
		Cell:        plain,
		Selected:    plain,
		Cursor:      plain,
		Divider:     plain,
		Muted:       plain,
		Destructive: plain,
		Footer:      plain,
		Status:      plain,
		Error:       plain,
	}
}
