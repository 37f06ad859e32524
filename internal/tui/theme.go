package tui

import (
	"muxsummary/internal/project"

	"github.com/charmbracelet/lipgloss"
)

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Danger    lipgloss.Color
	Warning   lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	HeaderStyle    lipgloss.Style
	StatusBarStyle lipgloss.Style
	RecPanelStyle  lipgloss.Style
	ListPanelStyle lipgloss.Style
	PanelTitle     lipgloss.Style
	SelectedStyle  lipgloss.Style
	NameStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	WarningStyle   lipgloss.Style
	SuccessStyle   lipgloss.Style
	MutedStyle     lipgloss.Style
	SpinnerStyle   lipgloss.Style
	OverlayStyle   lipgloss.Style

	// 截止日期分档 / Deadline bands
	OverdueStyle    lipgloss.Style
	DueSoonStyle    lipgloss.Style
	OnTrackStyle    lipgloss.Style
	NoDeadlineStyle lipgloss.Style

	PriorityHighStyle lipgloss.Style
	PriorityLowStyle  lipgloss.Style
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Danger:    lipgloss.Color("#EF4444"),
		Warning:   lipgloss.Color("#F59E0B"),
		Success:   lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#6B7280"),
		Text:      lipgloss.Color("#E5E7EB"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		Border:    lipgloss.Color("#374151"),
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(lipgloss.Color("#111827"))

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(lipgloss.Color("#111827"))

	t.RecPanelStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Success).
		Padding(0, 1)

	t.ListPanelStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	t.SelectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary).
		Bold(true)

	t.NameStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.SpinnerStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.OverlayStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2)

	t.OverdueStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.DueSoonStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	t.OnTrackStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.NoDeadlineStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.PriorityHighStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.PriorityLowStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	return t
}

// UrgencyStyle picks the deadline band style.
func (t Theme) UrgencyStyle(u project.Urgency) lipgloss.Style {
	switch u {
	case project.UrgencyOverdue:
		return t.OverdueStyle
	case project.UrgencyDueSoon:
		return t.DueSoonStyle
	case project.UrgencyNormal:
		return t.OnTrackStyle
	default:
		return t.NoDeadlineStyle
	}
}
