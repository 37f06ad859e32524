package tui

import (
	"strings"
	"time"

	"muxsummary/internal/i18n"
	"muxsummary/internal/project"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// maxProgressLines 每个项目展示的进度行数上限
const maxProgressLines = 8

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	// 固定暗色样式：运行中探测终端背景会与 Bubble Tea 抢输入
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.Trim(rendered, "\n")
}

// markdownCache 缓存最近一次渲染结果，View 每帧都会调用
type markdownCache struct {
	doc   string
	width int
	out   string
	ok    bool
}

func (c *markdownCache) render(doc string, width int, fn func(string, int) string) string {
	if c.ok && c.doc == doc && c.width == width {
		return c.out
	}
	out := fn(doc, width)
	c.doc, c.width, c.out, c.ok = doc, width, out, true
	return out
}

// deadlineLabel 返回截止日期标签及其分档
// deadlineLabel returns the localized deadline label and its band
func deadlineLabel(r project.Record, ref time.Time, window int, locale *i18n.I18n) (string, project.Urgency) {
	u := r.Urgency(ref, window)
	days, _ := r.DaysLeft(ref)
	switch u {
	case project.UrgencyNone:
		return locale.T("ddl.none"), u
	case project.UrgencyOverdue:
		return locale.T("ddl.overdue", -days), u
	case project.UrgencyDueSoon:
		if days == 0 {
			return locale.T("ddl.today"), u
		}
		return locale.T("ddl.urgent", days), u
	default:
		return locale.T("ddl.left", days), u
	}
}

// entryView 渲染单个项目块
type entryView struct {
	theme  Theme
	locale *i18n.I18n
	ref    time.Time
	window int
	width  int
}

func (v entryView) lines(r project.Record, selected bool) []string {
	clip := lipgloss.NewStyle().MaxWidth(v.width)

	var head string
	if selected {
		head = v.theme.SelectedStyle.Render("▶ " + r.Name + " ")
	} else {
		head = "  " + v.theme.NameStyle.Render(r.Name)
	}
	switch r.Priority {
	case project.PriorityHigh:
		head += " " + v.theme.PriorityHighStyle.Render(v.locale.T("priority.high"))
	case project.PriorityLow:
		head += " " + v.theme.PriorityLowStyle.Render(v.locale.T("priority.low"))
	}
	out := []string{clip.Render(head)}

	label, band := deadlineLabel(r, v.ref, v.window, v.locale)
	ddl := "  " + v.locale.T("field.ddl") + v.theme.UrgencyStyle(band).Render(label)
	if r.HasDeadline {
		ddl += v.theme.MutedStyle.Render(" (" + r.Deadline.Format(project.DateLayout) + ")")
	}
	out = append(out, clip.Render(ddl))

	if desc := strings.TrimSpace(r.Description); desc != "" {
		out = append(out, "  "+v.locale.T("field.desc", v.fit("field.desc", desc)))
	}
	if r.Root != "" {
		out = append(out, "  "+v.theme.MutedStyle.Render(v.locale.T("field.path", v.fit("field.path", r.Root))))
	}

	out = append(out, "  "+v.locale.T("progress.label"))
	for _, line := range v.progress(r) {
		out = append(out, clip.Render(line))
	}
	return out
}

// fit 按显示宽度截断字段值，留出缩进和标签
func (v entryView) fit(labelKey, value string) string {
	room := v.width - 2 - runewidth.StringWidth(v.locale.T(labelKey, ""))
	return runewidth.Truncate(value, max(room, 8), "…")
}

func (v entryView) progress(r project.Record) []string {
	if !r.HasProgress {
		return []string{"    " + v.theme.MutedStyle.Render(v.locale.T("progress.none"))}
	}
	raw := strings.Split(strings.TrimRight(r.Progress, "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, "    "+strings.TrimRight(l, " \t\r"))
	}
	if len(lines) > maxProgressLines {
		more := len(lines) - maxProgressLines
		lines = append(lines[:maxProgressLines], "    "+v.theme.MutedStyle.Render(v.locale.T("progress.more", more)))
	}
	return lines
}
