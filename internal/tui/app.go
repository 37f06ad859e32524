package tui

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"muxsummary/internal/analysis"
	"muxsummary/internal/i18n"
	"muxsummary/internal/project"
	"muxsummary/internal/prompt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pageStep 翻页时移动的项目数
const pageStep = 5

// Loader 提供项目快照（刷新时同步调用）
// Loader supplies project snapshots; refresh calls it synchronously
type Loader interface {
	Load() (project.Snapshot, error)
}

// --- Tea Messages ---

// AnalysisDoneMsg 分析调用结束
// AnalysisDoneMsg carries a finished analysis call back into the loop
type AnalysisDoneMsg struct{ Completion analysis.Completion }

// PromptSizeMsg 提示词 token 估算
// PromptSizeMsg carries the token estimate of the last prompt sent
type PromptSizeMsg struct{ Tokens int }

// Options 配置仪表盘
// Options configures the dashboard
type Options struct {
	Loader      Loader
	Analyzer    analysis.Analyzer
	Snapshot    project.Snapshot
	UrgencyDays int
	Locale      *i18n.I18n
	Logger      *slog.Logger

	// 以下为空时使用默认实现 / Defaults apply when nil
	Now         func() time.Time
	CountTokens func(string) int
	Markdown    func(doc string, width int) string
}

// App Bubble Tea 主 Model
// App is the dashboard Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 生命周期 / Lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// 数据 / Data
	loader   Loader
	session  *analysis.Session
	snapshot project.Snapshot

	// 界面状态 / View state
	cursor       int
	recOffset    int
	showHelp     bool
	status       string
	statusIsErr  bool
	promptTokens int

	spinner spinner.Model
	help    help.Model
	md      *markdownCache

	// 配置 / Config
	theme       Theme
	keys        KeyMap
	locale      *i18n.I18n
	logger      *slog.Logger
	urgencyDays int
	now         func() time.Time
	countTokens func(string) int
	markdown    func(string, int) string
}

// NewApp 创建仪表盘
// NewApp creates the dashboard model
func NewApp(opts Options) App {
	locale := opts.Locale
	if locale == nil {
		locale = i18n.Global()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	count := opts.CountTokens
	if count == nil {
		count = func(s string) int { return prompt.DefaultTokenizer().CountText(s) }
	}
	markdown := opts.Markdown
	if markdown == nil {
		markdown = RenderMarkdown
	}
	window := max(opts.UrgencyDays, 0)

	theme := DarkTheme()
	ctx, cancel := context.WithCancel(context.Background())

	return App{
		ctx:         ctx,
		cancel:      cancel,
		loader:      opts.Loader,
		session:     analysis.NewSession(opts.Analyzer).WithClock(now),
		snapshot:    opts.Snapshot,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.SpinnerStyle)),
		help:        help.New(),
		md:          &markdownCache{},
		theme:       theme,
		keys:        DefaultKeyMap(locale),
		locale:      locale,
		logger:      logger,
		urgencyDays: window,
		now:         now,
		countTokens: count,
		markdown:    markdown,
	}
}

func (a App) Init() tea.Cmd {
	return nil
}

// Update 处理消息；任何 panic 都会被捕获，模型回退到处理前的状态
// Update handles one message. A panic is recovered and the previous model is
// kept, with the fault shown on the status line.
func (a App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	prev := a
	restore := a.session.Checkpoint()
	defer func() {
		if r := recover(); r != nil {
			// session 是共享指针，需单独回滚
			restore()
			prev.logger.Error("recovered panic in update", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			prev.setStatus(prev.locale.T("status.internal_error", r), true)
			model, cmd = prev, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.recOffset = min(a.recOffset, a.maxRecOffset())
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		}
		return a, nil

	case AnalysisDoneMsg:
		a.settle(msg.Completion)
		return a, nil

	case PromptSizeMsg:
		a.promptTokens = msg.Tokens
		return a, nil

	case spinner.TickMsg:
		// 仅在等待期间保持动画 / Only animate while pending
		if !a.session.Pending() {
			return a, nil
		}
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp && (key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Close)) {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		// 不等待进行中的请求 / Do not wait for the in-flight call
		a.logger.Info("quit requested", "pending", a.session.Pending())
		a.cancel()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Analyze):
		cmd := a.analyze()
		return a, cmd

	case key.Matches(msg, a.keys.Refresh):
		a.refresh()

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-pageStep)
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(pageStep)
	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
	case key.Matches(msg, a.keys.Bottom):
		a.cursor = max(0, a.snapshot.Len()-1)

	case key.Matches(msg, a.keys.ScrollUp):
		a.recOffset = max(0, a.recOffset-1)
	case key.Matches(msg, a.keys.ScrollDown):
		a.recOffset = min(a.recOffset+1, a.maxRecOffset())

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	}
	return a, nil
}

// analyze 构建提示词并发起分析；等待中再次触发为空操作
func (a *App) analyze() tea.Cmd {
	if a.session.Pending() {
		a.setStatus(a.locale.T("status.already_pending"), false)
		return nil
	}
	if a.snapshot.Len() == 0 {
		a.setStatus(a.locale.T("status.no_projects"), false)
		return nil
	}

	text := prompt.Build(a.snapshot, a.now())
	job, ok := a.session.Trigger(a.ctx, text)
	if !ok {
		return nil
	}
	a.recOffset = 0
	a.setStatus(a.locale.T("status.analyzing"), false)
	a.logger.Info("analysis triggered", "projects", a.snapshot.Len(), "prompt_chars", len(text))

	count := a.countTokens
	return tea.Batch(
		func() tea.Msg { return AnalysisDoneMsg{Completion: job()} },
		func() tea.Msg { return PromptSizeMsg{Tokens: count(text)} },
		a.spinner.Tick,
	)
}

func (a *App) settle(c analysis.Completion) {
	if !a.session.Settle(c) {
		a.logger.Debug("discarding stale analysis completion", "id", c.ID)
		return
	}
	a.recOffset = 0
	res := a.session.Result()
	if res.OK() {
		a.setStatus(a.locale.T("status.analysis_done", c.Elapsed.Round(100*time.Millisecond)), false)
		a.logger.Info("analysis settled", "id", c.ID, "elapsed", c.Elapsed, "chars", len(res.Document()))
		return
	}
	a.setStatus(a.locale.T("status.analysis_failed", res.Kind()), true)
	a.logger.Warn("analysis failed", "id", c.ID, "kind", res.Kind().String(), "detail", res.Detail())
}

// refresh 重新加载项目；失败时保留原快照
func (a *App) refresh() {
	if a.loader == nil {
		return
	}
	snap, err := a.loader.Load()
	if err != nil {
		a.logger.Warn("refresh failed", "error", err)
		a.setStatus(a.locale.T("status.refresh_failed", err), true)
		return
	}

	selected := ""
	if a.cursor < a.snapshot.Len() {
		selected = a.snapshot.At(a.cursor).Name
	}
	a.snapshot = snap
	if idx := snap.IndexOf(selected); idx >= 0 {
		a.cursor = idx
	} else {
		a.cursor = min(a.cursor, max(0, snap.Len()-1))
	}
	for _, w := range snap.Warnings() {
		a.logger.Warn("project config warning", "file", w.File, "message", w.Message)
	}
	a.logger.Info("projects refreshed", "projects", snap.Len(), "warnings", len(snap.Warnings()))
	a.setStatus(a.locale.T("status.refreshed", snap.Len()), false)
}

func (a *App) moveCursor(delta int) {
	n := a.snapshot.Len()
	if n == 0 {
		a.cursor = 0
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusIsErr = isErr
}

// --- 视图 / View ---

// View 渲染整帧；渲染失败时返回带状态行的简化帧
// View renders the frame. A panic while rendering yields a plain fallback frame
// carrying the fault on the status line.
func (a App) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("recovered panic in view", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			out = a.fallbackView(r)
		}
	}()

	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	recH, listH := a.panelHeights()
	header := a.renderHeader(a.width)
	rec := a.renderRecommendations(a.width, recH)

	var lower string
	if a.showHelp {
		lower = a.renderHelpOverlay(a.width, listH)
	} else {
		lower = a.renderProjects(a.width, listH)
	}

	status := a.renderStatusBar(a.width)
	footer := a.help.ShortHelpView(a.keys.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, rec, lower, status, footer)
}

func (a App) fallbackView(r any) string {
	var b strings.Builder
	b.WriteString(a.locale.T("app.title"))
	b.WriteString("\n\n")
	if a.status != "" {
		b.WriteString(a.status)
		b.WriteString("\n")
	}
	b.WriteString(a.locale.T("status.render_error", r))
	b.WriteString("\n")
	return b.String()
}

// panelHeights 建议区约占 40%，项目列表占其余
func (a App) panelHeights() (int, int) {
	avail := a.height - 3 // header, status, help
	recH := max(avail*40/100, 5)
	listH := max(avail-recH, 5)
	return recH, listH
}

// innerWidth 面板内容宽度（边框 2 + 内边距 2）
func innerWidth(width int) int {
	return max(width-4, 10)
}

func (a App) renderHeader(width int) string {
	left := " " + a.theme.TitleStyle.Render(a.locale.T("app.title"))
	right := a.now().Format("2006-01-02 Mon") + " "
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return a.theme.HeaderStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a App) renderPanel(style lipgloss.Style, title, body string, offset, width, height int) string {
	innerW := innerWidth(width)
	bodyH := max(height-3, 1) // border 2 + title 1

	vp := viewport.New(innerW, bodyH)
	vp.SetContent(body)
	vp.SetYOffset(offset)

	content := a.theme.PanelTitle.Render(title) + "\n" + vp.View()
	return style.Width(width - 2).Height(height - 2).Render(content)
}

func (a App) renderRecommendations(width, height int) string {
	body := a.recommendationBody(innerWidth(width))
	return a.renderPanel(a.theme.RecPanelStyle, a.locale.T("panel.recommendations"), body, a.recOffset, width, height)
}

// recommendationBody 按会话状态生成建议区内容
func (a App) recommendationBody(innerW int) string {
	switch a.session.State() {
	case analysis.StatePending:
		secs := int(a.now().Sub(a.session.StartedAt()).Seconds())
		return a.spinner.View() + " " + a.theme.WarningStyle.Render(a.locale.T("rec.pending", max(secs, 0))) +
			"\n\n" + a.theme.MutedStyle.Render(a.locale.T("rec.pending_hint"))

	case analysis.StateSettled:
		res := a.session.Result()
		if !res.OK() {
			msg := lipgloss.NewStyle().Width(innerW).Render(a.locale.T("rec.error", res.Kind(), res.Detail()))
			return a.theme.ErrorStyle.Render(msg) + "\n\n" + a.theme.MutedStyle.Render(a.locale.T("rec.retry"))
		}
		rendered := a.md.render(res.Document(), max(innerW-2, 20), a.markdown)
		clip := lipgloss.NewStyle().MaxWidth(innerW)
		lines := strings.Split(rendered, "\n")
		for i, l := range lines {
			lines[i] = clip.Render(l)
		}
		return strings.Join(lines, "\n")

	default:
		return a.theme.MutedStyle.Italic(true).Render(a.locale.T("rec.idle"))
	}
}

// maxRecOffset 建议区最大滚动偏移
func (a App) maxRecOffset() int {
	if a.width == 0 || a.height == 0 {
		return 0
	}
	recH, _ := a.panelHeights()
	bodyH := max(recH-3, 1)
	lines := strings.Count(a.recommendationBody(innerWidth(a.width)), "\n") + 1
	return max(lines-bodyH, 0)
}

func (a App) renderProjects(width, height int) string {
	innerW := innerWidth(width)
	bodyH := max(height-3, 1)
	title := a.locale.T("panel.projects", a.snapshot.Len())

	if a.snapshot.Len() == 0 {
		body := a.theme.MutedStyle.Render(a.locale.T("list.empty"))
		body += a.warningLines(innerW)
		return a.renderPanel(a.theme.ListPanelStyle, title, body, 0, width, height)
	}

	view := entryView{
		theme:  a.theme,
		locale: a.locale,
		ref:    a.now(),
		window: a.urgencyDays,
		width:  innerW,
	}
	sep := a.theme.MutedStyle.Render(strings.Repeat("─", innerW))

	var lines []string
	cursorStart, cursorEnd := 0, 0
	for i, r := range a.snapshot.Records() {
		if i > 0 {
			lines = append(lines, sep)
		}
		if i == a.cursor {
			cursorStart = len(lines)
		}
		lines = append(lines, view.lines(r, i == a.cursor)...)
		if i == a.cursor {
			cursorEnd = len(lines)
		}
	}
	if w := a.warningLines(innerW); w != "" {
		lines = append(lines, strings.Split(strings.TrimPrefix(w, "\n"), "\n")...)
	}

	// 选中项始终可见 / Keep the selected entry in view
	offset := 0
	if cursorEnd > bodyH {
		offset = cursorStart
	}
	offset = min(offset, max(len(lines)-bodyH, 0))

	return a.renderPanel(a.theme.ListPanelStyle, title, strings.Join(lines, "\n"), offset, width, height)
}

func (a App) warningLines(innerW int) string {
	warnings := a.snapshot.Warnings()
	if len(warnings) == 0 {
		return ""
	}
	clip := lipgloss.NewStyle().MaxWidth(innerW)
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(a.theme.WarningStyle.Render(a.locale.T("list.warnings", len(warnings))))
	for _, w := range warnings {
		b.WriteString("\n")
		b.WriteString(clip.Render(a.theme.MutedStyle.Render("  • " + w.String())))
	}
	return b.String()
}

func (a App) renderHelpOverlay(width, height int) string {
	content := a.theme.PanelTitle.Render(a.locale.T("help.title")) + "\n\n" +
		a.help.FullHelpView(a.keys.FullHelp())
	box := a.theme.OverlayStyle.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderStatusBar(width int) string {
	status := a.status
	if status == "" {
		status = a.locale.T("status.ready")
	}
	if a.statusIsErr {
		status = a.theme.ErrorStyle.Render(status)
	}
	left := " " + status

	parts := []string{
		a.locale.T("status.projects", a.snapshot.Len()),
	}
	if n := a.overdueCount(); n > 0 {
		parts = append(parts, a.theme.OverdueStyle.Render(a.locale.T("status.overdue", n)))
	}
	parts = append(parts, a.locale.T("state."+a.session.State().String()))
	if a.promptTokens > 0 {
		parts = append(parts, a.locale.T("status.tokens", a.promptTokens))
	}
	right := strings.Join(parts, " · ") + " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return a.theme.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a App) overdueCount() int {
	ref := a.now()
	n := 0
	for _, r := range a.snapshot.Records() {
		if r.Urgency(ref, a.urgencyDays) == project.UrgencyOverdue {
			n++
		}
	}
	return n
}

// Run 启动 Bubble Tea TUI
// Run starts the dashboard and blocks until the user quits
func Run(opts Options) error {
	app := NewApp(opts)
	defer app.cancel()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
