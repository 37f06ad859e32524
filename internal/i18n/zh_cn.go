package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// 标题
	"app.title": "Tmuxinator 项目汇总 · AI 分析",

	// 面板标题
	"panel.recommendations": "AI 建议",
	"panel.projects":        "项目详情（共 %d 个）",

	// 建议区
	"rec.idle":         "按 'a' 让 AI 分析项目",
	"rec.pending":      "正在分析项目... %d 秒",
	"rec.pending_hint": "请求进行中，仍可继续浏览项目列表。",
	"rec.error":        "错误（%s）：%s",
	"rec.retry":        "按 'a' 重试",

	// 项目列表
	"list.empty":     "未找到项目",
	"list.warnings":  "%d 条配置警告：",
	"ddl.none":       "无截止日期",
	"ddl.overdue":    "已逾期 %d 天",
	"ddl.today":      "今天截止",
	"ddl.urgent":     "紧急（剩 %d 天）",
	"ddl.left":       "剩 %d 天",
	"priority.high":  "[高]",
	"priority.low":   "[低]",
	"field.ddl":      "截止：",
	"field.desc":     "描述：%s",
	"field.path":     "路径：%s",
	"progress.label": "进度：",
	"progress.none":  "[未找到进度文件]",
	"progress.more":  "… 还有 %d 行",

	// 状态栏
	"status.ready":           "就绪",
	"status.projects":        "%d 个项目",
	"status.overdue":         "%d 个逾期",
	"status.tokens":          "提示词约 %d tokens",
	"status.refreshed":       "已刷新（%d 个项目）",
	"status.refresh_failed":  "刷新失败：%s",
	"status.analyzing":       "AI 分析中...",
	"status.already_pending": "分析已在进行中",
	"status.no_projects":     "没有可分析的项目",
	"status.analysis_done":   "分析完成（%s）",
	"status.analysis_failed": "分析失败：%s",
	"status.internal_error":  "内部错误：%v",
	"status.render_error":    "渲染失败：%v（按 r 刷新，q 退出）",

	// 会话状态
	"state.idle":    "空闲",
	"state.pending": "分析中",
	"state.settled": "完成",

	// 快捷键
	"help.title":       "命令",
	"keys.analyze":     "AI 分析",
	"keys.refresh":     "刷新项目",
	"keys.quit":        "退出",
	"keys.up":          "上一个项目",
	"keys.down":        "下一个项目",
	"keys.page_up":     "上一页",
	"keys.page_down":   "下一页",
	"keys.top":         "第一个项目",
	"keys.bottom":      "最后一个项目",
	"keys.scroll_up":   "建议区上滚",
	"keys.scroll_down": "建议区下滚",
	"keys.help":        "帮助",
	"keys.close":       "关闭帮助",

	// matrix
	"matrix.q1":      "立即处理（紧急且重要）",
	"matrix.q2":      "计划安排（不紧急但重要）",
	"matrix.q3":      "速战速决（紧急且常规）",
	"matrix.q4":      "整理维护（不紧急且常规）",
	"matrix.q5":      "复查（紧急但低优先级）",
	"matrix.q6":      "考虑放弃？（不紧急且低优先级）",
	"matrix.empty":   "空",
	"matrix.no_ddl":  "无截止",
	"matrix.ago":     "%d 天前",
	"matrix.today":   "今天",
	"matrix.days":    "%d 天",
	"matrix.total":   "共 %d 个项目",
	"matrix.overdue": "%d 个逾期",
}
