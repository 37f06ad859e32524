package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Header
	"app.title": "Tmuxinator Summary · AI-Powered Analysis",

	// Panel titles
	"panel.recommendations": "AI RECOMMENDATIONS",
	"panel.projects":        "PROJECT DETAILS (%d projects)",

	// Recommendation region
	"rec.idle":         "Press 'a' to analyze projects with AI",
	"rec.pending":      "Analyzing projects... %ds",
	"rec.pending_hint": "You can keep navigating while the request runs.",
	"rec.error":        "Error (%s): %s",
	"rec.retry":        "Press 'a' to retry",

	// Project list
	"list.empty":     "No projects found",
	"list.warnings":  "%d config warning(s):",
	"ddl.none":       "No deadline",
	"ddl.overdue":    "OVERDUE by %dd",
	"ddl.today":      "DUE TODAY",
	"ddl.urgent":     "URGENT (%dd left)",
	"ddl.left":       "%dd left",
	"priority.high":  "[HIGH]",
	"priority.low":   "[LOW]",
	"field.ddl":      "DDL: ",
	"field.desc":     "Description: %s",
	"field.path":     "Path: %s",
	"progress.label": "Progress:",
	"progress.none":  "[No progress file found]",
	"progress.more":  "… %d more line(s)",

	// Status bar
	"status.ready":           "Ready",
	"status.projects":        "%d projects",
	"status.overdue":         "%d overdue",
	"status.tokens":          "prompt ≈ %d tokens",
	"status.refreshed":       "Projects refreshed (%d projects)",
	"status.refresh_failed":  "Refresh failed: %s",
	"status.analyzing":       "Analyzing projects with AI...",
	"status.already_pending": "Analysis already in progress",
	"status.no_projects":     "No projects to analyze",
	"status.analysis_done":   "Analysis complete (%s)",
	"status.analysis_failed": "Analysis failed: %s",
	"status.internal_error":  "Internal error: %v",
	"status.render_error":    "Render failed: %v (press r to refresh, q to quit)",

	// Session state
	"state.idle":    "idle",
	"state.pending": "analyzing",
	"state.settled": "done",

	// Keybindings
	"help.title":       "Commands",
	"keys.analyze":     "analyze with AI",
	"keys.refresh":     "refresh projects",
	"keys.quit":        "quit",
	"keys.up":          "previous project",
	"keys.down":        "next project",
	"keys.page_up":     "page up",
	"keys.page_down":   "page down",
	"keys.top":         "first project",
	"keys.bottom":      "last project",
	"keys.scroll_up":   "scroll advice up",
	"keys.scroll_down": "scroll advice down",
	"keys.help":        "help",
	"keys.close":       "close help",

	// matrix
	"matrix.q1":      "DO FIRST (Urgent & Important)",
	"matrix.q2":      "SCHEDULE (Not Urgent & Important)",
	"matrix.q3":      "QUICK WINS (Urgent & Routine)",
	"matrix.q4":      "ORGANIZE (Not Urgent & Routine)",
	"matrix.q5":      "REVIEW (Urgent & Low Priority)",
	"matrix.q6":      "DROP? (Not Urgent & Low Priority)",
	"matrix.empty":   "Empty",
	"matrix.no_ddl":  "No ddl",
	"matrix.ago":     "%dd ago",
	"matrix.today":   "Today",
	"matrix.days":    "%dd",
	"matrix.total":   "Total: %d projects",
	"matrix.overdue": "%d overdue",
}
