package prompt

import (
	"fmt"
	"strings"
	"time"

	"muxsummary/internal/project"
)

// MaxProgressRunes 进度文本的最大长度（按字符计）
// MaxProgressRunes caps the progress text copied into the prompt, in characters
const MaxProgressRunes = 4000

const (
	TruncationMarker = "... [truncated]"
	NoProgressMarker = "[no progress recorded]"
	NoDeadline       = "no deadline"
)

// PromptVersion identifies the InstructionSuffix revision.
const PromptVersion = "v1"

// SystemPrompt 作为 system 消息发送
// SystemPrompt is sent as the system message
const SystemPrompt = "You are a productivity advisor analyzing project portfolios. Provide concise, actionable advice."

// InstructionSuffix 固定的指令后缀，修改时必须同步提升 PromptVersion
// InstructionSuffix is appended verbatim to every prompt; bump PromptVersion when editing it
const InstructionSuffix = `[instructions ` + PromptVersion + `]
Respond in markdown with exactly two sections, each introduced by a "##" header:

## Priority Order
A ranked list of at most 5 projects I should work on first. Give each one a single-line justification that weighs deadline urgency, current progress, priority level and momentum.

## Strategic Insights
One short paragraph covering: mismatches between urgency and progress, projects with momentum, stalled projects, workload balance (too scattered or too focused), and conflicts between stated priority and deadlines.
`

// Build 由快照和参考日期生成提示词；相同输入总是得到相同输出
// Build turns a snapshot and a reference date into the analysis prompt.
// The result depends only on its arguments.
func Build(snap project.Snapshot, ref time.Time) string {
	var b strings.Builder
	b.WriteString("You are a productivity advisor analyzing my project portfolio.\n\n")
	fmt.Fprintf(&b, "Today is %s.\n\n", project.NewDate(ref).Format(project.DateLayout))
	fmt.Fprintf(&b, "Here are my active projects (%d):\n\n", snap.Len())

	for i := 0; i < snap.Len(); i++ {
		writeProject(&b, snap.At(i), ref)
	}

	b.WriteString("\n")
	b.WriteString(InstructionSuffix)
	return b.String()
}

func writeProject(b *strings.Builder, r project.Record, ref time.Time) {
	fmt.Fprintf(b, "Project: %s\n", r.Name)
	fmt.Fprintf(b, "Deadline: %s\n", DeadlineText(r, ref))
	fmt.Fprintf(b, "Priority: %s\n", r.Priority)
	fmt.Fprintf(b, "Description: %s\n", r.Description)
	b.WriteString("Recent Progress:\n")
	b.WriteString(ProgressText(r))
	b.WriteString("\n---\n")
}

// DeadlineText renders the signed day count used in the prompt.
func DeadlineText(r project.Record, ref time.Time) string {
	days, ok := r.DaysLeft(ref)
	if !ok {
		return NoDeadline
	}
	unit := "days"
	if days == 1 || days == -1 {
		unit = "day"
	}
	if days < 0 {
		return fmt.Sprintf("%d %s (overdue)", days, unit)
	}
	return fmt.Sprintf("%d %s left", days, unit)
}

// ProgressText returns the progress note, truncated with a marker, or the
// explicit no-progress marker.
func ProgressText(r project.Record) string {
	if !r.HasProgress || strings.TrimSpace(r.Progress) == "" {
		return NoProgressMarker
	}
	text := strings.TrimRight(r.Progress, "\n")
	runes := []rune(text)
	if len(runes) <= MaxProgressRunes {
		return text
	}
	return string(runes[:MaxProgressRunes]) + "\n" + TruncationMarker
}
