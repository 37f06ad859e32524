package prompt

import (
	"strings"
	"testing"
	"time"

	"muxsummary/internal/project"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := project.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sampleRecords(t *testing.T) []project.Record {
	return []project.Record{
		{Name: "A", Deadline: date(t, "2025-12-10"), HasDeadline: true, Priority: project.PriorityHigh, Description: "paper", Progress: "50% done", HasProgress: true},
		{Name: "B", Deadline: date(t, "2025-11-30"), HasDeadline: true, Priority: project.PriorityNormal, Description: "grant"},
		{Name: "C", Priority: project.PriorityLow, Description: "side", Progress: strings.Repeat("x", 5000), HasProgress: true},
	}
}

// section returns the prompt block for one project.
func section(t *testing.T, prompt, name string) string {
	t.Helper()
	start := strings.Index(prompt, "Project: "+name+"\n")
	if start < 0 {
		t.Fatalf("project %s missing from prompt", name)
	}
	end := strings.Index(prompt[start:], "\n---\n")
	if end < 0 {
		t.Fatalf("project %s block not terminated", name)
	}
	return prompt[start : start+end]
}

func TestBuildReferenceScenario(t *testing.T) {
	ref := date(t, "2025-12-04")
	out := Build(project.NewSnapshot(sampleRecords(t), nil), ref)

	if !strings.Contains(out, "Today is 2025-12-04.") {
		t.Fatalf("missing reference date")
	}

	a := section(t, out, "A")
	if !strings.Contains(a, "Deadline: 6 days left") || !strings.Contains(a, "Priority: high") || !strings.Contains(a, "50% done") {
		t.Fatalf("A block unexpected:\n%s", a)
	}

	b := section(t, out, "B")
	if !strings.Contains(b, "Deadline: -4 days (overdue)") {
		t.Fatalf("B should be overdue:\n%s", b)
	}
	if !strings.Contains(b, NoProgressMarker) {
		t.Fatalf("B should carry the no-progress marker:\n%s", b)
	}

	c := section(t, out, "C")
	if !strings.Contains(c, "Deadline: "+NoDeadline) {
		t.Fatalf("C should have no deadline:\n%s", c)
	}
	if !strings.Contains(c, strings.Repeat("x", MaxProgressRunes)+"\n"+TruncationMarker) {
		t.Fatalf("C progress should be truncated with marker")
	}
	if strings.Contains(c, strings.Repeat("x", MaxProgressRunes+1)) {
		t.Fatalf("C progress exceeds the maximum length")
	}

	// Overdue B sorts first, C (no deadline) last.
	if !(strings.Index(out, "Project: B") < strings.Index(out, "Project: A") &&
		strings.Index(out, "Project: A") < strings.Index(out, "Project: C")) {
		t.Fatalf("projects out of order")
	}
	if !strings.HasSuffix(out, InstructionSuffix) {
		t.Fatalf("prompt must end with the instruction suffix")
	}
}

func TestBuildIndependentOfInputOrder(t *testing.T) {
	ref := date(t, "2025-12-04")
	recs := sampleRecords(t)
	reversed := []project.Record{recs[2], recs[1], recs[0]}

	first := Build(project.NewSnapshot(recs, nil), ref)
	second := Build(project.NewSnapshot(reversed, nil), ref)
	if first != second {
		t.Fatalf("prompt depends on input order")
	}
	if Build(project.NewSnapshot(recs, nil), ref) != first {
		t.Fatalf("prompt is not deterministic")
	}
}

// instructionSuffixV1 是 v1 后缀的完整文本；改动后缀时需同时提升 PromptVersion
const instructionSuffixV1 = "[instructions v1]\n" +
	"Respond in markdown with exactly two sections, each introduced by a \"##\" header:\n" +
	"\n" +
	"## Priority Order\n" +
	"A ranked list of at most 5 projects I should work on first. Give each one a single-line justification that weighs deadline urgency, current progress, priority level and momentum.\n" +
	"\n" +
	"## Strategic Insights\n" +
	"One short paragraph covering: mismatches between urgency and progress, projects with momentum, stalled projects, workload balance (too scattered or too focused), and conflicts between stated priority and deadlines.\n"

func TestInstructionSuffixPinned(t *testing.T) {
	if PromptVersion != "v1" {
		t.Fatalf("PromptVersion=%q, update the pinned suffix", PromptVersion)
	}
	if InstructionSuffix != instructionSuffixV1 {
		t.Fatalf("InstructionSuffix changed:\n got %q\nwant %q", InstructionSuffix, instructionSuffixV1)
	}
	got := Build(project.NewSnapshot(nil, nil), date(t, "2025-12-04"))
	if !strings.HasSuffix(got, "\n"+instructionSuffixV1) {
		t.Fatalf("prompt does not end with the suffix:\n%s", got)
	}
}

func TestDeadlineTextSingular(t *testing.T) {
	ref := date(t, "2025-12-04")
	tests := map[string]string{
		"2025-12-05": "1 day left",
		"2025-12-03": "-1 day (overdue)",
		"2025-12-04": "0 days left",
	}
	for ddl, want := range tests {
		r := project.Record{Deadline: date(t, ddl), HasDeadline: true}
		if got := DeadlineText(r, ref); got != want {
			t.Errorf("DeadlineText(%s)=%q, want %q", ddl, got, want)
		}
	}
}

func TestProgressTextWhitespaceIsAbsent(t *testing.T) {
	if got := ProgressText(project.Record{Progress: " \n", HasProgress: true}); got != NoProgressMarker {
		t.Fatalf("got %q", got)
	}
}
