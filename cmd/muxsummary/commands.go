package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"muxsummary/internal/i18n"
	"muxsummary/internal/project"
	"muxsummary/internal/prompt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the sorted project snapshot without the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}
			defer env.close()

			snap, err := env.loadInitial()
			if err != nil {
				return err
			}
			if err := renderList(cmd.OutOrStdout(), snap, time.Now()); err != nil {
				return err
			}
			for _, w := range snap.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}
}

func newPromptCmd(flags *rootFlags) *cobra.Command {
	var (
		date  string
		count bool
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the analysis prompt the dashboard would send",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := time.Now()
			if date != "" {
				d, err := project.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				ref = d
			}

			env, err := setup(flags)
			if err != nil {
				return err
			}
			defer env.close()

			snap, err := env.loadInitial()
			if err != nil {
				return err
			}
			text := prompt.Build(snap, ref)
			if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
				return err
			}
			if count {
				tok := prompt.DefaultTokenizer()
				kind := "heuristic"
				if tok.IsPrecise() {
					kind = "tiktoken"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\n≈ %d prompt tokens + %d system tokens (%s)\n",
					tok.CountText(text), tok.CountText(prompt.SystemPrompt), kind)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&count, "count", true, "Print a token estimate to stderr")
	return cmd
}

func newMatrixCmd(flags *rootFlags) *cobra.Command {
	var (
		date       string
		urgentDays int
	)
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print projects grouped into urgency x importance quadrants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := time.Now()
			if date != "" {
				d, err := project.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				ref = d
			}
			if urgentDays < 0 {
				return fmt.Errorf("--urgent-days must be >= 0, got %d", urgentDays)
			}

			env, err := setup(flags)
			if err != nil {
				return err
			}
			defer env.close()

			snap, err := env.loadInitial()
			if err != nil {
				return err
			}
			m := project.GroupByQuadrant(snap, ref, urgentDays)
			if err := renderMatrix(cmd.OutOrStdout(), m, snap, ref, env.locale); err != nil {
				return err
			}
			for _, w := range snap.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&urgentDays, "urgent-days", project.MatrixUrgentDays, "Deadlines within this many days count as urgent")
	return cmd
}

// matrixDescWidth 描述列的显示宽度上限
const matrixDescWidth = 30

// renderMatrix 每个象限一张表，最后输出汇总行
func renderMatrix(w io.Writer, m project.Matrix, snap project.Snapshot, ref time.Time, locale *i18n.I18n) error {
	title := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	for _, q := range project.Quadrants {
		recs := m[q]
		fmt.Fprintf(&b, "%s (%d)\n", title.Render(locale.T(fmt.Sprintf("matrix.q%d", q))), len(recs))
		if len(recs) == 0 {
			b.WriteString("  " + locale.T("matrix.empty") + "\n\n")
			continue
		}
		t := table.New().Border(lipgloss.RoundedBorder())
		for _, r := range recs {
			mark := r.Priority.Importance().Symbol()
			if days, ok := r.DaysLeft(ref); ok && days < 0 {
				mark = "⚠" + mark
			}
			t.Row(mark, r.Name, matrixDeadline(r, ref, locale), runewidth.Truncate(r.Description, matrixDescWidth, "…"))
		}
		b.WriteString(t.String() + "\n\n")
	}

	overdue := 0
	for _, r := range snap.Records() {
		if r.Urgency(ref, 0) == project.UrgencyOverdue {
			overdue++
		}
	}
	b.WriteString(locale.T("matrix.total", snap.Len()))
	if overdue > 0 {
		b.WriteString(" | ⚠ " + locale.T("matrix.overdue", overdue))
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func matrixDeadline(r project.Record, ref time.Time, locale *i18n.I18n) string {
	days, ok := r.DaysLeft(ref)
	switch {
	case !ok:
		return locale.T("matrix.no_ddl")
	case days < 0:
		return locale.T("matrix.ago", -days)
	case days == 0:
		return locale.T("matrix.today")
	default:
		return locale.T("matrix.days", days)
	}
}

// renderList 以表格输出快照
func renderList(w io.Writer, snap project.Snapshot, ref time.Time) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PROJECT", "DEADLINE", "PRIORITY", "PROGRESS")
	for _, r := range snap.Records() {
		ddl := prompt.DeadlineText(r, ref)
		if r.HasDeadline {
			ddl = r.Deadline.Format(project.DateLayout) + " (" + ddl + ")"
		}
		progress := "-"
		if r.HasProgress {
			lines := strings.Count(strings.TrimRight(r.Progress, "\n"), "\n") + 1
			progress = fmt.Sprintf("%d lines", lines)
		}
		t.Row(r.Name, ddl, string(r.Priority), progress)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
