package project

import (
	"strings"
	"time"
)

// Priority 项目优先级
// Priority is the normalized project priority
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ParsePriority 归一化优先级，无法识别时返回 normal
// ParsePriority normalizes raw input; anything unrecognized becomes normal
func ParsePriority(raw string) Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "urgent":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Rank orders priorities: high < normal < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// DateLayout is the calendar date format used by project configs.
const DateLayout = "2006-01-02"

// Record 单个项目的不可变记录
// Record is one immutable project entry
type Record struct {
	Name        string
	Deadline    time.Time // UTC midnight; meaningful only when HasDeadline
	HasDeadline bool
	Priority    Priority
	Description string
	Progress    string
	HasProgress bool

	// Display only.
	Root string
	File string
}

// NewDate returns the calendar date of t as a UTC midnight value.
func NewDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return NewDate(d), nil
}

// DaysLeft 距离截止日期的天数，负数表示已逾期
// DaysLeft returns the signed day count from ref to the deadline; negative means overdue
func (r Record) DaysLeft(ref time.Time) (int, bool) {
	if !r.HasDeadline {
		return 0, false
	}
	diff := NewDate(r.Deadline).Sub(NewDate(ref))
	return int(diff.Hours() / 24), true
}

// Urgency classifies a deadline for display.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyNormal
	UrgencyDueSoon
	UrgencyOverdue
)

// Urgency 按截止日期分档；window 为紧急窗口天数
// Urgency bands the deadline; window is the urgency window in days
func (r Record) Urgency(ref time.Time, window int) Urgency {
	days, ok := r.DaysLeft(ref)
	switch {
	case !ok:
		return UrgencyNone
	case days < 0:
		return UrgencyOverdue
	case days <= window:
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

// Equal reports field-wise equality.
func (r Record) Equal(o Record) bool {
	if r.HasDeadline != o.HasDeadline || (r.HasDeadline && !r.Deadline.Equal(o.Deadline)) {
		return false
	}
	return r.Name == o.Name &&
		r.Priority == o.Priority &&
		r.Description == o.Description &&
		r.HasProgress == o.HasProgress &&
		r.Progress == o.Progress &&
		r.Root == o.Root &&
		r.File == o.File
}
