package project

import (
	"sort"
	"time"
)

// MatrixUrgentDays 矩阵视图的紧急阈值（含逾期）
const MatrixUrgentDays = 7

// Importance 由优先级推导的重要程度
type Importance int

const (
	ImportanceImportant Importance = iota
	ImportanceRoutine
	ImportanceMinor
)

// Importance maps priority onto the matrix rows.
func (p Priority) Importance() Importance {
	switch p {
	case PriorityHigh:
		return ImportanceImportant
	case PriorityLow:
		return ImportanceMinor
	default:
		return ImportanceRoutine
	}
}

// Symbol returns the marker printed next to a project name.
func (i Importance) Symbol() string {
	switch i {
	case ImportanceImportant:
		return "▲"
	case ImportanceMinor:
		return "▼"
	default:
		return "●"
	}
}

// Quadrant 六象限矩阵中的格子，Q1..Q6
// Quadrant is one cell of the six-cell urgency x importance matrix
type Quadrant int

const (
	QuadrantDoFirst    Quadrant = iota + 1 // urgent, important
	QuadrantSchedule                       // not urgent, important
	QuadrantQuickWin                       // urgent, routine
	QuadrantOrganize                       // not urgent, routine
	QuadrantReview                         // urgent, minor
	QuadrantDrop                           // not urgent, minor
)

// Quadrants lists the cells in display order.
var Quadrants = []Quadrant{QuadrantDoFirst, QuadrantSchedule, QuadrantQuickWin, QuadrantOrganize, QuadrantReview, QuadrantDrop}

// Quadrant 按截止日期与优先级归类；逾期算紧急。
// 无截止日期时：重要 -> Q1，常规 -> Q4，次要 -> Q6
// Quadrant classifies r. A deadline within urgentDays (overdue included) is urgent.
// Projects without a deadline go to Q1, Q4 or Q6 by importance.
func (r Record) Quadrant(ref time.Time, urgentDays int) Quadrant {
	imp := r.Priority.Importance()
	days, ok := r.DaysLeft(ref)
	if !ok {
		switch imp {
		case ImportanceImportant:
			return QuadrantDoFirst
		case ImportanceMinor:
			return QuadrantDrop
		default:
			return QuadrantOrganize
		}
	}
	urgent := days <= urgentDays
	switch imp {
	case ImportanceImportant:
		if urgent {
			return QuadrantDoFirst
		}
		return QuadrantSchedule
	case ImportanceMinor:
		if urgent {
			return QuadrantReview
		}
		return QuadrantDrop
	default:
		if urgent {
			return QuadrantQuickWin
		}
		return QuadrantOrganize
	}
}

// Matrix 按象限分组后的项目
type Matrix map[Quadrant][]Record

// GroupByQuadrant 分组；组内逾期优先，其次按剩余天数，再按名称
// GroupByQuadrant buckets the snapshot. Within a cell, overdue projects come
// first, then fewer days left, then name; projects without a deadline go last.
func GroupByQuadrant(snap Snapshot, ref time.Time, urgentDays int) Matrix {
	m := make(Matrix, len(Quadrants))
	for _, r := range snap.records {
		q := r.Quadrant(ref, urgentDays)
		m[q] = append(m[q], r)
	}
	for _, recs := range m {
		sort.SliceStable(recs, func(i, j int) bool {
			di, oki := recs[i].DaysLeft(ref)
			dj, okj := recs[j].DaysLeft(ref)
			if oki != okj {
				return oki
			}
			if oki && di != dj {
				return di < dj
			}
			return recs[i].Name < recs[j].Name
		})
	}
	return m
}
