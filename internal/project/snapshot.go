package project

import (
	"fmt"
	"path/filepath"
	"sort"
)

// LoadWarning 非致命的加载问题，附加在快照上
// LoadWarning is a non-fatal load problem attached to a snapshot
type LoadWarning struct {
	File    string
	Message string
}

func (w LoadWarning) String() string {
	if w.File == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// Snapshot 某一时刻全部项目的有序只读视图
// Snapshot is an immutable, ordered view of all projects at one point in time
type Snapshot struct {
	records  []Record
	warnings []LoadWarning
}

// NewSnapshot 先按输入顺序去重再排序；输入切片不会被修改
// NewSnapshot de-duplicates records in input order, then sorts them; the input slice is
// not modified. Repository feeds records in file-name order, so the first file wins and
// later files with the same name become warnings.
func NewSnapshot(records []Record, warnings []LoadWarning) Snapshot {
	ws := make([]LoadWarning, 0, len(warnings))
	ws = append(ws, warnings...)

	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.Name] {
			file := r.File
			if file != "" {
				file = filepath.Base(file)
			}
			ws = append(ws, LoadWarning{File: file, Message: fmt.Sprintf("duplicate project name %q ignored", r.Name)})
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return Snapshot{records: out, warnings: ws}
}

// less orders by deadline (none last), priority rank, then name. Remaining keys only
// make the order total so that equal inputs always sort identically.
func less(a, b Record) bool {
	if a.HasDeadline != b.HasDeadline {
		return a.HasDeadline
	}
	if a.HasDeadline && !a.Deadline.Equal(b.Deadline) {
		return a.Deadline.Before(b.Deadline)
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Description != b.Description {
		return a.Description < b.Description
	}
	return a.Progress < b.Progress
}

func (s Snapshot) Len() int { return len(s.records) }

// At returns the i-th record in snapshot order.
func (s Snapshot) At(i int) Record { return s.records[i] }

// Records returns a copy of the ordered records.
func (s Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Warnings returns a copy of the load warnings.
func (s Snapshot) Warnings() []LoadWarning {
	out := make([]LoadWarning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// IndexOf returns the position of the named project, or -1.
func (s Snapshot) IndexOf(name string) int {
	for i, r := range s.records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// Equal 逐元素比较两个快照（含警告）
// Equal compares two snapshots element-wise, warnings included
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.records) != len(o.records) || len(s.warnings) != len(o.warnings) {
		return false
	}
	for i := range s.records {
		if !s.records[i].Equal(o.records[i]) {
			return false
		}
	}
	for i := range s.warnings {
		if s.warnings[i] != o.warnings[i] {
			return false
		}
	}
	return true
}
