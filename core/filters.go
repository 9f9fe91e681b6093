package core

import (
	"strings"
	"time"
)

type DueFilter string

const (
	DueOverdue DueFilter = "overdue"
	DueToday   DueFilter = "today"
	DueSoon    DueFilter = "soon"
)

func ParseDueFilter(s string) (DueFilter, bool) {
	switch DueFilter(strings.ToLower(strings.TrimSpace(s))) {
	case DueOverdue:
		return DueOverdue, true
	case DueToday:
		return DueToday, true
	case DueSoon:
		return DueSoon, true
	default:
		return "", false
	}
}

func ParseStatus(code string) (TaskStatus, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for st, c := range statusCodes {
		if c == code {
			return st, true
		}
	}
	return 0, false
}

func ParsePriority(code string) (TaskPriority, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for p, c := range priorityCodes {
		if c == code {
			return p, true
		}
	}
	return 0, false
}

// DueSoonWindow bounds the "soon" due filter and the dashboard due_soon
// count: [now, now+3d].
const DueSoonWindow = 72 * time.Hour

// TodayWindow returns the local-midnight-to-next-local-midnight interval
// around now. The zone is the server's, not per-user.
func TodayWindow(now time.Time) (start, end time.Time) {
	local := now.Local()
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// TaskFilter narrows a task listing. The zero value matches everything; all
// set criteria are ANDed together.
type TaskFilter struct {
	Query    string        // case-insensitive substring of title, description or course name
	Status   *TaskStatus   // nil = any
	Priority *TaskPriority // nil = any
	CourseID *int64        // nil = any
	Due      DueFilter     // "" = any

	Limit  int // 0 = unlimited
	Offset int

	// Now anchors the due windows. The service stamps it before the filter
	// reaches a store.
	Now time.Time
}

// Matches is the canonical definition of the filter semantics. The SQL
// composer in adapters/db mirrors it; the in-memory store used by tests
// applies it directly. courseName is the name of the task's course, or ""
// when it has none.
func (f TaskFilter) Matches(t Task, courseName string) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(courseName), q) {
			return false
		}
	}

	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.CourseID != nil && (t.CourseID == nil || *t.CourseID != *f.CourseID) {
		return false
	}

	switch f.Due {
	case DueOverdue:
		if t.Status == StatusDone || t.DueAt == nil || !t.DueAt.Before(f.Now) {
			return false
		}
	case DueToday:
		start, end := TodayWindow(f.Now)
		if t.DueAt == nil || t.DueAt.Before(start) || !t.DueAt.Before(end) {
			return false
		}
	case DueSoon:
		if t.Status == StatusDone || t.DueAt == nil ||
			t.DueAt.Before(f.Now) || t.DueAt.After(f.Now.Add(DueSoonWindow)) {
			return false
		}
	}

	return true
}

// CompareTasks implements the fixed listing order: status ordinal ascending,
// then due date ascending with tasks lacking a due date last, then newest
// first.
func CompareTasks(a, b Task) int {
	if a.Status != b.Status {
		return int(a.Status) - int(b.Status)
	}

	switch {
	case a.DueAt == nil && b.DueAt != nil:
		return 1
	case a.DueAt != nil && b.DueAt == nil:
		return -1
	case a.DueAt != nil && b.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
		if a.DueAt.Before(*b.DueAt) {
			return -1
		}
		return 1
	}

	if a.CreatedAt.After(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return 1
	}
	return 0
}
