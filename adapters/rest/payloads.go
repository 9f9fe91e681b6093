package rest

import (
	"strings"
	"time"

	"studytasks/core"
)

type SignupIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CourseIn struct {
	Name  string `json:"name"`
	Color string `json:"color"` // empty picks the default
}

type TagIn struct {
	Name string `json:"name"`
}

type TaskIn struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CourseID    *int64  `json:"course_id,omitempty"`
	TagIDs      []int64 `json:"tag_ids,omitempty"`
	DueAt       string  `json:"due_at,omitempty"`   // RFC 3339, or local "2006-01-02T15:04"
	Priority    string  `json:"priority,omitempty"` // LOW|MED|HIGH|URG, default MED
	Status      string  `json:"status,omitempty"`   // TODO|INPR|DONE, default TODO
}

// ToInput converts the submission, collecting field errors for malformed
// enum codes and dates so the caller sees all failures at once.
func (in TaskIn) ToInput() (core.TaskInput, *core.ValidationError) {
	out := core.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		CourseID:    in.CourseID,
		TagIDs:      in.TagIDs,
		Priority:    core.PriorityMedium,
		Status:      core.StatusTodo,
	}
	fields := map[string]string{}

	if in.Priority != "" {
		p, ok := core.ParsePriority(in.Priority)
		if !ok {
			fields["priority"] = "unknown priority"
		} else {
			out.Priority = p
		}
	}

	if in.Status != "" {
		st, ok := core.ParseStatus(in.Status)
		if !ok {
			fields["status"] = "unknown status"
		} else {
			out.Status = st
		}
	}

	if due := strings.TrimSpace(in.DueAt); due != "" {
		t, err := parseDueAt(due)
		if err != nil {
			fields["due_at"] = "enter a valid date/time"
		} else {
			out.DueAt = &t
		}
	}

	if len(fields) > 0 {
		return out, &core.ValidationError{Fields: fields}
	}
	return out, nil
}

func parseDueAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// datetime-local form values carry no zone; read them as server-local
	return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
}

type TagOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TaskOut struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CourseID    *int64     `json:"course_id,omitempty"`
	Tags        []TagOut   `json:"tags"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func TaskToOut(t core.Task) TaskOut {
	tags := make([]TagOut, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tags = append(tags, TagOut{ID: tag.ID, Name: tag.Name})
	}

	return TaskOut{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CourseID:    t.CourseID,
		Tags:        tags,
		DueAt:       t.DueAt,
		Priority:    t.Priority.Code(),
		Status:      t.Status.Code(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func TasksToOut(tasks []core.Task) []TaskOut {
	out := make([]TaskOut, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskToOut(t))
	}
	return out
}

type SummaryOut struct {
	Counts     core.SummaryCounts `json:"counts"`
	NextUp     []TaskOut          `json:"next_up"`
	RecentDone []TaskOut          `json:"recent_done"`
}

func SummaryToOut(s core.Summary) SummaryOut {
	return SummaryOut{
		Counts:     s.Counts,
		NextUp:     TasksToOut(s.NextUp),
		RecentDone: TasksToOut(s.RecentDone),
	}
}
