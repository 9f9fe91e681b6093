package core

import "time"

// TaskStatus is stored as its ordinal so that sorting by status puts open
// tasks before finished ones. The wire codes ("TODO", "INPR", "DONE") do not
// sort correctly as strings.
type TaskStatus int16

const (
	StatusTodo       TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

var statusCodes = map[TaskStatus]string{
	StatusTodo:       "TODO",
	StatusInProgress: "INPR",
	StatusDone:       "DONE",
}

func (s TaskStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

func (s TaskStatus) Code() string {
	return statusCodes[s]
}

type TaskPriority int16

const (
	PriorityLow    TaskPriority = 0
	PriorityMedium TaskPriority = 1
	PriorityHigh   TaskPriority = 2
	PriorityUrgent TaskPriority = 3
)

var priorityCodes = map[TaskPriority]string{
	PriorityLow:    "LOW",
	PriorityMedium: "MED",
	PriorityHigh:   "HIGH",
	PriorityUrgent: "URG",
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityCodes[p]
	return ok
}

func (p TaskPriority) Code() string {
	return priorityCodes[p]
}

const (
	MaxTitleLen      = 200
	MaxCourseNameLen = 120
	MaxTagNameLen    = 50
	MaxUsernameLen   = 150

	DefaultCourseColor = "#3B82F6"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Course struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Task struct {
	ID          int64        `db:"id"`
	OwnerID     int64        `db:"owner_id"`
	CourseID    *int64       `db:"course_id"` // nil when the task has no course
	Title       string       `db:"title"`
	Description string       `db:"description"`
	DueAt       *time.Time   `db:"due_at"`
	Priority    TaskPriority `db:"priority"`
	Status      TaskStatus   `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	CompletedAt *time.Time   `db:"completed_at"` // set iff Status == StatusDone

	Tags []Tag `db:"-"`
}
