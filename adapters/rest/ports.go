package rest

import (
	"context"

	"studytasks/core"
)

// Service is what the HTTP layer needs from the domain. *core.Service
// satisfies it; tests substitute fakes.
type Service interface {
	Ping(ctx context.Context) error

	// accounts
	CreateUser(ctx context.Context, username, passwordHash string) (core.User, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)

	// dashboard
	Summary(ctx context.Context, ownerID int64) (core.Summary, error)

	// tasks
	CreateTask(ctx context.Context, ownerID int64, in core.TaskInput) (core.Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (core.Task, error)
	ListTasks(ctx context.Context, ownerID int64, f core.TaskFilter) ([]core.Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, in core.TaskInput) (core.Task, error)
	ToggleTask(ctx context.Context, ownerID, id int64) (core.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) error

	// courses
	CreateCourse(ctx context.Context, ownerID int64, name, color string) (core.Course, error)
	ListCourses(ctx context.Context, ownerID int64) ([]core.Course, error)
	UpdateCourse(ctx context.Context, ownerID, id int64, name, color string) (core.Course, error)
	DeleteCourse(ctx context.Context, ownerID, id int64) error

	// tags
	CreateTag(ctx context.Context, ownerID int64, name string) (core.Tag, error)
	ListTags(ctx context.Context, ownerID int64) ([]core.Tag, error)
	DeleteTag(ctx context.Context, ownerID, id int64) error
}
