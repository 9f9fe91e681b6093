package core

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// Store is the persistence port. Every owner-scoped method takes the owner id
// explicitly; single-row lookups must return the entity's NotFound sentinel
// when the row exists but belongs to someone else, so that existence is never
// revealed to non-owners.
type Store interface {
	Ping(ctx context.Context) error

	// users
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)

	// courses
	CreateCourse(ctx context.Context, c Course) (Course, error)
	GetCourse(ctx context.Context, ownerID, id int64) (Course, error)
	ListCourses(ctx context.Context, ownerID int64) ([]Course, error)
	UpdateCourse(ctx context.Context, c Course) (Course, error)
	DeleteCourse(ctx context.Context, ownerID, id int64) error

	// tags
	CreateTag(ctx context.Context, tag Tag) (Tag, error)
	ListTags(ctx context.Context, ownerID int64) ([]Tag, error)
	GetTags(ctx context.Context, ownerID int64, ids []int64) ([]Tag, error)
	DeleteTag(ctx context.Context, ownerID, id int64) error

	// tasks
	CreateTask(ctx context.Context, t Task, tagIDs []int64) (Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (Task, error)
	ListTasks(ctx context.Context, ownerID int64, f TaskFilter) ([]Task, error)
	UpdateTask(ctx context.Context, t Task, tagIDs []int64) (Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Users

func (s *Service) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fieldError("username", "this field is required")
	}
	if len(username) > MaxUsernameLen {
		return User{}, fieldError("username", "must be at most 150 characters")
	}

	u, err := s.store.CreateUser(ctx, username, passwordHash)
	if errors.Is(err, ErrUserExists) {
		return User{}, fieldError("username", "a user with that username already exists")
	}
	return u, err
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
}

// Courses

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validateCourse(name, color string) (string, string, *ValidationError) {
	name = strings.TrimSpace(name)
	fields := map[string]string{}

	if name == "" {
		fields["name"] = "this field is required"
	} else if len(name) > MaxCourseNameLen {
		fields["name"] = "must be at most 120 characters"
	}

	if color == "" {
		color = DefaultCourseColor
	} else if !colorRe.MatchString(color) {
		fields["color"] = "must be a hex color like #3B82F6"
	}

	if len(fields) > 0 {
		return "", "", &ValidationError{Fields: fields}
	}
	return name, color, nil
}

func (s *Service) CreateCourse(ctx context.Context, ownerID int64, name, color string) (Course, error) {
	name, color, verr := validateCourse(name, color)
	if verr != nil {
		return Course{}, verr
	}

	c, err := s.store.CreateCourse(ctx, Course{OwnerID: ownerID, Name: name, Color: color})
	if errors.Is(err, ErrCourseExists) {
		return Course{}, fieldError("name", "you already have a course with this name")
	}
	return c, err
}

func (s *Service) GetCourse(ctx context.Context, ownerID, id int64) (Course, error) {
	return s.store.GetCourse(ctx, ownerID, id)
}

func (s *Service) ListCourses(ctx context.Context, ownerID int64) ([]Course, error) {
	return s.store.ListCourses(ctx, ownerID)
}

func (s *Service) UpdateCourse(ctx context.Context, ownerID, id int64, name, color string) (Course, error) {
	name, color, verr := validateCourse(name, color)
	if verr != nil {
		return Course{}, verr
	}

	c, err := s.store.UpdateCourse(ctx, Course{ID: id, OwnerID: ownerID, Name: name, Color: color})
	if errors.Is(err, ErrCourseExists) {
		return Course{}, fieldError("name", "you already have a course with this name")
	}
	return c, err
}

func (s *Service) DeleteCourse(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteCourse(ctx, ownerID, id)
}

// Tags

func (s *Service) CreateTag(ctx context.Context, ownerID int64, name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, fieldError("name", "this field is required")
	}
	if len(name) > MaxTagNameLen {
		return Tag{}, fieldError("name", "must be at most 50 characters")
	}

	tag, err := s.store.CreateTag(ctx, Tag{OwnerID: ownerID, Name: name})
	if errors.Is(err, ErrTagExists) {
		return Tag{}, fieldError("name", "you already have a tag with this name")
	}
	return tag, err
}

func (s *Service) ListTags(ctx context.Context, ownerID int64) ([]Tag, error) {
	return s.store.ListTags(ctx, ownerID)
}

func (s *Service) DeleteTag(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteTag(ctx, ownerID, id)
}

// Tasks

// TaskInput is a full-field task submission: create and edit both replace
// every attribute.
type TaskInput struct {
	Title       string
	Description string
	CourseID    *int64
	TagIDs      []int64
	DueAt       *time.Time
	Priority    TaskPriority
	Status      TaskStatus
}

// validateTaskInput checks field-level rules and that the referenced course
// and tags exist and belong to the owner. Referencing another owner's course
// or tag reads as if it did not exist.
func (s *Service) validateTaskInput(ctx context.Context, ownerID int64, in TaskInput) (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	fields := map[string]string{}

	if in.Title == "" {
		fields["title"] = "this field is required"
	} else if len(in.Title) > MaxTitleLen {
		fields["title"] = "must be at most 200 characters"
	}
	if !in.Priority.Valid() {
		fields["priority"] = "unknown priority"
	}
	if !in.Status.Valid() {
		fields["status"] = "unknown status"
	}

	if in.CourseID != nil {
		if _, err := s.store.GetCourse(ctx, ownerID, *in.CourseID); err != nil {
			if !errors.Is(err, ErrCourseNotFound) {
				return in, err
			}
			fields["course"] = "no such course"
		}
	}

	if len(in.TagIDs) > 0 {
		tags, err := s.store.GetTags(ctx, ownerID, in.TagIDs)
		if err != nil {
			return in, err
		}
		if len(tags) != len(dedupe(in.TagIDs)) {
			fields["tags"] = "no such tag"
		}
	}

	if len(fields) > 0 {
		return in, &ValidationError{Fields: fields}
	}
	return in, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// applyCompletion derives the completed timestamp from the status a task is
// about to be saved with. Entering DONE stamps it once and re-entering keeps
// the original stamp; any other status clears it.
func applyCompletion(prev *time.Time, status TaskStatus, now time.Time) *time.Time {
	if status != StatusDone {
		return nil
	}
	if prev != nil {
		return prev
	}
	return &now
}

func (s *Service) CreateTask(ctx context.Context, ownerID int64, in TaskInput) (Task, error) {
	in, err := s.validateTaskInput(ctx, ownerID, in)
	if err != nil {
		return Task{}, err
	}

	t := Task{
		OwnerID:     ownerID,
		CourseID:    in.CourseID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		DueAt:       in.DueAt,
		Priority:    in.Priority,
		Status:      in.Status,
	}
	t.CompletedAt = applyCompletion(nil, t.Status, s.now())

	return s.store.CreateTask(ctx, t, dedupe(in.TagIDs))
}

func (s *Service) GetTask(ctx context.Context, ownerID, id int64) (Task, error) {
	return s.store.GetTask(ctx, ownerID, id)
}

func (s *Service) ListTasks(ctx context.Context, ownerID int64, f TaskFilter) ([]Task, error) {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Now = s.now()
	return s.store.ListTasks(ctx, ownerID, f)
}

func (s *Service) UpdateTask(ctx context.Context, ownerID, id int64, in TaskInput) (Task, error) {
	cur, err := s.store.GetTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}

	in, err = s.validateTaskInput(ctx, ownerID, in)
	if err != nil {
		return Task{}, err
	}

	cur.CourseID = in.CourseID
	cur.Title = in.Title
	cur.Description = strings.TrimSpace(in.Description)
	cur.DueAt = in.DueAt
	cur.Priority = in.Priority
	cur.Status = in.Status
	cur.CompletedAt = applyCompletion(cur.CompletedAt, cur.Status, s.now())

	return s.store.UpdateTask(ctx, cur, dedupe(in.TagIDs))
}

// ToggleTask flips a task between DONE and TODO. It is the only mutation
// without an explicit target status.
func (s *Service) ToggleTask(ctx context.Context, ownerID, id int64) (Task, error) {
	cur, err := s.store.GetTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}

	if cur.Status == StatusDone {
		cur.Status = StatusTodo
	} else {
		cur.Status = StatusDone
	}
	cur.CompletedAt = applyCompletion(cur.CompletedAt, cur.Status, s.now())

	tagIDs := make([]int64, 0, len(cur.Tags))
	for _, tag := range cur.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	return s.store.UpdateTask(ctx, cur, tagIDs)
}

func (s *Service) DeleteTask(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteTask(ctx, ownerID, id)
}
