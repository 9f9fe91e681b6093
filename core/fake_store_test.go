package core

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// fakeStore is an in-memory Store with the same observable behavior as the
// Postgres adapter: owner scoping, per-owner name uniqueness and the
// canonical filter semantics.
type fakeStore struct {
	mu sync.RWMutex

	nextID int64

	users   map[int64]User
	courses map[int64]Course
	tags    map[int64]Tag
	tasks   map[int64]Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:  1,
		users:   make(map[int64]User),
		courses: make(map[int64]Course),
		tags:    make(map[int64]Tag),
		tasks:   make(map[int64]Task),
	}
}

func (f *fakeStore) allocID() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func cloneTask(t Task) Task {
	out := t
	if t.CourseID != nil {
		v := *t.CourseID
		out.CourseID = &v
	}
	if t.DueAt != nil {
		v := *t.DueAt
		out.DueAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	out.Tags = slices.Clone(t.Tags)
	return out
}

func (f *fakeStore) Ping(context.Context) error { return nil }

// Users

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			return User{}, ErrUserExists
		}
	}

	u := User{ID: f.allocID(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Courses

func (f *fakeStore) CreateCourse(_ context.Context, c Course) (Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.courses {
		if other.OwnerID == c.OwnerID && other.Name == c.Name {
			return Course{}, ErrCourseExists
		}
	}

	c.ID = f.allocID()
	c.CreatedAt = time.Now()
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCourse(_ context.Context, ownerID, id int64) (Course, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	c, ok := f.courses[id]
	if !ok || c.OwnerID != ownerID {
		return Course{}, ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCourses(_ context.Context, ownerID int64) ([]Course, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Course, 0)
	for _, c := range f.courses {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	// name order, same as the SQL adapter
	slices.SortFunc(out, func(a, b Course) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (f *fakeStore) UpdateCourse(_ context.Context, c Course) (Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.courses[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return Course{}, ErrCourseNotFound
	}
	for _, other := range f.courses {
		if other.ID != c.ID && other.OwnerID == c.OwnerID && other.Name == c.Name {
			return Course{}, ErrCourseExists
		}
	}

	cur.Name = c.Name
	cur.Color = c.Color
	f.courses[c.ID] = cur
	return cur, nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.courses[id]
	if !ok || c.OwnerID != ownerID {
		return ErrCourseNotFound
	}
	delete(f.courses, id)

	// course deletion detaches tasks, it does not cascade
	for tid, t := range f.tasks {
		if t.CourseID != nil && *t.CourseID == id {
			t.CourseID = nil
			f.tasks[tid] = t
		}
	}
	return nil
}

// Tags

func (f *fakeStore) CreateTag(_ context.Context, tag Tag) (Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.tags {
		if other.OwnerID == tag.OwnerID && other.Name == tag.Name {
			return Tag{}, ErrTagExists
		}
	}

	tag.ID = f.allocID()
	tag.CreatedAt = time.Now()
	f.tags[tag.ID] = tag
	return tag, nil
}

func (f *fakeStore) ListTags(_ context.Context, ownerID int64) ([]Tag, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Tag, 0)
	for _, tag := range f.tags {
		if tag.OwnerID == ownerID {
			out = append(out, tag)
		}
	}
	slices.SortFunc(out, func(a, b Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (f *fakeStore) GetTags(_ context.Context, ownerID int64, ids []int64) ([]Tag, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Tag, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if tag, ok := f.tags[id]; ok && tag.OwnerID == ownerID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTag(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tag, ok := f.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return ErrTagNotFound
	}
	delete(f.tags, id)

	for tid, t := range f.tasks {
		t.Tags = slices.DeleteFunc(slices.Clone(t.Tags), func(tg Tag) bool { return tg.ID == id })
		f.tasks[tid] = t
	}
	return nil
}

// Tasks

func (f *fakeStore) resolveTags(ownerID int64, tagIDs []int64) []Tag {
	out := make([]Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if tag, ok := f.tags[id]; ok && tag.OwnerID == ownerID {
			out = append(out, tag)
		}
	}
	return out
}

func (f *fakeStore) CreateTask(_ context.Context, t Task, tagIDs []int64) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t.ID = f.allocID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	t.Tags = f.resolveTags(t.OwnerID, tagIDs)

	f.tasks[t.ID] = cloneTask(t)
	return t, nil
}

func (f *fakeStore) GetTask(_ context.Context, ownerID, id int64) (Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return Task{}, ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (f *fakeStore) ListTasks(_ context.Context, ownerID int64, fl TaskFilter) ([]Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Task, 0)
	for _, t := range f.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		var courseName string
		if t.CourseID != nil {
			if c, ok := f.courses[*t.CourseID]; ok {
				courseName = c.Name
			}
		}
		if fl.Matches(t, courseName) {
			out = append(out, cloneTask(t))
		}
	}

	slices.SortStableFunc(out, CompareTasks)

	if fl.Offset > 0 {
		if fl.Offset >= len(out) {
			return nil, nil
		}
		out = out[fl.Offset:]
	}
	if fl.Limit > 0 && len(out) > fl.Limit {
		out = out[:fl.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, t Task, tagIDs []int64) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.tasks[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return Task{}, ErrTaskNotFound
	}

	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	t.Tags = f.resolveTags(t.OwnerID, tagIDs)

	f.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (f *fakeStore) DeleteTask(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}
