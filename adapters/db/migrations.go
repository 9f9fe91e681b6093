package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_courses.up.sql
var createCoursesUp string

//go:embed migrations/03_create_tags.up.sql
var createTagsUp string

//go:embed migrations/04_create_tasks.up.sql
var createTasksUp string

//go:embed migrations/05_create_task_tags.up.sql
var createTaskTagsUp string

// Migrate applies the schema. Statements are idempotent, so re-running on
// startup is safe.
func (db *DB) Migrate() error {
	db.log.Debug("running migrations")

	steps := []struct {
		name string
		sql  string
	}{
		{"users", createUsersUp},
		{"courses", createCoursesUp},
		{"tags", createTagsUp},
		{"tasks", createTasksUp},
		{"task_tags", createTaskTagsUp},
	}

	for _, step := range steps {
		if _, err := db.conn.Exec(step.sql); err != nil {
			return fmt.Errorf("apply %s migration: %w", step.name, err)
		}
	}

	db.log.Debug("migrations finished")
	return nil
}
