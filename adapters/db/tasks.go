package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"studytasks/core"
)

const taskColumns = `t.id, t.owner_id, t.course_id, t.title, COALESCE(t.description, '') AS description,
	t.due_at, t.priority, t.status, t.created_at, t.updated_at, t.completed_at`

func (db *DB) CreateTask(ctx context.Context, t core.Task, tagIDs []int64) (core.Task, error) {
	const q = `
		INSERT INTO tasks (owner_id, course_id, title, description, due_at, priority, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return core.Task{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx, q,
		t.OwnerID, t.CourseID, t.Title, trimmedOrNull(t.Description),
		t.DueAt, int16(t.Priority), int16(t.Status), t.CompletedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Task{}, core.ErrCourseNotFound
		}
		if isCheckViolation(err) {
			return core.Task{}, &core.ValidationError{Fields: map[string]string{"title": "must be at most 200 characters"}}
		}
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}

	if err := setTaskTags(ctx, tx, t.ID, t.OwnerID, tagIDs); err != nil {
		return core.Task{}, err
	}

	tasks, err := attachTags(ctx, tx, []core.Task{t})
	if err != nil {
		return core.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Task{}, fmt.Errorf("commit: %w", err)
	}
	return tasks[0], nil
}

func (db *DB) GetTask(ctx context.Context, ownerID, id int64) (core.Task, error) {
	q := fmt.Sprintf(`SELECT %s FROM tasks t WHERE t.id = $1 AND t.owner_id = $2`, taskColumns)

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}

	tasks, err := attachTags(ctx, db.conn, []core.Task{t})
	if err != nil {
		return core.Task{}, err
	}
	return tasks[0], nil
}

// ListTasks mirrors core.TaskFilter.Matches in SQL: all active criteria are
// ANDed, the free-text criterion ORs across title, description and course
// name, and the ordering is status ordinal, due date with NULLs last, newest
// first.
func (db *DB) ListTasks(ctx context.Context, ownerID int64, f core.TaskFilter) ([]core.Task, error) {
	var (
		sb   strings.Builder
		args []any
		n    = 2
	)
	args = append(args, ownerID)

	sb.WriteString(`SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN courses c ON c.id = t.course_id
		WHERE t.owner_id = $1`)

	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, likePattern(q))
		sb.WriteString(fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d OR c.name ILIKE $%d)", n, n, n))
		n++
	}

	if f.Status != nil {
		args = append(args, int16(*f.Status))
		sb.WriteString(fmt.Sprintf(" AND t.status = $%d", n))
		n++
	}

	if f.Priority != nil {
		args = append(args, int16(*f.Priority))
		sb.WriteString(fmt.Sprintf(" AND t.priority = $%d", n))
		n++
	}

	if f.CourseID != nil {
		args = append(args, *f.CourseID)
		sb.WriteString(fmt.Sprintf(" AND t.course_id = $%d", n))
		n++
	}

	switch f.Due {
	case core.DueOverdue:
		args = append(args, int16(core.StatusDone), f.Now)
		sb.WriteString(fmt.Sprintf(" AND t.status <> $%d AND t.due_at < $%d", n, n+1))
		n += 2
	case core.DueToday:
		start, end := core.TodayWindow(f.Now)
		args = append(args, start, end)
		sb.WriteString(fmt.Sprintf(" AND t.due_at >= $%d AND t.due_at < $%d", n, n+1))
		n += 2
	case core.DueSoon:
		args = append(args, int16(core.StatusDone), f.Now, f.Now.Add(core.DueSoonWindow))
		sb.WriteString(fmt.Sprintf(" AND t.status <> $%d AND t.due_at >= $%d AND t.due_at <= $%d", n, n+1, n+2))
		n += 3
	}

	sb.WriteString(" ORDER BY t.status ASC, t.due_at ASC NULLS LAST, t.created_at DESC")

	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1))
	}

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return attachTags(ctx, db.conn, out)
}

func (db *DB) UpdateTask(ctx context.Context, t core.Task, tagIDs []int64) (core.Task, error) {
	const q = `
		UPDATE tasks
		SET course_id = $3,
		    title = $4,
		    description = $5,
		    due_at = $6,
		    priority = $7,
		    status = $8,
		    completed_at = $9,
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at;
	`

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return core.Task{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx, q,
		t.ID, t.OwnerID, t.CourseID, t.Title, trimmedOrNull(t.Description),
		t.DueAt, int16(t.Priority), int16(t.Status), t.CompletedAt,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Task{}, core.ErrCourseNotFound
		}
		if isCheckViolation(err) {
			return core.Task{}, &core.ValidationError{Fields: map[string]string{"title": "must be at most 200 characters"}}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}

	if err := setTaskTags(ctx, tx, t.ID, t.OwnerID, tagIDs); err != nil {
		return core.Task{}, err
	}

	tasks, err := attachTags(ctx, tx, []core.Task{t})
	if err != nil {
		return core.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Task{}, fmt.Errorf("commit: %w", err)
	}
	return tasks[0], nil
}

func (db *DB) DeleteTask(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// setTaskTags replaces the task's tag set. The join on owner_id drops tag ids
// that stopped belonging to the owner between validation and write.
func setTaskTags(ctx context.Context, tx *sqlx.Tx, taskID, ownerID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	q, args, err := sqlx.In(`
		INSERT INTO task_tags (task_id, tag_id)
		SELECT ?, tg.id FROM tags tg WHERE tg.owner_id = ? AND tg.id IN (?)`,
		taskID, ownerID, tagIDs,
	)
	if err != nil {
		return fmt.Errorf("build task tags insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return fmt.Errorf("insert task tags: %w", err)
	}
	return nil
}

// likeEscaper neutralizes the LIKE metacharacters so the free-text criterion
// stays a literal substring match, the same semantics core.TaskFilter.Matches
// defines. Postgres treats backslash as the default ESCAPE character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

type taskTagRow struct {
	TaskID int64 `db:"task_id"`
	core.Tag
}

func attachTags(ctx context.Context, ext sqlx.ExtContext, tasks []core.Task) ([]core.Task, error) {
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	q, args, err := sqlx.In(`
		SELECT tt.task_id, tg.id, tg.owner_id, tg.name, tg.created_at
		FROM task_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.task_id IN (?)
		ORDER BY tg.name ASC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("build task tags query: %w", err)
	}

	var rows []taskTagRow
	if err := sqlx.SelectContext(ctx, ext, &rows, ext.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("load task tags: %w", err)
	}

	byTask := make(map[int64][]core.Tag, len(tasks))
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], row.Tag)
	}
	for i := range tasks {
		tasks[i].Tags = byTask[tasks[i].ID]
	}
	return tasks, nil
}
