package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"studytasks/core"
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	conn, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users

func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`

	u := core.User{Username: username, PasswordHash: passwordHash}
	if err := db.conn.QueryRowxContext(ctx, q, username, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrUserExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	const q = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Courses

func (db *DB) CreateCourse(ctx context.Context, c core.Course) (core.Course, error) {
	const q = `
		INSERT INTO courses (owner_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	if err := db.conn.QueryRowxContext(ctx, q, c.OwnerID, c.Name, c.Color).Scan(&c.ID, &c.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return core.Course{}, core.ErrCourseExists
		}
		return core.Course{}, fmt.Errorf("insert course: %w", err)
	}
	return c, nil
}

func (db *DB) GetCourse(ctx context.Context, ownerID, id int64) (core.Course, error) {
	const q = `SELECT id, owner_id, name, color, created_at FROM courses WHERE id = $1 AND owner_id = $2`

	var c core.Course
	if err := db.conn.GetContext(ctx, &c, q, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Course{}, core.ErrCourseNotFound
		}
		return core.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (db *DB) ListCourses(ctx context.Context, ownerID int64) ([]core.Course, error) {
	const q = `
		SELECT id, owner_id, name, color, created_at
		FROM courses
		WHERE owner_id = $1
		ORDER BY name ASC;
	`

	var out []core.Course
	if err := db.conn.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateCourse(ctx context.Context, c core.Course) (core.Course, error) {
	const q = `
		UPDATE courses
		SET name = $3, color = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, color, created_at;
	`

	var out core.Course
	if err := db.conn.GetContext(ctx, &out, q, c.ID, c.OwnerID, c.Name, c.Color); err != nil {
		if isUniqueViolation(err) {
			return core.Course{}, core.ErrCourseExists
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Course{}, core.ErrCourseNotFound
		}
		return core.Course{}, fmt.Errorf("update course: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteCourse(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM courses WHERE id = $1 AND owner_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrCourseNotFound
	}
	return nil
}

// Tags

func (db *DB) CreateTag(ctx context.Context, tag core.Tag) (core.Tag, error) {
	const q = `
		INSERT INTO tags (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`

	if err := db.conn.QueryRowxContext(ctx, q, tag.OwnerID, tag.Name).Scan(&tag.ID, &tag.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return core.Tag{}, core.ErrTagExists
		}
		return core.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return tag, nil
}

func (db *DB) ListTags(ctx context.Context, ownerID int64) ([]core.Tag, error) {
	const q = `
		SELECT id, owner_id, name, created_at
		FROM tags
		WHERE owner_id = $1
		ORDER BY name ASC;
	`

	var out []core.Tag
	if err := db.conn.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

func (db *DB) GetTags(ctx context.Context, ownerID int64, ids []int64) ([]core.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q, args, err := sqlx.In(
		`SELECT id, owner_id, name, created_at FROM tags WHERE owner_id = ? AND id IN (?)`,
		ownerID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("build tags query: %w", err)
	}

	var out []core.Tag
	if err := db.conn.SelectContext(ctx, &out, db.conn.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteTag(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM tags WHERE id = $1 AND owner_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTagNotFound
	}
	return nil
}

// pg helpers

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// trimmedOrNull maps empty strings to NULL the way the schema stores optional
// text.
func trimmedOrNull(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
