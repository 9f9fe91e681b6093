package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrCourseNotFound = errors.New("course not found")
	ErrCourseExists   = errors.New("course already exists")

	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag already exists")

	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports field-level failures so the caller can re-present
// the submission with the offending fields indicated.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
