package rest

import (
	"errors"
	"net/http"

	"studytasks/core"
	"studytasks/pkg/res"
)

// WriteErr maps domain errors onto HTTP responses. Every NotFound sentinel
// produces the same generic body: "never existed" and "belongs to someone
// else" must stay indistinguishable.
func WriteErr(w http.ResponseWriter, err error) {
	var verr *core.ValidationError

	switch {
	case errors.As(err, &verr):
		res.Json(w, map[string]any{"error": "validation failed", "fields": verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrCourseNotFound),
		errors.Is(err, core.ErrTagNotFound),
		errors.Is(err, core.ErrUserNotFound):
		res.Error(w, "not found", http.StatusNotFound)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
