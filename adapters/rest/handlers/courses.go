package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"studytasks/adapters/rest"
	"studytasks/pkg/auth"
	"studytasks/pkg/res"
)

func NewListCoursesHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		courses, err := svc.ListCourses(ctx, ident.UserID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"courses": courses}, http.StatusOK)
	}
}

func NewCreateCourseHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		var in rest.CourseIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		c, err := svc.CreateCourse(ctx, ident.UserID, in.Name, in.Color)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, c, http.StatusCreated)
	}
}

func NewUpdateCourseHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.CourseIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		c, err := svc.UpdateCourse(ctx, ident.UserID, id, in.Name, in.Color)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, c, http.StatusOK)
	}
}

func NewDeleteCourseHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteCourse(ctx, ident.UserID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}
