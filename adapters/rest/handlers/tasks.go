package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studytasks/adapters/rest"
	"studytasks/core"
	"studytasks/pkg/auth"
	"studytasks/pkg/res"
)

const taskPageSize = 20

// parseTaskFilter reads the list criteria from the query string. Unknown
// status/priority/due codes and non-numeric course ids are dropped, not
// rejected: a stale bookmark still loads the unfiltered list.
func parseTaskFilter(q url.Values) core.TaskFilter {
	var f core.TaskFilter

	f.Query = strings.TrimSpace(q.Get("q"))

	if v := q.Get("status"); v != "" {
		if st, ok := core.ParseStatus(v); ok {
			f.Status = &st
		}
	}
	if v := q.Get("priority"); v != "" {
		if p, ok := core.ParsePriority(v); ok {
			f.Priority = &p
		}
	}
	if v := q.Get("course"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.CourseID = &id
		}
	}
	if v := q.Get("due"); v != "" {
		if due, ok := core.ParseDueFilter(v); ok {
			f.Due = due
		}
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	f.Limit = taskPageSize
	f.Offset = (page - 1) * taskPageSize

	return f
}

func NewListTasksHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tasks, err := svc.ListTasks(ctx, ident.UserID, parseTaskFilter(r.URL.Query()))
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"tasks": rest.TasksToOut(tasks)}, http.StatusOK)
	}
}

func NewCreateTaskHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		var in rest.TaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		input, verr := in.ToInput()
		if verr != nil {
			rest.WriteErr(w, verr)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTask(ctx, ident.UserID, input)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.TaskToOut(t), http.StatusCreated)
	}
}

func NewGetTaskHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTask(ctx, ident.UserID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.TaskToOut(t), http.StatusOK)
	}
}

func NewUpdateTaskHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.TaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		input, verr := in.ToInput()
		if verr != nil {
			rest.WriteErr(w, verr)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.UpdateTask(ctx, ident.UserID, id, input)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.TaskToOut(t), http.StatusOK)
	}
}

func NewDeleteTaskHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTask(ctx, ident.UserID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}

// NewToggleTaskHandler flips done state and sends the browser back where it
// came from: an explicit "next" destination wins, then the referring page,
// then the task list.
func NewToggleTaskHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if _, err := svc.ToggleTask(ctx, ident.UserID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}

		dest := r.FormValue("next")
		if dest == "" {
			dest = r.Referer()
		}
		if dest == "" {
			dest = "/tasks"
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
