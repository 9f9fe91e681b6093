package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"studytasks/adapters/rest"
	"studytasks/pkg/auth"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc rest.Service, sessions *auth.Manager, timeout time.Duration) {
	mux.Handle("GET /healthz", NewHealthHandler(log, svc, timeout))

	// accounts
	mux.Handle("POST /signup", NewSignupHandler(log, svc, sessions, timeout))
	mux.Handle("GET /login", NewLoginPromptHandler())
	mux.Handle("POST /login", NewLoginHandler(log, svc, sessions, timeout))
	mux.Handle("POST /logout", NewLogoutHandler())

	// dashboard
	mux.Handle("GET /{$}", requireAuth(sessions, NewDashboardHandler(log, svc, timeout)))

	// tasks
	mux.Handle("GET /tasks", requireAuth(sessions, NewListTasksHandler(log, svc, timeout)))
	mux.Handle("POST /tasks", requireAuth(sessions, NewCreateTaskHandler(log, svc, timeout)))
	mux.Handle("GET /tasks/{id}", requireAuth(sessions, NewGetTaskHandler(log, svc, timeout)))
	mux.Handle("PUT /tasks/{id}", requireAuth(sessions, NewUpdateTaskHandler(log, svc, timeout)))
	mux.Handle("DELETE /tasks/{id}", requireAuth(sessions, NewDeleteTaskHandler(log, svc, timeout)))
	mux.Handle("POST /tasks/{id}/toggle", requireAuth(sessions, NewToggleTaskHandler(log, svc, timeout)))

	// courses
	mux.Handle("GET /courses", requireAuth(sessions, NewListCoursesHandler(log, svc, timeout)))
	mux.Handle("POST /courses", requireAuth(sessions, NewCreateCourseHandler(log, svc, timeout)))
	mux.Handle("PUT /courses/{id}", requireAuth(sessions, NewUpdateCourseHandler(log, svc, timeout)))
	mux.Handle("DELETE /courses/{id}", requireAuth(sessions, NewDeleteCourseHandler(log, svc, timeout)))

	// tags
	mux.Handle("GET /tags", requireAuth(sessions, NewListTagsHandler(log, svc, timeout)))
	mux.Handle("POST /tags", requireAuth(sessions, NewCreateTagHandler(log, svc, timeout)))
	mux.Handle("DELETE /tags/{id}", requireAuth(sessions, NewDeleteTagHandler(log, svc, timeout)))
}
