package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"studytasks/adapters/rest"
	"studytasks/pkg/auth"
	"studytasks/pkg/res"
)

func NewDashboardHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		s, err := svc.Summary(ctx, ident.UserID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.SummaryToOut(s), http.StatusOK)
	}
}

func NewHealthHandler(log *slog.Logger, svc rest.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			log.Warn("store ping failed", "error", err)
			res.Json(w, map[string]string{"status": "down"}, http.StatusServiceUnavailable)
			return
		}
		res.Json(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
