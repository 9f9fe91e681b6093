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

func NewListTagsHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tags, err := svc.ListTags(ctx, ident.UserID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"tags": tags}, http.StatusOK)
	}
}

func NewCreateTagHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		var in rest.TagIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tag, err := svc.CreateTag(ctx, ident.UserID, in.Name)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, tag, http.StatusCreated)
	}
}

func NewDeleteTagHandler(_ *slog.Logger, svc rest.Service, timeout time.Duration) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, ident auth.Identity) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTag(ctx, ident.UserID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}
