package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"studytasks/adapters/rest"
	"studytasks/core"
	"studytasks/pkg/auth"
	"studytasks/pkg/res"
)

const minPasswordLen = 8

func NewSignupHandler(log *slog.Logger, svc rest.Service, sessions *auth.Manager, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessionIdentity(r, sessions); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		var in rest.SignupIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if len(in.Password) < minPasswordLen {
			rest.WriteErr(w, &core.ValidationError{Fields: map[string]string{
				"password": "must be at least 8 characters",
			}})
			return
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			log.Error("hash password", "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.CreateUser(ctx, in.Username, hash)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}

		if err := startSession(w, sessions, u); err != nil {
			log.Error("issue session token", "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func NewLoginHandler(log *slog.Logger, svc rest.Service, sessions *auth.Manager, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.LoginIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.GetUserByUsername(ctx, in.Username)
		if err != nil {
			if errors.Is(err, core.ErrUserNotFound) {
				writeBadCredentials(w)
				return
			}
			rest.WriteErr(w, err)
			return
		}

		if !auth.CheckPassword(u.PasswordHash, in.Password) {
			writeBadCredentials(w)
			return
		}

		if err := startSession(w, sessions, u); err != nil {
			log.Error("issue session token", "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// NewLoginPromptHandler answers the GET a client issues after the
// unauthenticated redirect to /login.
func NewLoginPromptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res.Json(w, map[string]any{"detail": "authentication required, POST credentials to /login"}, http.StatusUnauthorized)
	}
}

func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	}
}

func startSession(w http.ResponseWriter, sessions *auth.Manager, u core.User) error {
	token, err := sessions.Issue(auth.Identity{UserID: u.ID, Username: u.Username}, time.Now())
	if err != nil {
		return err
	}
	setSessionCookie(w, token, sessions.TTL())
	return nil
}

// writeBadCredentials uses one message for unknown user and wrong password,
// so login attempts cannot probe which usernames exist.
func writeBadCredentials(w http.ResponseWriter) {
	rest.WriteErr(w, &core.ValidationError{Fields: map[string]string{
		"username": "invalid username or password",
	}})
}
