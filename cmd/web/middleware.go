package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jkorri/spotthebot/internal/logging"
	"github.com/jkorri/spotthebot/internal/models"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		app.logger.Debug("received request", "proto", proto, "method", method, "uri", uri)

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// withProfile ensures the caller has a persistent anonymous profile and puts
// its id on the request context. Identity providers can later attach a real
// account to the profile; the game core only needs the stable id.
func (app *application) withProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profileID := app.sessionManager.GetString(ctx, profileIDSessionKey)

		if profileID != "" {
			exists, err := app.profiles.Exists(ctx, profileID)
			if err != nil {
				app.serverError(w, r, err)
				return
			}
			if !exists {
				// Stale session pointing at a wiped database.
				profileID = ""
			}
		}

		if profileID == "" {
			profile := models.NewProfile()
			if err := app.profiles.Create(ctx, profile); err != nil {
				app.serverError(w, r, err)
				return
			}
			app.sessionManager.Put(ctx, profileIDSessionKey, profile.ID)
			profileID = profile.ID
		}

		r = r.WithContext(logging.WithAttrs(ctx, slog.String("profile_id", profileID)))
		next.ServeHTTP(w, setProfileID(r, profileID))
	})
}

// serverSentEventMiddleware makes our session library scs work with Server Sent Events (SSE).
// Use this instead of app.sessionManager.LoadAndSave.
// See https://github.com/alexedwards/scs/issues/141#issuecomment-1807075358
func (app *application) serverSentEventMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		cookie, err := r.Cookie(app.sessionManager.Cookie.Name)
		if err == nil {
			token = cookie.Value
		}
		ctx, err := app.sessionManager.Load(r.Context(), token)
		if err != nil {
			app.serverError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
