package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, reason string) {
	app.logger.Debug("client error", "method", r.Method, "uri", r.URL.RequestURI(),
		"status", status, "reason", reason)
	app.writeJSON(w, r, status, map[string]string{"error": reason})
}

// gameError maps the game error taxonomy to HTTP statuses. The error chain's
// message is the caller-visible reason; those messages are authored by the
// service, never echoed from user input.
func (app *application) gameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrForbidden):
		app.clientError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrChatNotOver),
		errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrInvalidTargets),
		errors.Is(err, game.ErrSelfVote),
		errors.Is(err, game.ErrAlreadyVoted):
		app.clientError(w, r, http.StatusBadRequest, err.Error())
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "could not write response",
			errors.SlogError(err))
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// gameIDParam parses the {gameID} path value.
func (app *application) gameIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("gameID"), 10, 64)
	if err != nil || id < 1 {
		app.clientError(w, r, http.StatusBadRequest, "invalid game id")
		return 0, false
	}
	return id, true
}
