package main

import "net/http"

func (app *application) showGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	snapshot, err := app.games.Snapshot(r.Context(), gameID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK,
		map[string]any{"data": newGameView(snapshot, currentProfileID(r.Context()))})
}

// startGame forces a waiting game into the chat phase without waiting for the
// room to fill. The matchmaking window normally triggers this on its own.
func (app *application) startGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	if _, err := app.games.Start(r.Context(), gameID); err != nil {
		app.gameError(w, r, err)
		return
	}
	snapshot, err := app.games.Snapshot(r.Context(), gameID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK,
		map[string]any{"data": newGameView(snapshot, currentProfileID(r.Context()))})
}

// endChat moves the game into voting. The transition only succeeds once the
// chat deadline has passed, so clients can call it eagerly when their local
// timer fires without being able to cut the phase short.
func (app *application) endChat(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	if _, err := app.games.EndChat(r.Context(), gameID); err != nil {
		app.gameError(w, r, err)
		return
	}
	snapshot, err := app.games.Snapshot(r.Context(), gameID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK,
		map[string]any{"data": newGameView(snapshot, currentProfileID(r.Context()))})
}
