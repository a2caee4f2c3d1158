package main

import "net/http"

// joinMatchmaking seats the current profile in an open waiting room or spins
// up a fresh one. Joining an already-seated game is idempotent, so a retried
// request lands the caller back in the same room.
func (app *application) joinMatchmaking(w http.ResponseWriter, r *http.Request) {
	profileID := currentProfileID(r.Context())

	snapshot, err := app.allocator.Join(r.Context(), profileID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"data": newGameView(snapshot, profileID)})
}
