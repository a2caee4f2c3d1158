package main

import "net/http"

// submitVotes stores the caller's full accusation batch. The whole batch is
// validated before any write, so a rejected request leaves no votes behind.
func (app *application) submitVotes(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	var form struct {
		TargetIDs []int64 `json:"target_ids"`
	}
	if !app.readJSON(w, r, &form) {
		return
	}
	receipt, err := app.games.SubmitVotes(r.Context(), gameID, currentProfileID(r.Context()), form.TargetIDs)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]any{"data": map[string]any{
		"votes_recorded": len(receipt.Votes),
		"game_completed": receipt.Completed,
	}})
}
