package main

import "net/http"

func (app *application) gameResults(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	results, err := app.games.Results(r.Context(), gameID, currentProfileID(r.Context()))
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"data": newResultsView(results)})
}
