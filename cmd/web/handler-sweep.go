package main

import "net/http"

// botSweep runs one bot response tick over every chatting game and reports
// what it did. Meant to be hit by a scheduler (cron or the CLI sweeper), not
// by game clients.
func (app *application) botSweep(w http.ResponseWriter, r *http.Request) {
	report, err := app.scheduler.Sweep(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	closed, err := app.games.CloseExpired(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{"data": map[string]any{
		"report":       report,
		"closed_games": closed,
	}})
}
