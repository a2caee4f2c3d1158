package main

import "net/http"

func (app *application) listMessages(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	messages, err := app.games.Messages(r.Context(), gameID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, newMessageView(message))
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"data": views})
}

func (app *application) postMessage(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	var form struct {
		Content string `json:"content"`
	}
	if !app.readJSON(w, r, &form) {
		return
	}
	message, err := app.games.PostMessage(r.Context(), gameID, currentProfileID(r.Context()), form.Content)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]any{"data": newMessageView(*message)})
}
