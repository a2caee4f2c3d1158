package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// keepAliveInterval keeps intermediaries from reaping idle SSE connections.
const keepAliveInterval = 30 * time.Second

// streamEvents pushes server-sent change hints about one game. Hints carry
// only an event kind; clients re-fetch the game or its messages on receipt,
// so a dropped hint degrades to the pull-based polling they do anyway.
func (app *application) streamEvents(w http.ResponseWriter, r *http.Request) {
	gameID, ok := app.gameIDParam(w, r)
	if !ok {
		return
	}
	if _, err := app.games.Snapshot(r.Context(), gameID); err != nil {
		app.gameError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, fmt.Errorf("response writer does not support streaming"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := app.events.Subscribe(gameID)
	defer cancel()

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				app.logger.Error("could not marshal event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload)
			flusher.Flush()
		}
	}
}
