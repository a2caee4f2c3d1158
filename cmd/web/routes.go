package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave, app.withProfile)

	mux.HandleFunc("GET /api/healthy", app.healthy)

	mux.Handle("POST /api/matchmaking/join", session.ThenFunc(app.joinMatchmaking))
	mux.Handle("GET /api/games/{gameID}", session.ThenFunc(app.showGame))
	mux.Handle("POST /api/games/{gameID}/start", session.ThenFunc(app.startGame))
	mux.Handle("POST /api/games/{gameID}/end-chat", session.ThenFunc(app.endChat))
	mux.Handle("GET /api/games/{gameID}/messages", session.ThenFunc(app.listMessages))
	mux.Handle("POST /api/games/{gameID}/messages", session.ThenFunc(app.postMessage))
	mux.Handle("POST /api/games/{gameID}/votes", session.ThenFunc(app.submitVotes))
	mux.Handle("GET /api/games/{gameID}/results", session.ThenFunc(app.gameResults))

	// scs's LoadAndSave buffers the response, which breaks streaming; the
	// SSE route loads the session without the write-back.
	sse := alice.New(app.serverSentEventMiddleware, app.withProfile)
	mux.Handle("GET /api/games/{gameID}/events", sse.ThenFunc(app.streamEvents))

	mux.HandleFunc("POST /api/admin/bot-sweep", app.botSweep)

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
