package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jkorri/spotthebot/internal/ai"
	"github.com/jkorri/spotthebot/internal/bots"
	"github.com/jkorri/spotthebot/internal/broker"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/matchmaking"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/jkorri/spotthebot/internal/sqlite"
	"github.com/jkorri/spotthebot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// cannedGenerator stands in for the OpenAI-backed generator in tests.
type cannedGenerator struct{}

var _ bots.TextGenerator = ai.NewClient()

func (cannedGenerator) Generate(
	_ context.Context,
	_ models.BotPersonality,
	_ string,
	_ []models.Message,
) (string, error) {
	return "honestly same", nil
}

type testServer struct {
	*httptest.Server
	client http.Client
}

// newTestServer builds the full application against an in-memory database
// and serves it over httptest. A zero chat duration lets tests walk the whole
// game lifecycle without waiting on the wall clock.
func newTestServer(t *testing.T, cfg matchmaking.Config) *testServer {
	t.Helper()

	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db.ReadWrite.DB)
	sessionManager.Lifetime = 12 * time.Hour

	games := repositories.NewGameRepository(db, logger)
	players := repositories.NewPlayerRepository(db, logger)
	messages := repositories.NewMessageRepository(db, logger)
	votes := repositories.NewVoteRepository(db, logger)
	topics := repositories.NewTopicRepository(db, logger)
	profiles := repositories.NewProfileRepository(db, logger)

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		profiles:       profiles,
		events:         broker.New[int64, gameEvent](),
	}
	app.games = game.NewService(games, players, messages, votes, &app, logger)
	app.allocator = matchmaking.NewAllocator(games, players, topics, app.games, cfg, logger)
	app.scheduler = bots.NewScheduler(games, players, messages, cannedGenerator{}, &app, logger)

	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		Server: server,
		client: http.Client{Jar: jar},
	}
}

// newClient returns an extra client with its own cookie jar, i.e. another
// player.
func (s *testServer) newClient(t *testing.T) http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return http.Client{Jar: jar}
}

func (s *testServer) get(t *testing.T, client *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(s.URL + path)
	require.NoError(t, err)
	return resp
}

func (s *testServer) post(t *testing.T, client *http.Client, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	resp, err := client.Post(s.URL+path, "application/json", reader)
	require.NoError(t, err)
	return resp
}

// decodeData decodes the "data" envelope of a response into dst and closes
// the body.
func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	envelope := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	raw, ok := envelope["data"]
	require.True(t, ok, "response has no data field")
	require.NoError(t, json.Unmarshal(raw, dst))
}

// decodeError returns the "error" field of a response and closes the body.
func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	envelope := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope["error"]
}
