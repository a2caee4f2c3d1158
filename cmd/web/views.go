package main

import (
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/models"
)

// The view types below are the JSON wire shapes. They exist so that the
// storage layer can evolve without changing the API, and so bot seats never
// leak their is-bot flag outside the voting reveal.

// playerView deliberately carries no is-bot flag and no profile reference:
// bot seats must be indistinguishable from humans until the reveal.
type playerView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	You  bool   `json:"you"`
}

type gameView struct {
	ID                   int64        `json:"id"`
	Status               string       `json:"status"`
	Topic                string       `json:"topic"`
	MaxPlayers           int          `json:"max_players"`
	BotCount             int          `json:"bot_count"`
	ChatDurationSeconds  int          `json:"chat_duration_seconds"`
	RemainingChatSeconds int          `json:"remaining_chat_seconds"`
	Players              []playerView `json:"players"`
}

func newGameView(snapshot *game.Snapshot, profileID string) gameView {
	view := gameView{
		ID:                   snapshot.Game.ID,
		Status:               string(snapshot.Game.Status),
		Topic:                snapshot.Game.Topic,
		MaxPlayers:           snapshot.Game.MaxPlayers,
		BotCount:             snapshot.Game.BotCount,
		ChatDurationSeconds:  snapshot.Game.ChatDuration,
		RemainingChatSeconds: int(snapshot.RemainingChat.Seconds()),
		Players:              make([]playerView, 0, len(snapshot.Players)),
	}
	for _, player := range snapshot.Players {
		view.Players = append(view.Players, playerView{
			ID:   player.ID,
			Name: player.DisplayName,
			You:  player.ProfileID != nil && *player.ProfileID == profileID,
		})
	}
	return view
}

type messageView struct {
	ID        int64  `json:"id"`
	PlayerID  int64  `json:"player_id"`
	Speaker   string `json:"speaker"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func newMessageView(message models.Message) messageView {
	return messageView{
		ID:        message.ID,
		PlayerID:  message.PlayerID,
		Speaker:   message.Speaker,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

type resultsView struct {
	BotNames            []string `json:"bot_names"`
	CorrectVotes        int      `json:"correct_votes"`
	TotalVotes          int      `json:"total_votes"`
	Score               int      `json:"score"`
	XPGained            int      `json:"xp_gained"`
	GuessedCorrectly    bool     `json:"guessed_correctly"`
	TotalCorrectPlayers int      `json:"total_correct_players"`
}

func newResultsView(results *game.Results) resultsView {
	return resultsView{
		BotNames:            results.BotNames,
		CorrectVotes:        results.CorrectVotes,
		TotalVotes:          results.TotalVotes,
		Score:               results.Score,
		XPGained:            results.XPGained,
		GuessedCorrectly:    results.GuessedCorrectly,
		TotalCorrectPlayers: results.TotalCorrectPlayers,
	}
}
