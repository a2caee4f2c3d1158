package game

import "github.com/jkorri/spotthebot/internal/models"

const (
	// PointsPerCorrectVote is the fixed score per correctly identified bot.
	// No partial credit, no penalty for incorrect votes.
	PointsPerCorrectVote = 100
	// MinXPGained is the hard XP floor every participant receives.
	MinXPGained = 10
	// xpDivisor converts score points into experience.
	xpDivisor = 10
)

// PlayerScore is the computed outcome for one human seat.
type PlayerScore struct {
	PlayerID     int64
	ProfileID    string
	CorrectVotes int
	TotalVotes   int
	Score        int
}

// GuessedCorrectly reports whether the player identified at least one bot.
func (s PlayerScore) GuessedCorrectly() bool {
	return s.CorrectVotes > 0
}

// XPGained returns the experience awarded for a score: score/10 with integer
// floor, never below MinXPGained. A human with zero votes cast still receives
// the floor.
func XPGained(score int) int {
	gained := score / xpDivisor
	if gained < MinXPGained {
		return MinXPGained
	}
	return gained
}

// Score computes the per-human outcomes for a game from its full seat and
// vote sets. Pure computation: partition seats into bots and humans, count
// each human's votes whose target is a bot, and award PointsPerCorrectVote
// per hit. Humans who cast no votes score zero. Seats are credited
// independently; ties are not broken.
func Score(players []models.GamePlayer, votes []models.Vote) []PlayerScore {
	botIDs := make(map[int64]struct{})
	for _, player := range players {
		if player.IsBot {
			botIDs[player.ID] = struct{}{}
		}
	}

	scores := make([]PlayerScore, 0, len(players)-len(botIDs))
	for _, player := range players {
		if player.IsBot {
			continue
		}
		score := PlayerScore{
			PlayerID: player.ID,
		}
		if player.ProfileID != nil {
			score.ProfileID = *player.ProfileID
		}
		for _, vote := range votes {
			if vote.VoterID != player.ID {
				continue
			}
			score.TotalVotes++
			if _, isBot := botIDs[vote.TargetID]; isBot {
				score.CorrectVotes++
			}
		}
		score.Score = score.CorrectVotes * PointsPerCorrectVote
		scores = append(scores, score)
	}
	return scores
}

// TotalCorrectPlayers counts the humans who identified at least one bot.
func TotalCorrectPlayers(scores []PlayerScore) int {
	count := 0
	for _, score := range scores {
		if score.GuessedCorrectly() {
			count++
		}
	}
	return count
}
