package models

// BotPersonality controls the tone of generated bot chat.
type BotPersonality string

const (
	PersonalityCasual BotPersonality = "casual"
	PersonalityFormal BotPersonality = "formal"
	PersonalityQuirky BotPersonality = "quirky"
)

// Personalities lists the bot personalities in round-robin assignment order.
func Personalities() []BotPersonality {
	return []BotPersonality{PersonalityCasual, PersonalityFormal, PersonalityQuirky}
}

// GamePlayer is one seat in a game, either human or bot. A human seat
// references a profile; a bot seat carries its personality and display name.
// The is-bot flag never changes after creation.
type GamePlayer struct {
	ID        int64   `db:"id"`
	GameID    int64   `db:"game_id"`
	ProfileID *string `db:"profile_id"`
	IsBot     bool    `db:"is_bot"`
	// BotPersonality is empty for human seats.
	BotPersonality BotPersonality `db:"bot_personality"`
	// BotName is the display name of a bot seat, assigned at creation.
	BotName string `db:"bot_name"`
	// Score is mutated exactly once, at results computation.
	Score int `db:"score"`
	// DisplayName is resolved at query time from the bot name or the profile
	// username. Only populated by ListByGame; callers showing seats to
	// players use it so bot seats are indistinguishable from humans.
	DisplayName string `db:"display_name"`
}
