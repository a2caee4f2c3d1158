package game

// Event kinds published on game changes.
const (
	EventStatus  = "status"
	EventMessage = "message"
)

// Notifier receives best-effort change hints when a game mutates. Delivery is
// a wake-up signal only; observers must re-query for correctness.
type Notifier interface {
	GameChanged(gameID int64, event string)
}

// NopNotifier discards all change hints.
type NopNotifier struct{}

func (NopNotifier) GameChanged(int64, string) {}
