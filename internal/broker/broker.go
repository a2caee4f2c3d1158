package broker

import "sync"

// subscriberBuffer bounds how many undelivered hints a subscriber can hold.
// A full buffer drops further hints for that subscriber; dropped hints are
// harmless because subscribers re-query persisted state on every wake-up.
const subscriberBuffer = 8

// Broker fans out best-effort change hints to the subscribers of a topic.
// Publishing never blocks: a slow consumer can lose hints but can never stall
// a write path. Correctness therefore always comes from pull (re-query), the
// broker only shortens the polling latency.
type Broker[TID comparable, TPayload any] struct {
	mu          sync.Mutex
	subscribers map[TID]map[int]chan TPayload
	nextID      int
}

func New[TID comparable, TPayload any]() *Broker[TID, TPayload] {
	return &Broker[TID, TPayload]{
		subscribers: make(map[TID]map[int]chan TPayload),
	}
}

// Subscribe registers for hints on the topic. The returned cancel function
// unsubscribes and closes the channel; it is safe to call more than once.
func (b *Broker[TID, TPayload]) Subscribe(id TID) (<-chan TPayload, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channel := make(chan TPayload, subscriberBuffer)
	if b.subscribers[id] == nil {
		b.subscribers[id] = make(map[int]chan TPayload)
	}
	subscriberID := b.nextID
	b.nextID++
	b.subscribers[id][subscriberID] = channel

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subscribers, ok := b.subscribers[id]; ok {
			if _, stillSubscribed := subscribers[subscriberID]; stillSubscribed {
				delete(subscribers, subscriberID)
				close(channel)
				if len(subscribers) == 0 {
					delete(b.subscribers, id)
				}
			}
		}
	}
	return channel, cancel
}

// Publish delivers the payload to every current subscriber of the topic,
// dropping it for subscribers whose buffer is full.
func (b *Broker[TID, TPayload]) Publish(id TID, payload TPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, channel := range b.subscribers[id] {
		select {
		case channel <- payload:
		default:
		}
	}
}
