package app

import "sync"

// Session event kinds.
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

// SessionEvent notifies subscribers of a session change.
type SessionEvent struct {
	Kind   string `json:"kind"`
	UserID int64  `json:"userId"`
}

// SessionBroker fans session events out to subscribers. Slow subscribers
// miss events rather than block the publisher.
type SessionBroker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan SessionEvent
}

// NewSessionBroker creates an empty broker.
func NewSessionBroker() *SessionBroker {
	return &SessionBroker{subs: make(map[int]chan SessionEvent)}
}

// Subscribe registers a listener. The returned function unsubscribes and
// closes the channel.
func (b *SessionBroker) Subscribe() (<-chan SessionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan SessionEvent, 8)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber.
func (b *SessionBroker) Publish(ev SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
