package stream

import "sync"

// Hub fans written LED frames out to SSE subscribers. Publishing never
// blocks: a subscriber that cannot keep up has frames dropped on its
// channel, so the strip's frame rate is never throttled by slow viewers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns its frame channel plus a cancel function. Cancel is idempotent and
// closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan []byte, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan []byte, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish copies the frame once and offers it to every subscriber.
func (h *Hub) Publish(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.subs) == 0 {
		return
	}

	cp := make([]byte, len(frame))
	copy(cp, frame)

	for ch := range h.subs {
		select {
		case ch <- cp:
		default: // subscriber lagging, drop the frame
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
