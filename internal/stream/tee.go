package stream

import "github.com/marcwingduck/solar-map/internal/pixel"

// Tee is a pixel driver that forwards every frame to the wrapped driver and
// publishes a copy to the hub for streaming clients.
type Tee struct {
	next pixel.Driver
	hub  *Hub
}

// NewTee wraps next so that each written frame is also published to hub.
func NewTee(next pixel.Driver, hub *Hub) *Tee {
	return &Tee{next: next, hub: hub}
}

func (t *Tee) Write(frame []byte) error {
	err := t.next.Write(frame)
	t.hub.Publish(frame)
	return err
}

func (t *Tee) Close() error {
	return t.next.Close()
}
