// Package playback pushes synthesized speech to connected dashboard listeners.
// The Hub is the audio output device of the service.
package playback

import (
	"context"
	"errors"
	"sync/atomic"

	"unmute-go/internal/audio"
	"unmute-go/internal/logger"
)

var (
	ErrNoListeners = errors.New("no playback listeners connected")
	ErrHubStopped  = errors.New("playback hub stopped")
)

// Client is one listener. Deliver must not block; returning false marks the
// client as too slow and it is dropped.
type Client interface {
	ID() string
	Deliver(frame []byte) bool
	Close()
}

type Hub struct {
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	stopped    atomic.Bool

	listeners atomic.Int64
	log       *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
		log:        log.Component("playback"),
	}
}

// Run owns the listener set until ctx ends. All listeners are closed on exit.
func (h *Hub) Run(ctx context.Context) error {
	clients := make(map[string]Client)
	defer func() {
		if h.stopped.CompareAndSwap(false, true) {
			close(h.done)
		}
		for id, c := range clients {
			c.Close()
			delete(clients, id)
		}
		h.listeners.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			clients[c.ID()] = c
			h.listeners.Store(int64(len(clients)))
			h.log.WithField("listener", c.ID()).Info("listener connected")
		case c := <-h.unregister:
			if _, ok := clients[c.ID()]; ok {
				delete(clients, c.ID())
				c.Close()
				h.listeners.Store(int64(len(clients)))
				h.log.WithField("listener", c.ID()).Info("listener left")
			}
		case frame := <-h.broadcast:
			for id, c := range clients {
				if !c.Deliver(frame) {
					h.log.WithField("listener", id).Warn("dropping slow listener")
					delete(clients, id)
					c.Close()
				}
			}
			h.listeners.Store(int64(len(clients)))
		}
	}
}

func (h *Hub) Register(c Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Listeners() int {
	return int(h.listeners.Load())
}

// Play sends the buffer as a WAV frame to every listener.
func (h *Hub) Play(ctx context.Context, buf audio.Buffer) error {
	if h.Listeners() == 0 {
		return ErrNoListeners
	}
	frame := buf.WAV()
	select {
	case h.broadcast <- frame:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ audio.Device = (*Hub)(nil)
