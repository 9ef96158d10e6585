package ws

import (
	"context"
	"log/slog"
	"sync"

	"inventory-dashboard/internal/model"
)

// Subscriber is anything that re-renders when the catalog changes, usually
// a dashboard session.
type Subscriber interface {
	Notify(event model.CatalogEvent)
}

type Hub struct {
	Clients    map[Subscriber]bool
	Register   chan Subscriber
	Unregister chan Subscriber
	Broadcast  chan model.CatalogEvent
	mutex      sync.Mutex
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Clients:    make(map[Subscriber]bool),
		Register:   make(chan Subscriber),
		Unregister: make(chan Subscriber),
		Broadcast:  make(chan model.CatalogEvent, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.Register:
			h.mutex.Lock()
			h.Clients[sub] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.logger.Debug("dashboard subscribed", "subscribers", n)

		case sub := <-h.Unregister:
			h.mutex.Lock()
			delete(h.Clients, sub)
			h.mutex.Unlock()

		case event := <-h.Broadcast:
			h.mutex.Lock()
			subs := make([]Subscriber, 0, len(h.Clients))
			for sub := range h.Clients {
				subs = append(subs, sub)
			}
			h.mutex.Unlock()
			for _, sub := range subs {
				sub.Notify(event)
			}
		}
	}
}

// Subscribe registers sub; it is a no-op once the hub has stopped.
func (h *Hub) Subscribe(sub Subscriber) {
	select {
	case h.Register <- sub:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(sub Subscriber) {
	select {
	case h.Unregister <- sub:
	case <-h.done:
	}
}

// Publish queues an event for every subscriber. A nil hub drops it.
func (h *Hub) Publish(event model.CatalogEvent) {
	if h == nil {
		return
	}
	select {
	case h.Broadcast <- event:
	case <-h.done:
	}
}

// Len reports the number of subscribers.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
