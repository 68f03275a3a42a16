package relay

import (
	"log/slog"
	"sync"

	"github.com/mroc/live-display/pkg/metrics"
)

type frame struct {
	sender *Client
	event  string
	data   []byte
}

// Hub owns the set of open connections. Only Run touches the set and closes
// client send channels.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	mu    sync.RWMutex
	count int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount()
			h.logger.Info("Relay client connected", slog.String("client", client.id.String()))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info("Relay client disconnected", slog.String("client", client.id.String()))
			}

		case f := <-h.broadcast:
			h.metrics.RelayEvents.WithLabelValues(f.event).Inc()
			for client := range h.clients {
				if client == f.sender {
					continue
				}
				select {
				case client.send <- f.data:
				default:
					h.remove(client)
					h.logger.Warn("Dropped slow relay client", slog.String("client", client.id.String()))
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
	h.metrics.RelayConnections.Set(float64(len(h.clients)))
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Stop closes every connection and waits for Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// The three helpers below give up once the hub has stopped so that client
// goroutines never block on a dead hub.

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) publish(f frame) {
	select {
	case h.broadcast <- f:
	case <-h.done:
	}
}
