package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

type envelope struct {
	userIDs []uuid.UUID
	payload []byte
}

// Hub fans events out to connected clients. Delivery is per user: a
// client only receives events addressed to the user it authenticated
// as, so one browser session never sees another student's activity.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[uuid.UUID]map[*Client]bool
	publish    chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[uuid.UUID]map[*Client]bool),
		publish:    make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			if h.byUser[client.userID] == nil {
				h.byUser[client.userID] = make(map[*Client]bool)
			}
			h.byUser[client.userID][client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if peers := h.byUser[client.userID]; peers != nil {
					delete(peers, client)
					if len(peers) == 0 {
						delete(h.byUser, client.userID)
					}
				}
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user=%s total_clients=%d", client.userID, total)
			}

		case env := <-h.publish:
			h.mutex.RLock()
			targets := make([]*Client, 0)
			for _, id := range env.userIDs {
				for c := range h.byUser[id] {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- env.payload:
				default:
					h.unregister <- client
				}
			}

			if h.logger != nil {
				h.logger.Printf("WS publish | users=%d clients=%d", len(env.userIDs), len(targets))
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish queues a message for every connected session of the given
// users. Messages are dropped when the queue is full.
func (h *Hub) Publish(userIDs []uuid.UUID, message []byte) {
	if h == nil || len(userIDs) == 0 {
		return
	}
	select {
	case h.publish <- envelope{userIDs: userIDs, payload: message}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS publish dropped | reason=buffer_full")
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
