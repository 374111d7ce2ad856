package websocket

import (
	"log"
	"sync"
)

type HubInterface interface {
	BroadcastAll(msg OutgoingMessage)
	BroadcastToPlayers(ids []string, msg OutgoingMessage)
	SendToPlayer(id string, msg OutgoingMessage)
	ClientByPlayer(id string) (*Client, bool)
	Close()
}

// Hub fans ladder events out to connected clients: queue snapshots go
// to everyone, match events to the players concerned.
type Hub struct {
	clients    map[string]*Client // player id -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	mu         sync.RWMutex
}

type broadcastReq struct {
	Players []string // nil means every connected client
	Message OutgoingMessage
}

type sendReq struct {
	Player  string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	log.Println("Hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.PlayerID] = c
			log.Printf("Hub.register -> %s (connected: %d)", c.PlayerID, len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.PlayerID]; ok {
				delete(h.clients, c.PlayerID)
				log.Printf("Hub.unregister -> %s (connected: %d)", c.PlayerID, len(h.clients))
				close(c.Send)
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			if req.Players == nil {
				for _, client := range h.clients {
					select {
					case client.Send <- req.Message:
					default:
					}
				}
				continue
			}
			for _, id := range req.Players {
				if client, ok := h.clients[id]; ok {
					select {
					case client.Send <- req.Message:
					default:
					}
				}
			}

		case req := <-h.sendOne:
			if client, ok := h.clients[req.Player]; ok {
				select {
				case client.Send <- req.Message:
				default:
					// slow client, drop rather than stall the hub
				}
			}

		case req := <-h.incoming:
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			for _, c := range h.clients {
				close(c.Send)
			}
		}
	}
}

// BroadcastAll sends to every connected client.
func (h *Hub) BroadcastAll(msg OutgoingMessage) {
	h.broadcast <- broadcastReq{Players: nil, Message: msg}
}

// BroadcastToPlayers sends to the listed players that are connected.
func (h *Hub) BroadcastToPlayers(ids []string, msg OutgoingMessage) {
	h.broadcast <- broadcastReq{Players: ids, Message: msg}
}

// SendToPlayer sends to a single player (safe concurrent).
func (h *Hub) SendToPlayer(id string, msg OutgoingMessage) {
	h.sendOne <- sendReq{Player: id, Message: msg}
}

// ClientByPlayer looks up a connected client by player id.
func (h *Hub) ClientByPlayer(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *Hub) Close() {
	close(h.quit)
}
