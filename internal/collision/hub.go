// internal/collision/hub.go
// WebSocket fan-out of collision events, one connection per user.

package collision

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Configure origin checking in production
		return true
	},
}

type Hub struct {
	clients    map[int64]*Client
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client

	watcher *Watcher

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID int64
	sub    *Subscription
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"-"`
	Data   interface{} `json:"data"`
}

func NewHub(watcher *Watcher) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		watcher:    watcher,
		shutdown:   make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			for _, client := range h.clients {
				client.teardown()
				close(client.send)
			}
			h.clients = make(map[int64]*Client)
			return

		case client := <-h.register:
			// A reconnect replaces the previous connection; the old
			// subscription must not leak.
			if old, ok := h.clients[client.userID]; ok {
				old.teardown()
				close(old.send)
			}
			h.clients[client.userID] = client
			log.Printf("collision: user %d connected", client.userID)

		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				client.teardown()
				close(client.send)
				log.Printf("collision: user %d disconnected", client.userID)
			}

		case message := <-h.broadcast:
			if client, ok := h.clients[message.UserID]; ok {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client.userID)
					client.teardown()
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() { close(h.shutdown) })
}

// NotifyCollision pushes a collision event at both participants.
func (h *Hub) NotifyCollision(event string, c *Collision) {
	for _, userID := range []int64{c.UserID1, c.UserID2} {
		h.post(Message{Type: event, UserID: userID, Data: c})
	}
}

// NotifySessionReady tells both participants their session started.
func (h *Hub) NotifySessionReady(c *Collision, s *StudySession) {
	for _, userID := range []int64{c.UserID1, c.UserID2} {
		h.post(Message{Type: "session_ready", UserID: userID, Data: s})
	}
}

func (h *Hub) post(m Message) {
	select {
	case h.broadcast <- m:
	case <-h.shutdown:
	}
}

// ServeWS upgrades the connection and streams the caller's merged
// collision list plus live events.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Message, 256),
		userID: userID,
	}

	// Feed the merged subscription stream through the same channel as
	// event pushes.
	client.sub = h.watcher.Subscribe(userID,
		func(merged []*Collision) {
			select {
			case client.send <- Message{Type: "collisions_snapshot", UserID: userID, Data: merged}:
			default:
			}
		},
		func(err error) {
			select {
			case client.send <- Message{Type: "subscription_error", UserID: userID, Data: err.Error()}:
			default:
			}
		},
	)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) teardown() {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
