package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"crm-gateway/pkg/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Client represents a connected WebSocket client subscribed to one deal.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	tratoID uint
}

// Hub maintains the set of active clients and pushes delivery events to the
// clients watching the matching deal.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

type envelope struct {
	tratoID uint
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client registered for trato %d", client.tratoID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Println("WebSocket client unregistered")
		case env := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.tratoID != env.tratoID {
					continue
				}
				select {
				case client.send <- env.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NotifyDelivery pushes a delivery-status patch to the clients watching the
// event's deal.
func (h *Hub) NotifyDelivery(ev models.DeliveryEvent) {
	payload, err := json.Marshal(wsEvent{Type: "correo_estado", Data: ev})
	if err != nil {
		log.Printf("Error marshaling WS event: %v", err)
		return
	}
	h.broadcast <- envelope{tratoID: ev.TratoID, payload: payload}
}

// ServeWs upgrades the request; the deal id comes from the `trato` query
// parameter.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	tratoID, err := strconv.ParseUint(r.URL.Query().Get("trato"), 10, 64)
	if err != nil {
		http.Error(w, "trato query param required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), tratoID: uint(tratoID)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		// We don't expect messages FROM the client, just heartbeats or nothing.
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
