package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a dashboard may fall behind before it is dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	who  string
	send chan []byte
}

// writeLoop owns all writes to the socket and closes it once send is closed or a
// write fails.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Dropping kds client %s: %v", c.who, err)
			return
		}
	}
}

// Hub holds the admin dashboards listening for order events. Broadcasting never
// waits on a socket: each dashboard has its own queue and writer goroutine.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, who string) {
	c := h.add(conn, who)
	go c.writeLoop()
}

func (h *Hub) add(conn *websocket.Conn, who string) *client {
	c := &client{conn: conn, who: who, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = c
	return c
}

// Unregister stops the client's writer, which then closes the socket.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(conn)
}

func (h *Hub) removeLocked(conn *websocket.Conn) {
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify pushes an order event to every connected dashboard.
func (h *Hub) Notify(_ context.Context, ev models.OrderEvent) {
	h.Broadcast(Message{Event: string(ev.Type), Data: ev})
}

// Broadcast queues msg for all clients. A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling kds message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Printf("Dropping slow kds client %s", c.who)
			h.removeLocked(conn)
		}
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients", msg.Event, len(h.clients))
}
