package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// Event is pushed to monitoring dashboards whenever a record is
// committed. This is a one-way notification feed, not data sync.
type Event struct {
	Collection string    `json:"collection"`
	Record     any       `json:"record"`
	At         time.Time `json:"at"`
}

// MonitorHub fans committed mutations out to connected viewer clients.
type MonitorHub struct {
	register   chan *monitorClient
	unregister chan *monitorClient
	broadcast  chan []byte
	clients    map[*monitorClient]struct{}
}

func NewMonitorHub() *MonitorHub {
	return &MonitorHub{
		register:   make(chan *monitorClient),
		unregister: make(chan *monitorClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*monitorClient]struct{}),
	}
}

func (h *MonitorHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast is wired as the coordinator's OnChange hook.
func (h *MonitorHub) Broadcast(col syncer.Collection, rec any) {
	if h == nil {
		return
	}
	data, err := json.Marshal(Event{Collection: string(col), Record: rec, At: time.Now()})
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	h.broadcast <- data
}

type monitorClient struct {
	hub  *MonitorHub
	conn *websocket.Conn
	send chan []byte
}

func (c *monitorClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *monitorClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
