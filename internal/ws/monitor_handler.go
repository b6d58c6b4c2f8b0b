package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MonitorHandler upgrades an authenticated client onto the monitoring
// feed. Authentication runs in the surrounding middleware; every role
// may listen, including Viewer.
func MonitorHandler(hub *MonitorHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := &monitorClient{hub: hub, conn: conn, send: make(chan []byte, sendBufferSize)}
		hub.register <- client
		go client.writePump()
		go client.readPump()
	}
}
