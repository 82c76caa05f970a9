package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is handled by the CORS middleware on the rest of
	// the API; the token check in AuthMiddleware gates this endpoint
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConnectFeed upgrades the request and streams the caller's push feed
// (new notifications and chat messages) until the client disconnects.
// Delivery is at-least-once; clients dedupe by primary key and refetch
// on reconnect.
func ConnectFeed(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade for user %d: %v", p.UserID, err)
		return
	}

	hub.Register(p.UserID, conn)
	defer func() {
		hub.Unregister(p.UserID, conn)
		conn.Close()
	}()

	// drain client frames; the feed is server-to-client only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
