package relay

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The hub new connections join.
	Hub *Hub

	// The router instance to configure the HTTP routes.
	Router Router
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/ws", h.connectHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (s *httpHandler) connectHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.Hub.logger.Warn("Relay upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(s.Hub, conn)
	if !s.Hub.join(client) {
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
