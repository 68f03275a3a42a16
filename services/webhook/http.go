package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router is the interface for a router.
type Router interface {
	Any(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
}

// Webhook is the interface for the ingestion service.
type Webhook interface {
	Handle(ctx context.Context, payload Payload) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Webhook

	// The router instance to configure the HTTP routes.
	Router Router
}

// ProtocolError is a request the endpoint does not accept at all.
type ProtocolError struct {
	Method string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("webhook: method %s not allowed", e.Method)
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	// Registered for every method so the handler can answer 405 itself.
	r.Any("/tba", h.tbaHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (s *httpHandler) tbaHandler(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Error(&ProtocolError{Method: c.Request.Method})
		c.Header("Allow", http.MethodPost)
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		c.Abort()
		return
	}

	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		c.Abort()
		return
	}

	err := s.Service.Handle(c.Request.Context(), payload)
	if err != nil {
		var badNotification *BadNotificationError
		if errors.As(err, &badNotification) {
			c.String(http.StatusBadRequest, badNotification.Error())
			c.Abort()
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		c.Abort()
		return
	}
	c.String(http.StatusOK, "Webhook processed successfully")
}
