// Package relayclient is the single relay connection of a setup or display
// process. Build one with New at startup and hand it to whoever needs it.
package relayclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/xerrors"

	"github.com/mroc/live-display/pkg/control"
)

const writeWait = 10 * time.Second

// ErrNotConnected is returned by Send before Connect or after Disconnect.
var ErrNotConnected = xerrors.New("relayclient: not connected")

type Client struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}
	subs   map[int]func(control.Message)
	nextID int

	writeMu sync.Mutex
}

func New(url string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: logger,
		subs:   map[int]func(control.Message){},
	}
}

// Connect dials the relay and starts delivering messages to subscribers.
// Calling it while connected is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return xerrors.Errorf("relayclient: dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)

	c.logger.Info("Connected to relay", slog.String("url", c.url))
	return nil
}

// Disconnect closes the connection and waits for the read loop to stop.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	err := conn.Close()
	<-done
	return err
}

// Done is closed when the current connection ends, for whatever reason.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// Send publishes a control message to every other relay client.
func (c *Client) Send(m control.Message) error {
	data, err := control.Encode(m)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return xerrors.Errorf("relayclient: send %s: %w", m.Event(), err)
	}
	return nil
}

// Subscribe registers fn for every decoded message. The returned function
// removes it again.
func (c *Client) Subscribe(fn func(control.Message)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		// A connection the relay dropped is forgotten so Connect dials again.
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			conn.Close()
		}
		c.mu.Unlock()
		close(done)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("Relay connection lost", slog.Any("error", err))
			}
			return
		}

		m, err := control.Decode(data)
		if err != nil {
			c.logger.Debug("Ignoring relay frame", slog.Any("error", err))
			continue
		}

		c.mu.Lock()
		subs := make([]func(control.Message), 0, len(c.subs))
		for _, fn := range c.subs {
			subs = append(subs, fn)
		}
		c.mu.Unlock()

		for _, fn := range subs {
			fn(m)
		}
	}
}
