package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/HMasataka/rally/payload/match"
	ws "github.com/gorilla/websocket"
	"github.com/rs/xid"
)

type ConnectionOptions struct {
	// PongWait bounds how long a silent peer stays alive. It must exceed
	// the sender's heartbeat interval.
	PongWait       time.Duration
	MaxMessageSize int64
}

func DefaultConnectionOptions() ConnectionOptions {
	return ConnectionOptions{
		PongWait:       20 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Connection is the server side of one control-plane connection. It reads
// frames, routes them, and writes replies through its Sender. Connection
// implements Peer; its identity is the connection itself.
type Connection struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	conn    *ws.Conn
	sender  Sender
	router  *Router
	options ConnectionOptions
	onClose func(*Connection)
	mutex   sync.RWMutex
	closed  bool
}

var _ Peer = (*Connection)(nil)

func NewConnection(ctx context.Context, conn *ws.Conn, sender Sender, router *Router, options ConnectionOptions) *Connection {
	ctx, cancel := context.WithCancel(ctx)

	return &Connection{
		id:      xid.New().String(),
		ctx:     ctx,
		cancel:  cancel,
		conn:    conn,
		sender:  sender,
		router:  router,
		options: options,
	}
}

func (c *Connection) ID() string {
	return c.id
}

// OnClose registers the teardown hook. It runs exactly once, whether the
// peer closed cleanly, errored, or missed the heartbeat window.
func (c *Connection) OnClose(f func(*Connection)) {
	c.onClose = f
}

func (c *Connection) Send(ctx context.Context, msg *match.Message) error {
	c.mutex.RLock()
	if c.closed {
		c.mutex.RUnlock()
		return ErrTargetUnavailable
	}
	c.mutex.RUnlock()

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return c.sender.Send(ctx, b)
}

func (c *Connection) Close() error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return nil
	}
	c.closed = true
	c.mutex.Unlock()

	c.cancel()

	if c.onClose != nil {
		c.onClose(c)
	}

	if err := c.sender.Close(); err != nil {
		slog.Warn("failed to close sender", "connection_id", c.id, "error", err.Error())
	}

	return c.conn.Close()
}

// Start runs the read loop until the connection dies, then tears it down.
func (c *Connection) Start(ctx context.Context) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		c.readPump(ctx)
	}()

	c.sender.Start(ctx)

	<-done
}

func (c *Connection) readPump(ctx context.Context) {
	defer func() {
		c.Close()
	}()

	c.conn.SetReadLimit(c.options.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.options.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.options.PongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ctx.Done():
			return
		default:
			messageType, message, err := c.conn.ReadMessage()
			if err != nil {
				if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
					slog.Debug("connection closed unexpectedly", "connection_id", c.id, "error", err.Error())
				}
				return
			}

			if messageType != ws.TextMessage && messageType != ws.BinaryMessage {
				continue
			}

			c.handleFrame(ctx, message)
		}
	}
}

func (c *Connection) handleFrame(ctx context.Context, frame []byte) {
	var msg match.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		slog.Warn("failed to unmarshal message", "connection_id", c.id, "error", err.Error())
		c.reportError(ctx, match.ErrorCodeMalformedRequest, "unparseable message")
		return
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	response, err := c.router.Handle(ctx, c, &msg)
	if err != nil {
		slog.Warn("failed to handle message",
			slog.String("connection_id", c.id),
			slog.String("type", string(msg.Type)),
			slog.String("error", err.Error()),
		)
		c.reportError(ctx, WireErrorCode(err), err.Error())
		return
	}

	if response == nil {
		return
	}

	if err := c.Send(ctx, response); err != nil {
		slog.Warn("failed to send response", "connection_id", c.id, "error", err.Error())
	}
}

// reportError delivers an error frame to this connection only. Errors are
// never broadcast.
func (c *Connection) reportError(ctx context.Context, code match.ErrorCode, message string) {
	msg, err := match.NewErrorMessage(code, message)
	if err != nil {
		return
	}

	if err := c.Send(ctx, msg); err != nil {
		slog.Debug("failed to report error", "connection_id", c.id, "error", err.Error())
	}
}
