package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// Sender serializes writes to one control-plane connection.
type Sender interface {
	// Send queues a frame for writing. Returns an error if the sender is
	// closed or the queue is full; it never blocks on the socket.
	Send(ctx context.Context, message []byte) error
	// Start begins the write loop in its own goroutine.
	Start(ctx context.Context)
	// Close shuts the sender down. Safe to call more than once.
	Close() error
	IsClosed() bool
}

// SenderOptions configures a WebSocketSender. HeartbeatInterval is the
// ping cadence of the liveness probe; a peer that fails to answer within
// the connection's pong window is torn down by the read side.
type SenderOptions struct {
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	BufferSize        int
}

func DefaultSenderOptions() SenderOptions {
	return SenderOptions{
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 15 * time.Second,
		BufferSize:        64,
	}
}

type WebSocketSender struct {
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *ws.Conn
	options  SenderOptions
	sendChan chan []byte
	mutex    sync.RWMutex
	closed   bool
}

var _ Sender = (*WebSocketSender)(nil)

func NewWebSocketSender(ctx context.Context, conn *ws.Conn, options SenderOptions) *WebSocketSender {
	ctx, cancel := context.WithCancel(ctx)

	return &WebSocketSender{
		ctx:      ctx,
		cancel:   cancel,
		conn:     conn,
		options:  options,
		sendChan: make(chan []byte, options.BufferSize),
	}
}

func (s *WebSocketSender) Send(ctx context.Context, message []byte) error {
	s.mutex.RLock()
	if s.closed {
		s.mutex.RUnlock()
		return errors.New("sender is closed")
	}
	s.mutex.RUnlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return errors.New("sender context done")
	case s.sendChan <- message:
		return nil
	default:
		return errors.New("send queue full")
	}
}

func (s *WebSocketSender) Start(ctx context.Context) {
	go s.writePump(ctx)
}

func (s *WebSocketSender) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	s.closed = true
	s.mutex.Unlock()

	s.cancel()
	close(s.sendChan)

	return nil
}

func (s *WebSocketSender) IsClosed() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.closed
}

func (s *WebSocketSender) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.options.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ctx.Done():
			return
		case message, ok := <-s.sendChan:
			if err := s.writeMessage(message, ok); err != nil {
				return
			}
			if !ok {
				return
			}
		case <-ticker.C:
			if err := s.writePing(); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketSender) writeMessage(message []byte, ok bool) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))

	if !ok {
		// Queue closed, say goodbye to the peer.
		return s.conn.WriteMessage(ws.CloseMessage, []byte{})
	}

	return s.conn.WriteMessage(ws.TextMessage, message)
}

func (s *WebSocketSender) writePing() error {
	s.conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))
	return s.conn.WriteMessage(ws.PingMessage, nil)
}
