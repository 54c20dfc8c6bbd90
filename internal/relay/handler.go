package relay

import (
	"context"
	"errors"

	"github.com/HMasataka/rally/payload/match"
)

// ErrUnknownMessageType no handler is registered for the message type
var ErrUnknownMessageType = errors.New("unknown message type")

// Handler processes one inbound message from a peer. A non-nil return
// message is sent back to the same peer; pushes to other peers are the
// handler's own business.
type Handler interface {
	Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error)
	CanHandle(messageType match.MessageType) bool
}

type HandlerRegistry interface {
	Register(messageType match.MessageType, handler Handler)

	Get(messageType match.MessageType) (Handler, bool)

	Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error)
}

type DefaultHandlerRegistry struct {
	handlers map[match.MessageType]Handler
}

var _ HandlerRegistry = (*DefaultHandlerRegistry)(nil)

func NewHandlerRegistry() *DefaultHandlerRegistry {
	return &DefaultHandlerRegistry{
		handlers: make(map[match.MessageType]Handler),
	}
}

func (r *DefaultHandlerRegistry) Register(messageType match.MessageType, handler Handler) {
	r.handlers[messageType] = handler
}

func (r *DefaultHandlerRegistry) Get(messageType match.MessageType) (Handler, bool) {
	handler, ok := r.handlers[messageType]
	return handler, ok
}

func (r *DefaultHandlerRegistry) Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error) {
	if msg == nil {
		return nil, errors.New("message is nil")
	}

	handler, ok := r.Get(msg.Type)
	if !ok || handler == nil {
		return nil, ErrUnknownMessageType
	}

	return handler.Handle(ctx, from, msg)
}
